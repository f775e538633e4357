// Package discovery builds interface and optical-sensor inventories from the
// standard IF-MIB and Entity-MIB tables, without any vendor-specific OIDs.
package discovery

import (
	"context"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/drivers/snmp"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// IF-MIB (RFC 2863) column OIDs.
const (
	OIDIfIndex       = "1.3.6.1.2.1.2.2.1.1"
	OIDIfDescr       = "1.3.6.1.2.1.2.2.1.2"
	OIDIfSpeed       = "1.3.6.1.2.1.2.2.1.5"
	OIDIfAdminStatus = "1.3.6.1.2.1.2.2.1.7"
	OIDIfOperStatus  = "1.3.6.1.2.1.2.2.1.8"
	OIDIfName        = "1.3.6.1.2.1.31.1.1.1.1"
	OIDIfHighSpeed   = "1.3.6.1.2.1.31.1.1.1.15"
	OIDIfAlias       = "1.3.6.1.2.1.31.1.1.1.18"

	// Scalars used for capacity hints and connectivity tests.
	OIDIfNumber  = "1.3.6.1.2.1.2.1.0"
	OIDSysDescr  = "1.3.6.1.2.1.1.1.0"
	OIDSysUptime = "1.3.6.1.2.1.1.3.0"
)

// Discoverer composes collector walks into inventories.
type Discoverer struct {
	collector *snmp.Collector
	log       zerolog.Logger
}

// NewDiscoverer builds a Discoverer on top of a column collector.
func NewDiscoverer(collector *snmp.Collector, log zerolog.Logger) *Discoverer {
	return &Discoverer{collector: collector, log: log}
}

// Interfaces collects the full interface table of a device, sorted ascending
// by ifIndex. Columns are walked sequentially, not concurrently: low-power
// CPE falls over when several walks hit it at once. Extended columns
// (ifName, ifHighSpeed, ifAlias) are best-effort and ignored on failure.
func (d *Discoverer) Interfaces(ctx context.Context, profile *types.DeviceProfile) ([]types.InterfaceRecord, error) {
	indexes, err := d.collector.WalkColumn(ctx, profile, OIDIfIndex)
	if err != nil {
		return nil, err
	}

	descrs, err := d.collector.WalkColumn(ctx, profile, OIDIfDescr)
	if err != nil {
		return nil, err
	}

	// Some agents expose ifDescr but return nothing for ifIndex; the row
	// instance of ifDescr is the index.
	if len(indexes) == 0 {
		indexes = make(map[int]string, len(descrs))
		for index := range descrs {
			indexes[index] = strconv.Itoa(index)
		}
	}

	speeds, err := d.collector.WalkColumn(ctx, profile, OIDIfSpeed)
	if err != nil {
		return nil, err
	}
	adminStates, err := d.collector.WalkColumn(ctx, profile, OIDIfAdminStatus)
	if err != nil {
		return nil, err
	}
	operStates, err := d.collector.WalkColumn(ctx, profile, OIDIfOperStatus)
	if err != nil {
		return nil, err
	}

	names := d.bestEffortColumn(ctx, profile, OIDIfName)
	highSpeeds := d.bestEffortColumn(ctx, profile, OIDIfHighSpeed)
	aliases := d.bestEffortColumn(ctx, profile, OIDIfAlias)

	return assembleRecords(indexes, descrs, speeds, adminStates, operStates, names, highSpeeds, aliases), nil
}

// assembleRecords joins the walked columns into records sorted by ifIndex.
func assembleRecords(indexes, descrs, speeds, adminStates, operStates, names, highSpeeds, aliases map[int]string) []types.InterfaceRecord {
	records := make([]types.InterfaceRecord, 0, len(indexes))
	for index := range indexes {
		record := types.InterfaceRecord{
			IfIndex:     index,
			Name:        names[index],
			Descr:       descrs[index],
			Alias:       aliases[index],
			AdminStatus: types.AdminStatusFromCode(atoiOr(adminStates[index], 0)),
			OperStatus:  types.OperStatusFromCode(atoiOr(operStates[index], 0)),
		}

		if speed, err := strconv.ParseUint(speeds[index], 10, 64); err == nil {
			record.SpeedBps = speed
		}
		// ifSpeed caps at 4.29 Gbps; ifHighSpeed carries Mbps and wins
		// whenever the agent fills it in.
		if high, err := strconv.ParseUint(highSpeeds[index], 10, 64); err == nil && high > 0 {
			record.SpeedBps = high * 1_000_000
		}

		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].IfIndex < records[j].IfIndex })

	return records
}

// IfNumber reads the interface-count scalar, used as a capacity hint before
// a full table walk.
func (d *Discoverer) IfNumber(ctx context.Context, profile *types.DeviceProfile) (int, error) {
	value, err := d.collector.GetScalar(ctx, profile, OIDIfNumber)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// SysDescr reads the system description scalar, doubling as a connectivity
// test for freshly configured devices.
func (d *Discoverer) SysDescr(ctx context.Context, profile *types.DeviceProfile) (string, error) {
	return d.collector.GetScalar(ctx, profile, OIDSysDescr)
}

func (d *Discoverer) bestEffortColumn(ctx context.Context, profile *types.DeviceProfile, oid string) map[int]string {
	column, err := d.collector.WalkColumn(ctx, profile, oid)
	if err != nil {
		d.log.Debug().Str("oid", oid).Err(err).Msg("extended column unavailable")
		return map[int]string{}
	}
	return column
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
