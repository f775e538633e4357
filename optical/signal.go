package optical

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/drivers/snmp"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/common"
)

// Conversion describes how a raw integer varbind becomes a real-world value:
// value = (raw - Offset) / Divisor. Vendors report optical power as
// deci-dBm, centi-dBm or plain dBm, so the divisor is per-OID.
type Conversion struct {
	Divisor float64
	Offset  float64
}

// Apply converts a raw value. The boolean is false when the raw value is the
// vendor offline marker or converts to exactly zero: on this hardware class
// a 0.00 reading means a powered-off or absent transceiver, never a real
// 0 dBm signal, and surfacing it as data would poison health heuristics.
func (c Conversion) Apply(raw int64) (float64, bool) {
	if raw == common.SNMPInvalidValue {
		return 0, false
	}
	divisor := c.Divisor
	if divisor == 0 {
		divisor = 1
	}
	value := (float64(raw) - c.Offset) / divisor
	if value == 0 {
		return 0, false
	}
	return value, true
}

// OIDSpec is one optical metric of a vendor plan. An empty Base means the
// vendor does not expose that metric.
type OIDSpec struct {
	Base string
	Conv Conversion
}

// SignalPlan is everything needed to read ONU optics for one vendor.
type SignalPlan struct {
	Formula    IndexFormula
	RxPower    OIDSpec
	TxPower    OIDSpec
	OltRxPower OIDSpec
	Distance   OIDSpec
}

// Reader fetches optical readings through the column collector's scalar GET.
type Reader struct {
	collector *snmp.Collector
	plans     map[types.Vendor]SignalPlan
	log       zerolog.Logger
}

// NewReader builds a reader over the per-vendor plan table.
func NewReader(collector *snmp.Collector, plans map[types.Vendor]SignalPlan, log zerolog.Logger) *Reader {
	table := make(map[types.Vendor]SignalPlan, len(plans))
	for vendor, plan := range plans {
		table[types.NormalizeVendor(vendor)] = plan
	}
	return &Reader{collector: collector, plans: table, log: log}
}

// Read returns the optical reading for one ONU, or an error when any
// configured metric cannot be fetched. The result is all-or-nothing at the
// transport level: half the signal metrics are worse than none, because
// callers feed the full set into link-health heuristics. Individual fields
// still come back nil when the device reports an offline marker.
func (r *Reader) Read(ctx context.Context, profile *types.DeviceProfile, coords types.OnuCoordinates) (*types.OpticalSignalReading, error) {
	plan, ok := r.plans[types.NormalizeVendor(profile.Vendor)]
	if !ok {
		plan = SignalPlan{Formula: GenericFormula}
	}

	formula := plan.Formula
	if formula == nil {
		formula = GenericFormula
	}
	instance := formula(coords)

	reading := &types.OpticalSignalReading{}

	fetch := func(spec OIDSpec, target **float64) error {
		if spec.Base == "" {
			return nil
		}
		oid := spec.Base + "." + instance
		value, err := r.collector.GetScalar(ctx, profile, oid)
		if err != nil {
			return err
		}
		raw, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("non-numeric optical value %q at %s", value, oid)
		}
		if converted, ok := spec.Conv.Apply(raw); ok {
			*target = &converted
		}
		return nil
	}

	if err := fetch(plan.RxPower, &reading.RxPower); err != nil {
		return nil, err
	}
	if err := fetch(plan.TxPower, &reading.TxPower); err != nil {
		return nil, err
	}
	if err := fetch(plan.OltRxPower, &reading.OltRxPower); err != nil {
		return nil, err
	}
	if err := fetch(plan.Distance, &reading.DistanceMeters); err != nil {
		return nil, err
	}

	return reading, nil
}
