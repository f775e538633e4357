// Package parks covers Parks Fiberlink OLTs. Parks gear exposes a small
// GPON MIB and a plain-English CLI; alarms come out of "show alarm".
package parks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/diagnosis"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/optical"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/common"
)

// ONU optical table, indexed by <slot>.<port>.<onuId+1>. Parks counts
// ONUs from 1 on the wire while the CLI counts from 0. Power is centi-dBm.
const (
	OIDOnuRxPower = "1.3.6.1.4.1.21511.13.2.1.1.1.7"
	OIDOnuTxPower = "1.3.6.1.4.1.21511.13.2.1.1.1.8"

	CommandAlarms  = "show alarm"
	CommandOnuBySn = "show gpon onu serial-number {serial}"
)

// IndexFormula renders <slot>.<port>.<onuId+1>.
func IndexFormula(c types.OnuCoordinates) string {
	return fmt.Sprintf("%d.%d.%d", c.Slot, c.Port, c.OnuID+1)
}

// SignalPlan is the Parks optical read plan.
func SignalPlan() optical.SignalPlan {
	centi := optical.Conversion{Divisor: 100}
	return optical.SignalPlan{
		Formula: IndexFormula,
		RxPower: optical.OIDSpec{Base: OIDOnuRxPower, Conv: centi},
		TxPower: optical.OIDSpec{Base: OIDOnuTxPower, Conv: centi},
	}
}

var alarmRemap = map[string]string{
	"LOS":            "GPON_LOS",
	"SIGNAL-FAIL":    "GPON_SF",
	"SIGNAL-DEGRADE": "GPON_SD",
	"DYING-GASP":     "GPON_DYING_GASP",
	"ONU-DISABLED":   "GPON_DF",
}

// alarm rows:
//
//	gpon 1/3 onu 21  los  ACTIVE  Loss of signal
var alarmRowRE = regexp.MustCompile(
	`(?i)^gpon\s+(\d+)/(\d+)\s+onu\s+(\d+)\s+(\S+)\s+(ACTIVE|CLEARED)\s*(.*)$`)

// ParseAlarms parses "show alarm" rows.
func ParseAlarms(raw string) []types.AlarmRecord {
	var alarms []types.AlarmRecord
	for _, row := range common.TableRows(raw) {
		m := alarmRowRE.FindStringSubmatch(row)
		if m == nil {
			continue
		}
		status := types.AlarmCleared
		if strings.EqualFold(m[5], "ACTIVE") {
			status = types.AlarmActive
		}
		alarms = append(alarms, types.AlarmRecord{
			Source:      fmt.Sprintf("%s/%s/%s", m[1], m[2], m[3]),
			Name:        strings.ToUpper(m[4]),
			Status:      status,
			Description: strings.TrimSpace(m[6]),
			Raw:         row,
		})
	}
	return alarms
}

var searchRowRE = regexp.MustCompile(`(?i)gpon\s+(\d+)/(\d+)\s+onu\s+(\d+)`)

// ParseSearch recovers ONU addressing from the serial-number lookup.
func ParseSearch(raw string) []diagnosis.SearchHit {
	var hits []diagnosis.SearchHit
	for _, m := range searchRowRE.FindAllStringSubmatch(common.StripANSI(raw), -1) {
		slot, _ := strconv.Atoi(m[1])
		port, _ := strconv.Atoi(m[2])
		onuID, _ := strconv.Atoi(m[3])
		hits = append(hits, diagnosis.SearchHit{
			Coords: types.OnuCoordinates{Slot: slot, Port: port, OnuID: onuID},
		})
	}
	return hits
}

// Config returns the Parks diagnosis config.
func Config() diagnosis.VendorConfig {
	return diagnosis.VendorConfig{
		ListAlarmsCommand: CommandAlarms,
		Parse:             ParseAlarms,
		Remap:             alarmRemap,
		SearchCommand:     CommandOnuBySn,
		ParseSearch:       ParseSearch,
		DefaultKey: func(link diagnosis.LinkData) string {
			return fmt.Sprintf("%d/%d/%d", link.Coords.Slot, link.Coords.Port, link.Coords.OnuID)
		},
	}
}
