// Package fiberhome carries the command set, parsers and OID arithmetic for
// FiberHome AN5516 OLTs.
package fiberhome

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/diagnosis"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/optical"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/common"
)

// ONU optical table, single-part instancing (see IndexFormula). Power is
// centi-dBm.
const (
	OIDOnuRxPower  = "1.3.6.1.4.1.5875.800.3.9.3.3.1.6"
	OIDOnuTxPower  = "1.3.6.1.4.1.5875.800.3.9.3.3.1.5"
	OIDOnuDistance = "1.3.6.1.4.1.5875.800.3.9.3.3.1.11"

	CommandAlarms  = "show alarm active"
	CommandOnuBySn = "show onu-info by sn {serial}"
)

// IndexFormula packs all coordinates into one integer:
// shelf*8388608 + slot*65536 + port*256 + onuId.
func IndexFormula(c types.OnuCoordinates) string {
	return strconv.Itoa(c.Shelf*8388608 + c.Slot*65536 + c.Port*256 + c.OnuID)
}

// SignalPlan is the FiberHome optical read plan.
func SignalPlan() optical.SignalPlan {
	centi := optical.Conversion{Divisor: 100}
	return optical.SignalPlan{
		Formula:  IndexFormula,
		RxPower:  optical.OIDSpec{Base: OIDOnuRxPower, Conv: centi},
		TxPower:  optical.OIDSpec{Base: OIDOnuTxPower, Conv: centi},
		Distance: optical.OIDSpec{Base: OIDOnuDistance, Conv: optical.Conversion{Divisor: 1}},
	}
}

var alarmRemap = map[string]string{
	"LOS":        "GPON_LOS",
	"LINK-LOSS":  "GPON_LOSI",
	"DYING-GASP": "GPON_DYING_GASP",
	"POWER-OFF":  "GPON_DYING_GASP",
	"SF":         "GPON_SF",
	"SD":         "GPON_SD",
	"AUTH-FAIL":  "GPON_AUTH_FAIL",
}

// alarm rows:
//
//	1  2024-06-01 10:22:01  MAJOR  1/1/3/116  DYING-GASP  Onu power off
var alarmRowRE = regexp.MustCompile(
	`^\d+\s+(\d{4}-\d{2}-\d{2}) (\d{2}:\d{2}:\d{2})\s+(\S+)\s+(\S+)\s+(\S+)\s*(.*)$`)

// ParseAlarms parses "show alarm active" rows. The active list implies
// Active status.
func ParseAlarms(raw string) []types.AlarmRecord {
	var alarms []types.AlarmRecord
	for _, row := range common.TableRows(raw) {
		m := alarmRowRE.FindStringSubmatch(row)
		if m == nil {
			continue
		}
		ts, _ := time.Parse("2006-01-02 15:04:05", m[1]+" "+m[2])
		alarms = append(alarms, types.AlarmRecord{
			Timestamp:   ts,
			Severity:    m[3],
			Status:      types.AlarmActive,
			Source:      m[4],
			Name:        strings.ToUpper(m[5]),
			Description: strings.TrimSpace(m[6]),
			Raw:         row,
		})
	}
	return alarms
}

// search reply: "ONU: 1/1/3/116  FHTT91234567  online"
var searchRowRE = regexp.MustCompile(`ONU:\s*(\d+)/(\d+)/(\d+)/(\d+)\s+(\S+)`)

// ParseSearch recovers ONU addressing from the by-sn search output.
func ParseSearch(raw string) []diagnosis.SearchHit {
	var hits []diagnosis.SearchHit
	for _, m := range searchRowRE.FindAllStringSubmatch(common.StripANSI(raw), -1) {
		shelf, _ := strconv.Atoi(m[1])
		slot, _ := strconv.Atoi(m[2])
		port, _ := strconv.Atoi(m[3])
		onuID, _ := strconv.Atoi(m[4])
		hits = append(hits, diagnosis.SearchHit{
			Coords: types.OnuCoordinates{Shelf: shelf, Slot: slot, Port: port, OnuID: onuID},
			Serial: m[5],
		})
	}
	return hits
}

// Config returns the FiberHome diagnosis config. The AN5516 shell requires
// "en" before any show command.
func Config() diagnosis.VendorConfig {
	return diagnosis.VendorConfig{
		ListAlarmsCommand: CommandAlarms,
		Parse:             ParseAlarms,
		Remap:             alarmRemap,
		SearchCommand:     CommandOnuBySn,
		ParseSearch:       ParseSearch,
		NeedsEnable:       true,
		EnableCommand:     "en",
		DefaultKey: func(link diagnosis.LinkData) string {
			return fmt.Sprintf("%d/%d/%d/%d", link.Coords.Shelf, link.Coords.Slot, link.Coords.Port, link.Coords.OnuID)
		},
	}
}
