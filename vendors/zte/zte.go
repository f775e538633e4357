// Package zte carries the command set, parsers and OID arithmetic for ZTE
// ZXA10 OLTs (C300/C320/C6xx). ZTE is the most common vendor in the managed
// fleet, so its config doubles as the fallback for unrecognized vendors.
package zte

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

const (
	// ONU optical diagnostics, indexed by <gponIfIndex>.<onuId>.
	OIDOnuRxPower = "1.3.6.1.4.1.3902.1082.500.20.2.2.2.1.10"
	OIDOnuTxPower = "1.3.6.1.4.1.3902.1082.500.20.2.2.2.1.4"
	// OLT-side receive power and measured distance per ONU.
	OIDOltRxPower  = "1.3.6.1.4.1.3902.1082.500.20.2.2.3.1.8"
	OIDOnuDistance = "1.3.6.1.4.1.3902.1082.500.10.2.3.8.1.10"

	CommandAlarms  = "show alarm active"
	CommandOnuBySn = "show gpon onu by sn {serial}"
)

// IndexFormula renders <gponIfIndex>.<onuId> with
// gponIfIndex = slot*32768 + port.
func IndexFormula(c types.OnuCoordinates) string {
	return fmt.Sprintf("%d.%d", c.Slot*32768+c.Port, c.OnuID)
}

// SignalPlan is the ZTE optical read plan. Power arrives in 0.002 dBm steps
// offset by -30 dBm, i.e. dBm = raw*0.002 - 30.
func SignalPlan() optical.SignalPlan {
	conv := optical.Conversion{Divisor: 500, Offset: 15000}
	return optical.SignalPlan{
		Formula:    IndexFormula,
		RxPower:    optical.OIDSpec{Base: OIDOnuRxPower, Conv: conv},
		TxPower:    optical.OIDSpec{Base: OIDOnuTxPower, Conv: conv},
		OltRxPower: optical.OIDSpec{Base: OIDOltRxPower, Conv: conv},
		Distance:   optical.OIDSpec{Base: OIDOnuDistance, Conv: optical.Conversion{Divisor: 1}},
	}
}

// alarmRemap translates ZTE alarm mnemonics to canonical codes.
var alarmRemap = map[string]string{
	"LOS":        "GPON_LOS",
	"LOSI":       "GPON_LOSI",
	"LOFI":       "GPON_LOFI",
	"DGI":        "GPON_DYING_GASP",
	"DYING-GASP": "GPON_DYING_GASP",
	"SFI":        "GPON_SF",
	"SDI":        "GPON_SD",
	"DOWI":       "GPON_DOW",
	"SUFI":       "GPON_SUF",
	"LOAI":       "GPON_LOAM",
	"DFI":        "GPON_DF",
}

// alarm rows:
//   2024-06-01 10:22:01  CRITICAL  Active  gpon-olt_1/1/3:116  LOS  Loss of signal
var alarmRowRE = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}) (\d{2}:\d{2}:\d{2})\s+(\S+)\s+(Active|Cleared)\s+(\S+)\s+(\S+)\s*(.*)$`)

// ParseAlarms parses "show alarm active" output.
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
			Status:      types.AlarmStatus(m[4]),
			Source:      m[5],
			Name:        strings.ToUpper(m[6]),
			Description: strings.TrimSpace(m[7]),
			Raw:         row,
		})
	}
	return alarms
}

// onu-by-sn reply:
//   SearchResult: gpon-onu_1/2/3:45
var onuLocationRE = regexp.MustCompile(`gpon-onu_(\d+)/(\d+)/(\d+):(\d+)`)

// ParseSearch recovers ONU addressing from "show gpon onu by sn" output.
func ParseSearch(raw string) []diagnosis.SearchHit {
	var hits []diagnosis.SearchHit
	for _, m := range onuLocationRE.FindAllStringSubmatch(common.StripANSI(raw), -1) {
		shelf, _ := strconv.Atoi(m[1])
		slot, _ := strconv.Atoi(m[2])
		port, _ := strconv.Atoi(m[3])
		onuID, _ := strconv.Atoi(m[4])
		// ZTE spells the location rack/slot/port; the rack maps to shelf.
		hits = append(hits, diagnosis.SearchHit{
			Coords: types.OnuCoordinates{Shelf: shelf, Slot: slot, Port: port, OnuID: onuID},
		})
	}
	return hits
}

// Config returns the ZTE diagnosis config.
func Config() diagnosis.VendorConfig {
	return diagnosis.VendorConfig{
		ListAlarmsCommand: CommandAlarms,
		Parse:             ParseAlarms,
		Remap:             alarmRemap,
		SearchCommand:     CommandOnuBySn,
		ParseSearch:       ParseSearch,
		DefaultKey: func(link diagnosis.LinkData) string {
			rack := link.Coords.Shelf
			if rack == 0 {
				rack = 1
			}
			return fmt.Sprintf("gpon-onu_%d/%d/%d:%d", rack, link.Coords.Slot, link.Coords.Port, link.Coords.OnuID)
		},
	}
}
