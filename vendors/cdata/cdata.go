// Package cdata carries the command set, parsers and OID arithmetic for
// C-Data FD-series OLTs. C-Data prompts and table shapes track ZTE closely,
// but the index arithmetic and port spelling (gpon-olt_1/1/1) are its own.
package cdata

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

// ONU optical table, indexed by <ponIfIndex>.<onuId> with
// ponIfIndex = 16777216 + slot*1048576 + port*65536. Power is centi-dBm.
const (
	OIDOnuRxPower = "1.3.6.1.4.1.17409.2.8.4.1.1.4"
	OIDOnuTxPower = "1.3.6.1.4.1.17409.2.8.4.1.1.3"

	CommandAlarms  = "show alarm active all"
	CommandOnuBySn = "show onu info by sn {serial}"
)

// IndexFormula renders <ponIfIndex>.<onuId>.
func IndexFormula(c types.OnuCoordinates) string {
	return fmt.Sprintf("%d.%d", 16777216+c.Slot*1048576+c.Port*65536, c.OnuID)
}

// SignalPlan is the C-Data optical read plan.
func SignalPlan() optical.SignalPlan {
	centi := optical.Conversion{Divisor: 100}
	return optical.SignalPlan{
		Formula: IndexFormula,
		RxPower: optical.OIDSpec{Base: OIDOnuRxPower, Conv: centi},
		TxPower: optical.OIDSpec{Base: OIDOnuTxPower, Conv: centi},
	}
}

var alarmRemap = map[string]string{
	"LOS":        "GPON_LOS",
	"DYING-GASP": "GPON_DYING_GASP",
	"SF":         "GPON_SF",
	"SD":         "GPON_SD",
	"AUTH-FAIL":  "GPON_AUTH_FAIL",
}

// alarm rows:
//
//	gpon-olt_1/1/3  onu 16  LOS  Active  fiber broken suspected
var alarmRowRE = regexp.MustCompile(
	`^(gpon-olt_\d+/\d+/\d+)\s+onu\s+(\d+)\s+(\S+)\s+(Active|Cleared)\s*(.*)$`)

// ParseAlarms parses "show alarm active all" rows.
func ParseAlarms(raw string) []types.AlarmRecord {
	var alarms []types.AlarmRecord
	for _, row := range common.TableRows(raw) {
		m := alarmRowRE.FindStringSubmatch(row)
		if m == nil {
			continue
		}
		alarms = append(alarms, types.AlarmRecord{
			Source:      m[1] + ":" + m[2],
			Name:        strings.ToUpper(m[3]),
			Status:      types.AlarmStatus(m[4]),
			Description: strings.TrimSpace(m[5]),
			Raw:         row,
		})
	}
	return alarms
}

var searchRowRE = regexp.MustCompile(`gpon-olt_(\d+)/(\d+)/(\d+)\s+onu\s+(\d+)`)

// ParseSearch recovers ONU addressing from the by-sn output.
func ParseSearch(raw string) []diagnosis.SearchHit {
	var hits []diagnosis.SearchHit
	for _, m := range searchRowRE.FindAllStringSubmatch(common.StripANSI(raw), -1) {
		shelf, _ := strconv.Atoi(m[1])
		slot, _ := strconv.Atoi(m[2])
		port, _ := strconv.Atoi(m[3])
		onuID, _ := strconv.Atoi(m[4])
		hits = append(hits, diagnosis.SearchHit{
			Coords: types.OnuCoordinates{Shelf: shelf, Slot: slot, Port: port, OnuID: onuID},
		})
	}
	return hits
}

// Config returns the C-Data diagnosis config.
func Config() diagnosis.VendorConfig {
	return diagnosis.VendorConfig{
		ListAlarmsCommand: CommandAlarms,
		Parse:             ParseAlarms,
		Remap:             alarmRemap,
		SearchCommand:     CommandOnuBySn,
		ParseSearch:       ParseSearch,
		DefaultKey: func(link diagnosis.LinkData) string {
			shelf := link.Coords.Shelf
			if shelf == 0 {
				shelf = 1
			}
			return fmt.Sprintf("gpon-olt_%d/%d/%d:%d", shelf, link.Coords.Slot, link.Coords.Port, link.Coords.OnuID)
		},
	}
}
