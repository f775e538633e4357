// Package vsol carries the command set, parsers and OID arithmetic for V-SOL
// V1600-series OLTs.
package vsol

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

// ONU optical table, indexed by slot*4096 + port*256 + onuId. Power is
// deci-dBm.
const (
	OIDOnuRxPower = "1.3.6.1.4.1.37950.1.1.5.12.2.1.14"
	OIDOnuTxPower = "1.3.6.1.4.1.37950.1.1.5.12.2.1.13"

	CommandAlarms  = "show alarm active"
	CommandOnuDiag = "show onu {slot}/{port}:{onuId} detail"
	CommandOnuBySn = "show onu-authentication sn {serial}"
)

// IndexFormula packs the coordinates into one integer.
func IndexFormula(c types.OnuCoordinates) string {
	return strconv.Itoa(c.Slot*4096 + c.Port*256 + c.OnuID)
}

// SignalPlan is the V-SOL optical read plan.
func SignalPlan() optical.SignalPlan {
	deci := optical.Conversion{Divisor: 10}
	return optical.SignalPlan{
		Formula: IndexFormula,
		RxPower: optical.OIDSpec{Base: OIDOnuRxPower, Conv: deci},
		TxPower: optical.OIDSpec{Base: OIDOnuTxPower, Conv: deci},
	}
}

var alarmRemap = map[string]string{
	"LOS":         "GPON_LOS",
	"DYING-GASP":  "GPON_DYING_GASP",
	"DEACTIVATED": "GPON_DF",
	"AUTH-FAIL":   "GPON_AUTH_FAIL",
}

// alarm rows:
//
//	1/1:3    LOS         Active   2024-06-01 10:22:01  onu fiber broken
var alarmRowRE = regexp.MustCompile(
	`^(\d+/\d+:\d+)\s+(\S+)\s+(Active|Cleared)\s+(\S+ \S+)\s*(.*)$`)

// ParseAlarms parses the active alarm table.
func ParseAlarms(raw string) []types.AlarmRecord {
	var alarms []types.AlarmRecord
	for _, row := range common.TableRows(raw) {
		m := alarmRowRE.FindStringSubmatch(row)
		if m == nil {
			continue
		}
		alarms = append(alarms, types.AlarmRecord{
			Source:      m[1],
			Name:        strings.ToUpper(m[2]),
			Status:      types.AlarmStatus(m[3]),
			Description: strings.TrimSpace(m[5]),
			Raw:         row,
		})
	}
	return alarms
}

// The per-ONU detail output has no alarm rows; the state lives in a
// "Deactivate reason" field:
//
//	Onu status      : offline
//	Deactivate reason : dying gasp
var deactivateReasonRE = regexp.MustCompile(`Deactivate reason\s*:\s*([\w\- ]+)`)

// ParseOnuDiag synthesizes an alarm record from the deactivate reason.
func ParseOnuDiag(raw string) []types.AlarmRecord {
	clean := common.StripANSI(raw)
	m := deactivateReasonRE.FindStringSubmatch(clean)
	if m == nil {
		return nil
	}
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(m[1]), " ", "-"))
	return []types.AlarmRecord{{
		Name:   name,
		Status: types.AlarmActive,
		Raw:    strings.TrimSpace(clean),
	}}
}

// search reply row: "1/2:45   FHTT91234567   online"
var searchRowRE = regexp.MustCompile(`(?m)^\s*(\d+)/(\d+):(\d+)\s+(\S+)`)

// ParseSearch recovers ONU addressing from the serial search output.
func ParseSearch(raw string) []diagnosis.SearchHit {
	var hits []diagnosis.SearchHit
	for _, m := range searchRowRE.FindAllStringSubmatch(common.StripANSI(raw), -1) {
		slot, _ := strconv.Atoi(m[1])
		port, _ := strconv.Atoi(m[2])
		onuID, _ := strconv.Atoi(m[3])
		hits = append(hits, diagnosis.SearchHit{
			Coords: types.OnuCoordinates{Slot: slot, Port: port, OnuID: onuID},
			Serial: m[4],
		})
	}
	return hits
}

// Config returns the V-SOL diagnosis config.
func Config() diagnosis.VendorConfig {
	return diagnosis.VendorConfig{
		ListAlarmsCommand: CommandAlarms,
		Parse:             ParseAlarms,
		Remap:             alarmRemap,
		OnuDiagCommand:    CommandOnuDiag,
		ParseOnuDiag:      ParseOnuDiag,
		SearchCommand:     CommandOnuBySn,
		ParseSearch:       ParseSearch,
		NeedsEnable:       true,
		DefaultKey: func(link diagnosis.LinkData) string {
			return fmt.Sprintf("%d/%d:%d", link.Coords.Slot, link.Coords.Port, link.Coords.OnuID)
		},
	}
}
