// Package bdcom covers BDCOM P-series EPON OLTs. BDCOM speaks a
// Cisco-like IOS dialect and labels ONUs as EPON0/slot:onu interfaces.
package bdcom

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

// EPON ONU optical table, indexed by LLID interface ifIndex. The ifIndex
// of EPON0/slot:onu is slot*256 + onuId on current firmware.
const (
	OIDOnuRxPower = "1.3.6.1.4.1.3320.101.10.5.1.5"
	OIDOnuTxPower = "1.3.6.1.4.1.3320.101.10.5.1.6"

	CommandAlarms  = "show epon active-alarm"
	CommandOnuInfo = "show epon interface EPON0/{slot}:{onuId} onu ctc basic-info"
	CommandOnuBySn = "show epon onu-information | include {serial}"
)

// IndexFormula renders the LLID ifIndex for EPON0/slot:onu.
func IndexFormula(c types.OnuCoordinates) string {
	return strconv.Itoa(c.Slot*256 + c.OnuID)
}

// SignalPlan is the BDCOM optical read plan. Power is deci-dBm.
func SignalPlan() optical.SignalPlan {
	deci := optical.Conversion{Divisor: 10}
	return optical.SignalPlan{
		Formula: IndexFormula,
		RxPower: optical.OIDSpec{Base: OIDOnuRxPower, Conv: deci},
		TxPower: optical.OIDSpec{Base: OIDOnuTxPower, Conv: deci},
	}
}

var alarmRemap = map[string]string{
	"LOS":        "GPON_LOS",
	"LLID-DOWN":  "GPON_DOW",
	"POWER-DOWN": "GPON_DYING_GASP",
	"DYING-GASP": "GPON_DYING_GASP",
	"KEY-FAIL":   "GPON_AUTH_FAIL",
}

// alarm rows:
//
//	EPON0/3:12   power-down   active   2024-06-01 10:22:03
var alarmRowRE = regexp.MustCompile(
	`(?i)^(EPON\d+/\d+:\d+)\s+(\S+)\s+(active|cleared)\s*(.*)$`)

// ParseAlarms parses "show epon active-alarm" rows.
func ParseAlarms(raw string) []types.AlarmRecord {
	var alarms []types.AlarmRecord
	for _, row := range common.TableRows(raw) {
		m := alarmRowRE.FindStringSubmatch(row)
		if m == nil {
			continue
		}
		status := types.AlarmCleared
		if strings.EqualFold(m[3], "active") {
			status = types.AlarmActive
		}
		alarms = append(alarms, types.AlarmRecord{
			Source:      m[1],
			Name:        strings.ToUpper(m[2]),
			Status:      status,
			Description: strings.TrimSpace(m[4]),
			Raw:         row,
		})
	}
	return alarms
}

var searchRowRE = regexp.MustCompile(`(?i)EPON(\d+)/(\d+):(\d+)`)

// ParseSearch recovers ONU addressing from the onu-information listing.
func ParseSearch(raw string) []diagnosis.SearchHit {
	var hits []diagnosis.SearchHit
	for _, m := range searchRowRE.FindAllStringSubmatch(common.StripANSI(raw), -1) {
		shelf, _ := strconv.Atoi(m[1])
		slot, _ := strconv.Atoi(m[2])
		onuID, _ := strconv.Atoi(m[3])
		hits = append(hits, diagnosis.SearchHit{
			Coords: types.OnuCoordinates{Shelf: shelf, Slot: slot, Port: slot, OnuID: onuID},
		})
	}
	return hits
}

// Config returns the BDCOM diagnosis config. BDCOM needs enable mode
// before any show commands run on restricted accounts.
func Config() diagnosis.VendorConfig {
	return diagnosis.VendorConfig{
		ListAlarmsCommand: CommandAlarms,
		Parse:             ParseAlarms,
		Remap:             alarmRemap,
		SearchCommand:     CommandOnuBySn,
		ParseSearch:       ParseSearch,
		NeedsEnable:       true,
		DefaultKey: func(link diagnosis.LinkData) string {
			return fmt.Sprintf("EPON%d/%d:%d", link.Coords.Shelf, link.Coords.Slot, link.Coords.OnuID)
		},
	}
}
