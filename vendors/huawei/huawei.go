// Package huawei carries the command set, parsers and OID arithmetic for
// Huawei SmartAX OLTs (MA5600T/MA5800 series).
package huawei

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

// ONU optical parameters, indexed by <portIndex>.<onuId>. Raw power values
// are centi-dBm; 2147483647 marks an offline ONU.
const (
	OIDOnuTxPower  = "1.3.6.1.4.1.2011.6.128.1.1.2.51.1.3"
	OIDOnuRxPower  = "1.3.6.1.4.1.2011.6.128.1.1.2.51.1.4"
	OIDOltRxPower  = "1.3.6.1.4.1.2011.6.128.1.1.2.51.1.6"
	OIDOnuDistance = "1.3.6.1.4.1.2011.6.128.1.1.2.43.1.12"

	CommandAlarms  = "display alarm active all"
	CommandOntBySn = "display ont info by-sn {serial}"
)

// IndexFormula renders <portIndex>.<onuId>. SmartAX encodes the GPON port as
// 4194304000 + slot*8192 + port*256.
func IndexFormula(c types.OnuCoordinates) string {
	return fmt.Sprintf("%d.%d", 4194304000+c.Slot*8192+c.Port*256, c.OnuID)
}

// SignalPlan is the Huawei optical read plan. OLT-side receive power is
// reported shifted by +100 dBm: dBm = (raw-10000)*0.01.
func SignalPlan() optical.SignalPlan {
	centi := optical.Conversion{Divisor: 100}
	return optical.SignalPlan{
		Formula:    IndexFormula,
		RxPower:    optical.OIDSpec{Base: OIDOnuRxPower, Conv: centi},
		TxPower:    optical.OIDSpec{Base: OIDOnuTxPower, Conv: centi},
		OltRxPower: optical.OIDSpec{Base: OIDOltRxPower, Conv: optical.Conversion{Divisor: 100, Offset: 10000}},
		Distance:   optical.OIDSpec{Base: OIDOnuDistance, Conv: optical.Conversion{Divisor: 1}},
	}
}

var alarmRemap = map[string]string{
	"LOS":             "GPON_LOS",
	"LOSI":            "GPON_LOSI",
	"LOFI":            "GPON_LOFI",
	"DYING-GASP":      "GPON_DYING_GASP",
	"DYING GASP":      "GPON_DYING_GASP",
	"SIGNAL FAIL":     "GPON_SF",
	"SIGNAL DEGRADED": "GPON_SD",
	"DRIFT OF WINDOW": "GPON_DOW",
	"STARTUP FAILURE": "GPON_SUF",
	"LOSS OF PLOAM":   "GPON_LOAM",
	"ONT DEACTIVATED": "GPON_DF",
	"AUTH FAILURE":    "GPON_AUTH_FAIL",
}

// Active-alarm output is block-shaped:
//
//	ALARM 1234 FAULT MAJOR 2024-06-01 10:22:01
//	ALARM NAME : LOS
//	PARAMETERS : FrameID: 0, SlotID: 1, PortID: 3, ONTID: 116
var (
	alarmHeadRE   = regexp.MustCompile(`^ALARM\s+\d+\s+\S+\s+(\S+)\s+(.*)$`)
	alarmNameRE   = regexp.MustCompile(`^ALARM NAME\s*:\s*(.+)$`)
	alarmParamsRE = regexp.MustCompile(`FrameID:\s*(\d+).*?SlotID:\s*(\d+).*?PortID:\s*(\d+).*?ONT?ID:\s*(\d+)`)
)

// ParseAlarms parses "display alarm active all" blocks into records. Every
// block in the active list is an Active alarm by definition.
func ParseAlarms(raw string) []types.AlarmRecord {
	var alarms []types.AlarmRecord
	var current *types.AlarmRecord

	flush := func() {
		if current != nil && current.Name != "" {
			alarms = append(alarms, *current)
		}
		current = nil
	}

	for _, row := range common.TableRows(raw) {
		if m := alarmHeadRE.FindStringSubmatch(row); m != nil {
			flush()
			current = &types.AlarmRecord{
				Severity: m[1],
				Status:   types.AlarmActive,
				Raw:      row,
			}
			continue
		}
		if current == nil {
			continue
		}
		current.Raw += "\n" + row
		if m := alarmNameRE.FindStringSubmatch(row); m != nil {
			current.Name = strings.ToUpper(strings.TrimSpace(m[1]))
			continue
		}
		if m := alarmParamsRE.FindStringSubmatch(row); m != nil {
			current.Source = fmt.Sprintf("%s/%s/%s:%s", m[1], m[2], m[3], m[4])
		}
	}
	flush()

	return alarms
}

// by-sn reply of interest:
//
//	F/S/P               : 0/1/3
//	ONT-ID              : 116
//	Last down cause     : dying-gasp
var (
	fspRE       = regexp.MustCompile(`F/S/P\s*:\s*(\d+)/(\d+)/(\d+)`)
	ontIDRE     = regexp.MustCompile(`ONT-ID\s*:\s*(\d+)`)
	downCauseRE = regexp.MustCompile(`Last down cause\s*:\s*([\w\- ]+)`)
)

// ParseOntDiag turns "display ont info by-sn" output into a synthetic alarm
// record carrying the last down cause. The per-ONU output has no table rows,
// which is why Huawei gets a dedicated diagnosis parser.
func ParseOntDiag(raw string) []types.AlarmRecord {
	clean := common.StripANSI(raw)

	cause := downCauseRE.FindStringSubmatch(clean)
	if cause == nil {
		return nil
	}

	record := types.AlarmRecord{
		Name:   strings.ToUpper(strings.TrimSpace(cause[1])),
		Status: types.AlarmActive,
		Raw:    strings.TrimSpace(clean),
	}
	if fsp := fspRE.FindStringSubmatch(clean); fsp != nil {
		source := fsp[1] + "/" + fsp[2] + "/" + fsp[3]
		if ont := ontIDRE.FindStringSubmatch(clean); ont != nil {
			source += ":" + ont[1]
		}
		record.Source = source
	}
	return []types.AlarmRecord{record}
}

// ParseSearch recovers ONU addressing (and the last down cause, which the
// same command exposes) from "display ont info by-sn" output.
func ParseSearch(raw string) []diagnosis.SearchHit {
	clean := common.StripANSI(raw)

	fsp := fspRE.FindStringSubmatch(clean)
	ont := ontIDRE.FindStringSubmatch(clean)
	if fsp == nil || ont == nil {
		return nil
	}

	shelf, _ := strconv.Atoi(fsp[1])
	slot, _ := strconv.Atoi(fsp[2])
	port, _ := strconv.Atoi(fsp[3])
	onuID, _ := strconv.Atoi(ont[1])

	hit := diagnosis.SearchHit{
		Coords: types.OnuCoordinates{Shelf: shelf, Slot: slot, Port: port, OnuID: onuID},
	}
	if cause := downCauseRE.FindStringSubmatch(clean); cause != nil {
		name := strings.ToUpper(strings.TrimSpace(cause[1]))
		if mapped, ok := alarmRemap[name]; ok {
			hit.LastDownReason = mapped
		}
	}
	return []diagnosis.SearchHit{hit}
}

// Config returns the Huawei diagnosis config. SmartAX shells land in user
// mode; diagnostics require "enable" first.
func Config() diagnosis.VendorConfig {
	return diagnosis.VendorConfig{
		ListAlarmsCommand: CommandAlarms,
		Parse:             ParseAlarms,
		Remap:             alarmRemap,
		OnuDiagCommand:    CommandOntBySn,
		ParseOnuDiag:      ParseOntDiag,
		SearchCommand:     CommandOntBySn,
		ParseSearch:       ParseSearch,
		NeedsEnable:       true,
		DefaultKey: func(link diagnosis.LinkData) string {
			return fmt.Sprintf("%d/%d/%d:%d", link.Coords.Shelf, link.Coords.Slot, link.Coords.Port, link.Coords.OnuID)
		},
	}
}
