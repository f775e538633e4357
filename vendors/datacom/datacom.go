// Package datacom covers Datacom DM-series OLTs. These units sit behind a
// management stack that mirrors ONU state into SQL, so diagnosis reads the
// mirror instead of scraping the CLI. Optical polling still goes over SNMP.
package datacom

import (
	"fmt"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/diagnosis"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/optical"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// ONU optical table, indexed by <slot*1000+port>.<onuId>. Power is centi-dBm.
const (
	OIDOnuRxPower = "1.3.6.1.4.1.3709.3.6.2.1.1.8"
	OIDOnuTxPower = "1.3.6.1.4.1.3709.3.6.2.1.1.7"
)

// IndexFormula renders <slot*1000+port>.<onuId>.
func IndexFormula(c types.OnuCoordinates) string {
	return fmt.Sprintf("%d.%d", c.Slot*1000+c.Port, c.OnuID)
}

// SignalPlan is the Datacom optical read plan.
func SignalPlan() optical.SignalPlan {
	centi := optical.Conversion{Divisor: 100}
	return optical.SignalPlan{
		Formula: IndexFormula,
		RxPower: optical.OIDSpec{Base: OIDOnuRxPower, Conv: centi},
		TxPower: optical.OIDSpec{Base: OIDOnuTxPower, Conv: centi},
	}
}

// Config returns the Datacom diagnosis config. With no live alarm
// command the diagnoser falls back to the SQL state mirror, keyed by
// the ONU serial.
func Config() diagnosis.VendorConfig {
	return diagnosis.VendorConfig{
		UsesSQLMirror: true,
		DefaultKey: func(link diagnosis.LinkData) string {
			return link.Serial
		},
	}
}
