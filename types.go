package linkwatcher

// Re-export the core types so callers can work against the root package
// without importing the sub-packages.

import (
	"github.com/Marvitel/Link-Watcher-Pro-sub001/diagnosis"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// Type aliases for the external surface.
type (
	Transport            = types.Transport
	Vendor               = types.Vendor
	DeviceProfile        = types.DeviceProfile
	InterfaceRecord      = types.InterfaceRecord
	InterfaceMatch       = types.InterfaceMatch
	OnuCoordinates       = types.OnuCoordinates
	OpticalSignalReading = types.OpticalSignalReading
	AlarmRecord          = types.AlarmRecord
	AlarmStatus          = types.AlarmStatus
	DiagnosisResult      = types.DiagnosisResult
	LinkData             = diagnosis.LinkData
	SearchHit            = diagnosis.SearchHit
)

// Re-export constants.
const (
	TransportSNMPv1  = types.TransportSNMPv1
	TransportSNMPv2c = types.TransportSNMPv2c
	TransportSNMPv3  = types.TransportSNMPv3
	TransportSSH     = types.TransportSSH
	TransportTelnet  = types.TransportTelnet

	VendorHuawei    = types.VendorHuawei
	VendorZTE       = types.VendorZTE
	VendorFiberhome = types.VendorFiberhome
	VendorVSOL      = types.VendorVSOL
	VendorCData     = types.VendorCData
	VendorBDCOM     = types.VendorBDCOM
	VendorParks     = types.VendorParks
	VendorDatacom   = types.VendorDatacom

	AlarmActive  = types.AlarmActive
	AlarmCleared = types.AlarmCleared
)

// Re-export sentinel errors.
var (
	ErrNotConnected   = types.ErrNotConnected
	ErrSessionTimeout = types.ErrSessionTimeout
	ErrNotFound       = types.ErrNotFound
)
