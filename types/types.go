package types

import (
	"errors"
	"time"
)

// Transport represents how we talk to a piece of equipment.
type Transport string

const (
	TransportSNMPv1  Transport = "snmp-v1"
	TransportSNMPv2c Transport = "snmp-v2c"
	TransportSNMPv3  Transport = "snmp-v3"
	TransportSSH     Transport = "ssh"
	TransportTelnet  Transport = "telnet"
)

// IsSNMP reports whether the transport is one of the SNMP versions.
func (t Transport) IsSNMP() bool {
	return t == TransportSNMPv1 || t == TransportSNMPv2c || t == TransportSNMPv3
}

// Vendor identifies the equipment vendor. Comparison is case-insensitive;
// use NormalizeVendor before map lookups.
type Vendor string

const (
	VendorHuawei    Vendor = "huawei"
	VendorZTE       Vendor = "zte"
	VendorFiberhome Vendor = "fiberhome"
	VendorVSOL      Vendor = "vsol"
	VendorCData     Vendor = "cdata"
	VendorBDCOM     Vendor = "bdcom"
	VendorParks     Vendor = "parks"
	VendorDatacom   Vendor = "datacom" // alarms mirrored into an external telemetry DB
)

// DeviceProfile describes one reachable piece of access equipment. It is
// owned by the caller's configuration store and treated as immutable for the
// duration of a request.
type DeviceProfile struct {
	// Name is a unique identifier for this device (cache key for alarms).
	Name string

	// Vendor selects the command set, parsers and OID arithmetic.
	Vendor Vendor

	// Model is the hardware model label, used to select operator-supplied
	// switch-port optical templates. Optional.
	Model string

	// Transport selects SNMP version or interactive CLI flavor.
	Transport Transport

	// Address is the management IP or hostname.
	Address string

	// Port overrides the transport default (161/22/23) when non-zero.
	Port int

	// Community is the SNMP v1/v2c community string.
	Community string

	// SNMPv3 user security parameters. Unrecognized level/protocol strings
	// resolve to "none" rather than failing session setup.
	SecurityName   string
	SecurityLevel  string // noAuthNoPriv | authNoPriv | authPriv
	AuthProtocol   string // none | MD5 | SHA
	AuthPassphrase string
	PrivProtocol   string // none | DES | AES
	PrivPassphrase string

	// CLI credentials.
	Username string
	Password string

	// EnablePassword is sent when the vendor requires privileged-mode
	// escalation before diagnostic commands run. Empty means reuse Password.
	EnablePassword string

	// Timeout is the per-packet (SNMP) or per-session (CLI) base timeout.
	Timeout time.Duration

	// Retries is the SNMP per-packet retry count.
	Retries int
}

// EffectivePort returns Port or the default for the transport.
func (p *DeviceProfile) EffectivePort() int {
	if p.Port != 0 {
		return p.Port
	}
	switch p.Transport {
	case TransportSSH:
		return 22
	case TransportTelnet:
		return 23
	default:
		return 161
	}
}

// EffectiveTimeout returns Timeout or a conservative default.
func (p *DeviceProfile) EffectiveTimeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return 10 * time.Second
}

// AdminStatus is the IF-MIB ifAdminStatus value.
type AdminStatus string

const (
	AdminUp      AdminStatus = "up"
	AdminDown    AdminStatus = "down"
	AdminTesting AdminStatus = "testing"
)

// OperStatus is the IF-MIB ifOperStatus value.
type OperStatus string

const (
	OperUp             OperStatus = "up"
	OperDown           OperStatus = "down"
	OperTesting        OperStatus = "testing"
	OperUnknown        OperStatus = "unknown"
	OperDormant        OperStatus = "dormant"
	OperNotPresent     OperStatus = "notPresent"
	OperLowerLayerDown OperStatus = "lowerLayerDown"
)

// AdminStatusFromCode maps the raw integer from ifAdminStatus. Codes the MIB
// does not define come back as testing so that a bad agent cannot make a port
// look administratively up or down.
func AdminStatusFromCode(code int) AdminStatus {
	switch code {
	case 1:
		return AdminUp
	case 2:
		return AdminDown
	default:
		return AdminTesting
	}
}

// OperStatusFromCode maps the raw integer from ifOperStatus.
func OperStatusFromCode(code int) OperStatus {
	switch code {
	case 1:
		return OperUp
	case 2:
		return OperDown
	case 3:
		return OperTesting
	case 5:
		return OperDormant
	case 6:
		return OperNotPresent
	case 7:
		return OperLowerLayerDown
	default:
		return OperUnknown
	}
}

// InterfaceRecord is one row of a device's interface table.
type InterfaceRecord struct {
	IfIndex     int
	Name        string
	Descr       string
	Alias       string
	SpeedBps    uint64
	AdminStatus AdminStatus
	OperStatus  OperStatus
}

// PortSensors holds the Entity-MIB physical indexes of the optical sensors
// attached to one logical port. Zero means the sensor was not discovered
// (entPhysicalIndex is 1-based).
type PortSensors struct {
	RxPowerIndex     int
	TxPowerIndex     int
	TemperatureIndex int
}

// SensorMapping maps a logical port name (including breakout sub-ports like
// "Ethernet1/1/3") to its discovered sensors. Built once per discovery call.
type SensorMapping map[string]*PortSensors

// OnuCoordinates is the vendor addressing of a subscriber's ONU.
type OnuCoordinates struct {
	Shelf int
	Slot  int
	Port  int
	OnuID int
}

// OpticalSignalReading carries optical telemetry for one link. A nil field
// means "no reading", which is distinct from a literal 0 dBm value (0 dBm is
// never reported: on this class of hardware an exact zero marks a powered-off
// or absent transceiver).
type OpticalSignalReading struct {
	RxPower        *float64 // dBm, subscriber side
	TxPower        *float64 // dBm, subscriber side
	OltRxPower     *float64 // dBm, OLT side
	DistanceMeters *float64
}

// AlarmStatus is the lifecycle state reported by the device.
type AlarmStatus string

const (
	AlarmActive  AlarmStatus = "Active"
	AlarmCleared AlarmStatus = "Cleared"
)

// AlarmRecord is one parsed alarm line. Source keeps the raw vendor
// addressing (gpon-olt_1/1/3:116 and friends); canonical comparison goes
// through NormalizeAlarmSource and never mutates the record.
type AlarmRecord struct {
	Timestamp   time.Time
	Severity    string
	Source      string
	Status      AlarmStatus
	Name        string
	Description string
	Raw         string
}

// DiagnosisResult is the outcome of diagnosing one subscriber link.
type DiagnosisResult struct {
	// AlarmType is the canonical alarm code (GPON_LOS etc.), empty when no
	// active alarm was found.
	AlarmType string

	// AlarmCode is the source identifier the alarm was reported against.
	AlarmCode string

	// Description is the long human-readable explanation.
	Description string

	// Diagnosis is the short operator-facing label ("Fiber cut").
	Diagnosis string

	// RawOutput preserves the vendor reply for audit and troubleshooting.
	RawOutput string

	// Warning is set when the result may be less trustworthy than it looks,
	// e.g. an unrecognized vendor handled by the fallback parser.
	Warning string
}

// InterfaceMatch is the result of a by-name interface lookup. Either Match is
// set, or Candidates lists the ambiguous/partial hits for manual resolution.
type InterfaceMatch struct {
	Match      *InterfaceRecord
	Candidates []InterfaceRecord
}

var (
	// ErrNotConnected wraps dial and connect failures on every transport, so
	// callers can tell an unreachable device from a command that failed on a
	// live session.
	ErrNotConnected = errors.New("not connected to device")

	// ErrSessionTimeout is returned when a CLI session hits its hard deadline
	// before the command completes.
	ErrSessionTimeout = errors.New("session timed out")

	// ErrNotFound marks a clean miss (no ONU, no interface, no sensor) as
	// opposed to a transport failure.
	ErrNotFound = errors.New("not found")
)
