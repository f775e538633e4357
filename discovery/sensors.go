package discovery

import (
	"context"
	"regexp"
	"strings"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// Entity-MIB (RFC 6933) physical component name column.
const OIDEntPhysicalName = "1.3.6.1.2.1.47.1.1.1.1.7"

var laneRE = regexp.MustCompile(`\bLane (\d+)\b`)

// Sensors walks entPhysicalName once and maps optical sensors onto logical
// ports. This works on switches that expose transceiver diagnostics through
// the Entity-MIB (e.g. "Ethernet1/1 Receive Power Sensor") and needs no
// vendor OID tables. portPrefix filters which components are considered
// ports ("Ethernet", "xe-", ...).
//
// Breakout handling: a component named "... Lane N ..." is one lane of a
// breakout-capable port and registers as sub-port "port/N". Lane 1 readings
// also register under the parent port name, so a port running in native
// 40G/100G mode still resolves to a sensor.
func (d *Discoverer) Sensors(ctx context.Context, profile *types.DeviceProfile, portPrefix string) (types.SensorMapping, error) {
	names, err := d.collector.WalkColumn(ctx, profile, OIDEntPhysicalName)
	if err != nil {
		return nil, err
	}

	mapping := make(types.SensorMapping)

	assign := func(port string, kind string, index int) {
		sensors := mapping[port]
		if sensors == nil {
			sensors = &types.PortSensors{}
			mapping[port] = sensors
		}
		switch kind {
		case "rx":
			sensors.RxPowerIndex = index
		case "tx":
			sensors.TxPowerIndex = index
		case "temp":
			sensors.TemperatureIndex = index
		}
	}

	for index, name := range names {
		if portPrefix != "" && !strings.HasPrefix(name, portPrefix) {
			continue
		}

		kind := classifySensor(name)
		if kind == "" {
			continue
		}

		port := strings.Fields(name)[0]

		if m := laneRE.FindStringSubmatch(name); m != nil {
			lane := m[1]
			assign(port+"/"+lane, kind, index)
			if lane == "1" {
				assign(port, kind, index)
			}
			continue
		}

		assign(port, kind, index)
	}

	return mapping, nil
}

func classifySensor(name string) string {
	switch {
	case strings.Contains(name, "Receive Power"):
		return "rx"
	case strings.Contains(name, "Transmit Power"):
		return "tx"
	case strings.Contains(name, "Temperature"):
		return "temp"
	default:
		return ""
	}
}
