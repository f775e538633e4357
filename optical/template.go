package optical

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// PortTemplate reads optics on switch-side point-to-point links where no ONU
// arithmetic applies. Operators configure raw OID templates per device model
// with {portIndex} and {ifIndex} placeholders, plus an arithmetic expression
// turning a "slot/module/port" string into the port index.
type PortTemplate struct {
	RxPowerOID string `yaml:"rx_power_oid"`
	TxPowerOID string `yaml:"tx_power_oid"`

	// IndexExpr computes {portIndex} from slot/module/port, e.g.
	// "(slot-1)*64 + (module-1)*16 + port". Evaluated by the restricted
	// expression evaluator, never by anything dynamic.
	IndexExpr string `yaml:"index_expr"`

	Conv Conversion `yaml:"conversion"`
}

// ParsePortString splits a "slot/module/port" style port reference. Two-part
// references ("slot/port") get module 0.
func ParsePortString(s string) (slot, module, port int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	nums := make([]int, 0, len(parts))
	for _, part := range parts {
		n, convErr := strconv.Atoi(strings.TrimSpace(part))
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("bad port reference %q", s)
		}
		nums = append(nums, n)
	}
	switch len(nums) {
	case 2:
		return nums[0], 0, nums[1], nil
	case 3:
		return nums[0], nums[1], nums[2], nil
	default:
		return 0, 0, 0, fmt.Errorf("bad port reference %q", s)
	}
}

// resolve renders one OID template for a given port.
func (t PortTemplate) resolve(template, portRef string, ifIndex int) (string, error) {
	if template == "" {
		return "", nil
	}

	oid := template
	if strings.Contains(oid, "{portIndex}") {
		slot, module, port, err := ParsePortString(portRef)
		if err != nil {
			return "", err
		}
		expr := substituteVars(t.IndexExpr, map[string]int{"slot": slot, "module": module, "port": port})
		portIndex, err := EvalExpr(expr)
		if err != nil {
			return "", fmt.Errorf("port index expression: %w", err)
		}
		oid = strings.ReplaceAll(oid, "{portIndex}", strconv.FormatInt(portIndex, 10))
	}
	oid = strings.ReplaceAll(oid, "{ifIndex}", strconv.Itoa(ifIndex))

	return oid, nil
}

// ReadPort fetches RX/TX power for a switch port through an operator
// template. The zero-means-offline rule and the all-or-nothing transport
// policy match Read.
func (r *Reader) ReadPort(ctx context.Context, profile *types.DeviceProfile, template PortTemplate, portRef string, ifIndex int) (*types.OpticalSignalReading, error) {
	reading := &types.OpticalSignalReading{}

	fetch := func(oidTemplate string, target **float64) error {
		oid, err := template.resolve(oidTemplate, portRef, ifIndex)
		if err != nil {
			return err
		}
		if oid == "" {
			return nil
		}
		value, err := r.collector.GetScalar(ctx, profile, oid)
		if err != nil {
			return err
		}
		raw, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("non-numeric optical value %q at %s", value, oid)
		}
		if converted, ok := template.Conv.Apply(raw); ok {
			*target = &converted
		}
		return nil
	}

	if err := fetch(template.RxPowerOID, &reading.RxPower); err != nil {
		return nil, err
	}
	if err := fetch(template.TxPowerOID, &reading.TxPower); err != nil {
		return nil, err
	}

	return reading, nil
}
