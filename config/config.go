// Package config loads operator override files. Built-in vendor knowledge
// covers the common gear; overrides let operators point the engine at
// firmware with shifted OIDs or nonstandard diagnosis keys without a
// rebuild.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/optical"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// Overrides is the operator override file.
type Overrides struct {
	// PortTemplates maps a device model label to a switch-port optical
	// template. Model labels are matched against DeviceProfile.Model.
	PortTemplates map[string]optical.PortTemplate `yaml:"port_templates"`

	// DiagnosisKeys maps a vendor name to a diagnosis key template with
	// {serial}, {slot}, {port} and {onuId} placeholders. It replaces the
	// vendor's built-in key format.
	DiagnosisKeys map[string]string `yaml:"diagnosis_keys"`

	// MirrorDSN is the MySQL DSN of the external ONU state mirror used
	// by vendors without a live alarm query.
	MirrorDSN string `yaml:"mirror_dsn"`
}

// Load reads and validates an override file.
func Load(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read override file: %w", err)
	}
	return Parse(data)
}

// Parse decodes override YAML.
func Parse(data []byte) (*Overrides, error) {
	ov := &Overrides{}
	if err := yaml.Unmarshal(data, ov); err != nil {
		return nil, fmt.Errorf("parse override file: %w", err)
	}
	if err := ov.validate(); err != nil {
		return nil, err
	}
	return ov, nil
}

func (o *Overrides) validate() error {
	for model, tmpl := range o.PortTemplates {
		if tmpl.RxPowerOID == "" && tmpl.TxPowerOID == "" {
			return fmt.Errorf("port template %q has no OIDs", model)
		}
	}
	for vendor, key := range o.DiagnosisKeys {
		if types.NormalizeVendor(types.Vendor(vendor)) == "" {
			return fmt.Errorf("diagnosis key for empty vendor name")
		}
		if key == "" {
			return fmt.Errorf("empty diagnosis key for vendor %q", vendor)
		}
	}
	return nil
}

// PortTemplate returns the template configured for a device model.
func (o *Overrides) PortTemplate(model string) (optical.PortTemplate, bool) {
	if o == nil {
		return optical.PortTemplate{}, false
	}
	tmpl, ok := o.PortTemplates[model]
	return tmpl, ok
}

// DiagnosisKey returns the key template configured for a vendor.
func (o *Overrides) DiagnosisKey(vendor types.Vendor) string {
	if o == nil {
		return ""
	}
	return o.DiagnosisKeys[string(vendor)]
}
