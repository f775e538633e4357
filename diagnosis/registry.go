// Package diagnosis determines why a subscriber link is down: it queries
// vendor alarm tables over the CLI engine (or an external telemetry mirror),
// parses the vendor-specific reply and maps raw alarm codes to operator
// facing root causes.
package diagnosis

import (
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// Parser turns raw CLI output into alarm records. Parsers are pure text
// functions; they never touch the network.
type Parser func(raw string) []types.AlarmRecord

// SearchHit is one ONU found by a serial search.
type SearchHit struct {
	Coords         types.OnuCoordinates
	Serial         string
	LastDownReason string // canonical code when the search output exposes it
}

// LinkData identifies the subscriber link being diagnosed.
type LinkData struct {
	Serial string
	Coords types.OnuCoordinates

	// KeyTemplate is the operator-configured diagnosis key with {serial},
	// {slot}, {port} and {onuId} placeholders. Empty means use the vendor's
	// fallback composition.
	KeyTemplate string
}

// VendorConfig carries everything vendor-specific about alarm retrieval.
type VendorConfig struct {
	// ListAlarmsCommand lists all active alarms on the device.
	ListAlarmsCommand string

	// Parse converts the alarm list output into records.
	Parse Parser

	// Remap translates vendor alarm names to canonical GPON_xxx codes.
	// Names missing from the table pass through unchanged.
	Remap map[string]string

	// OnuDiagCommand is an optional per-ONU diagnosis command, used when the
	// vendor's single-ONU output differs structurally from the bulk alarm
	// table (e.g. a "deactivate reason" field instead of a row). Subject to
	// the same placeholder substitution as LinkData.KeyTemplate.
	OnuDiagCommand string

	// ParseOnuDiag parses OnuDiagCommand output. Nil means reuse Parse.
	ParseOnuDiag Parser

	// SearchCommand looks up an ONU by serial ({serial} placeholder).
	SearchCommand string

	// ParseSearch recovers internal ONU addressing from SearchCommand
	// output.
	ParseSearch func(raw string) []SearchHit

	// DefaultKey composes the diagnosis key when no operator template is
	// configured.
	DefaultKey func(link LinkData) string

	// NeedsEnable requests privileged-mode escalation before any command.
	NeedsEnable bool

	// EnableCommand overrides the escalation command when NeedsEnable is
	// set (default "enable").
	EnableCommand string

	// UsesSQLMirror marks vendors whose alarms live in an external
	// telemetry database instead of being queryable over the CLI.
	UsesSQLMirror bool
}

// Registry resolves a vendor identifier (case-insensitive) to its config.
// Unrecognized vendors fall back to the configured most-common vendor: most
// devices in this domain share a similar alarm-table shape, but the result
// is flagged so a silently wrong parser cannot masquerade as a clean
// diagnosis.
type Registry struct {
	configs  map[types.Vendor]VendorConfig
	fallback types.Vendor
}

// NewRegistry builds a registry. fallback must be a key of configs.
func NewRegistry(configs map[types.Vendor]VendorConfig, fallback types.Vendor) *Registry {
	table := make(map[types.Vendor]VendorConfig, len(configs))
	for vendor, config := range configs {
		table[types.NormalizeVendor(vendor)] = config
	}
	return &Registry{configs: table, fallback: types.NormalizeVendor(fallback)}
}

// Resolve returns the vendor's config. The boolean is false when the
// fallback config was substituted for an unknown vendor.
func (r *Registry) Resolve(vendor types.Vendor) (VendorConfig, bool) {
	if config, ok := r.configs[types.NormalizeVendor(vendor)]; ok {
		return config, true
	}
	return r.configs[r.fallback], false
}
