// Package linkwatcher polls and diagnoses access-network subscriber links.
// It discovers interfaces and optical readings over SNMP and runs alarm
// diagnosis over interactive vendor CLIs (SSH or Telnet), with per-vendor
// knowledge kept in the vendors sub-packages.
package linkwatcher

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/config"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/diagnosis"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/discovery"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/drivers/cli"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/drivers/snmp"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/optical"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/bdcom"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/cdata"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/datacom"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/fiberhome"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/huawei"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/parks"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/vsol"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/zte"
)

// DefaultFormulas maps every built-in vendor to its ONU index arithmetic.
func DefaultFormulas() map[types.Vendor]optical.IndexFormula {
	return map[types.Vendor]optical.IndexFormula{
		types.VendorHuawei:    huawei.IndexFormula,
		types.VendorZTE:       zte.IndexFormula,
		types.VendorFiberhome: fiberhome.IndexFormula,
		types.VendorVSOL:      vsol.IndexFormula,
		types.VendorCData:     cdata.IndexFormula,
		types.VendorBDCOM:     bdcom.IndexFormula,
		types.VendorParks:     parks.IndexFormula,
		types.VendorDatacom:   datacom.IndexFormula,
	}
}

// DefaultPlans maps every built-in vendor to its optical read plan.
func DefaultPlans() map[types.Vendor]optical.SignalPlan {
	return map[types.Vendor]optical.SignalPlan{
		types.VendorHuawei:    huawei.SignalPlan(),
		types.VendorZTE:       zte.SignalPlan(),
		types.VendorFiberhome: fiberhome.SignalPlan(),
		types.VendorVSOL:      vsol.SignalPlan(),
		types.VendorCData:     cdata.SignalPlan(),
		types.VendorBDCOM:     bdcom.SignalPlan(),
		types.VendorParks:     parks.SignalPlan(),
		types.VendorDatacom:   datacom.SignalPlan(),
	}
}

// DefaultRegistry builds the diagnosis registry for the built-in vendors.
// ZTE is the fallback for unrecognized vendors; it is by far the most
// widespread gear in the field this engine targets.
func DefaultRegistry() *diagnosis.Registry {
	return diagnosis.NewRegistry(map[types.Vendor]diagnosis.VendorConfig{
		types.VendorHuawei:    huawei.Config(),
		types.VendorZTE:       zte.Config(),
		types.VendorFiberhome: fiberhome.Config(),
		types.VendorVSOL:      vsol.Config(),
		types.VendorCData:     cdata.Config(),
		types.VendorBDCOM:     bdcom.Config(),
		types.VendorParks:     parks.Config(),
		types.VendorDatacom:   datacom.Config(),
	}, types.VendorZTE)
}

// Engine is the top-level entry point. One Engine serves any number of
// devices concurrently; per-device state lives in the DeviceProfile the
// caller passes to each operation.
type Engine struct {
	collector  *snmp.Collector
	discoverer *discovery.Discoverer
	formulas   *optical.FormulaRegistry
	reader     *optical.Reader
	diagnoser  *diagnosis.Diagnoser

	runner    diagnosis.CommandRunner
	mirror    *diagnosis.MirrorStore
	overrides *config.Overrides
	diagOpts  []diagnosis.Option

	log zerolog.Logger
}

// Option customizes Engine construction.
type Option func(*Engine)

// WithOverrides installs operator template overrides.
func WithOverrides(ov *config.Overrides) Option {
	return func(e *Engine) { e.overrides = ov }
}

// WithMirror installs the external ONU state mirror used by vendors
// without a live alarm query.
func WithMirror(m *diagnosis.MirrorStore) Option {
	return func(e *Engine) { e.mirror = m }
}

// WithRunner replaces the CLI engine, mainly for tests.
func WithRunner(r diagnosis.CommandRunner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithDiagnosisOptions forwards options to the diagnoser.
func WithDiagnosisOptions(opts ...diagnosis.Option) Option {
	return func(e *Engine) { e.diagOpts = append(e.diagOpts, opts...) }
}

// New builds an Engine with the built-in vendor knowledge.
func New(log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{log: log}
	for _, opt := range opts {
		opt(e)
	}

	e.collector = snmp.NewCollector(log)
	e.discoverer = discovery.NewDiscoverer(e.collector, log)
	e.formulas = optical.NewFormulaRegistry(DefaultFormulas())
	e.reader = optical.NewReader(e.collector, DefaultPlans(), log)
	if e.runner == nil {
		e.runner = cli.NewEngine(log)
	}
	e.diagnoser = diagnosis.NewDiagnoser(e.runner, DefaultRegistry(), e.mirror, log, e.diagOpts...)

	return e
}

// DiscoverInterfaces walks the device's interface table.
func (e *Engine) DiscoverInterfaces(ctx context.Context, profile *types.DeviceProfile) ([]types.InterfaceRecord, error) {
	return e.discoverer.Interfaces(ctx, profile)
}

// DiscoverSensors maps logical ports to their Entity-MIB optical sensors.
func (e *Engine) DiscoverSensors(ctx context.Context, profile *types.DeviceProfile, portPrefix string) (types.SensorMapping, error) {
	return e.discoverer.Sensors(ctx, profile, portPrefix)
}

// FindInterfaceByName walks the interface table and resolves one interface
// by name, description or alias. When no unique match exists the result
// carries candidates instead.
func (e *Engine) FindInterfaceByName(ctx context.Context, profile *types.DeviceProfile, name, descr, alias string) (types.InterfaceMatch, error) {
	records, err := e.discoverer.Interfaces(ctx, profile)
	if err != nil {
		return types.InterfaceMatch{}, err
	}
	return discovery.FindByName(records, name, descr, alias), nil
}

// GetOpticalSignal reads the optical telemetry of one subscriber ONU.
func (e *Engine) GetOpticalSignal(ctx context.Context, profile *types.DeviceProfile, coords types.OnuCoordinates) (*types.OpticalSignalReading, error) {
	return e.reader.Read(ctx, profile, coords)
}

// GetPortOpticalSignal reads switch-port optics through the operator
// template configured for the device model. ok is false when no template
// covers the model.
func (e *Engine) GetPortOpticalSignal(ctx context.Context, profile *types.DeviceProfile, portRef string, ifIndex int) (*types.OpticalSignalReading, bool, error) {
	template, ok := e.overrides.PortTemplate(profile.Model)
	if !ok {
		return nil, false, nil
	}
	reading, err := e.reader.ReadPort(ctx, profile, template, portRef, ifIndex)
	return reading, true, err
}

// Diagnose runs the alarm diagnosis flow for one subscriber link.
func (e *Engine) Diagnose(ctx context.Context, profile *types.DeviceProfile, link diagnosis.LinkData) (*types.DiagnosisResult, error) {
	if link.KeyTemplate == "" {
		link.KeyTemplate = e.overrides.DiagnosisKey(types.NormalizeVendor(profile.Vendor))
	}
	return e.diagnoser.Diagnose(ctx, profile, link)
}

// QueryAllAlarms lists the device's active alarm table, served from the
// per-device cache when fresh.
func (e *Engine) QueryAllAlarms(ctx context.Context, profile *types.DeviceProfile) ([]types.AlarmRecord, error) {
	return e.diagnoser.QueryAllAlarms(ctx, profile)
}

// SearchBySerial locates an ONU by serial number on the device.
func (e *Engine) SearchBySerial(ctx context.Context, profile *types.DeviceProfile, serial string) ([]diagnosis.SearchHit, error) {
	return e.diagnoser.SearchBySerial(ctx, profile, serial)
}
