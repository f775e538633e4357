package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/drivers/cli"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// CommandRunner is the slice of the CLI engine the diagnoser needs. Tests
// substitute a scripted runner.
type CommandRunner interface {
	Run(ctx context.Context, profile *types.DeviceProfile, opts cli.RunOptions) (string, error)
}

// Diagnoser executes the per-link diagnosis flow against OLTs.
type Diagnoser struct {
	runner   CommandRunner
	registry *Registry
	cache    *alarmCache
	mirror   *MirrorStore
	log      zerolog.Logger
}

// Option tweaks a Diagnoser at construction time.
type Option func(*diagnoserConfig)

type diagnoserConfig struct {
	ttl   time.Duration
	clock func() time.Time
}

// WithCacheTTL overrides the alarm cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *diagnoserConfig) { c.ttl = ttl }
}

// WithClock injects the cache clock (tests).
func WithClock(clock func() time.Time) Option {
	return func(c *diagnoserConfig) { c.clock = clock }
}

// NewDiagnoser wires the diagnosis flow. mirror may be nil when no vendor in
// the inventory uses an external telemetry database.
func NewDiagnoser(runner CommandRunner, registry *Registry, mirror *MirrorStore, log zerolog.Logger, opts ...Option) *Diagnoser {
	cfg := diagnoserConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Diagnoser{
		runner:   runner,
		registry: registry,
		cache:    newAlarmCache(cfg.ttl, cfg.clock),
		mirror:   mirror,
		log:      log,
	}
}

// QueryAllAlarms fetches the device's full active-alarm list, memoized per
// device within the cache TTL. Concurrent diagnoses of links on the same OLT
// reuse one CLI round-trip instead of racing to open duplicate sessions.
func (d *Diagnoser) QueryAllAlarms(ctx context.Context, profile *types.DeviceProfile) ([]types.AlarmRecord, error) {
	alarms, _, err := d.allAlarms(ctx, profile)
	return alarms, err
}

func (d *Diagnoser) allAlarms(ctx context.Context, profile *types.DeviceProfile) ([]types.AlarmRecord, string, error) {
	if alarms, raw, ok := d.cache.get(profile.Name); ok {
		return alarms, raw, nil
	}

	config, _ := d.registry.Resolve(profile.Vendor)
	if config.ListAlarmsCommand == "" || config.Parse == nil {
		return nil, "", fmt.Errorf("vendor %q does not support live alarm queries", profile.Vendor)
	}
	raw, err := d.runner.Run(ctx, profile, runOptions(config, config.ListAlarmsCommand))
	if err != nil {
		return nil, raw, fmt.Errorf("list alarms on %s: %w", profile.Address, err)
	}

	alarms := config.Parse(raw)
	d.cache.put(profile.Name, alarms, raw)
	return alarms, raw, nil
}

// Diagnose resolves the root cause for one subscriber link.
func (d *Diagnoser) Diagnose(ctx context.Context, profile *types.DeviceProfile, link LinkData) (*types.DiagnosisResult, error) {
	config, known := d.registry.Resolve(profile.Vendor)

	warning := ""
	if !known {
		warning = fmt.Sprintf("vendor %q is not registered; diagnosed with the fallback command set, verify before acting", profile.Vendor)
		d.log.Warn().Str("vendor", string(profile.Vendor)).Str("device", profile.Address).
			Msg("unregistered vendor, using fallback alarm parser")
	}

	key := d.diagnosisKey(config, link)

	if config.UsesSQLMirror {
		return d.diagnoseFromMirror(ctx, link, key, warning)
	}

	var (
		alarms []types.AlarmRecord
		raw    string
		err    error
	)
	useOnuDiag := config.OnuDiagCommand != "" &&
		(link.Serial != "" || !strings.Contains(config.OnuDiagCommand, "{serial}"))
	if useOnuDiag {
		command := expandTemplate(config.OnuDiagCommand, link)
		raw, err = d.runner.Run(ctx, profile, runOptions(config, command))
		if err != nil {
			return nil, err
		}
		parse := config.ParseOnuDiag
		if parse == nil {
			parse = config.Parse
		}
		alarms = parse(raw)
	} else {
		alarms, raw, err = d.allAlarms(ctx, profile)
		if err != nil {
			return nil, err
		}
		alarms = filterAlarms(alarms, key, link.Serial)
	}

	alarm := pickAlarm(alarms)
	return d.buildResult(config, alarm, key, raw, warning), nil
}

func (d *Diagnoser) diagnoseFromMirror(ctx context.Context, link LinkData, key, warning string) (*types.DiagnosisResult, error) {
	if d.mirror == nil {
		return nil, fmt.Errorf("vendor requires a telemetry mirror but none is configured")
	}

	code, rawCause, err := d.mirror.LastDownCause(ctx, link.Serial)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return noAlarmResult(key, "", warning), nil
		}
		return nil, err
	}

	result := &types.DiagnosisResult{
		AlarmType: code,
		AlarmCode: key,
		RawOutput: rawCause,
		Warning:   warning,
	}
	if l, ok := diagnosisLabels[code]; ok {
		result.Diagnosis = l.Short
		result.Description = l.Long
	} else {
		result.Diagnosis = noAlarmShort
		result.Description = noAlarmLong
	}
	return result, nil
}

// SearchBySerial recovers the internal ONU addressing for a subscriber
// serial, needed before slot/port/onuId are known.
func (d *Diagnoser) SearchBySerial(ctx context.Context, profile *types.DeviceProfile, serial string) ([]SearchHit, error) {
	config, _ := d.registry.Resolve(profile.Vendor)
	if config.SearchCommand == "" || config.ParseSearch == nil {
		return nil, fmt.Errorf("vendor %q: serial search not supported", profile.Vendor)
	}

	command := expandTemplate(config.SearchCommand, LinkData{Serial: serial})
	raw, err := d.runner.Run(ctx, profile, runOptions(config, command))
	if err != nil {
		return nil, err
	}

	hits := config.ParseSearch(raw)
	if len(hits) == 0 {
		return nil, fmt.Errorf("serial %s on %s: %w", serial, profile.Address, types.ErrNotFound)
	}
	return hits, nil
}

func (d *Diagnoser) diagnosisKey(config VendorConfig, link LinkData) string {
	if link.KeyTemplate != "" {
		return expandTemplate(link.KeyTemplate, link)
	}
	if config.DefaultKey != nil {
		return config.DefaultKey(link)
	}
	return fmt.Sprintf("%d/%d/%d", link.Coords.Slot, link.Coords.Port, link.Coords.OnuID)
}

func (d *Diagnoser) buildResult(config VendorConfig, alarm *types.AlarmRecord, key, raw, warning string) *types.DiagnosisResult {
	if alarm == nil {
		return noAlarmResult(key, raw, warning)
	}

	canonical := alarm.Name
	if mapped, ok := config.Remap[strings.ToUpper(alarm.Name)]; ok {
		canonical = mapped
	}

	result := &types.DiagnosisResult{
		AlarmType: canonical,
		AlarmCode: alarm.Source,
		RawOutput: raw,
		Warning:   warning,
	}
	if l, ok := diagnosisLabels[canonical]; ok {
		result.Diagnosis = l.Short
		result.Description = l.Long
		if alarm.Description != "" {
			result.Description = l.Long + " Device reported: " + alarm.Description
		}
	} else {
		// An alarm we cannot interpret is reported as no diagnosis, not as
		// an error; the raw output stays attached for the operator.
		result.Diagnosis = noAlarmShort
		result.Description = noAlarmLong
	}
	return result
}

func noAlarmResult(key, raw, warning string) *types.DiagnosisResult {
	return &types.DiagnosisResult{
		AlarmCode:   key,
		Diagnosis:   noAlarmShort,
		Description: noAlarmLong,
		RawOutput:   raw,
		Warning:     warning,
	}
}

// filterAlarms keeps alarms addressed to the queried link. Sources and keys
// are normalized at comparison time only; the records stay untouched.
func filterAlarms(alarms []types.AlarmRecord, key, serial string) []types.AlarmRecord {
	normalizedKey := types.NormalizeAlarmSource(key)
	var matched []types.AlarmRecord
	for _, alarm := range alarms {
		if normalizedKey != "" && types.NormalizeAlarmSource(alarm.Source) == normalizedKey {
			matched = append(matched, alarm)
			continue
		}
		if serial != "" && strings.Contains(strings.ToLower(alarm.Raw), strings.ToLower(serial)) {
			matched = append(matched, alarm)
		}
	}
	return matched
}

// pickAlarm selects the first Active alarm, or the first alarm when none is
// explicitly Active.
func pickAlarm(alarms []types.AlarmRecord) *types.AlarmRecord {
	if len(alarms) == 0 {
		return nil
	}
	for i := range alarms {
		if alarms[i].Status == types.AlarmActive {
			return &alarms[i]
		}
	}
	return &alarms[0]
}

func runOptions(config VendorConfig, command string) cli.RunOptions {
	return cli.RunOptions{
		Command:       command,
		NeedsEnable:   config.NeedsEnable,
		EnableCommand: config.EnableCommand,
	}
}

func expandTemplate(template string, link LinkData) string {
	replacer := strings.NewReplacer(
		"{serial}", link.Serial,
		"{slot}", strconv.Itoa(link.Coords.Slot),
		"{port}", strconv.Itoa(link.Coords.Port),
		"{onuId}", strconv.Itoa(link.Coords.OnuID),
	)
	return replacer.Replace(template)
}
