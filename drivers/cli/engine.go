// Package cli drives interactive terminal sessions against access-network
// equipment over SSH or Telnet. One session carries exactly one diagnostic
// command: sessions are opened per request, never pooled, because low-end
// carrier gear misbehaves under overlapping logins.
package cli

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/common"
)

// Phase is the session state. Transitions only move forward; terminal states
// are Closed and Failed.
type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseAuthenticating
	PhaseAwaitingPrompt
	PhaseEscalating
	PhaseCommandSent
	PhaseAwaitingCompletion
	PhaseClosing
	PhaseClosed
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAwaitingPrompt:
		return "awaiting-prompt"
	case PhaseEscalating:
		return "escalating"
	case PhaseCommandSent:
		return "command-sent"
	case PhaseAwaitingCompletion:
		return "awaiting-completion"
	case PhaseClosing:
		return "closing"
	case PhaseClosed:
		return "closed"
	default:
		return "failed"
	}
}

// Timer disciplines. The hard timeout is the backstop against a device that
// never stops talking; the inactivity timeout declares a command complete
// once output goes quiet; the fallback timeout force-sends the next input
// when an expected prompt never shows up.
const (
	DefaultHardTimeout       = 45 * time.Second
	DefaultInactivityTimeout = 5 * time.Second
	DefaultFallbackTimeout   = 3 * time.Second
)

// Prompt patterns shared by both transports.
var (
	// userPromptRE matches an unprivileged shell prompt: identifier then ">".
	userPromptRE = regexp.MustCompile(`(?m)[\w\-.()\[\]]+>\s*$`)

	// privPromptRE matches a privileged shell prompt.
	privPromptRE = regexp.MustCompile(`(?m)[\w\-.()\[\]]+#\s*$`)

	// anyPromptRE matches either.
	anyPromptRE = regexp.MustCompile(`(?m)[\w\-.()\[\]]+[#>]\s*$`)
)

// RunOptions describes the single command a session will execute.
type RunOptions struct {
	// Command is the diagnostic command to run.
	Command string

	// NeedsEnable requests privileged-mode escalation before the command.
	NeedsEnable bool

	// EnableCommand overrides the escalation command (default "enable").
	EnableCommand string
}

func (o RunOptions) enableCommand() string {
	if o.EnableCommand != "" {
		return o.EnableCommand
	}
	return "enable"
}

// Engine opens one interactive session per Run call, executes the command
// and tears the session down on every exit path.
type Engine struct {
	HardTimeout       time.Duration
	InactivityTimeout time.Duration
	FallbackTimeout   time.Duration

	log zerolog.Logger
}

// NewEngine returns an engine with the default timer discipline.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		HardTimeout:       DefaultHardTimeout,
		InactivityTimeout: DefaultInactivityTimeout,
		FallbackTimeout:   DefaultFallbackTimeout,
		log:               log,
	}
}

// Run executes one command on a fresh session and returns the cleaned output
// with ANSI escapes stripped (vendor terminals color-code alarm severities).
// No retries happen here; retry policy belongs to the caller.
func (e *Engine) Run(ctx context.Context, profile *types.DeviceProfile, opts RunOptions) (string, error) {
	if profile == nil || profile.Address == "" {
		return "", fmt.Errorf("device profile with address is required")
	}

	var (
		output string
		err    error
	)
	switch profile.Transport {
	case types.TransportTelnet:
		output, err = e.runTelnet(ctx, profile, opts)
	case types.TransportSSH:
		output, err = e.runSSH(ctx, profile, opts)
	default:
		return "", fmt.Errorf("transport %q is not an interactive CLI", profile.Transport)
	}

	return common.StripANSI(output), err
}

func (e *Engine) hardTimeout() time.Duration {
	if e.HardTimeout > 0 {
		return e.HardTimeout
	}
	return DefaultHardTimeout
}

func (e *Engine) inactivityTimeout() time.Duration {
	if e.InactivityTimeout > 0 {
		return e.InactivityTimeout
	}
	return DefaultInactivityTimeout
}

func (e *Engine) fallbackTimeout() time.Duration {
	if e.FallbackTimeout > 0 {
		return e.FallbackTimeout
	}
	return DefaultFallbackTimeout
}
