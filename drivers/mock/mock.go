// Package mock provides scripted stand-ins for the CLI engine and SNMP
// collector so the diagnosis and polling flows can be exercised without
// real equipment.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/drivers/cli"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// Runner is a scripted CommandRunner. Each command maps to a canned
// transcript; unscripted commands fail the way a broken session would.
type Runner struct {
	mu      sync.Mutex
	scripts map[string]string
	errs    map[string]error
	history []string
	calls   int
}

// NewRunner builds an empty scripted runner.
func NewRunner() *Runner {
	return &Runner{
		scripts: make(map[string]string),
		errs:    make(map[string]error),
	}
}

// Script registers the transcript returned for a command.
func (r *Runner) Script(command, output string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts[command] = output
	return r
}

// Fail registers an error returned for a command.
func (r *Runner) Fail(command string, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[command] = err
	return r
}

// Run returns the scripted transcript for opts.Command.
func (r *Runner) Run(ctx context.Context, profile *types.DeviceProfile, opts cli.RunOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.history = append(r.history, opts.Command)
	if err, ok := r.errs[opts.Command]; ok {
		return "", err
	}
	out, ok := r.scripts[opts.Command]
	if !ok {
		return "", fmt.Errorf("mock: no script for command %q", opts.Command)
	}
	return out, nil
}

// Calls reports how many commands ran.
func (r *Runner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// History returns the commands run, in order.
func (r *Runner) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}
