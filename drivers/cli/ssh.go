package cli

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	expect "github.com/google/goexpect"
	"golang.org/x/crypto/ssh"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// Explicit algorithm lists. Carrier-grade OLTs routinely run decade-old SSH
// stacks; modern client defaults refuse to negotiate with them, so the
// accepted set is enumerated from newest to oldest.
var (
	sshKeyExchanges = []string{
		"curve25519-sha256",
		"curve25519-sha256@libssh.org",
		"ecdh-sha2-nistp256",
		"ecdh-sha2-nistp384",
		"diffie-hellman-group-exchange-sha256",
		"diffie-hellman-group14-sha256",
		"diffie-hellman-group14-sha1",
		"diffie-hellman-group-exchange-sha1",
		"diffie-hellman-group1-sha1",
	}

	sshCiphers = []string{
		"aes128-ctr", "aes192-ctr", "aes256-ctr",
		"aes128-gcm@openssh.com",
		"aes128-cbc", "aes256-cbc", "3des-cbc",
	}

	sshMACs = []string{
		"hmac-sha2-256-etm@openssh.com",
		"hmac-sha2-256", "hmac-sha2-512",
		"hmac-sha1", "hmac-sha1-96",
	}

	sshHostKeyAlgorithms = []string{
		"ssh-ed25519",
		"ecdsa-sha2-nistp256", "ecdsa-sha2-nistp384", "ecdsa-sha2-nistp521",
		"rsa-sha2-512", "rsa-sha2-256",
		"ssh-rsa", "ssh-dss",
	}
)

// runSSH executes one command over an interactive SSH shell. goexpect drives
// the prompt handshake the same way the rest of the fleet's tooling does.
func (e *Engine) runSSH(ctx context.Context, profile *types.DeviceProfile, opts RunOptions) (string, error) {
	client, err := dialSSH(profile)
	if err != nil {
		return "", err
	}

	exp, _, err := expect.SpawnSSH(client, e.hardTimeout(),
		expect.Verbose(false),
		expect.CheckDuration(250*time.Millisecond),
	)
	if err != nil {
		_ = client.Close()
		return "", fmt.Errorf("failed to open shell on %s: %w", profile.Address, err)
	}

	// One guard shared by every exit path: the session and the TCP client
	// close exactly once.
	var closeOnce sync.Once
	closeAll := func() {
		closeOnce.Do(func() {
			_ = exp.Close()
			_ = client.Close()
		})
	}
	defer closeAll()

	deadline := time.Now().Add(e.hardTimeout())

	if opts.NeedsEnable {
		if err := e.escalate(exp, profile, opts); err != nil {
			return "", err
		}
	} else {
		// Wake the terminal and swallow the banner up to the first prompt.
		// Some devices never echo a recognizable prompt before becoming
		// responsive, so a miss here is not fatal: the fallback timer has
		// done its job by bounding the wait.
		_ = exp.Send("\n")
		if _, _, err := exp.Expect(anyPromptRE, e.fallbackTimeout()); err != nil {
			e.log.Debug().Str("device", profile.Address).Msg("no initial prompt, force-sending command")
		}
	}

	if err := exp.Send(opts.Command + "\n"); err != nil {
		return "", fmt.Errorf("failed to send command: %w", err)
	}

	output, err := e.collectUntilQuiet(ctx, exp, deadline)
	if err != nil {
		return output, err
	}
	return trimEcho(output, opts.Command), nil
}

// escalate raises the session to privileged mode: wake-up newline, wait for
// the user-level prompt, send the escalation command, wait for the "#"
// prompt. Each wait is bounded by the fallback timer and force-continues on
// a miss.
func (e *Engine) escalate(exp *expect.GExpect, profile *types.DeviceProfile, opts RunOptions) error {
	_ = exp.Send("\n")
	if _, _, err := exp.Expect(userPromptRE, e.fallbackTimeout()); err != nil {
		e.log.Debug().Str("device", profile.Address).Msg("no user prompt, force-sending escalation")
	}

	if err := exp.Send(opts.enableCommand() + "\n"); err != nil {
		return fmt.Errorf("failed to send escalation command: %w", err)
	}

	// The device may challenge for an enable password before showing "#".
	out, _, err := exp.Expect(privPromptRE, e.fallbackTimeout())
	if err != nil && strings.Contains(out, "assword") {
		enablePass := profile.EnablePassword
		if enablePass == "" {
			enablePass = profile.Password
		}
		if err := exp.Send(enablePass + "\n"); err != nil {
			return fmt.Errorf("failed to send enable password: %w", err)
		}
		if _, _, err := exp.Expect(privPromptRE, e.fallbackTimeout()); err != nil {
			e.log.Debug().Str("device", profile.Address).Msg("no privileged prompt, continuing anyway")
		}
	}
	return nil
}

// collectUntilQuiet accumulates command output until a prompt appears, the
// output goes quiet for the inactivity window, or the hard deadline fires.
// The inactivity window slides on every received chunk, which tolerates
// devices whose final prompt is delayed or ambiguous.
func (e *Engine) collectUntilQuiet(ctx context.Context, exp *expect.GExpect, deadline time.Time) (string, error) {
	var out strings.Builder

	for {
		if ctx.Err() != nil {
			return out.String(), ctx.Err()
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if out.Len() == 0 {
				return "", types.ErrSessionTimeout
			}
			return out.String(), types.ErrSessionTimeout
		}

		wait := e.inactivityTimeout()
		if wait > remaining {
			wait = remaining
		}

		chunk, _, err := exp.Expect(anyPromptRE, wait)
		out.WriteString(chunk)

		if err == nil {
			// Prompt matched: command completed normally.
			return out.String(), nil
		}
		if chunk == "" {
			if out.Len() == 0 {
				// Nothing at all within the window; keep waiting until the
				// hard deadline decides.
				continue
			}
			// Quiet period after real output: complete.
			return out.String(), nil
		}
		// Data is still flowing; the sliding window resets by looping.
	}
}

// trimEcho drops the echoed command line and a trailing prompt line.
func trimEcho(output, command string) string {
	lines := strings.Split(output, "\n")
	cleaned := make([]string, 0, len(lines))
	for i, line := range lines {
		if i == 0 && strings.Contains(line, command) {
			continue
		}
		if i == len(lines)-1 && anyPromptRE.MatchString(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// dialSSH opens the TCP+SSH transport with password and keyboard-interactive
// authentication. Several OLT firmwares only offer keyboard-interactive; the
// callback answers every challenge with the stored password.
func dialSSH(profile *types.DeviceProfile) (*ssh.Client, error) {
	keyboardInteractive := ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = profile.Password
		}
		return answers, nil
	})

	sshConfig := &ssh.ClientConfig{
		Config: ssh.Config{
			KeyExchanges: sshKeyExchanges,
			Ciphers:      sshCiphers,
			MACs:         sshMACs,
		},
		User: profile.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(profile.Password),
			keyboardInteractive,
		},
		HostKeyAlgorithms: sshHostKeyAlgorithms,
		Timeout:           profile.EffectiveTimeout(),
		HostKeyCallback:   ssh.InsecureIgnoreHostKey(), //nolint:gosec // bounded management network
	}

	addr := net.JoinHostPort(profile.Address, fmt.Sprintf("%d", profile.EffectivePort()))
	client, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w: %w", addr, err, types.ErrNotConnected)
	}
	return client, nil
}
