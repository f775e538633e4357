package cli

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// telnetSession is the event loop state for one Telnet command. Everything
// here is local to the request: no cross-session shared state exists.
type telnetSession struct {
	engine  *Engine
	profile *types.DeviceProfile
	opts    RunOptions

	conn     net.Conn
	phase    Phase
	buffer   strings.Builder // output accumulated after the command was sent
	preamble strings.Builder // banner/login chatter before the command

	sentUser       bool
	sentPass       bool
	escalated      bool
	sentEnablePass bool
	sentCmd        bool
	// promptCount counts shell prompt occurrences around the command. The
	// prompt that triggered submission is occurrence one, so the next prompt
	// after the output means the command is complete.
	promptCount int

	closeOnce sync.Once
}

// runTelnet dials the device and drives the login/command/teardown state
// machine over the raw socket. No Telnet option negotiation is performed:
// this class of equipment speaks plain NVT and any IAC bytes are ignored by
// the prompt matcher.
func (e *Engine) runTelnet(ctx context.Context, profile *types.DeviceProfile, opts RunOptions) (string, error) {
	addr := net.JoinHostPort(profile.Address, fmt.Sprintf("%d", profile.EffectivePort()))

	s := &telnetSession{engine: e, profile: profile, opts: opts, phase: PhaseConnecting}

	conn, err := net.DialTimeout("tcp", addr, profile.EffectiveTimeout())
	if err != nil {
		s.phase = PhaseFailed
		return "", fmt.Errorf("telnet dial %s: %w: %w", addr, err, types.ErrNotConnected)
	}
	s.conn = conn
	s.phase = PhaseAuthenticating
	defer s.close()

	// The socket deadline backstops the reader goroutine; it sits past the
	// hard timer so timeouts resolve through the state machine, not as a
	// read error.
	_ = conn.SetDeadline(time.Now().Add(e.hardTimeout() + time.Second))

	chunks := make(chan []byte, 16)
	readErr := make(chan error, 1)
	sessionDone := make(chan struct{})
	defer close(sessionDone)
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := conn.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				// A flooding device can fill the chunk buffer after the main
				// loop already returned; the done channel keeps the reader
				// from parking on the send forever.
				select {
				case chunks <- chunk:
				case <-sessionDone:
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	hardTimer := time.NewTimer(e.hardTimeout())
	defer hardTimer.Stop()

	// The inactivity timer only matters once the command has been sent; it
	// is reset on every inbound chunk.
	inactivity := time.NewTimer(e.hardTimeout())
	defer inactivity.Stop()

	gotBytes := false

	for {
		select {
		case chunk := <-chunks:
			gotBytes = true
			if err := s.onData(string(chunk)); err != nil {
				return s.buffer.String(), err
			}
			if s.phase == PhaseClosing {
				return s.buffer.String(), nil
			}
			if s.sentCmd {
				resetTimer(inactivity, e.inactivityTimeout())
			}

		case <-inactivity.C:
			if s.sentCmd && s.buffer.Len() > 0 {
				// Output went quiet after the command: treat as complete.
				// Tolerates devices whose final prompt is ambiguous.
				s.phase = PhaseClosing
				return s.buffer.String(), nil
			}
			resetTimer(inactivity, e.inactivityTimeout())

		case err := <-readErr:
			if s.sentCmd && s.buffer.Len() > 0 {
				return s.buffer.String(), nil
			}
			s.phase = PhaseFailed
			return "", fmt.Errorf("telnet stream closed before completion: %w", err)

		case <-hardTimer.C:
			s.phase = PhaseFailed
			if !gotBytes {
				return "", fmt.Errorf("no data from %s: %w", addr, types.ErrSessionTimeout)
			}
			if s.sentCmd && s.buffer.Len() > 0 {
				// Device kept talking past the deadline; hand back what we
				// have, flagged as a timeout.
				return s.buffer.String(), types.ErrSessionTimeout
			}
			return "", types.ErrSessionTimeout

		case <-ctx.Done():
			s.phase = PhaseFailed
			return "", ctx.Err()
		}
	}
}

// onData advances the state machine with one inbound chunk.
func (s *telnetSession) onData(chunk string) error {
	if s.sentCmd {
		s.phase = PhaseAwaitingCompletion
		s.buffer.WriteString(chunk)
		s.promptCount += countPrompts(chunk)
		if s.promptCount >= 2 {
			s.phase = PhaseClosing
		}
		return nil
	}

	s.preamble.WriteString(chunk)
	tail := s.preamble.String()

	switch {
	case !s.sentUser && containsAny(tail, "Username:", "username:", "login:", "Login:"):
		s.phase = PhaseAuthenticating
		if err := s.send(s.profile.Username); err != nil {
			return err
		}
		s.sentUser = true
		s.preamble.Reset()

	case !s.sentPass && !s.escalated && strings.Contains(tail, "assword:"):
		if err := s.send(s.profile.Password); err != nil {
			return err
		}
		s.sentPass = true
		s.phase = PhaseAwaitingPrompt
		s.preamble.Reset()

	case s.escalated && !s.sentEnablePass && strings.Contains(tail, "assword:"):
		if err := s.send(s.enablePassword()); err != nil {
			return err
		}
		s.sentEnablePass = true
		s.preamble.Reset()

	case endsWithPrompt(tail):
		if s.opts.NeedsEnable && !s.escalated {
			s.phase = PhaseEscalating
			if err := s.send(s.opts.enableCommand()); err != nil {
				return err
			}
			s.escalated = true
			s.preamble.Reset()
			return nil
		}
		// Shell is ready; ship the command. The prompt that let us send it
		// counts as occurrence one, so the next prompt after the output
		// completes the command without waiting out the inactivity window.
		s.phase = PhaseCommandSent
		if err := s.send(s.opts.Command); err != nil {
			return err
		}
		s.sentCmd = true
		s.promptCount = 1
	}

	return nil
}

func (s *telnetSession) enablePassword() string {
	if s.profile.EnablePassword != "" {
		return s.profile.EnablePassword
	}
	return s.profile.Password
}

func (s *telnetSession) send(line string) error {
	if _, err := s.conn.Write([]byte(line + "\r\n")); err != nil {
		s.phase = PhaseFailed
		return fmt.Errorf("telnet write: %w", err)
	}
	return nil
}

// close tears the socket down exactly once, shared by every resolution path.
func (s *telnetSession) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		if s.phase != PhaseFailed {
			s.phase = PhaseClosed
		}
	})
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// endsWithPrompt reports whether the output tail looks like a shell waiting
// for input ("#" or ">" at end of line).
func endsWithPrompt(s string) bool {
	trimmed := strings.TrimRight(s, " \t\r")
	return strings.HasSuffix(trimmed, "#") || strings.HasSuffix(trimmed, ">")
}

// countPrompts counts prompt-terminated lines in a chunk.
func countPrompts(chunk string) int {
	count := 0
	for _, line := range strings.Split(chunk, "\n") {
		if endsWithPrompt(line) && anyPromptRE.MatchString(line) {
			count++
		}
	}
	return count
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
