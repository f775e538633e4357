package cli

import (
	"bufio"
	"context"
	"errors"
	"net"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// fakeTelnetServer runs fn against the first accepted connection and
// returns the listen address.
func fakeTelnetServer(t *testing.T, fn func(conn net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		fn(conn)
	}()

	return ln.Addr().String()
}

func telnetProfile(addr string) *types.DeviceProfile {
	host, portStr, _ := net.SplitHostPort(addr)
	port := 0
	for _, c := range portStr {
		port = port*10 + int(c-'0')
	}
	return &types.DeviceProfile{
		Name:      "olt-test",
		Vendor:    types.VendorZTE,
		Transport: types.TransportTelnet,
		Address:   host,
		Port:      port,
		Username:  "admin",
		Password:  "secret",
		Timeout:   2 * time.Second,
	}
}

func fastEngine() *Engine {
	e := NewEngine(zerolog.Nop())
	e.HardTimeout = 3 * time.Second
	e.InactivityTimeout = 200 * time.Millisecond
	e.FallbackTimeout = 100 * time.Millisecond
	return e
}

func expectLine(t *testing.T, r *bufio.Reader, want string) {
	t.Helper()
	line, err := r.ReadString('\n')
	if err != nil {
		t.Errorf("server read: %v", err)
		return
	}
	if got := strings.TrimRight(line, "\r\n"); got != want {
		t.Errorf("server received %q, want %q", got, want)
	}
}

func TestRunTelnetLoginAndCommand(t *testing.T) {
	addr := fakeTelnetServer(t, func(conn net.Conn) {
		r := bufio.NewReader(conn)
		conn.Write([]byte("Username: "))
		expectLine(t, r, "admin")
		conn.Write([]byte("Password: "))
		expectLine(t, r, "secret")
		conn.Write([]byte("\r\nOLT-1> "))
		expectLine(t, r, "show alarm active")
		conn.Write([]byte("show alarm active\r\n" +
			"2024-06-01 10:22:01  CRITICAL  Active  gpon-olt_1/1/3:116  LOS  Loss of signal\r\n" +
			"OLT-1> "))
	})

	out, err := fastEngine().Run(context.Background(), telnetProfile(addr), RunOptions{Command: "show alarm active"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "gpon-olt_1/1/3:116") {
		t.Errorf("output missing alarm row: %q", out)
	}
}

func TestRunTelnetPromptCompletion(t *testing.T) {
	// The reply ends with a prompt; the session must complete on it instead
	// of waiting out the inactivity window.
	addr := fakeTelnetServer(t, func(conn net.Conn) {
		r := bufio.NewReader(conn)
		conn.Write([]byte("Username: "))
		expectLine(t, r, "admin")
		conn.Write([]byte("Password: "))
		expectLine(t, r, "secret")
		conn.Write([]byte("\r\nOLT-1> "))
		expectLine(t, r, "show alarm active")
		conn.Write([]byte("show alarm active\r\nno active alarms found\r\nOLT-1> "))
	})

	e := fastEngine()
	e.HardTimeout = 10 * time.Second
	e.InactivityTimeout = 3 * time.Second

	start := time.Now()
	out, err := e.Run(context.Background(), telnetProfile(addr), RunOptions{Command: "show alarm active"})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "no active alarms found") {
		t.Errorf("output = %q", out)
	}
	if elapsed >= e.InactivityTimeout {
		t.Errorf("Run took %v, want prompt completion well under the %v inactivity window", elapsed, e.InactivityTimeout)
	}
}

func TestRunTelnetEnableEscalation(t *testing.T) {
	addr := fakeTelnetServer(t, func(conn net.Conn) {
		r := bufio.NewReader(conn)
		conn.Write([]byte("Login: "))
		expectLine(t, r, "admin")
		conn.Write([]byte("Password: "))
		expectLine(t, r, "secret")
		conn.Write([]byte("\r\nOLT-1> "))
		expectLine(t, r, "enable")
		conn.Write([]byte("Password: "))
		expectLine(t, r, "supersecret")
		conn.Write([]byte("\r\nOLT-1# "))
		expectLine(t, r, "display alarm active all")
		conn.Write([]byte("display alarm active all\r\nALARM 1 FAULT MAJOR\r\nOLT-1# "))
	})

	profile := telnetProfile(addr)
	profile.EnablePassword = "supersecret"

	out, err := fastEngine().Run(context.Background(), profile, RunOptions{
		Command:     "display alarm active all",
		NeedsEnable: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "ALARM 1 FAULT MAJOR") {
		t.Errorf("output = %q", out)
	}
}

func TestRunTelnetSilentDevice(t *testing.T) {
	// The device accepts the connection and never sends a byte.
	addr := fakeTelnetServer(t, func(conn net.Conn) {
		time.Sleep(5 * time.Second)
	})

	e := fastEngine()
	e.HardTimeout = 300 * time.Millisecond

	_, err := e.Run(context.Background(), telnetProfile(addr), RunOptions{Command: "show alarm active"})
	if !errors.Is(err, types.ErrSessionTimeout) {
		t.Fatalf("err = %v, want ErrSessionTimeout", err)
	}
}

func TestRunTelnetEndlessOutput(t *testing.T) {
	// The device streams forever after the command; the hard deadline must
	// cut the session and flag the partial output.
	addr := fakeTelnetServer(t, func(conn net.Conn) {
		r := bufio.NewReader(conn)
		conn.Write([]byte("Username: "))
		r.ReadString('\n')
		conn.Write([]byte("Password: "))
		r.ReadString('\n')
		conn.Write([]byte("\r\nOLT-1> "))
		r.ReadString('\n')
		for {
			if _, err := conn.Write([]byte("log spam line\r\n")); err != nil {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
	})

	e := fastEngine()
	e.HardTimeout = 500 * time.Millisecond
	e.InactivityTimeout = 2 * time.Second

	out, err := e.Run(context.Background(), telnetProfile(addr), RunOptions{Command: "show log"})
	if !errors.Is(err, types.ErrSessionTimeout) {
		t.Fatalf("err = %v, want ErrSessionTimeout", err)
	}
	if !strings.Contains(out, "log spam line") {
		t.Errorf("partial output not returned: %q", out)
	}
}

func TestRunTelnetReaderStopsAfterHardTimeout(t *testing.T) {
	before := runtime.NumGoroutine()

	// The device floods far faster than the session consumes once the hard
	// deadline fires; the reader goroutine must still exit.
	addr := fakeTelnetServer(t, func(conn net.Conn) {
		r := bufio.NewReader(conn)
		conn.Write([]byte("Username: "))
		r.ReadString('\n')
		conn.Write([]byte("Password: "))
		r.ReadString('\n')
		conn.Write([]byte("\r\nOLT-1> "))
		r.ReadString('\n')
		line := []byte(strings.Repeat("flood ", 512) + "\r\n")
		for {
			if _, err := conn.Write(line); err != nil {
				return
			}
		}
	})

	e := fastEngine()
	e.HardTimeout = 300 * time.Millisecond
	e.InactivityTimeout = 2 * time.Second

	_, err := e.Run(context.Background(), telnetProfile(addr), RunOptions{Command: "show log"})
	if !errors.Is(err, types.ErrSessionTimeout) {
		t.Fatalf("err = %v, want ErrSessionTimeout", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && runtime.NumGoroutine() > before {
		time.Sleep(25 * time.Millisecond)
	}
	if n := runtime.NumGoroutine(); n > before {
		t.Errorf("%d goroutines still running after the session ended, want %d", n, before)
	}
}

func TestRunTelnetDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = fastEngine().Run(context.Background(), telnetProfile(addr), RunOptions{Command: "show alarm active"})
	if !errors.Is(err, types.ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
}

func TestRunTelnetContextCancel(t *testing.T) {
	addr := fakeTelnetServer(t, func(conn net.Conn) {
		time.Sleep(5 * time.Second)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := fastEngine().Run(ctx, telnetProfile(addr), RunOptions{Command: "show alarm active"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestRunRejectsNonCLITransport(t *testing.T) {
	profile := &types.DeviceProfile{Transport: types.TransportSNMPv2c, Address: "10.0.0.1"}
	if _, err := fastEngine().Run(context.Background(), profile, RunOptions{Command: "x"}); err == nil {
		t.Fatal("SNMP transport accepted by the CLI engine")
	}
}

func TestOnDataCompletionPhases(t *testing.T) {
	s := &telnetSession{engine: fastEngine(), sentCmd: true, promptCount: 1, phase: PhaseCommandSent}

	if err := s.onData("partial output\r\n"); err != nil {
		t.Fatalf("onData: %v", err)
	}
	if s.phase != PhaseAwaitingCompletion {
		t.Errorf("phase after partial output = %v, want %v", s.phase, PhaseAwaitingCompletion)
	}

	if err := s.onData("rest of output\r\nOLT-1> "); err != nil {
		t.Fatalf("onData: %v", err)
	}
	if s.phase != PhaseClosing {
		t.Errorf("phase after closing prompt = %v, want %v", s.phase, PhaseClosing)
	}
}

func TestCountPrompts(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  int
	}{
		{name: "no prompt", chunk: "some output\r\n"},
		{name: "user prompt", chunk: "output\r\nOLT-1> ", want: 1},
		{name: "priv prompt", chunk: "OLT-1# ", want: 1},
		{name: "two prompts", chunk: "OLT-1> \r\nOLT-1> ", want: 2},
		{name: "hash inside text", chunk: "vlan #100 configured\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countPrompts(tt.chunk); got != tt.want {
				t.Errorf("countPrompts(%q) = %d, want %d", tt.chunk, got, tt.want)
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseAwaitingCompletion.String() != "awaiting-completion" {
		t.Errorf("PhaseAwaitingCompletion = %q", PhaseAwaitingCompletion)
	}
	if Phase(99).String() != "failed" {
		t.Errorf("unknown phase = %q", Phase(99))
	}
}
