package snmp

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// NewSession builds and connects a gosnmp session from a device profile.
// Callers own the session and must close it on every exit path; see
// CloseOnce for the guard used across this package.
func NewSession(profile *types.DeviceProfile) (*gosnmp.GoSNMP, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile is required")
	}
	if profile.Address == "" {
		return nil, fmt.Errorf("address is required")
	}

	port := profile.EffectivePort()
	if port < 0 || port > 65535 {
		port = 161
	}

	retries := profile.Retries
	if retries <= 0 {
		retries = 2
	}

	session := &gosnmp.GoSNMP{
		Target:  profile.Address,
		Port:    uint16(port), //nolint:gosec // range-checked above
		Timeout: profile.EffectiveTimeout(),
		Retries: retries,
	}

	switch profile.Transport {
	case types.TransportSNMPv1:
		session.Version = gosnmp.Version1
		session.Community = communityOrDefault(profile)
	case types.TransportSNMPv3:
		session.Version = gosnmp.Version3
		session.SecurityModel = gosnmp.UserSecurityModel
		session.MsgFlags = resolveSecurityLevel(profile.SecurityLevel)
		session.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 profile.SecurityName,
			AuthenticationProtocol:   resolveAuthProtocol(profile.AuthProtocol),
			AuthenticationPassphrase: profile.AuthPassphrase,
			PrivacyProtocol:          resolvePrivProtocol(profile.PrivProtocol),
			PrivacyPassphrase:        profile.PrivPassphrase,
		}
	default:
		session.Version = gosnmp.Version2c
		session.Community = communityOrDefault(profile)
	}

	if err := session.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect SNMP to %s: %w: %w", profile.Address, err, types.ErrNotConnected)
	}

	return session, nil
}

func communityOrDefault(profile *types.DeviceProfile) string {
	if profile.Community != "" {
		return profile.Community
	}
	return "public"
}

// resolveSecurityLevel maps the configured v3 security level string.
// Unrecognized values degrade to noAuthNoPriv instead of failing: carrier
// configuration stores are full of free-text fields.
func resolveSecurityLevel(level string) gosnmp.SnmpV3MsgFlags {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "authpriv":
		return gosnmp.AuthPriv
	case "authnopriv":
		return gosnmp.AuthNoPriv
	default:
		return gosnmp.NoAuthNoPriv
	}
}

func resolveAuthProtocol(proto string) gosnmp.SnmpV3AuthProtocol {
	switch strings.ToUpper(strings.TrimSpace(proto)) {
	case "MD5":
		return gosnmp.MD5
	case "SHA":
		return gosnmp.SHA
	default:
		return gosnmp.NoAuth
	}
}

func resolvePrivProtocol(proto string) gosnmp.SnmpV3PrivProtocol {
	switch strings.ToUpper(strings.TrimSpace(proto)) {
	case "DES":
		return gosnmp.DES
	case "AES":
		return gosnmp.AES
	default:
		return gosnmp.NoPriv
	}
}

// CloseOnce wraps a session so the UDP socket is released exactly once no
// matter how many completion paths (success, error, timeout) race to close
// it. Methods are safe for concurrent use.
type CloseOnce struct {
	session *gosnmp.GoSNMP
	once    sync.Once
	closed  atomic.Bool
}

// NewCloseOnce wraps an open session.
func NewCloseOnce(session *gosnmp.GoSNMP) *CloseOnce {
	return &CloseOnce{session: session}
}

// Close closes the underlying connection on first call and is a no-op after.
func (c *CloseOnce) Close() {
	c.once.Do(func() {
		c.closed.Store(true)
		if c.session != nil && c.session.Conn != nil {
			_ = c.session.Conn.Close()
		}
	})
}

// Closed reports whether Close has run.
func (c *CloseOnce) Closed() bool {
	return c.closed.Load()
}

// Grace is the fixed margin added on top of the profile timeout for scalar
// GETs, covering kernel scheduling and slow device replies.
const Grace = 2 * time.Second
