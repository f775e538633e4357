package snmp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/rs/zerolog"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// DefaultWalkTimeout bounds a full column walk. It is deliberately much
// larger than the per-packet profile timeout: a table walk on a loaded OLT is
// many request/response round trips.
const DefaultWalkTimeout = 45 * time.Second

// DefaultMaxEntries halts a walk on devices with pathologically large tables.
const DefaultMaxEntries = 10000

// errTruncated stops the underlying walk once the entry guard trips. It never
// escapes WalkColumn.
var errTruncated = errors.New("walk truncated at entry limit")

// Collector fetches SNMP table columns and scalars. Each call opens a
// dedicated session: carrier devices frequently reject overlapping requests
// on one socket, so sessions are never shared across concurrent walks.
type Collector struct {
	WalkTimeout time.Duration
	MaxEntries  int

	log zerolog.Logger
}

// NewCollector returns a collector with default limits.
func NewCollector(log zerolog.Logger) *Collector {
	return &Collector{
		WalkTimeout: DefaultWalkTimeout,
		MaxEntries:  DefaultMaxEntries,
		log:         log,
	}
}

// WalkColumn walks one table column (e.g. ifDescr) and returns an
// index -> decoded value map. On timeout the partial map collected so far is
// returned without error: a partial interface inventory beats none. The
// session is closed exactly once on every path.
func (c *Collector) WalkColumn(ctx context.Context, profile *types.DeviceProfile, oid string) (map[int]string, error) {
	session, err := NewSession(profile)
	if err != nil {
		return nil, err
	}
	guard := NewCloseOnce(session)
	defer guard.Close()

	var (
		mu      sync.Mutex
		results = make(map[int]string)
	)

	base := strings.TrimPrefix(oid, ".")
	maxEntries := c.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	walkDone := make(chan error, 1)
	go func() {
		walkDone <- session.Walk(oid, func(pdu gosnmp.SnmpPDU) error {
			index, ok := indexFromOID(pdu.Name, base)
			if !ok {
				return nil
			}
			value, ok := DecodeValue(pdu)
			if !ok {
				// noSuchObject / noSuchInstance varbinds are dropped
				// per-varbind, not fatal to the walk.
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			results[index] = value
			if len(results) >= maxEntries {
				return errTruncated
			}
			return nil
		})
	}()

	walkTimeout := c.WalkTimeout
	if walkTimeout <= 0 {
		walkTimeout = DefaultWalkTimeout
	}
	timer := time.NewTimer(walkTimeout)
	defer timer.Stop()

	snapshot := func() map[int]string {
		mu.Lock()
		defer mu.Unlock()
		out := make(map[int]string, len(results))
		for k, v := range results {
			out[k] = v
		}
		return out
	}

	select {
	case err := <-walkDone:
		guard.Close()
		partial := snapshot()
		if err != nil && !errors.Is(err, errTruncated) {
			if len(partial) == 0 {
				return nil, fmt.Errorf("SNMP walk of %s failed: %w", oid, err)
			}
			c.log.Warn().Str("oid", oid).Err(err).Int("entries", len(partial)).
				Msg("walk ended early, keeping partial column")
		}
		return partial, nil
	case <-timer.C:
		// Closing the socket unblocks the walker goroutine.
		guard.Close()
		partial := snapshot()
		c.log.Warn().Str("oid", oid).Str("device", profile.Address).
			Int("entries", len(partial)).Msg("walk deadline hit, returning partial column")
		return partial, nil
	case <-ctx.Done():
		guard.Close()
		return snapshot(), nil
	}
}

// GetScalar performs a single GET for a scalar OID (sysDescr, ifNumber, a
// fully-instanced optical value). Bytes decode to UTF-8 strings, numeric
// types render in base 10. The call is bounded by the profile timeout plus a
// fixed grace margin.
func (c *Collector) GetScalar(ctx context.Context, profile *types.DeviceProfile, oid string) (string, error) {
	session, err := NewSession(profile)
	if err != nil {
		return "", err
	}
	guard := NewCloseOnce(session)
	defer guard.Close()

	type getResult struct {
		value string
		err   error
	}

	resultCh := make(chan getResult, 1)
	go func() {
		packet, err := session.Get([]string{oid})
		if err != nil {
			resultCh <- getResult{err: fmt.Errorf("SNMP GET %s failed: %w", oid, err)}
			return
		}
		for _, pdu := range packet.Variables {
			if value, ok := DecodeValue(pdu); ok {
				resultCh <- getResult{value: value}
				return
			}
		}
		resultCh <- getResult{err: fmt.Errorf("%s: %w", oid, types.ErrNotFound)}
	}()

	timer := time.NewTimer(profile.EffectiveTimeout()*time.Duration(maxInt(profile.Retries, 1)+1) + Grace)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		guard.Close()
		return res.value, res.err
	case <-timer.C:
		guard.Close()
		return "", fmt.Errorf("SNMP GET %s: %w", oid, types.ErrSessionTimeout)
	case <-ctx.Done():
		guard.Close()
		return "", ctx.Err()
	}
}

// DecodeValue renders a varbind as a string. The second return is false for
// exception varbinds and unsupported types.
func DecodeValue(pdu gosnmp.SnmpPDU) (string, bool) {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return "", false
	case gosnmp.OctetString:
		bytes, ok := pdu.Value.([]byte)
		if !ok {
			return "", false
		}
		return string(bytes), true
	case gosnmp.ObjectIdentifier, gosnmp.IPAddress:
		s, ok := pdu.Value.(string)
		return s, ok
	default:
		return strconv.FormatInt(gosnmp.ToBigInt(pdu.Value).Int64(), 10), true
	}
}

// indexFromOID extracts the trailing instance of a column OID as an integer
// index. Multi-part instances (rare for the tables polled here) keep their
// last component.
func indexFromOID(name, base string) (int, bool) {
	suffix := strings.TrimPrefix(name, ".")
	suffix = strings.TrimPrefix(suffix, base)
	suffix = strings.TrimPrefix(suffix, ".")
	if suffix == "" {
		return 0, false
	}
	if i := strings.LastIndex(suffix, "."); i >= 0 {
		suffix = suffix[i+1:]
	}
	index, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return index, true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
