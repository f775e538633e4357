package diagnosis

import (
	"sync"
	"time"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// DefaultCacheTTL keeps a device's alarm list warm long enough for a batch
// of per-link diagnoses without masking fresh alarms.
const DefaultCacheTTL = 60 * time.Second

// alarmCache memoizes the all-alarms output per device so diagnosing N links
// on one OLT costs one CLI round-trip, not N. The clock is injectable for
// tests. This is the only cross-request shared state in the whole engine.
type alarmCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	fetchedAt time.Time
	alarms    []types.AlarmRecord
	raw       string
}

func newAlarmCache(ttl time.Duration, now func() time.Time) *alarmCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &alarmCache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

func (c *alarmCache) get(deviceID string) ([]types.AlarmRecord, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[deviceID]
	if !ok || c.now().Sub(entry.fetchedAt) > c.ttl {
		return nil, "", false
	}
	return entry.alarms, entry.raw, true
}

func (c *alarmCache) put(deviceID string, alarms []types.AlarmRecord, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[deviceID] = cacheEntry{fetchedAt: c.now(), alarms: alarms, raw: raw}
}
