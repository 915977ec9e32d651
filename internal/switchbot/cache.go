package switchbot

import (
	"sync"
	"time"
)

// SessionCache decides whether a previous login and device lookup may be
// reused by the next clean cycle. The observed vendor-app behavior re-derives
// both on every command, so NoCache is the default.
type SessionCache interface {
	Get() (*Session, DeviceRef, bool)
	Put(session *Session, device DeviceRef)
	Invalidate()
}

// NoCache re-authenticates and re-resolves on every cycle.
type NoCache struct{}

func (NoCache) Get() (*Session, DeviceRef, bool) { return nil, DeviceRef{}, false }
func (NoCache) Put(*Session, DeviceRef)          {}
func (NoCache) Invalidate()                      {}

// TimeBoundCache reuses a session and device reference within a TTL. Vendor-
// side token expiry is not tracked; a stale token shows up as a failed call
// and the caller invalidates.
type TimeBoundCache struct {
	ttl time.Duration

	mu       sync.Mutex
	session  *Session
	device   DeviceRef
	storedAt time.Time
}

func NewTimeBoundCache(ttl time.Duration) *TimeBoundCache {
	return &TimeBoundCache{ttl: ttl}
}

func (c *TimeBoundCache) Get() (*Session, DeviceRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || time.Since(c.storedAt) > c.ttl {
		return nil, DeviceRef{}, false
	}
	return c.session, c.device, true
}

func (c *TimeBoundCache) Put(session *Session, device DeviceRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.device = device
	c.storedAt = time.Now()
}

func (c *TimeBoundCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.device = DeviceRef{}
}
