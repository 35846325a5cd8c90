// ABOUTME: Holds the latest dashboard published by the background refresher
// ABOUTME: Writes through the API invalidate it and kick off a fresh computation
package web

import (
	"sync"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
)

// DashboardCache is safe for concurrent use. A nil *DashboardCache never
// has a dashboard.
type DashboardCache struct {
	mu      sync.RWMutex
	latest  analytics.Dashboard
	ok      bool
	trigger func()
}

func NewDashboardCache() *DashboardCache {
	return &DashboardCache{}
}

// OnInvalidate registers fn to run after every invalidation, typically a
// refresher trigger.
func (c *DashboardCache) OnInvalidate(fn func()) {
	c.mu.Lock()
	c.trigger = fn
	c.mu.Unlock()
}

// Publish is a crm.Refresher publish callback. Failed refreshes keep the
// previous dashboard.
func (c *DashboardCache) Publish(r crm.RefreshResult) {
	if r.Err != nil {
		return
	}
	c.mu.Lock()
	c.latest = r.Dashboard
	c.ok = true
	c.mu.Unlock()
}

// Latest returns the cached dashboard when it was computed for window.
func (c *DashboardCache) Latest(window analytics.Window) (analytics.Dashboard, bool) {
	if c == nil {
		return analytics.Dashboard{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ok || c.latest.Window != window {
		return analytics.Dashboard{}, false
	}
	return c.latest, true
}

func (c *DashboardCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.ok = false
	trigger := c.trigger
	c.mu.Unlock()
	if trigger != nil {
		trigger()
	}
}
