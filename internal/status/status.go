// Package status provides a thread-safe status tracker for the toggle-button daemon.
// It is read by HTTP handlers and used to build MQTT status payloads.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/toggle-button/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	Pin         int
	ActiveLevel string // "HIGH" or "LOW"
	Pull        string
	Backend     string
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	Topic       string // events topic, used by the live page
	HTTPPort    string
	WSBroker    string // Websocket broker URL for browser MQTT (empty = disabled)
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Level         logic.Level // confirmed level; meaningful when Baselined
	Toggle        logic.State
	Baselined     bool
	Counts        logic.EventCounts
	ReadErrors    int
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// LevelString returns the confirmed level, or UNKNOWN before baseline.
func (s Snapshot) LevelString() string {
	if !s.Baselined {
		return "UNKNOWN"
	}
	return s.Level.String()
}

// ToggleString returns the toggle state, or UNKNOWN before baseline.
func (s Snapshot) ToggleString() string {
	if !s.Baselined || s.Toggle == "" {
		return "UNKNOWN"
	}
	return string(s.Toggle)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets button state, baseline status, and event counts.
// Called from runLoop on every tick.
func (t *Tracker) Update(level logic.Level, toggle logic.State, baselined bool, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Level = level
	t.snap.Toggle = toggle
	t.snap.Baselined = baselined
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetReadErrors sets the number of failed GPIO reads.
func (t *Tracker) SetReadErrors(n int) {
	t.mu.Lock()
	t.snap.ReadErrors = n
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
