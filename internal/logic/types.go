// Package logic contains the pure debounce and toggle logic for a push-button.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// The pin read and the clock are injected, so every behaviour can be driven
// from scripted levels and timestamps.
package logic

import (
	"fmt"
	"strings"
	"time"
)

// Level is the instantaneous logic level of a digital input.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

// ParseLevel accepts "high"/"low" (any case) and "1"/"0".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "1":
		return High, nil
	case "low", "0":
		return Low, nil
	}
	return Low, fmt.Errorf("invalid level %q (want high or low)", s)
}

// LevelReader samples the instantaneous level of a pin.
// Implementations must not block and must always return a level.
type LevelReader interface {
	ReadLevel(pin int) Level
}

// LevelReaderFunc adapts a function to LevelReader.
type LevelReaderFunc func(pin int) Level

// ReadLevel calls f(pin).
func (f LevelReaderFunc) ReadLevel(pin int) Level {
	return f(pin)
}

// Clock is a monotonic microsecond clock.
type Clock interface {
	NowMicros() uint64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() uint64

// NowMicros calls f().
func (f ClockFunc) NowMicros() uint64 {
	return f()
}

// SinceClock returns a Clock counting microseconds elapsed since start,
// as reported by now. With now = time.Now the monotonic reading is used.
func SinceClock(start time.Time, now func() time.Time) Clock {
	return ClockFunc(func() uint64 {
		return uint64(now().Sub(start) / time.Microsecond)
	})
}

// State represents the on/off state of the toggle output.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// EventType represents an observed transition.
type EventType string

const (
	EventPressed   EventType = "PRESSED"
	EventReleased  EventType = "RELEASED"
	EventToggleOn  EventType = "TOGGLE_ON"
	EventToggleOff EventType = "TOGGLE_OFF"
)

// Event represents a transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Pin       int
	Level     Level // confirmed level after the transition
	Toggle    State // toggle output after the transition
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Pressed   int
	Released  int
	ToggleOn  int
	ToggleOff int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}

func boolToState(b bool) State {
	if b {
		return StateOn
	}
	return StateOff
}
