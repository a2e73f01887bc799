package logic

import "time"

// Monitor drives a Toggle from a poll loop and reports what changed.
type Monitor struct {
	toggle        *Toggle
	baselined     bool
	level         Level
	value         bool
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewMonitor creates a Monitor for t.
// The startTime is used for calculating uptime in heartbeat events.
func NewMonitor(t *Toggle, startTime time.Time) *Monitor {
	return &Monitor{
		toggle:        t,
		value:         t.Get(),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Poll calls Update once and returns any events that should be emitted.
// Events are only returned after baseline is established. When a press flips
// the toggle, PRESSED comes before TOGGLE_ON/TOGGLE_OFF.
func (m *Monitor) Poll(now time.Time) []Event {
	m.toggle.Update()

	level, ok := m.toggle.Confirmed()
	value := m.toggle.Get()

	if !m.baselined {
		if ok {
			m.baselined = true
			m.level = level
			m.value = value
		}
		return nil // No events until baseline established
	}

	var events []Event

	if level != m.level {
		typ := EventReleased
		if level == m.toggle.Active() {
			typ = EventPressed
		}
		events = append(events, m.event(now, typ, level, value))
		m.level = level
	}

	if value != m.value {
		typ := EventToggleOff
		if value {
			typ = EventToggleOn
		}
		events = append(events, m.event(now, typ, level, value))
		m.value = value
	}

	for _, e := range events {
		switch e.Type {
		case EventPressed:
			m.eventCounts.Pressed++
		case EventReleased:
			m.eventCounts.Released++
		case EventToggleOn:
			m.eventCounts.ToggleOn++
		case EventToggleOff:
			m.eventCounts.ToggleOff++
		}
	}

	return events
}

func (m *Monitor) event(now time.Time, typ EventType, level Level, value bool) Event {
	return Event{
		Timestamp: now,
		Type:      typ,
		Pin:       m.toggle.Pin,
		Level:     level,
		Toggle:    boolToState(value),
	}
}

// IsBaselined returns whether the monitor has established a baseline.
func (m *Monitor) IsBaselined() bool {
	return m.baselined
}

// CurrentState returns the confirmed level and toggle state.
// Both are meaningful only once IsBaselined is true.
func (m *Monitor) CurrentState() (Level, State) {
	return m.level, boolToState(m.value)
}

// EventCountsSnapshot returns a copy of the event counters.
func (m *Monitor) EventCountsSnapshot() EventCounts {
	return m.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if not yet baselined, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (m *Monitor) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if !m.baselined {
		return nil
	}

	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		Counts:    m.eventCounts,
	}
}
