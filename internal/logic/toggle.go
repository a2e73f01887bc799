package logic

import "time"

// Toggle turns a bouncing push-button input into a clean on/off flag.
//
// Each Update samples the pin once. Any change in the raw sample restarts the
// quiet-period timer, so a new level is only confirmed after it has been held
// continuously for longer than Quiet. The output flips once per confirmed
// transition into the active level; transitions out of it leave the output
// alone. The first Update takes the sampled level as the starting point
// without flipping.
//
// The zero value is usable once Configure has been called. A Toggle is not
// safe for concurrent use and owns its pin exclusively.
type Toggle struct {
	Pin   int
	Quiet time.Duration
	// ActiveLow selects Low as the level that flips the output.
	// The zero value means High is active.
	ActiveLow bool

	reader LevelReader
	clock  Clock

	prev       Level  // sample from the previous Update
	sampled    bool   // prev holds a real sample
	confirmed  Level  // debounced hardware level
	baselined  bool   // confirmed holds a real level (set by the first Update)
	lastChange uint64 // µs timestamp of the last raw change
	value      bool
}

// New creates a Toggle bound to pin with the given quiet period.
func New(pin int, quiet time.Duration, reader LevelReader, clock Clock) *Toggle {
	t := &Toggle{}
	t.Configure(pin, quiet, reader, clock)
	return t
}

// Configure binds the pin, quiet period and platform services. It does not
// touch the debounce state.
func (t *Toggle) Configure(pin int, quiet time.Duration, reader LevelReader, clock Clock) {
	t.Pin = pin
	t.Quiet = quiet
	t.reader = reader
	t.clock = clock
}

// Update samples the pin and advances the debounce state machine.
// It never blocks. On an unconfigured Toggle it does nothing.
func (t *Toggle) Update() {
	if t.reader == nil || t.clock == nil {
		return
	}

	reading := t.reader.ReadLevel(t.Pin)
	now := t.clock.NowMicros()

	if !t.sampled {
		// First sample is the starting point, not a press.
		t.prev = reading
		t.confirmed = reading
		t.sampled = true
		t.baselined = true
		t.lastChange = now
		return
	}

	if reading != t.prev {
		t.lastChange = now
	}

	if now-t.lastChange > t.quietMicros() && reading != t.confirmed {
		t.confirmed = reading
		if reading == t.Active() {
			t.value = !t.value
		}
	}

	t.prev = reading
}

// quietMicros returns the quiet period in microseconds. Negative periods
// count as zero.
func (t *Toggle) quietMicros() uint64 {
	if t.Quiet < 0 {
		return 0
	}
	return uint64(t.Quiet / time.Microsecond)
}

// Get returns the toggle output.
func (t *Toggle) Get() bool {
	return t.value
}

// Active returns the level that flips the output.
func (t *Toggle) Active() Level {
	if t.ActiveLow {
		return Low
	}
	return High
}

// Confirmed returns the debounced level. ok is false until the first Update.
func (t *Toggle) Confirmed() (level Level, ok bool) {
	return t.confirmed, t.baselined
}

// Baselined reports whether a starting level has been taken.
func (t *Toggle) Baselined() bool {
	return t.baselined
}
