package gpio

import (
	"log"

	"github.com/sweeney/toggle-button/internal/logic"
)

// Sampler adapts a Reader to logic.LevelReader.
// A failed read is logged and the pin's last good level is returned instead,
// so a read error never shows up as an edge. Not safe for concurrent use.
type Sampler struct {
	r      Reader
	last   map[int]logic.Level
	errors int
	failed bool // last read failed; suppresses repeated log lines
}

// NewSampler wraps r.
func NewSampler(r Reader) *Sampler {
	return &Sampler{r: r, last: make(map[int]logic.Level)}
}

// ReadLevel returns the level of pin, or the last good level if the read
// fails (Low if there has never been a good read).
func (s *Sampler) ReadLevel(pin int) logic.Level {
	lvl, err := s.r.Read(pin)
	if err != nil {
		s.errors++
		if !s.failed {
			log.Printf("gpio read error: %v", err)
			s.failed = true
		}
		return s.last[pin]
	}
	if s.failed {
		log.Printf("gpio: reads recovered after %d errors", s.errors)
		s.failed = false
	}
	s.last[pin] = lvl
	return lvl
}

// Ready reports whether pin has had at least one good read. Until then
// ReadLevel has no real level to fall back on.
func (s *Sampler) Ready(pin int) bool {
	_, ok := s.last[pin]
	return ok
}

// Errors returns the number of failed reads since creation.
func (s *Sampler) Errors() int {
	return s.errors
}
