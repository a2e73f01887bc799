//go:build linux

package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
	"github.com/sweeney/toggle-button/internal/logic"
)

// RpioReader reads GPIO through memory-mapped /dev/gpiomem.
// Only one RpioReader may be open per process.
type RpioReader struct {
	pins map[int]rpio.Pin
}

// NewRpioReader maps the GPIO registers and configures pins as inputs.
func NewRpioReader(pins []int, pull Pull) (*RpioReader, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpiomem: %w", err)
	}

	r := &RpioReader{pins: make(map[int]rpio.Pin, len(pins))}
	for _, n := range pins {
		pin := rpio.Pin(n)
		pin.Input()
		switch pull {
		case PullUp:
			pin.PullUp()
		case PullDown:
			pin.PullDown()
		default:
			pin.PullOff()
		}
		r.pins[n] = pin
	}
	return r, nil
}

// Read returns the raw level of pin.
func (r *RpioReader) Read(pin int) (logic.Level, error) {
	p, ok := r.pins[pin]
	if !ok {
		return logic.Low, fmt.Errorf("pin %d not configured", pin)
	}
	return logic.Level(p.Read() == rpio.High), nil
}

// Close restores pull-down on every pin and unmaps the registers.
func (r *RpioReader) Close() error {
	for _, p := range r.pins {
		p.PullDown()
	}
	r.pins = nil
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("close gpiomem: %w", err)
	}
	return nil
}
