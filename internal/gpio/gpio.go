// Package gpio provides digital input reading with hardware abstraction.
// The real implementations use the Linux GPIO character device (gpiocdev)
// or /dev/gpiomem (rpio). The fake implementation allows testing without
// hardware.
package gpio

import (
	"fmt"
	"strings"

	"github.com/sweeney/toggle-button/internal/logic"
)

// Reader reads instantaneous pin levels.
type Reader interface {
	// Read returns the raw level of pin (1 = High).
	Read(pin int) (logic.Level, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultPin is the BCM pin the button is wired to.
const DefaultPin = 17

// DefaultChip is the gpiochip holding the Raspberry Pi header pins.
const DefaultChip = "gpiochip0"

// Pull selects the input bias.
type Pull int

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

func (p Pull) String() string {
	switch p {
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	default:
		return "none"
	}
}

// ParsePull accepts "up", "down" or "none".
func ParsePull(s string) (Pull, error) {
	switch strings.ToLower(s) {
	case "up":
		return PullUp, nil
	case "down":
		return PullDown, nil
	case "none", "off", "":
		return PullNone, nil
	}
	return PullNone, fmt.Errorf("invalid pull %q (want up, down or none)", s)
}
