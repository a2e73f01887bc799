//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/toggle-button/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(chipName string, pins []int, pull Pull) (*RealReader, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read(pin int) (logic.Level, error) {
	return logic.Low, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}

// RpioReader is not available on non-Linux platforms.
type RpioReader struct{}

// NewRpioReader returns an error on non-Linux platforms.
func NewRpioReader(pins []int, pull Pull) (*RpioReader, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RpioReader) Read(pin int) (logic.Level, error) {
	return logic.Low, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RpioReader) Close() error {
	return nil
}
