//go:build linux

package gpio

import (
	"testing"

	"github.com/warthog618/go-gpiocdev"
)

func TestBias(t *testing.T) {
	tests := []struct {
		pull Pull
		want gpiocdev.LineBias
	}{
		{PullUp, gpiocdev.WithPullUp},
		{PullDown, gpiocdev.WithPullDown},
		{PullNone, gpiocdev.WithBiasDisabled},
	}
	for _, tt := range tests {
		if got := bias(tt.pull); got != tt.want {
			t.Errorf("bias(%s): got %v, want %v", tt.pull, got, tt.want)
		}
	}
}
