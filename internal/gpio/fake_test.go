package gpio

import (
	"errors"
	"testing"

	"github.com/sweeney/toggle-button/internal/logic"
)

func TestFakeReaderRead(t *testing.T) {
	f := NewFakeReader([]logic.Level{logic.High, logic.Low, logic.High})

	want := []logic.Level{logic.High, logic.Low, logic.High, logic.High}
	for i, w := range want {
		got, err := f.Read(4)
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("sample %d: expected %s, got %s", i, w, got)
		}
	}

	if len(f.Pins) != 4 {
		t.Fatalf("expected 4 recorded reads, got %d", len(f.Pins))
	}
	for i, p := range f.Pins {
		if p != 4 {
			t.Errorf("read %d: pin %d, want 4", i, p)
		}
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	_, err := f.Read(4)
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]logic.Level{logic.High})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read(4)
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderClose(t *testing.T) {
	f := NewFakeReader([]logic.Level{logic.High})

	if f.Closed {
		t.Error("should not be closed initially")
	}

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewFakeReader([]logic.Level{logic.High, logic.Low})

	f.Read(4)
	f.Reset()

	got, _ := f.Read(4)
	if got != logic.High {
		t.Errorf("after reset: expected HIGH, got %s", got)
	}
	if len(f.Pins) != 1 {
		t.Errorf("after reset: expected 1 recorded read, got %d", len(f.Pins))
	}
}
