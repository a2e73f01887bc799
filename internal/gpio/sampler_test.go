package gpio

import (
	"errors"
	"testing"

	"github.com/sweeney/toggle-button/internal/logic"
)

// flakyReader fails reads whose index is in fail.
type flakyReader struct {
	inner *FakeReader
	call  int
	fail  map[int]bool
}

func (f *flakyReader) Read(pin int) (logic.Level, error) {
	i := f.call
	f.call++
	lvl, err := f.inner.Read(pin)
	if f.fail[i] {
		return logic.Low, errors.New("simulated read failure")
	}
	return lvl, err
}

func (f *flakyReader) Close() error { return f.inner.Close() }

func TestSamplerPassesLevels(t *testing.T) {
	s := NewSampler(NewFakeReader([]logic.Level{logic.Low, logic.High, logic.Low}))

	want := []logic.Level{logic.Low, logic.High, logic.Low}
	for i, w := range want {
		if got := s.ReadLevel(9); got != w {
			t.Errorf("read %d: got %s, want %s", i, got, w)
		}
	}
	if s.Errors() != 0 {
		t.Errorf("expected 0 errors, got %d", s.Errors())
	}
}

func TestSamplerRepeatsLastGoodLevelOnError(t *testing.T) {
	r := &flakyReader{
		inner: NewFakeReader([]logic.Level{logic.High, logic.Low, logic.Low, logic.Low}),
		fail:  map[int]bool{1: true, 2: true},
	}
	s := NewSampler(r)

	want := []logic.Level{logic.High, logic.High, logic.High, logic.Low}
	for i, w := range want {
		if got := s.ReadLevel(9); got != w {
			t.Errorf("read %d: got %s, want %s", i, got, w)
		}
	}
	if s.Errors() != 2 {
		t.Errorf("expected 2 errors, got %d", s.Errors())
	}
}

func TestSamplerErrorBeforeFirstGoodRead(t *testing.T) {
	f := NewFakeReader([]logic.Level{logic.High})
	f.ReadError = errors.New("boom")
	s := NewSampler(f)

	if got := s.ReadLevel(9); got != logic.Low {
		t.Errorf("got %s, want LOW", got)
	}
	if s.Errors() != 1 {
		t.Errorf("expected 1 error, got %d", s.Errors())
	}
	if s.Ready(9) {
		t.Error("sampler must not be ready before a good read")
	}
}

func TestSamplerReadyAfterFirstGoodRead(t *testing.T) {
	r := &flakyReader{
		inner: NewFakeReader([]logic.Level{logic.High}),
		fail:  map[int]bool{0: true, 1: true, 2: true},
	}
	s := NewSampler(r)

	for i := 0; i < 3; i++ {
		s.ReadLevel(9)
		if s.Ready(9) {
			t.Fatalf("read %d: ready after a failed read", i)
		}
	}
	if got := s.ReadLevel(9); got != logic.High {
		t.Errorf("got %s, want HIGH", got)
	}
	if !s.Ready(9) {
		t.Error("expected ready after a good read")
	}
	if s.Ready(10) {
		t.Error("readiness is per pin")
	}
}

func TestSamplerSatisfiesLevelReader(t *testing.T) {
	var _ logic.LevelReader = NewSampler(NewFakeReader(nil))
}

func TestParsePull(t *testing.T) {
	tests := []struct {
		in      string
		want    Pull
		wantErr bool
	}{
		{"up", PullUp, false},
		{"DOWN", PullDown, false},
		{"none", PullNone, false},
		{"", PullNone, false},
		{"sideways", PullNone, true},
	}
	for _, tt := range tests {
		got, err := ParsePull(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: err %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.in, got, tt.want)
		}
	}
}
