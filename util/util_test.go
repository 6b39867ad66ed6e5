package util

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/fogleman/ease"
	"github.com/google/go-cmp/cmp"
)

func TestGenerateLut(t *testing.T) {
	got := GenerateLut(5, func(x float64) float64 { return x * x })
	want := Lut{0, 0.0625, 0.25, 0.5625, 1}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected table:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}

	short := GenerateLut(0, nil)
	if len(short) != 2 {
		t.Errorf("unexpected length of short table: got:%d want:2", len(short))
	}
}

func TestLutAt(t *testing.T) {
	lut := GenerateLut(64, nil)
	for _, x := range []float64{-1, 0, 1, 2} {
		want := math.Max(0, math.Min(1, x))
		if got := lut.At(x); got != want {
			t.Errorf("unexpected value at %v: got:%v want:%v", x, got, want)
		}
	}
	for i := 0; i <= 100; i++ {
		x := float64(i) / 100
		got := lut.At(x)
		want := ease.InOutQuad(x)
		if math.Abs(got-want) > 1e-3 {
			t.Errorf("unexpected value at %v: got:%v want:%v", x, got, want)
		}
	}
	if got := Lut(nil).At(0.3); got != 0.3 {
		t.Errorf("unexpected value from empty table: got:%v want:0.3", got)
	}
}

func TestMemoizer(t *testing.T) {
	var m Memoizer
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lut(12 + 2*(i%4))
		}()
	}
	wg.Wait()
	if got := m.Len(); got != 4 {
		t.Errorf("unexpected number of cached tables: got:%d want:4", got)
	}
	a := m.Lut(12)
	b := m.Lut(12)
	if &a[0] != &b[0] {
		t.Error("expected cached table to be reused")
	}
}

func TestNewMemoizer(t *testing.T) {
	m := NewMemoizer(ease.OutQuad)
	got := m.Lut(8)
	want := GenerateLut(8, ease.OutQuad)
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected table:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}
	if cmp.Equal(got, GenerateLut(8, nil)) {
		t.Error("expected table from the memoizer's function, not the default")
	}
}

func TestRandomRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		if v := RandomRange(0.2, 0.4); v < 0.2 || v >= 0.4 {
			t.Fatalf("value out of range: %v", v)
		}
		if v := RandomIntRange(3, 5); v < 3 || v > 5 {
			t.Fatalf("value out of range: %v", v)
		}
	}
	if v := RandomIntRange(7, 7); v != 7 {
		t.Errorf("unexpected value for empty range: %v", v)
	}
}

func TestGoID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(GoID{slog.NewTextHandler(&buf, nil)}).With(slog.String("component", "test"))
	log.Info("message")
	got := buf.String()
	for _, want := range []string{"goid=", "component=test", "msg=message"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in log output: %s", want, got)
		}
	}
}
