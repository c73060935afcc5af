package angle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func congruent(a, b float64) bool {
	d := math.Mod(a-b, TwoPi)
	if d < 0 {
		d += TwoPi
	}
	return d < 1e-9 || TwoPi-d < 1e-9
}

func TestToSignedRange(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{TwoPi, 0},
		{5 * TwoPi, 0},
		{-7*TwoPi + 0.25, 0.25},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, ToSignedRange(c.in), 1e-9, "ToSignedRange(%v)", c.in)
	}
}

func TestToUnsignedRange(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{TwoPi, 0},
		{-TwoPi, 0},
		{7*TwoPi + 1, 1},
		{-1e-18, 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, ToUnsignedRange(c.in), 1e-9, "ToUnsignedRange(%v)", c.in)
	}
}

func TestRangesHoldForRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		a := (rng.Float64() - 0.5) * 1000
		s := ToSignedRange(a)
		if s <= -math.Pi || s > math.Pi {
			t.Fatalf("ToSignedRange(%v) = %v out of (-pi, pi]", a, s)
		}
		u := ToUnsignedRange(a)
		if u < 0 || u >= TwoPi {
			t.Fatalf("ToUnsignedRange(%v) = %v out of [0, 2pi)", a, u)
		}
	}
}

func TestRoundTripIsCongruent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		a := (rng.Float64() - 0.5) * 200
		if !congruent(ToSignedRange(ToUnsignedRange(a)), a) {
			t.Errorf("signed(unsigned(%v)) not congruent", a)
		}
		if !congruent(ToUnsignedRange(ToSignedRange(a)), a) {
			t.Errorf("unsigned(signed(%v)) not congruent", a)
		}
	}
}

func TestWithinArcSweep(t *testing.T) {
	step := math.Pi / 180
	for start := -math.Pi; start < math.Pi; start += step {
		rng := math.Pi / 2
		for a := start; a < start+rng; a += step {
			if !WithinArc(a, start, rng, 0.01) {
				t.Fatalf("angle=%v start=%v range=%v reported outside", Rad2Deg(a), Rad2Deg(start), Rad2Deg(rng))
			}
		}
	}
}

func TestWithinArcAcrossSeam(t *testing.T) {
	start := math.Pi - 0.01
	rng := 0.2

	assert.True(t, WithinArc(-math.Pi+0.05, start, rng, 0))
	assert.True(t, WithinArc(math.Pi, start, rng, 0))
	assert.True(t, WithinArc(start+TwoPi*3, start, rng, 1e-9))
	assert.False(t, WithinArc(0, start, rng, 0))
	assert.False(t, WithinArc(-math.Pi+0.3, start, rng, 0))
}

func TestWithinArcEpsilon(t *testing.T) {
	assert.False(t, WithinArc(-0.05, 0, 1, 0))
	assert.True(t, WithinArc(-0.05, 0, 1, 0.1))
	assert.True(t, WithinArc(1.05, 0, 1, 0.1))
	assert.True(t, WithinArc(3, 0, TwoPi, 0), "full circle contains everything")
}

func TestDiff(t *testing.T) {
	assert.InDelta(t, 0.2, Diff(-math.Pi+0.1, math.Pi-0.1), 1e-9)
	assert.InDelta(t, -0.2, Diff(math.Pi-0.1, -math.Pi+0.1), 1e-9)
}

func TestNaNIsReportedAsInvariant(t *testing.T) {
	l, hook := test.NewNullLogger()
	SetLogger(l)
	defer SetLogger(nil)

	ToSignedRange(math.NaN())
	ToUnsignedRange(math.Inf(1))

	if len(hook.Entries) != 2 {
		t.Fatalf("Expected 2 invariant reports, got %d", len(hook.Entries))
	}
	for _, e := range hook.Entries {
		if e.Level != logrus.ErrorLevel {
			t.Errorf("Expected error level, got %v", e.Level)
		}
		if e.Data["invariant"] != true {
			t.Errorf("Expected invariant field, got %v", e.Data)
		}
	}
}

func TestValidInputLogsNothing(t *testing.T) {
	l, hook := test.NewNullLogger()
	SetLogger(l)
	defer SetLogger(nil)

	for a := -20.0; a < 20; a += 0.37 {
		ToSignedRange(a)
		ToUnsignedRange(a)
	}
	if len(hook.Entries) != 0 {
		t.Errorf("Expected no reports, got %d", len(hook.Entries))
	}
}
