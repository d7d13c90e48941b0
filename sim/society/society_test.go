package society

import (
	"math/rand"
	"testing"
)

func TestNewEconomy_ClampsInputs(t *testing.T) {
	tests := []struct {
		name                       string
		gini, unemployment, growth float64
		wantG, wantU, wantGr       float64
	}{
		{"in range", 0.4, 0.1, 0.02, 0.4, 0.1, 0.02},
		{"all below floor", 0.0, -1, -5, 0.2, 0.01, -0.10},
		{"all above ceiling", 1.5, 0.9, 0.5, 0.8, 0.40, 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEconomy(tt.gini, tt.unemployment, tt.growth)
			if e.Gini != tt.wantG || e.Unemployment != tt.wantU || e.Growth != tt.wantGr {
				t.Errorf("got %+v, want gini=%v unemp=%v growth=%v", e, tt.wantG, tt.wantU, tt.wantGr)
			}
		})
	}
}

func TestEconomy_UpdateStaysInRange(t *testing.T) {
	e := NewEconomy(0.5, 0.1, 0.0)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		e.Update(rng)
		if e.Gini < 0.2 || e.Gini > 0.8 {
			t.Fatalf("tick %d: gini %v out of range", i, e.Gini)
		}
		if e.Unemployment < 0.01 || e.Unemployment > 0.40 {
			t.Fatalf("tick %d: unemployment %v out of range", i, e.Unemployment)
		}
		if e.Growth < -0.10 || e.Growth > 0.15 {
			t.Fatalf("tick %d: growth %v out of range", i, e.Growth)
		}
	}
}

func TestEconomy_UpdateDeterministic(t *testing.T) {
	e1 := NewEconomy(0.5, 0.1, 0.0)
	e2 := NewEconomy(0.5, 0.1, 0.0)
	r1 := rand.New(rand.NewSource(7))
	r2 := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		e1.Update(r1)
		e2.Update(r2)
	}
	if *e1 != *e2 {
		t.Errorf("same seed diverged: %+v vs %+v", e1, e2)
	}
}

func TestPolitics_StabilityErodesUnderHighUnemployment(t *testing.T) {
	// GIVEN unemployment well above the natural rate
	p := NewPolitics(0.8, 0.2)
	econ := &Economy{Gini: 0.5, Unemployment: 0.35, Growth: -0.05}
	rng := rand.New(rand.NewSource(42))

	start := p.Stability
	for i := 0; i < 200; i++ {
		p.Update(rng, econ)
	}

	// THEN stability trends downward
	if p.Stability >= start {
		t.Errorf("stability rose from %v to %v under mass unemployment", start, p.Stability)
	}
}

func TestPolitics_RepressionRisesWhenUnstable(t *testing.T) {
	p := NewPolitics(0.2, 0.1)
	econ := &Economy{Gini: 0.6, Unemployment: 0.30, Growth: -0.05}
	rng := rand.New(rand.NewSource(42))

	start := p.Repression
	for i := 0; i < 100; i++ {
		p.Update(rng, econ)
	}

	if p.Repression <= start {
		t.Errorf("repression did not rise from %v while stability was low (now %v)", start, p.Repression)
	}
	if p.Repression > 1.0 {
		t.Errorf("repression %v exceeds 1.0", p.Repression)
	}
}

func TestPolitics_FactionSupport(t *testing.T) {
	p := NewPolitics(0.5, 0.5)

	if got := p.Support("jacobins"); got != 0 {
		t.Errorf("unknown faction support = %v, want 0", got)
	}
	p.SetSupport("jacobins", 1.7)
	if got := p.Support("jacobins"); got != 1.0 {
		t.Errorf("support = %v, want clamped to 1.0", got)
	}
}
