package world

import (
	"testing"

	"github.com/babylon-sim/babylon/sim/society"
)

func newWorld() *World {
	return New(society.NewEconomy(0.4, 0.1, 0.02), society.NewPolitics(0.7, 0.3))
}

func TestWorld_IndicatorRoundTrip(t *testing.T) {
	w := newWorld()

	tests := []struct {
		name  string
		value float64
	}{
		{IndicatorGini, 0.55},
		{IndicatorUnemployment, 0.12},
		{IndicatorGrowth, -0.03},
		{IndicatorStability, 0.42},
		{IndicatorRepression, 0.66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !w.SetIndicator(tt.name, tt.value) {
				t.Fatalf("SetIndicator(%q) returned false", tt.name)
			}
			got, ok := w.Indicator(tt.name)
			if !ok || got != tt.value {
				t.Errorf("Indicator(%q) = %v, %v; want %v, true", tt.name, got, ok, tt.value)
			}
		})
	}
}

func TestWorld_UnknownIndicator(t *testing.T) {
	w := newWorld()

	if _, ok := w.Indicator("happiness"); ok {
		t.Error("Indicator accepted unknown name")
	}
	if w.SetIndicator("happiness", 0.5) {
		t.Error("SetIndicator accepted unknown name")
	}
	if w.AdjustIndicator("happiness", 0.1) {
		t.Error("AdjustIndicator accepted unknown name")
	}
}

func TestWorld_SetIndicatorClamps(t *testing.T) {
	w := newWorld()

	w.SetIndicator(IndicatorGini, 2.0)
	if got, _ := w.Indicator(IndicatorGini); got != 0.8 {
		t.Errorf("gini = %v, want clamped to 0.8", got)
	}
	w.SetIndicator(IndicatorStability, -1.0)
	if got, _ := w.Indicator(IndicatorStability); got != 0.0 {
		t.Errorf("stability = %v, want clamped to 0.0", got)
	}
}

func TestWorld_AdjustIndicator(t *testing.T) {
	w := newWorld()

	w.SetIndicator(IndicatorStability, 0.5)
	w.AdjustIndicator(IndicatorStability, -0.2)
	got, _ := w.Indicator(IndicatorStability)
	if got < 0.299 || got > 0.301 {
		t.Errorf("stability = %v, want 0.3", got)
	}
}

func TestWorld_AttributeAccess(t *testing.T) {
	w := newWorld()
	w.Registry.CreateWithID("working_class", "class", "Oppressed")

	// Defaults are present on creation.
	if v, ok := w.Attribute("working_class", "wealth"); !ok || v != 1.0 {
		t.Errorf("default wealth = %v, %v; want 1.0, true", v, ok)
	}

	if !w.SetAttribute("working_class", "militancy", 0.9) {
		t.Fatal("SetAttribute failed for live entity")
	}
	if v, ok := w.Attribute("working_class", "militancy"); !ok || v != 0.9 {
		t.Errorf("militancy = %v, %v; want 0.9, true", v, ok)
	}

	if w.SetAttribute("nobody", "wealth", 1.0) {
		t.Error("SetAttribute accepted unknown entity")
	}
	if _, ok := w.Attribute("nobody", "wealth"); ok {
		t.Error("Attribute accepted unknown entity")
	}
}
