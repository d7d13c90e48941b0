package dialectics

import (
	"testing"

	"github.com/babylon-sim/babylon/sim/events"
	"github.com/babylon-sim/babylon/sim/society"
	"github.com/babylon-sim/babylon/sim/trace"
	"github.com/babylon-sim/babylon/sim/world"
)

func newClassWorld(gini, unemployment, stability float64) *world.World {
	w := world.New(
		society.NewEconomy(gini, unemployment, 0.0),
		society.NewPolitics(stability, 0.3),
	)
	w.Registry.CreateWithID("upper_class", "class", "Oppressor")
	w.Registry.CreateWithID("working_class", "class", "Oppressed")
	return w
}

func TestContradiction_Bands(t *testing.T) {
	tests := []struct {
		intensity float64
		want      Band
	}{
		{0.0, BandLow},
		{0.33, BandLow},
		{0.34, BandMedium},
		{0.66, BandMedium},
		{0.67, BandHigh},
		{1.0, BandHigh},
	}

	for _, tt := range tests {
		c := &Contradiction{Intensity: tt.intensity}
		if got := c.Band(); got != tt.want {
			t.Errorf("Band(%v) = %v, want %v", tt.intensity, got, tt.want)
		}
	}
}

func TestContradiction_RecordIntensityClamps(t *testing.T) {
	c := &Contradiction{}
	c.RecordIntensity(-0.5)
	c.RecordIntensity(1.5)
	c.RecordIntensity(0.5)

	if c.Intensity != 0.5 {
		t.Errorf("Intensity = %v, want 0.5", c.Intensity)
	}
	want := []float64{0, 1, 0.5}
	for i, v := range want {
		if c.IntensityHistory[i] != v {
			t.Errorf("history[%d] = %v, want %v", i, c.IntensityHistory[i], v)
		}
	}
}

func TestAnalysis_AddRejectsDuplicates(t *testing.T) {
	a := NewAnalysis()

	if err := a.Add(&Contradiction{ID: "c1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := a.Add(&Contradiction{ID: "c1"}); err == nil {
		t.Error("duplicate Add should error")
	}
	if a.Get("c1") == nil {
		t.Error("Get returned nil for registered contradiction")
	}
}

func TestAnalysis_DetectsEconomicInequality(t *testing.T) {
	// GIVEN inequality past the threshold and both class actors present
	w := newClassWorld(0.65, 0.20, 0.4)
	a := NewAnalysis()

	added := a.DetectNew(w, 1)

	if len(added) != 1 || added[0].ID != "economic_inequality" {
		t.Fatalf("added = %v, want [economic_inequality]", added)
	}
	c := added[0]
	if c.State != StateActive || c.Antagonism != Antagonistic {
		t.Errorf("state/antagonism = %v/%v", c.State, c.Antagonism)
	}
	if c.PrincipalAspect.EntityID != "upper_class" || c.SecondaryAspect.EntityID != "working_class" {
		t.Errorf("aspects = %+v / %+v", c.PrincipalAspect, c.SecondaryAspect)
	}
	if c.Intensity <= 0 {
		t.Errorf("intensity = %v, want > 0", c.Intensity)
	}

	// Detection is idempotent: the same rule does not re-add.
	if again := a.DetectNew(w, 2); len(again) != 0 {
		t.Errorf("second detection added %v", again)
	}
}

func TestAnalysis_NoDetectionBelowThresholdOrWithoutActors(t *testing.T) {
	// Below the gini threshold.
	a := NewAnalysis()
	if added := a.DetectNew(newClassWorld(0.45, 0.1, 0.7), 1); len(added) != 0 {
		t.Errorf("detected below threshold: %v", added)
	}

	// High gini but nobody to hang the contradiction on.
	w := world.New(society.NewEconomy(0.7, 0.1, 0.0), society.NewPolitics(0.7, 0.3))
	b := NewAnalysis()
	if added := b.DetectNew(w, 1); len(added) != 0 {
		t.Errorf("detected without class actors: %v", added)
	}
}

func TestAnalysis_ResolutionViaTriggers(t *testing.T) {
	// GIVEN a detected contradiction that resolves when gini drops below 0.35
	w := newClassWorld(0.65, 0.20, 0.4)
	a := NewAnalysis().WithTrace(trace.NewSimulationTrace(trace.Config{Level: trace.LevelDecisions}))
	a.DetectNew(w, 1)

	// WHEN reforms compress inequality
	w.SetIndicator(world.IndicatorGini, 0.30)
	a.Update(w, 2)

	// THEN the contradiction resolves via its first listed method
	c := a.Get("economic_inequality")
	if c.State != StateResolved {
		t.Fatalf("state = %v, want resolved", c.State)
	}
	tr := a.trace
	if len(tr.Resolutions) != 1 || tr.Resolutions[0].Method != "Reform" {
		t.Errorf("resolutions = %+v, want one via Reform", tr.Resolutions)
	}
}

func TestAnalysis_DormancyAndReactivation(t *testing.T) {
	a := NewAnalysis().WithRules(nil) // no detection; drive the seed manually
	c := &Contradiction{
		ID:              "seeded",
		Name:            "Seeded",
		State:           StateActive,
		PrincipalAspect: Aspect{EntityID: "upper_class"},
		SecondaryAspect: Aspect{EntityID: "working_class"},
	}
	if err := a.Add(c); err != nil {
		t.Fatal(err)
	}

	// Three consecutive low-intensity ticks send it dormant.
	calm := newClassWorld(0.25, 0.02, 0.95)
	for i := 0; i < 3; i++ {
		a.Update(calm, int64(i))
	}
	if c.State != StateDormant {
		t.Fatalf("state = %v after calm ticks, want dormant", c.State)
	}

	// Renewed pressure reactivates it.
	tense := newClassWorld(0.75, 0.30, 0.2)
	a.Update(tense, 10)
	if c.State != StateActive {
		t.Errorf("state = %v after pressure, want active", c.State)
	}
}

func TestAnalysis_GenerateEventsOncePerEpisode(t *testing.T) {
	a := NewAnalysis().WithRules(nil)
	c := &Contradiction{
		ID:              "seeded",
		Name:            "Seeded",
		State:           StateActive,
		PrincipalAspect: Aspect{EntityID: "upper_class"},
		SecondaryAspect: Aspect{EntityID: "working_class"},
	}
	if err := a.Add(c); err != nil {
		t.Fatal(err)
	}
	w := newClassWorld(0.75, 0.35, 0.1)

	// High intensity: one unrest event, then silence within the episode.
	a.Update(w, 1)
	first := a.GenerateEvents(w)
	if len(first) != 1 || first[0].ID != "unrest_seeded" {
		t.Fatalf("first = %v, want [unrest_seeded]", first)
	}
	if second := a.GenerateEvents(w); len(second) != 0 {
		t.Errorf("second emission within the same episode: %v", second)
	}

	// The episode ends when intensity leaves the high band; a new spike
	// emits again.
	calm := newClassWorld(0.25, 0.02, 0.95)
	a.Update(calm, 2)
	a.Update(w, 3)
	if third := a.GenerateEvents(w); len(third) != 1 {
		t.Errorf("no re-emission after episode reset: %v", third)
	}
}

func TestAnalysis_UnrestEventShape(t *testing.T) {
	a := NewAnalysis().WithRules(nil)
	c := &Contradiction{
		ID:              "seeded",
		Name:            "Seeded",
		State:           StateActive,
		Intensity:       0.9,
		PrincipalAspect: Aspect{EntityID: "upper_class"},
		SecondaryAspect: Aspect{EntityID: "working_class"},
	}
	if err := a.Add(c); err != nil {
		t.Fatal(err)
	}
	w := newClassWorld(0.75, 0.35, 0.1)
	c.RecordIntensity(0.9)

	evs := a.GenerateEvents(w)
	if len(evs) != 1 {
		t.Fatalf("events = %v", evs)
	}
	ev := evs[0]
	if err := ev.Validate(); err != nil {
		t.Fatalf("generated event invalid: %v", err)
	}
	if len(ev.Escalations) != 1 || ev.Escalations[0].ID != "revolt_seeded" {
		t.Errorf("escalations = %v, want [revolt_seeded]", ev.Escalations)
	}
	// The revolt escalates only while stability is critically low.
	revolt := ev.Escalations[0]
	if !events.Any(w, revolt.Triggers) {
		t.Error("revolt should be triggerable at stability 0.1")
	}
	stable := newClassWorld(0.75, 0.35, 0.9)
	if events.Any(stable, revolt.Triggers) {
		t.Error("revolt should not trigger at stability 0.9")
	}
}

func TestRuleRegistry(t *testing.T) {
	names := RuleNames()
	found := false
	for _, n := range names {
		if n == "economic-inequality" {
			found = true
		}
	}
	if !found {
		t.Fatalf("RuleNames() = %v, missing economic-inequality", names)
	}

	r, err := NewRule("economic-inequality")
	if err != nil || r.Name() != "economic-inequality" {
		t.Errorf("NewRule = %v, %v", r, err)
	}
	if _, err := NewRule("astrology"); err == nil {
		t.Error("NewRule should reject unknown names")
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate RegisterRule should panic")
		}
	}()
	RegisterRule("economic-inequality", func() DetectionRule { return nil })
}
