package society

import "math/rand"

// Politics tracks the political indicators the dialectics system reads.
type Politics struct {
	Stability  float64            // regime stability index, 0..1
	Repression float64            // state repression level, 0..1
	Factions   map[string]float64 // faction -> support share, 0..1
}

// NewPolitics returns a political model at the given starting conditions.
func NewPolitics(stability, repression float64) *Politics {
	return &Politics{
		Stability:  ClampUnit(stability),
		Repression: ClampUnit(repression),
		Factions:   make(map[string]float64),
	}
}

// Update advances the political model one tick. Stability erodes when
// unemployment runs above its natural rate and recovers slowly otherwise;
// repression rises as a regime response to instability and decays when the
// situation calms.
func (p *Politics) Update(rng *rand.Rand, econ *Economy) {
	const naturalRate = 0.08

	drift := -0.2*(econ.Unemployment-naturalRate) + rng.NormFloat64()*0.005
	p.Stability = ClampUnit(p.Stability + drift)

	if p.Stability < 0.4 {
		p.Repression = ClampUnit(p.Repression + 0.01 + rng.Float64()*0.01)
	} else {
		p.Repression = ClampUnit(p.Repression - 0.005)
	}
}

// Support returns the recorded support share for a faction (0 if unknown).
func (p *Politics) Support(faction string) float64 {
	return p.Factions[faction]
}

// SetSupport records a faction's support share, clamped to [0, 1].
func (p *Politics) SetSupport(faction string, share float64) {
	p.Factions[faction] = ClampUnit(share)
}
