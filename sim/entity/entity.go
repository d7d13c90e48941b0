// Package entity provides the registry of societal actors (classes,
// organizations, institutions) that contradictions form between.
package entity

// Default attribute names carried by every entity. Effects may add more.
const (
	AttrFreedom   = "freedom"
	AttrWealth    = "wealth"
	AttrStability = "stability"
	AttrPower     = "power"
)

// Entity is a societal actor. Type classifies it (e.g. "Class",
// "Organization"); Role is its position in contradictions (e.g. "Oppressor",
// "Oppressed"). Attributes hold the continuous quantities effects modify.
type Entity struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Role       string             `json:"role"`
	Attributes map[string]float64 `json:"attributes"`
}

// defaultAttributes returns the baseline attribute set for a new entity.
func defaultAttributes() map[string]float64 {
	return map[string]float64{
		AttrFreedom:   1.0,
		AttrWealth:    1.0,
		AttrStability: 1.0,
		AttrPower:     1.0,
	}
}

// AttributeVector returns the entity's attributes in a fixed order, for
// similarity comparisons.
func (e *Entity) AttributeVector(names []string) []float64 {
	vec := make([]float64, len(names))
	for i, n := range names {
		vec[i] = e.Attributes[n]
	}
	return vec
}
