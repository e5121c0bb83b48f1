package scoring

// Tier is a named band of the composite score.
type Tier struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Threshold   int    `json:"threshold"`
}

// tiers is ordered from the highest threshold down; the last entry matches everything.
var tiers = []Tier{
	{Name: "Apex", Description: "Elite presence", Threshold: 900},
	{Name: "Alpha", Description: "High performer", Threshold: 750},
	{Name: "Contender", Description: "Solid foundation", Threshold: 500},
	{Name: "Rising", Description: "Early gains", Threshold: 250},
	{Name: "Getting Started", Description: "Stack small wins", Threshold: 0},
}

// TierFor classifies a composite score.
func TierFor(score int) Tier {
	for _, t := range tiers[:len(tiers)-1] {
		if score >= t.Threshold {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// Tiers returns a copy of the tier table, highest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}
