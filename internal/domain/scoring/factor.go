package scoring

// Kind identifies how a factor's raw answer is turned into a percentage.
type Kind string

const (
	KindNumber    Kind = "number"
	KindSelect    Kind = "select"
	KindChecklist Kind = "checklist"
)

// Direction says which end of a numeric domain scores 100.
type Direction string

const (
	HigherIsBetter Direction = "higher"
	LowerIsBetter  Direction = "lower"
)

// Format selects a specialized parser for numeric factors.
type Format string

const (
	// FormatDuration marks a field entered as "minutes.seconds" (e.g. "6.30").
	FormatDuration Format = "duration"
)

// DefaultChecklistCap is used when a checklist factor does not set a cap.
const DefaultChecklistCap = 100.0

// Domain is the valid range and direction of a numeric factor.
type Domain struct {
	Min    float64   `yaml:"min" json:"min"`
	Max    float64   `yaml:"max" json:"max"`
	Better Direction `yaml:"better" json:"better"`
}

// Best returns the raw value that normalizes to 100.
func (d Domain) Best() float64 {
	if d.Better == LowerIsBetter {
		return d.Min
	}
	return d.Max
}

// Option is one choice of a select factor. Value is already a percentage.
type Option struct {
	Label string  `yaml:"label" json:"label"`
	Value float64 `yaml:"value" json:"value"`
}

// Item is one checkable entry of a checklist factor.
type Item struct {
	ID     string  `yaml:"id" json:"id"`
	Label  string  `yaml:"label" json:"label"`
	Points float64 `yaml:"points" json:"points"`
}

// Factor is one scored input dimension. Which of Domain, Options or
// Cap/Items is meaningful depends on Kind.
type Factor struct {
	Kind     Kind    `yaml:"kind" json:"kind"`
	ID       string  `yaml:"id" json:"id"`
	Label    string  `yaml:"label" json:"label"`
	Section  string  `yaml:"section,omitempty" json:"section,omitempty"`
	Weight   float64 `yaml:"weight" json:"weight"`
	Unit     string  `yaml:"unit,omitempty" json:"unit,omitempty"`
	ReadOnly bool    `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	Format   Format  `yaml:"format,omitempty" json:"format,omitempty"`

	// number
	Domain *Domain `yaml:"domain,omitempty" json:"domain,omitempty"`

	// select
	Options []Option `yaml:"options,omitempty" json:"options,omitempty"`

	// checklist
	Cap   float64 `yaml:"cap,omitempty" json:"cap,omitempty"`
	Items []Item  `yaml:"items,omitempty" json:"items,omitempty"`
}

// EffectiveCap returns the checklist cap, falling back to DefaultChecklistCap.
func (f Factor) EffectiveCap() float64 {
	if f.Cap > 0 {
		return f.Cap
	}
	return DefaultChecklistCap
}

// BestOption returns the highest-valued option of a select factor.
func (f Factor) BestOption() (Option, bool) {
	if len(f.Options) == 0 {
		return Option{}, false
	}
	best := f.Options[0]
	for _, o := range f.Options[1:] {
		if o.Value > best.Value {
			best = o
		}
	}
	return best, true
}

// Config is the static, deployment-time list of factors.
type Config struct {
	Factors []Factor `yaml:"factors" json:"factors"`
}

// Factor looks up a factor by id.
func (c *Config) Factor(id string) (Factor, bool) {
	if c == nil {
		return Factor{}, false
	}
	for _, f := range c.Factors {
		if f.ID == id {
			return f, true
		}
	}
	return Factor{}, false
}

// TotalWeight sums the weights of all factors.
func (c *Config) TotalWeight() float64 {
	if c == nil {
		return 0
	}
	var total float64
	for _, f := range c.Factors {
		total += f.Weight
	}
	return total
}

// ReadOnlyIDs returns the ids of factors flagged read_only, in config order.
func (c *Config) ReadOnlyIDs() []string {
	if c == nil {
		return nil
	}
	var ids []string
	for _, f := range c.Factors {
		if f.ReadOnly {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// Sections returns section names in first-appearance order.
func (c *Config) Sections() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, f := range c.Factors {
		if !seen[f.Section] {
			seen[f.Section] = true
			out = append(out, f.Section)
		}
	}
	return out
}
