// Package scoring turns self-reported answers into the 0-1000 Alpha Lever
// score. Everything here is pure: no I/O, no shared mutable state.
package scoring

import "math"

// MaxScore is the top of the composite scale.
const MaxScore = 1000

// Answers maps a factor id to its raw, unvalidated answer.
type Answers map[string]any

// FactorScore is one factor's share of a Result.
type FactorScore struct {
	ID           string  `json:"id"`
	Percentage   float64 `json:"percentage"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"` // points on the 0-1000 scale
	Answered     bool    `json:"answered"`
}

// Result is the composite score, its tier and the per-factor breakdown.
type Result struct {
	Score     int           `json:"score"`
	Tier      Tier          `json:"tier"`
	Breakdown []FactorScore `json:"breakdown,omitempty"`
}

// Compute scores answers against cfg. Missing or malformed answers count as
// 0 while their weight stays in the denominator. A config with zero total
// weight scores 0.
func Compute(cfg *Config, answers Answers) Result {
	if cfg == nil {
		return Result{Tier: TierFor(0)}
	}

	breakdown := make([]FactorScore, 0, len(cfg.Factors))
	var totalWeight, weightedSum float64
	for _, f := range cfg.Factors {
		w := f.Weight
		if !(w > 0) || math.IsInf(w, 0) {
			w = 0
		}
		raw, answered := answers[f.ID]
		var pct float64
		if answered {
			pct = NormalizeFactor(f, raw)
		}
		totalWeight += w
		weightedSum += w * pct
		breakdown = append(breakdown, FactorScore{
			ID:         f.ID,
			Percentage: pct,
			Weight:     w,
			Answered:   answered,
		})
	}

	if totalWeight == 0 {
		return Result{Tier: TierFor(0), Breakdown: breakdown}
	}
	for i := range breakdown {
		breakdown[i].Contribution = breakdown[i].Weight * breakdown[i].Percentage / totalWeight * 10
	}

	score := int(math.Round(weightedSum / totalWeight * 10))
	if score < 0 {
		score = 0
	}
	if score > MaxScore {
		score = MaxScore
	}
	return Result{Score: score, Tier: TierFor(score), Breakdown: breakdown}
}

// BestAnswers returns the answer bag that maximizes every factor of cfg.
func BestAnswers(cfg *Config) Answers {
	out := make(Answers)
	if cfg == nil {
		return out
	}
	for _, f := range cfg.Factors {
		switch f.Kind {
		case KindNumber:
			if f.Domain != nil {
				out[f.ID] = f.Domain.Best()
			}
		case KindSelect:
			if o, ok := f.BestOption(); ok {
				out[f.ID] = o.Value
			}
		case KindChecklist:
			checked := make(map[string]bool, len(f.Items))
			for _, it := range f.Items {
				checked[it.ID] = true
			}
			out[f.ID] = checked
		}
	}
	return out
}
