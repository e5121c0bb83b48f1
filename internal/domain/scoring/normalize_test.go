package scoring_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphalever/backend/internal/domain/scoring"
)

func TestNormalizeHigherIsBetter(t *testing.T) {
	assert.Equal(t, 0.0, scoring.NormalizeHigherIsBetter(0, 0, 1000))
	assert.Equal(t, 100.0, scoring.NormalizeHigherIsBetter(1000, 0, 1000))
	assert.Equal(t, 50.0, scoring.NormalizeHigherIsBetter(500, 0, 1000))
	assert.Equal(t, 0.0, scoring.NormalizeHigherIsBetter(-5, 0, 1000), "below min saturates")
	assert.Equal(t, 100.0, scoring.NormalizeHigherIsBetter(5000, 0, 1000), "above max saturates")

	prev := -1.0
	for v := 0.0; v <= 20; v += 0.25 {
		got := scoring.NormalizeHigherIsBetter(v, 0, 20)
		assert.GreaterOrEqual(t, got, prev, "not monotone at %v", v)
		prev = got
	}
}

func TestNormalizeLowerIsBetter(t *testing.T) {
	assert.Equal(t, 100.0, scoring.NormalizeLowerIsBetter(0, 0, 60))
	assert.Equal(t, 0.0, scoring.NormalizeLowerIsBetter(60, 0, 60))
	assert.Equal(t, 75.0, scoring.NormalizeLowerIsBetter(15, 0, 60))
	assert.Equal(t, 100.0, scoring.NormalizeLowerIsBetter(-1, 0, 60))
	assert.Equal(t, 0.0, scoring.NormalizeLowerIsBetter(99, 0, 60))

	prev := 101.0
	for v := 0.0; v <= 3600; v += 30 {
		got := scoring.NormalizeLowerIsBetter(v, 0, 3600)
		assert.LessOrEqual(t, got, prev, "not monotone at %v", v)
		prev = got
	}
}

func TestNormalize_DegenerateDomain(t *testing.T) {
	assert.Equal(t, 0.0, scoring.NormalizeHigherIsBetter(5, 5, 5))
	assert.Equal(t, 0.0, scoring.NormalizeLowerIsBetter(5, 5, 5))
	assert.Equal(t, 0.0, scoring.NormalizeHigherIsBetter(5, 10, 1))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
		ok   bool
	}{
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"json number", json.Number("42"), 42, true},
		{"numeric string", "315", 315, true},
		{"padded string", "  3.5 ", 3.5, true},
		{"leading prefix", "225 lb", 225, true},
		{"leading dot", ".5", 0.5, true},
		{"negative", "-4", -4, true},
		{"empty", "", 0, false},
		{"letters", "abc", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
		{"map", map[string]any{}, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"overflow", "1e999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scoring.ParseNumber(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseSelectValue(t *testing.T) {
	for raw, want := range map[any]float64{75: 75, 37.5: 37.5, "75": 75, " 50 ": 50} {
		got, ok := scoring.ParseSelectValue(raw)
		assert.True(t, ok, "%v", raw)
		assert.Equal(t, want, got, "%v", raw)
	}
	for _, raw := range []any{"75abc", "", "high", true, nil} {
		_, ok := scoring.ParseSelectValue(raw)
		assert.False(t, ok, "%v", raw)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
		ok   bool
	}{
		{"minutes and seconds", "6.30", 390, true},
		{"whole minutes", "6.00", 360, true},
		{"bare seconds", "245", 245, true},
		{"number is seconds", 245.0, 245, true},
		{"empty minutes", ".45", 45, true},
		{"empty seconds", "7.", 420, true},
		{"single digit seconds", "6.3", 363, true},
		{"extra parts ignored", "1.2.3", 62, true},
		{"non numeric", "fast", 0, false},
		{"non numeric halves", "ab.cd", 0, false},
		{"bad seconds", "6.xx", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scoring.ParseDuration(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizeFactor_Number(t *testing.T) {
	bench := scoring.Factor{
		Kind: scoring.KindNumber, ID: "max_bench", Weight: 0.12,
		Domain: &scoring.Domain{Min: 0, Max: 1000, Better: scoring.HigherIsBetter},
	}
	assert.Equal(t, 0.0, scoring.NormalizeFactor(bench, "0"))
	assert.Equal(t, 100.0, scoring.NormalizeFactor(bench, "1000"))
	assert.Equal(t, 100.0, scoring.NormalizeFactor(bench, 1500))
	assert.Equal(t, 0.0, scoring.NormalizeFactor(bench, -20))
	assert.Equal(t, 32.0, scoring.NormalizeFactor(bench, "315"))
	assert.Equal(t, 0.0, scoring.NormalizeFactor(bench, "heavy"))

	mile := scoring.Factor{
		Kind: scoring.KindNumber, ID: "mile_time", Weight: 0.08, Format: scoring.FormatDuration,
		Domain: &scoring.Domain{Min: 0, Max: 3600, Better: scoring.LowerIsBetter},
	}
	// 390s of 3600s -> 1 - 0.1083 -> 89
	assert.Equal(t, 89.0, scoring.NormalizeFactor(mile, "6.30"))
	assert.Equal(t, 0.0, scoring.NormalizeFactor(mile, "slow"))
	assert.Equal(t, 0.0, scoring.NormalizeFactor(mile, "99.00"), "beyond max clamps to 0")

	noDomain := scoring.Factor{Kind: scoring.KindNumber, ID: "x", Weight: 1}
	assert.Equal(t, 0.0, scoring.NormalizeFactor(noDomain, 5))
}

func TestNormalizeFactor_Select(t *testing.T) {
	f := scoring.Factor{
		Kind: scoring.KindSelect, ID: "hand_size", Weight: 0.02,
		Options: []scoring.Option{{Label: "Small", Value: 50}, {Label: "Extra Large", Value: 100}},
	}
	assert.Equal(t, 50.0, scoring.NormalizeFactor(f, 50))
	assert.Equal(t, 75.0, scoring.NormalizeFactor(f, "75"))
	assert.Equal(t, 100.0, scoring.NormalizeFactor(f, 250), "clamped to 100")
	assert.Equal(t, 0.0, scoring.NormalizeFactor(f, -3))
	assert.Equal(t, 0.0, scoring.NormalizeFactor(f, "Large"))
	assert.Equal(t, 0.0, scoring.NormalizeFactor(f, "75 please"))
	assert.Equal(t, 0.0, scoring.NormalizeFactor(f, nil))
}

func TestNormalizeFactor_Checklist(t *testing.T) {
	f := scoring.Factor{
		Kind: scoring.KindChecklist, ID: "activities", Weight: 0.1, Cap: 100,
		Items: []scoring.Item{
			{ID: "hyrox", Points: 20},
			{ID: "marathon", Points: 20},
			{ID: "murph", Points: 10},
			{ID: "bjj", Points: 60},
		},
	}

	assert.Equal(t, 0.0, scoring.NormalizeFactor(f, map[string]bool{}))
	assert.Equal(t, 0.0, scoring.NormalizeFactor(f, nil))
	assert.Equal(t, 50.0, scoring.NormalizeFactor(f, map[string]bool{"hyrox": true, "marathon": true, "murph": true}))
	assert.Equal(t, 100.0, scoring.NormalizeFactor(f, map[string]bool{"hyrox": true, "marathon": true, "murph": true, "bjj": true}))
	assert.Equal(t, 20.0, scoring.NormalizeFactor(f, map[string]bool{"hyrox": true, "marathon": false, "unknown": true}))

	// JSON-decoded shapes
	assert.Equal(t, 40.0, scoring.NormalizeFactor(f, map[string]any{"hyrox": true, "marathon": 1.0, "bjj": false}))
	assert.Equal(t, 30.0, scoring.NormalizeFactor(f, []any{"hyrox", "murph", 7.0}))
	assert.Equal(t, 30.0, scoring.NormalizeFactor(f, []string{"hyrox", "murph", "hyrox"}))
	assert.Equal(t, 0.0, scoring.NormalizeFactor(f, "hyrox"))

	defaultCap := f
	defaultCap.Cap = 0
	require.Equal(t, scoring.DefaultChecklistCap, defaultCap.EffectiveCap())
	assert.Equal(t, 20.0, scoring.NormalizeFactor(defaultCap, []string{"hyrox"}))
}

func TestNormalizeFactor_UnknownKind(t *testing.T) {
	assert.Equal(t, 0.0, scoring.NormalizeFactor(scoring.Factor{Kind: "slider", ID: "x"}, 10))
}
