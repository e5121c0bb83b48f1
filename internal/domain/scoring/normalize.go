package scoring

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func ratio(v, min, max float64) (float64, bool) {
	if !(max > min) || math.IsNaN(v) {
		return 0, false
	}
	return clamp01((v - min) / (max - min)), true
}

// NormalizeHigherIsBetter maps v from [min,max] onto [0,100]. Values outside
// the domain saturate. A degenerate domain (max <= min) yields 0.
func NormalizeHigherIsBetter(v, min, max float64) float64 {
	t, ok := ratio(v, min, max)
	if !ok {
		return 0
	}
	return math.Round(t * 100)
}

// NormalizeLowerIsBetter is NormalizeHigherIsBetter with the ratio inverted,
// so min scores 100 and max scores 0.
func NormalizeLowerIsBetter(v, min, max float64) float64 {
	t, ok := ratio(v, min, max)
	if !ok {
		return 0
	}
	return math.Round((1 - t) * 100)
}

// ParseNumber reads a raw answer as a finite number. Strings are parsed by
// their longest leading decimal prefix, so "225 lb" reads as 225.
func ParseNumber(raw any) (float64, bool) {
	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int32:
		v = float64(x)
	case int64:
		v = float64(x)
	case uint:
		v = float64(x)
	case uint32:
		v = float64(x)
	case uint64:
		v = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		m := leadingFloat.FindString(strings.TrimLeft(x, " \t\r\n"))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseSelectValue reads a select answer. It accepts numbers and strings that
// are entirely numeric; select answers carry an option value, never free text.
func ParseSelectValue(raw any) (float64, bool) {
	s, ok := raw.(string)
	if !ok {
		return ParseNumber(raw)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseDuration reads a "minutes.seconds" string ("6.30" is 390 seconds).
// Anything that is not a string containing "." is read as plain seconds.
func ParseDuration(raw any) (float64, bool) {
	s, ok := raw.(string)
	if !ok || !strings.Contains(s, ".") {
		return ParseNumber(raw)
	}
	parts := strings.Split(s, ".")
	minutes, ok := parseIntPart(parts[0])
	if !ok {
		return 0, false
	}
	seconds, ok := parseIntPart(parts[1])
	if !ok {
		return 0, false
	}
	return minutes*60 + seconds, true
}

// parseIntPart parses a leading base-10 integer; an empty part counts as 0.
func parseIntPart(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	m := leadingInt.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// NormalizeFactor turns one raw answer into a percentage in [0,100].
// Unparseable input yields 0; it never fails.
func NormalizeFactor(f Factor, raw any) float64 {
	switch f.Kind {
	case KindNumber:
		return normalizeNumber(f, raw)
	case KindSelect:
		v, ok := ParseSelectValue(raw)
		if !ok {
			return 0
		}
		return clamp(v, 0, 100)
	case KindChecklist:
		return normalizeChecklist(f, raw)
	}
	return 0
}

func normalizeNumber(f Factor, raw any) float64 {
	if f.Domain == nil {
		return 0
	}
	parse := ParseNumber
	if f.Format == FormatDuration {
		parse = ParseDuration
	}
	v, ok := parse(raw)
	if !ok {
		return 0
	}
	d := f.Domain
	if !(d.Max > d.Min) {
		return 0
	}
	v = clamp(v, d.Min, d.Max)
	if d.Better == LowerIsBetter {
		return NormalizeLowerIsBetter(v, d.Min, d.Max)
	}
	return NormalizeHigherIsBetter(v, d.Min, d.Max)
}

func normalizeChecklist(f Factor, raw any) float64 {
	checked := CheckedItems(raw)
	if len(checked) == 0 {
		return 0
	}
	var total float64
	for _, it := range f.Items {
		if checked[it.ID] {
			total += it.Points
		}
	}
	return math.Round(clamp01(total/f.EffectiveCap()) * 100)
}

// CheckedItems reads a checklist answer as a set of item ids. It accepts a
// map of item id to a truthy value or a list of item ids.
func CheckedItems(raw any) map[string]bool {
	out := make(map[string]bool)
	switch x := raw.(type) {
	case map[string]bool:
		for id, on := range x {
			if on {
				out[id] = true
			}
		}
	case map[string]any:
		for id, v := range x {
			if truthy(v) {
				out[id] = true
			}
		}
	case []string:
		for _, id := range x {
			out[id] = true
		}
	case []any:
		for _, v := range x {
			if id, ok := v.(string); ok {
				out[id] = true
			}
		}
	}
	return out
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	}
	return true
}
