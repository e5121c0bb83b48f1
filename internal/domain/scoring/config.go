package scoring

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed config/factors.yaml
var defaultFactorsYAML []byte

//go:embed config/factors.schema.json
var factorsSchemaJSON []byte

// factorsSchema is the compiled JSON Schema every factor file must satisfy.
var factorsSchema = mustCompileSchema(factorsSchemaJSON, "factors.schema.json")

var defaultConfig = mustParseConfig(defaultFactorsYAML)

func mustCompileSchema(raw []byte, name string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

func mustParseConfig(data []byte) *Config {
	cfg, err := ParseConfig(data)
	if err != nil {
		panic(fmt.Sprintf("embedded factor config is invalid: %v", err))
	}
	return cfg
}

// DefaultConfig returns the embedded factor configuration. The returned
// value is shared and must be treated as read-only.
func DefaultConfig() *Config {
	return defaultConfig
}

// DefaultConfigYAML returns the raw embedded configuration file.
func DefaultConfigYAML() []byte {
	return bytes.Clone(defaultFactorsYAML)
}

// LoadConfig reads a factor file (YAML or JSON). An empty path selects the
// embedded default.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read factor config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a factor file, checks it against the JSON Schema and
// then against the rules the schema cannot express.
func ParseConfig(data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse factor config: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode factor config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateSchema(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("factor config is not representable as JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("factor config is not representable as JSON: %w", err)
	}
	if err := factorsSchema.Validate(inst); err != nil {
		return fmt.Errorf("factor config does not match schema: %w", err)
	}
	return nil
}

// ValidationError is one problem found in a factor configuration.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors aggregates every problem found in one pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

// Validate enforces the configuration invariants: unique ids, finite
// non-negative weights, non-degenerate numeric domains, option values in
// [0,100] and well-formed checklists.
func (c *Config) Validate() error {
	if c == nil {
		return ValidationErrors{{Message: "config is nil"}}
	}
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]int, len(c.Factors))
	for i, f := range c.Factors {
		field := fmt.Sprintf("factors[%d]", i)
		if f.ID == "" {
			add(field, "id is required")
		} else {
			field = fmt.Sprintf("factors[%d](%s)", i, f.ID)
			if prev, dup := seen[f.ID]; dup {
				add(field, "duplicate id, first defined at factors[%d]", prev)
			} else {
				seen[f.ID] = i
			}
		}
		if math.IsNaN(f.Weight) || math.IsInf(f.Weight, 0) || f.Weight < 0 {
			add(field, "weight must be a finite non-negative number, got %v", f.Weight)
		}

		switch f.Kind {
		case KindNumber:
			validateNumber(f, field, add)
		case KindSelect:
			validateSelect(f, field, add)
		case KindChecklist:
			validateChecklist(f, field, add)
		default:
			add(field, "unknown kind %q", f.Kind)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateNumber(f Factor, field string, add func(string, string, ...any)) {
	if f.Format != "" && f.Format != FormatDuration {
		add(field, "unknown format %q", f.Format)
	}
	d := f.Domain
	if d == nil {
		add(field, "number factor needs a domain")
		return
	}
	if math.IsNaN(d.Min) || math.IsNaN(d.Max) || math.IsInf(d.Min, 0) || math.IsInf(d.Max, 0) {
		add(field+".domain", "min and max must be finite")
	} else if !(d.Max > d.Min) {
		add(field+".domain", "max (%v) must be greater than min (%v)", d.Max, d.Min)
	}
	if d.Better != HigherIsBetter && d.Better != LowerIsBetter {
		add(field+".domain", "better must be %q or %q, got %q", HigherIsBetter, LowerIsBetter, d.Better)
	}
}

func validateSelect(f Factor, field string, add func(string, string, ...any)) {
	if len(f.Options) == 0 {
		add(field, "select factor needs at least one option")
	}
	for j, o := range f.Options {
		if math.IsNaN(o.Value) || o.Value < 0 || o.Value > 100 {
			add(fmt.Sprintf("%s.options[%d]", field, j), "value must be within [0,100], got %v", o.Value)
		}
	}
}

func validateChecklist(f Factor, field string, add func(string, string, ...any)) {
	if f.Cap < 0 || math.IsNaN(f.Cap) || math.IsInf(f.Cap, 0) {
		add(field, "cap must be positive, got %v", f.Cap)
	}
	if len(f.Items) == 0 {
		add(field, "checklist factor needs at least one item")
	}
	items := make(map[string]bool, len(f.Items))
	for j, it := range f.Items {
		itemField := fmt.Sprintf("%s.items[%d]", field, j)
		if it.ID == "" {
			add(itemField, "id is required")
		} else if items[it.ID] {
			add(itemField, "duplicate item id %q", it.ID)
		}
		items[it.ID] = true
		if it.Points < 0 || math.IsNaN(it.Points) {
			add(itemField, "points must be non-negative, got %v", it.Points)
		}
	}
}
