// Package categorize assigns organizations to a fixed category taxonomy
// using an ordered, data-driven keyword ruleset.
package categorize

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Rule maps a category to the keywords that select it
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Ruleset is an ordered list of rules; the first matching rule wins
type Ruleset struct {
	Labels   []string `yaml:"labels"`
	Fallback string   `yaml:"fallback"`
	Rules    []Rule   `yaml:"rules"`
}

var defaultRuleset = MustLoadRuleset(defaultRules)

// Default returns the built-in ruleset
func Default() *Ruleset {
	return defaultRuleset
}

// Classify categorizes a name with the built-in ruleset
func Classify(name string) string {
	return defaultRuleset.Classify(name)
}

// LoadRuleset parses and validates a YAML ruleset
func LoadRuleset(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset: %w", err)
	}
	if err := rs.validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// MustLoadRuleset is LoadRuleset that panics on error
func MustLoadRuleset(data []byte) *Ruleset {
	rs, err := LoadRuleset(data)
	if err != nil {
		panic(err)
	}
	return rs
}

func (r *Ruleset) validate() error {
	if len(r.Labels) == 0 {
		return fmt.Errorf("ruleset declares no labels")
	}
	if !slices.Contains(r.Labels, r.Fallback) {
		return fmt.Errorf("fallback %q is not a declared label", r.Fallback)
	}
	for i, rule := range r.Rules {
		if !slices.Contains(r.Labels, rule.Category) {
			return fmt.Errorf("rule %d: category %q is not a declared label", i, rule.Category)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("rule %d (%s): no keywords", i, rule.Category)
		}
		for _, kw := range rule.Keywords {
			if kw == "" || kw != strings.ToUpper(kw) {
				return fmt.Errorf("rule %d (%s): keyword %q must be non-empty upper case", i, rule.Category, kw)
			}
		}
	}
	return nil
}

// Classify returns the category of an organization name. It never fails:
// names matching no rule get the fallback label.
func (r *Ruleset) Classify(name string) string {
	upper := strings.ToUpper(name)
	for _, rule := range r.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(upper, kw) {
				return rule.Category
			}
		}
	}
	return r.Fallback
}

// Categorize classifies a record. classification is reserved for future
// rules and does not influence the result.
func (r *Ruleset) Categorize(name, classification string) string {
	return r.Classify(name)
}

// Order returns the rule categories in evaluation order
func (r *Ruleset) Order() []string {
	order := make([]string, len(r.Rules))
	for i, rule := range r.Rules {
		order[i] = rule.Category
	}
	return order
}
