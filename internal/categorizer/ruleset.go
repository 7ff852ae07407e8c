// Package categorizer assigns a category key to a transaction description using an
// ordered table of regular-expression rules.
package categorizer

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Uncategorized is returned when no rule matches.
const Uncategorized = "uncategorized"

//go:embed rules.yaml
var defaultRules []byte

// Rule is one category of the ruleset.
type Rule struct {
	Key      string
	ID       int
	Name     string
	Patterns []*regexp.Regexp
}

// Ruleset is the ordered, immutable list of category rules. The declared order is the
// priority order.
type Ruleset struct {
	rules []Rule
	ids   map[string]int
}

type rulesFile struct {
	Categories []struct {
		Key      string   `yaml:"key"`
		ID       int      `yaml:"id"`
		Name     string   `yaml:"name"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"categories"`
}

// LoadRuleset parses the built-in category rules.
func LoadRuleset() (*Ruleset, error) {
	return ParseRuleset(defaultRules)
}

// MustLoadRuleset is LoadRuleset for start-up code; it panics on a broken ruleset.
func MustLoadRuleset() *Ruleset {
	rs, err := LoadRuleset()
	if err != nil {
		panic(err)
	}
	return rs
}

// ParseRuleset builds a Ruleset from a YAML document. Keys must be unique and every
// pattern must compile.
func ParseRuleset(data []byte) (*Ruleset, error) {
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing category rules: %w", err)
	}

	rs := &Ruleset{
		rules: make([]Rule, 0, len(file.Categories)),
		ids:   make(map[string]int, len(file.Categories)),
	}
	for _, c := range file.Categories {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			return nil, fmt.Errorf("category rule without key")
		}
		if _, dup := rs.ids[key]; dup {
			return nil, fmt.Errorf("duplicate category key %q", key)
		}

		rule := Rule{Key: key, ID: c.ID, Name: c.Name, Patterns: make([]*regexp.Regexp, 0, len(c.Patterns))}
		for _, p := range c.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("category %s: invalid pattern %q: %w", key, p, err)
			}
			rule.Patterns = append(rule.Patterns, re)
		}

		rs.rules = append(rs.rules, rule)
		rs.ids[key] = c.ID
	}
	return rs, nil
}

// Rules returns the rules in priority order.
func (rs *Ruleset) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// CategoryIDFor returns the persisted id of a category key.
func (rs *Ruleset) CategoryIDFor(key string) (int, bool) {
	id, ok := rs.ids[key]
	return id, ok
}
