package categorizer

import (
	"strings"

	"mynab/budget-import/internal/logging"
)

// Classifier maps descriptions to category keys. It is safe for concurrent use.
type Classifier struct {
	rules  *Ruleset
	logger logging.Logger
}

// NewClassifier returns a classifier over rules.
func NewClassifier(rules *Ruleset, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Classifier{rules: rules, logger: logger}
}

// Ruleset returns the rules the classifier evaluates.
func (c *Classifier) Ruleset() *Ruleset {
	return c.rules
}

// Classify returns the key of the first rule with a pattern found in description, or
// Uncategorized.
func (c *Classifier) Classify(description string) string {
	text := strings.ToLower(description)
	if strings.TrimSpace(text) == "" {
		return Uncategorized
	}

	for _, rule := range c.rules.rules {
		for _, re := range rule.Patterns {
			if re.MatchString(text) {
				c.logger.Debug("Description categorized",
					logging.F(logging.FieldCategory, rule.Key),
					logging.F("pattern", re.String()))
				return rule.Key
			}
		}
	}
	return Uncategorized
}

// CategoryID classifies description and resolves the key to its persisted id.
func (c *Classifier) CategoryID(description string) (int, bool) {
	return c.rules.CategoryIDFor(c.Classify(description))
}
