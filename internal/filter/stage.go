package filter

import (
	"mynab/budget-import/internal/currencyutils"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"
)

// Column widths of the budget_entry table.
const (
	MaxDescriptionRunes = 255
	MaxReferenceRunes   = 50
	MaxSourceRunes      = 50
)

// Classifier resolves a description to a persisted category id.
type Classifier interface {
	CategoryID(description string) (int, bool)
}

// Stage removes ignored transactions and prepares the remaining ones for storage.
type Stage struct {
	classifier Classifier
	logger     logging.Logger
}

// Outcome reports what EnrichAndFilter did besides returning the kept transactions.
type Outcome struct {
	Ignored int
	Capped  int
}

// NewStage returns a Stage using classifier for category assignment.
func NewStage(classifier Classifier, logger logging.Logger) *Stage {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Stage{classifier: classifier, logger: logger}
}

// EnrichAndFilter drops every transaction whose description contains an ignored phrase,
// then assigns category ids and fits the remaining ones to the storage limits. Input
// order is preserved.
func (s *Stage) EnrichAndFilter(txs []models.Transaction, ignore *IgnoreList) ([]models.Transaction, Outcome) {
	var outcome Outcome
	kept := make([]models.Transaction, 0, len(txs))

	for _, tx := range txs {
		if phrase, ok := ignore.Match(tx.Description); ok {
			outcome.Ignored++
			s.logger.Debug("Ignoring transaction",
				logging.F(logging.FieldReference, tx.ReferenceID),
				logging.F(logging.FieldReason, phrase))
			continue
		}

		tx.CategoryID = nil
		if id, ok := s.classifier.CategoryID(tx.Description); ok {
			id := id
			tx.CategoryID = &id
		}

		if capped, changed := currencyutils.CapAmount(tx.Amount); changed {
			outcome.Capped++
			s.logger.Warn("Amount exceeds storage limit, capping",
				logging.F(logging.FieldReference, tx.ReferenceID),
				logging.F("amount", tx.Amount.String()))
			tx.Amount = capped
		}

		tx.Description = models.TruncateRunes(tx.Description, MaxDescriptionRunes)
		tx.ReferenceID = models.TruncateRunes(tx.ReferenceID, MaxReferenceRunes)
		tx.Source = models.TruncateRunes(tx.Source, MaxSourceRunes)

		kept = append(kept, tx)
	}

	s.logger.Debug("Filtered transactions",
		logging.F(logging.FieldCount, len(kept)),
		logging.F("ignored", outcome.Ignored))
	return kept, outcome
}
