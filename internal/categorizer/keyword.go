package categorizer

import (
	"strings"

	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"
	"fjacquet/budget-buddy/internal/textutils"
)

// MatchResult is the outcome of matching one description against the keyword
// mapping.
type MatchResult struct {
	Category string // matched category, or models.CategoryUncategorized
	Phrase   string // phrase that triggered the match, empty when unmatched
	Matched  bool
}

// Ignored reports whether the description matched the reserved Ignore category.
func (r MatchResult) Ignored() bool {
	return r.Matched && r.Category == models.CategoryIgnore
}

// Matcher determines the category of a transaction description.
type Matcher interface {
	Match(description string) MatchResult

	// Name returns the name of this matcher for logging and debugging purposes.
	Name() string
}

// KeywordMatcher implements categorization using whole-word phrase matching
// against an ordered keyword mapping.
//
// The mapping is read on every call, so phrases learned during a run are
// picked up by later matches without reloading.
type KeywordMatcher struct {
	mapping *models.KeywordMapping
	logger  logging.Logger
}

// NewKeywordMatcher creates a new KeywordMatcher over the given mapping.
func NewKeywordMatcher(mapping *models.KeywordMapping, logger logging.Logger) *KeywordMatcher {
	if mapping == nil {
		mapping = models.NewKeywordMapping()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &KeywordMatcher{
		mapping: mapping,
		logger:  logger,
	}
}

// Name returns the name of this matcher.
func (m *KeywordMatcher) Name() string {
	return "Keyword"
}

// Match returns the first (category, phrase) pair, in mapping order, whose
// phrase occurs as a whole word in the description.
func (m *KeywordMatcher) Match(description string) MatchResult {
	if strings.TrimSpace(description) == "" {
		return MatchResult{Category: models.CategoryUncategorized}
	}

	for _, category := range m.mapping.Categories() {
		for _, phrase := range m.mapping.Phrases(category) {
			if !textutils.ContainsWord(description, phrase) {
				continue
			}
			m.logger.WithFields(
				logging.Field{Key: "matcher", Value: m.Name()},
				logging.Field{Key: logging.FieldDescription, Value: description},
				logging.Field{Key: logging.FieldPhrase, Value: phrase},
				logging.Field{Key: logging.FieldCategory, Value: category},
			).Debug("Transaction matched by keyword")

			return MatchResult{
				Category: category,
				Phrase:   phrase,
				Matched:  true,
			}
		}
	}

	return MatchResult{Category: models.CategoryUncategorized}
}
