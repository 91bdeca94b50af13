package models

import (
	"fjacquet/budget-buddy/internal/logging"
)

// CategorizationStats tracks statistics for a classification pass
type CategorizationStats struct {
	Total         int // Total number of transactions processed
	Matched       int // Number of transactions matched to a real category
	Ignored       int // Number of transactions dropped by the Ignore category
	Uncategorized int // Number of transactions left uncategorized
}

// LogSummary logs a summary of categorization statistics
func (cs CategorizationStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: "total_transactions", Value: cs.Total},
		logging.Field{Key: "matched", Value: cs.Matched},
		logging.Field{Key: "ignored", Value: cs.Ignored},
		logging.Field{Key: "uncategorized", Value: cs.Uncategorized},
		logging.Field{Key: "match_rate", Value: cs.GetMatchRate()},
	)
}

// GetMatchRate calculates the share of matched transactions as a percentage
func (cs CategorizationStats) GetMatchRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.Matched) / float64(cs.Total) * 100.0
}
