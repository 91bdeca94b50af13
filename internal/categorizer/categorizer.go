// Package categorizer assigns spending categories to transactions by matching
// their descriptions against the keyword mapping.
package categorizer

import (
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"
)

// Classification is the result of classifying a batch of transactions.
type Classification struct {
	// Partition holds every kept transaction grouped by category. Keyword
	// categories are pre-seeded in mapping order, Uncategorized comes after.
	Partition *models.Partition
	// Unmatched lists, in arrival order, the transactions no phrase matched.
	// They are also present in the Uncategorized bucket.
	Unmatched []models.Transaction
	Stats     models.CategorizationStats
}

// Classifier applies a Matcher across a batch of transactions.
type Classifier struct {
	mapping *models.KeywordMapping
	matcher Matcher
	logger  logging.Logger
}

// NewClassifier creates a Classifier. The mapping supplies the bucket order;
// the matcher decides each transaction's category.
func NewClassifier(mapping *models.KeywordMapping, matcher Matcher, logger logging.Logger) *Classifier {
	if mapping == nil {
		mapping = models.NewKeywordMapping()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if matcher == nil {
		matcher = NewKeywordMatcher(mapping, logger)
	}
	return &Classifier{
		mapping: mapping,
		matcher: matcher,
		logger:  logger,
	}
}

// Classify categorizes every transaction. The input slice is not modified:
// the partition and unmatched list hold copies carrying their category.
// Transactions matching the Ignore category are dropped.
func (c *Classifier) Classify(transactions []models.Transaction) Classification {
	result := Classification{
		Partition: models.NewPartition(c.bucketOrder()...),
	}

	for _, tx := range transactions {
		result.Stats.Total++

		match := c.matcher.Match(tx.Description)
		if match.Ignored() {
			result.Stats.Ignored++
			c.logger.WithFields(
				logging.Field{Key: logging.FieldDate, Value: tx.Date},
				logging.Field{Key: logging.FieldDescription, Value: tx.Description},
				logging.Field{Key: logging.FieldPhrase, Value: match.Phrase},
			).Debug("Transaction ignored")
			continue
		}

		categorized := tx.WithCategory(match.Category)
		result.Partition.Append(match.Category, categorized)

		if match.Matched {
			result.Stats.Matched++
			continue
		}
		result.Stats.Uncategorized++
		result.Unmatched = append(result.Unmatched, categorized)
	}

	result.Stats.LogSummary(c.logger)
	return result
}

func (c *Classifier) bucketOrder() []string {
	categories := c.mapping.Categories()
	order := make([]string, 0, len(categories)+1)
	for _, category := range categories {
		if category == models.CategoryIgnore {
			continue
		}
		order = append(order, category)
	}
	return append(order, models.CategoryUncategorized)
}

// Regroup rebuilds a partition from already persisted records. Stored
// categories are kept; records stored as Uncategorized (or without a
// category) are matched again so phrases learned since they were written
// take effect. Records that now match Ignore are dropped.
func (c *Classifier) Regroup(records []models.Transaction) Classification {
	result := Classification{
		Partition: models.NewPartition(c.bucketOrder()...),
	}

	for _, tx := range records {
		result.Stats.Total++

		category := tx.Category
		if category == models.CategoryIgnore {
			result.Stats.Ignored++
			continue
		}
		if !tx.IsCategorized() {
			match := c.matcher.Match(tx.Description)
			if match.Ignored() {
				result.Stats.Ignored++
				continue
			}
			category = match.Category
		}

		categorized := tx.WithCategory(category)
		result.Partition.Append(category, categorized)
		if category == models.CategoryUncategorized {
			result.Stats.Uncategorized++
			result.Unmatched = append(result.Unmatched, categorized)
			continue
		}
		result.Stats.Matched++
	}

	c.logger.WithField(logging.FieldOperation, "regroup").Debug("Regrouped persisted records",
		logging.Field{Key: logging.FieldCount, Value: result.Stats.Total})
	return result
}
