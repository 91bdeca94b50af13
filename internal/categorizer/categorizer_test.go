package categorizer

import (
	"testing"

	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date, description, amount string) models.Transaction {
	return models.Transaction{
		Date:        date,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestClassifier_Classify(t *testing.T) {
	mapping := newMapping(
		[]string{"Food", "grocery"},
		[]string{models.CategoryIgnore, "internal transfer"},
		[]string{"Transportation", "gas"},
	)
	logger := &logging.MockLogger{}
	classifier := NewClassifier(mapping, nil, logger)

	input := []models.Transaction{
		tx("2024-01-01", "Grocery Store", "25.00"),
		tx("2024-01-02", "Internal Transfer", "500.00"),
		tx("2024-01-03", "Mystery Shop", "12.00"),
		tx("2024-01-04", "Shell Gas", "40.00"),
		tx("2024-01-05", "Another Grocery", "5.00"),
	}

	result := classifier.Classify(input)

	// buckets are pre-seeded in mapping order, Ignore excluded, Uncategorized last
	assert.Equal(t, []string{"Food", "Transportation", models.CategoryUncategorized}, result.Partition.Categories())

	food := result.Partition.Transactions("Food")
	require.Len(t, food, 2)
	assert.Equal(t, "Grocery Store", food[0].Description)
	assert.Equal(t, "Another Grocery", food[1].Description)
	assert.Equal(t, "Food", food[0].Category)

	require.Len(t, result.Unmatched, 1)
	assert.Equal(t, "Mystery Shop", result.Unmatched[0].Description)
	assert.Equal(t, models.CategoryUncategorized, result.Unmatched[0].Category)
	assert.Len(t, result.Partition.Transactions(models.CategoryUncategorized), 1)

	assert.Equal(t, models.CategorizationStats{Total: 5, Matched: 3, Ignored: 1, Uncategorized: 1}, result.Stats)
	assert.True(t, logger.HasEntry("INFO", "Categorization summary"))

	// input slice is left untouched
	for _, original := range input {
		assert.Empty(t, original.Category)
	}
}

func TestClassifier_IgnoredNeverInPartitionOrUnmatched(t *testing.T) {
	mapping := newMapping([]string{models.CategoryIgnore, "payment thank you"})
	classifier := NewClassifier(mapping, nil, &logging.MockLogger{})

	result := classifier.Classify([]models.Transaction{
		tx("2024-02-01", "PAYMENT THANK YOU", "1000"),
	})

	assert.Equal(t, 0, result.Partition.Len())
	assert.Empty(t, result.Unmatched)
	assert.NotContains(t, result.Partition.Categories(), models.CategoryIgnore)
}

func TestClassifier_EmptyBatch(t *testing.T) {
	classifier := NewClassifier(newMapping([]string{"Food", "grocery"}), nil, &logging.MockLogger{})
	result := classifier.Classify(nil)

	assert.Equal(t, []string{"Food", models.CategoryUncategorized}, result.Partition.Categories())
	assert.Equal(t, 0, result.Partition.Len())
	assert.Empty(t, result.Unmatched)
}

type fixedMatcher struct{ category string }

func (f fixedMatcher) Match(string) MatchResult {
	return MatchResult{Category: f.category, Phrase: "x", Matched: true}
}

func (f fixedMatcher) Name() string { return "Fixed" }

func TestClassifier_CustomMatcherCreatesBucket(t *testing.T) {
	classifier := NewClassifier(newMapping([]string{"Food"}), fixedMatcher{category: "Books"}, &logging.MockLogger{})
	result := classifier.Classify([]models.Transaction{tx("2024-03-01", "Novel", "9.99")})

	assert.Equal(t, []string{"Food", "Books", models.CategoryUncategorized}, result.Partition.Categories())
	assert.Len(t, result.Partition.Transactions("Books"), 1)
}

func TestClassifier_Regroup(t *testing.T) {
	mapping := newMapping(
		[]string{"Food", "grocery", "corner bakery"},
		[]string{models.CategoryIgnore, "internal transfer"},
	)
	classifier := NewClassifier(mapping, nil, &logging.MockLogger{})

	stored := []models.Transaction{
		tx("2024-01-01", "Grocery Store", "25.00").WithCategory("Food"),
		tx("2024-01-02", "Corner Bakery", "4.00").WithCategory(models.CategoryUncategorized),
		tx("2024-01-03", "Rent January", "900.00").WithCategory("Housing"),
		tx("2024-01-04", "Internal Transfer", "50.00"),
		tx("2024-01-05", "Mystery Shop", "12.00").WithCategory(models.CategoryUncategorized),
	}

	result := classifier.Regroup(stored)

	assert.Equal(t, []string{"Food", "Housing", models.CategoryUncategorized}, result.Partition.Categories())
	assert.Len(t, result.Partition.Transactions("Food"), 2, "learned phrase re-matches stored Uncategorized record")
	assert.Len(t, result.Partition.Transactions("Housing"), 1)
	require.Len(t, result.Unmatched, 1)
	assert.Equal(t, "Mystery Shop", result.Unmatched[0].Description)
	assert.Equal(t, models.CategorizationStats{Total: 5, Matched: 3, Ignored: 1, Uncategorized: 1}, result.Stats)
}
