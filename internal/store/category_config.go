package store

import (
	"fjacquet/budget-buddy/internal/models"
	"fjacquet/budget-buddy/internal/textutils"

	"github.com/shopspring/decimal"
)

// CategoryConfig is the in-memory category configuration shared by one run.
// Mutations made through Learn and SetBudget mark it dirty so the caller
// knows to save it.
type CategoryConfig struct {
	Keywords *models.KeywordMapping
	Budget   *models.BudgetMapping
	dirty    bool
}

// NewCategoryConfig creates an empty configuration.
func NewCategoryConfig() *CategoryConfig {
	return &CategoryConfig{
		Keywords: models.NewKeywordMapping(),
		Budget:   models.NewBudgetMapping(),
	}
}

// DefaultCategoryConfig returns the configuration written on first use.
func DefaultCategoryConfig() *CategoryConfig {
	cfg := NewCategoryConfig()
	for _, phrase := range []string{"grocery", "food", "supermarket"} {
		cfg.Keywords.Add(models.CategoryFood, phrase)
	}
	for _, phrase := range []string{"gas", "petrol", "public transportation"} {
		cfg.Keywords.Add(models.CategoryTransportation, phrase)
	}
	cfg.Budget.Set(models.CategoryFood, decimal.Zero)
	cfg.Budget.Set(models.CategoryTransportation, decimal.Zero)
	return cfg
}

// Dirty reports whether the configuration changed since it was loaded or saved.
func (c *CategoryConfig) Dirty() bool {
	return c.dirty
}

// Learn records description as a phrase of category, normalized to lower case
// with collapsed whitespace. The category is created when missing. It returns
// the phrase and whether it was new.
func (c *CategoryConfig) Learn(category, description string) (string, bool) {
	phrase := textutils.NormalizePhrase(description)
	if !c.Keywords.HasCategory(category) {
		c.dirty = true
	}
	added := c.Keywords.Add(category, phrase)
	if added {
		c.dirty = true
	}
	return phrase, added
}

// SetBudget assigns a spending limit to a category.
func (c *CategoryConfig) SetBudget(category string, limit decimal.Decimal) {
	if c.Budget.Has(category) && c.Budget.Limit(category).Equal(limit) {
		return
	}
	c.Budget.Set(category, limit)
	c.dirty = true
}

// Categories lists the categories a transaction can be assigned to: keyword
// categories in mapping order, then categories that only have a budget.
// Ignore is never included.
func (c *CategoryConfig) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	add := func(category string) {
		if category == models.CategoryIgnore || category == models.CategoryUncategorized || seen[category] {
			return
		}
		seen[category] = true
		categories = append(categories, category)
	}

	for _, category := range c.Keywords.Categories() {
		add(category)
	}
	for _, category := range c.Budget.Categories() {
		add(category)
	}
	return categories
}
