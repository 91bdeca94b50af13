// Package budget computes spending against per-category budget limits.
package budget

import (
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"

	"github.com/shopspring/decimal"
)

// CategoryStatus is the spending summary of one category.
type CategoryStatus struct {
	Category       string
	Budget         decimal.Decimal
	Spent          decimal.Decimal
	PercentageUsed decimal.Decimal // zero when Budget is zero, may exceed 100
	Count          int
}

// Budgeted reports whether the category has a positive limit.
func (s CategoryStatus) Budgeted() bool {
	return s.Budget.IsPositive()
}

// Over reports whether spending exceeds a positive budget.
func (s CategoryStatus) Over() bool {
	return s.Budgeted() && s.Spent.GreaterThan(s.Budget)
}

// Overage returns how much spending exceeds the budget, or zero.
func (s CategoryStatus) Overage() decimal.Decimal {
	if !s.Over() {
		return decimal.Zero
	}
	return s.Spent.Sub(s.Budget)
}

// Remaining returns the unspent part of a positive budget, or zero.
func (s CategoryStatus) Remaining() decimal.Decimal {
	if !s.Budgeted() || s.Over() {
		return decimal.Zero
	}
	return s.Budget.Sub(s.Spent)
}

// Status is the budget status of a whole partition.
type Status struct {
	Categories  []CategoryStatus // in partition order
	TotalBudget decimal.Decimal  // sum of every configured limit
	TotalSpent  decimal.Decimal  // sum of Spent over all categories
}

// Category returns the status of a single category.
func (s Status) Category(name string) (CategoryStatus, bool) {
	for _, cs := range s.Categories {
		if cs.Category == name {
			return cs, true
		}
	}
	return CategoryStatus{}, false
}

// Overages returns the categories spending more than their budget.
func (s Status) Overages() []CategoryStatus {
	var over []CategoryStatus
	for _, cs := range s.Categories {
		if cs.Over() {
			over = append(over, cs)
		}
	}
	return over
}

// TotalPercentageUsed returns TotalSpent as a percentage of TotalBudget, or
// zero when nothing is budgeted.
func (s Status) TotalPercentageUsed() decimal.Decimal {
	return models.Percentage(s.TotalSpent, s.TotalBudget)
}

// Aggregate computes per-category spending for every bucket of the partition.
// Amounts are summed as magnitudes so the sign convention of the source never
// affects the result.
func Aggregate(partition *models.Partition, budgets *models.BudgetMapping) Status {
	status := Status{
		TotalBudget: budgets.Total(),
		TotalSpent:  decimal.Zero,
	}
	if partition == nil {
		return status
	}

	for _, category := range partition.Categories() {
		txs := partition.Transactions(category)
		spent := models.SumMagnitudes(txs)
		limit := budgets.Limit(category)

		status.Categories = append(status.Categories, CategoryStatus{
			Category:       category,
			Budget:         limit,
			Spent:          spent,
			PercentageUsed: models.Percentage(spent, limit),
			Count:          len(txs),
		})
		status.TotalSpent = status.TotalSpent.Add(spent)
	}

	return status
}

// LogSummary logs the totals and every overage.
func (s Status) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}
	logger.Info("Budget status",
		logging.Field{Key: "total_budget", Value: s.TotalBudget.StringFixed(2)},
		logging.Field{Key: "total_spent", Value: s.TotalSpent.StringFixed(2)},
		logging.Field{Key: "categories", Value: len(s.Categories)},
	)
	for _, cs := range s.Overages() {
		logger.Warn("Budget exceeded",
			logging.Field{Key: logging.FieldCategory, Value: cs.Category},
			logging.Field{Key: "budget", Value: cs.Budget.StringFixed(2)},
			logging.Field{Key: "spent", Value: cs.Spent.StringFixed(2)},
			logging.Field{Key: "overage", Value: cs.Overage().StringFixed(2)},
		)
	}
}
