package pipeline

import (
	"sort"

	"fjacquet/budget-buddy/internal/dateutils"
	"fjacquet/budget-buddy/internal/models"
)

// Merge combines consecutive transactions that share the same date and
// description (compared case-insensitively) into a single record whose amount
// is the sum of their magnitudes. Only adjacent records are combined; use
// SortForMerge first to bring every duplicate together.
//
// The first record of each run supplies the description and category of the
// merged record. Every output amount is a non-negative magnitude.
func Merge(transactions []models.Transaction) []models.Transaction {
	merged := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		last := len(merged) - 1
		if last >= 0 && merged[last].Key() == tx.Key() {
			merged[last].Amount = merged[last].Amount.Add(tx.Magnitude())
			continue
		}
		tx.Amount = tx.Magnitude()
		merged = append(merged, tx)
	}
	return merged
}

// SortForMerge returns a copy of the transactions ordered by date, then by
// lower-cased description. The sort is stable so records with equal keys keep
// their arrival order.
func SortForMerge(transactions []models.Transaction) []models.Transaction {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)

	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := sorted[i].Key(), sorted[j].Key()
		if ki.Date != kj.Date {
			if c := dateutils.CompareDateStrings(ki.Date, kj.Date); c != 0 {
				return c < 0
			}
			return ki.Date < kj.Date
		}
		return ki.Description < kj.Description
	})
	return sorted
}
