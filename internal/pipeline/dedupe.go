package pipeline

import (
	"fjacquet/budget-buddy/internal/models"
)

// Dedupe returns the records of newRecords whose (date, description) key does
// not appear in existing. Descriptions are compared case-insensitively.
//
// The amount is not part of the key: a record read again with the same date
// and description but a different amount is treated as already processed.
func Dedupe(newRecords, existing []models.Transaction) []models.Transaction {
	seen := make(map[models.Key]struct{}, len(existing))
	for _, tx := range existing {
		seen[tx.Key()] = struct{}{}
	}

	fresh := make([]models.Transaction, 0, len(newRecords))
	for _, tx := range newRecords {
		if _, ok := seen[tx.Key()]; ok {
			continue
		}
		fresh = append(fresh, tx)
	}
	return fresh
}
