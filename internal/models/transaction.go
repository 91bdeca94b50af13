// Package models provides the data structures used throughout the application.
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction represents a single spending record.
//
// Amount holds the magnitude of the charge while the record is inside the
// pipeline. The outflow sign is only applied when the record is written to the
// ledger and stripped again when it is read back.
type Transaction struct {
	Date        string          `csv:"Date"`
	Description string          `csv:"Description"`
	Amount      decimal.Decimal `csv:"Amount"`
	Category    string          `csv:"Category"`
}

// Key identifies a transaction for deduplication and merging purposes:
// the date as read plus the trimmed, lower-cased description.
type Key struct {
	Date        string
	Description string
}

// Key returns the identity key of the transaction.
func (t Transaction) Key() Key {
	return Key{
		Date:        strings.TrimSpace(t.Date),
		Description: strings.ToLower(strings.TrimSpace(t.Description)),
	}
}

// Magnitude returns the absolute value of the amount.
func (t Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

// SignedAmount returns the amount as persisted in the ledger: a negative value
// denotes an outflow.
func (t Transaction) SignedAmount() decimal.Decimal {
	return t.Amount.Abs().Neg()
}

// IsCategorized returns true if the transaction has a real category assigned.
func (t Transaction) IsCategorized() bool {
	return t.Category != "" && t.Category != CategoryUncategorized
}

// WithCategory returns a copy of the transaction carrying the given category.
func (t Transaction) WithCategory(category string) Transaction {
	t.Category = category
	return t
}

// ParseAmount parses a string amount into a decimal.
// Currency symbols, spaces and apostrophes are stripped. When both a dot and a
// comma occur, the last one is the decimal separator. A lone comma is a
// decimal separator only when one or two digits follow it; otherwise commas
// (and repeated dots) must group digits by three. Anything else is rejected.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "'", "")
	amount = strings.ReplaceAll(amount, "$", "")
	amount = strings.ReplaceAll(amount, "€", "")
	amount = strings.ReplaceAll(amount, "£", "")
	amount = strings.TrimPrefix(amount, "+")

	// (12.50) is an accounting-style negative
	if strings.HasPrefix(amount, "(") && strings.HasSuffix(amount, ")") {
		amount = "-" + strings.TrimSuffix(strings.TrimPrefix(amount, "("), ")")
	}

	normalized, err := normalizeSeparators(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	return decimal.NewFromString(normalized)
}

func normalizeSeparators(amount string) (string, error) {
	lastDot := strings.LastIndex(amount, ".")
	lastComma := strings.LastIndex(amount, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimalSep, groupSep := ".", ","
		if lastComma > lastDot {
			decimalSep, groupSep = ",", "."
		}
		intPart, fracPart, _ := strings.Cut(amount, decimalSep)
		if strings.Contains(fracPart, decimalSep) || strings.Contains(fracPart, groupSep) {
			return "", errors.New("misplaced separator")
		}
		if !isGrouped(intPart, groupSep) {
			return "", errors.New("digits must be grouped by three")
		}
		return strings.ReplaceAll(intPart, groupSep, "") + "." + fracPart, nil

	case lastComma >= 0:
		if strings.Count(amount, ",") == 1 {
			if frac := len(amount) - lastComma - 1; frac == 1 || frac == 2 {
				return strings.Replace(amount, ",", ".", 1), nil
			}
		}
		if !isGrouped(amount, ",") {
			return "", errors.New("digits must be grouped by three")
		}
		return strings.ReplaceAll(amount, ",", ""), nil

	case strings.Count(amount, ".") > 1:
		if !isGrouped(amount, ".") {
			return "", errors.New("too many decimal points")
		}
		return strings.ReplaceAll(amount, ".", ""), nil
	}
	return amount, nil
}

// isGrouped reports whether sep splits s into a leading group of one to three
// digits followed by groups of exactly three digits. A leading minus sign is
// allowed.
func isGrouped(s, sep string) bool {
	groups := strings.Split(strings.TrimPrefix(s, "-"), sep)
	for i, group := range groups {
		if i == 0 && (len(group) < 1 || len(group) > 3) {
			return false
		}
		if i > 0 && len(group) != 3 {
			return false
		}
		for _, r := range group {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
