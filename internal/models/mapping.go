package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// KeywordMapping is an ordered mapping from category name to trigger phrases.
// Category order and phrase order are significant: earlier entries win ties
// during matching.
type KeywordMapping struct {
	order   []string
	phrases map[string][]string
}

// NewKeywordMapping creates an empty keyword mapping.
func NewKeywordMapping() *KeywordMapping {
	return &KeywordMapping{
		phrases: make(map[string][]string),
	}
}

// Categories returns the category names in declaration order.
func (m *KeywordMapping) Categories() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Phrases returns the phrases of a category in declaration order.
func (m *KeywordMapping) Phrases(category string) []string {
	phrases := m.phrases[category]
	out := make([]string, len(phrases))
	copy(out, phrases)
	return out
}

// HasCategory reports whether the category is declared.
func (m *KeywordMapping) HasCategory(category string) bool {
	_, ok := m.phrases[category]
	return ok
}

// AddCategory declares a category without phrases. It is a no-op when the
// category already exists.
func (m *KeywordMapping) AddCategory(category string) {
	if m.HasCategory(category) {
		return
	}
	m.order = append(m.order, category)
	m.phrases[category] = []string{}
}

// Add appends a phrase to a category, declaring the category at the end when it
// is new. Empty phrases and phrases already present in the category (compared
// case-insensitively) are ignored. It returns true when the phrase was added.
func (m *KeywordMapping) Add(category, phrase string) bool {
	phrase = strings.TrimSpace(phrase)
	m.AddCategory(category)
	if phrase == "" {
		return false
	}
	for _, existing := range m.phrases[category] {
		if strings.EqualFold(existing, phrase) {
			return false
		}
	}
	m.phrases[category] = append(m.phrases[category], phrase)
	return true
}

// Len returns the number of categories.
func (m *KeywordMapping) Len() int {
	return len(m.order)
}

// BudgetMapping is an ordered mapping from category name to spending limit.
type BudgetMapping struct {
	order  []string
	limits map[string]decimal.Decimal
}

// NewBudgetMapping creates an empty budget mapping.
func NewBudgetMapping() *BudgetMapping {
	return &BudgetMapping{
		limits: make(map[string]decimal.Decimal),
	}
}

// Set assigns a limit to a category, keeping its original position if it
// already exists.
func (b *BudgetMapping) Set(category string, limit decimal.Decimal) {
	if _, ok := b.limits[category]; !ok {
		b.order = append(b.order, category)
	}
	b.limits[category] = limit
}

// Limit returns the limit for a category; absent categories have a zero limit.
func (b *BudgetMapping) Limit(category string) decimal.Decimal {
	if b == nil {
		return decimal.Zero
	}
	return b.limits[category]
}

// Has reports whether a category has an explicit budget entry.
func (b *BudgetMapping) Has(category string) bool {
	if b == nil {
		return false
	}
	_, ok := b.limits[category]
	return ok
}

// Categories returns the budgeted categories in declaration order.
func (b *BudgetMapping) Categories() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Total returns the sum of all limits.
func (b *BudgetMapping) Total() decimal.Decimal {
	total := decimal.Zero
	if b == nil {
		return total
	}
	for _, category := range b.order {
		total = total.Add(b.limits[category])
	}
	return total
}

// Partition groups transactions by category, preserving bucket order and the
// arrival order inside each bucket. The Uncategorized bucket, once present,
// stays last.
type Partition struct {
	order   []string
	buckets map[string][]Transaction
}

// NewPartition creates a partition with the given buckets pre-seeded in order.
func NewPartition(categories ...string) *Partition {
	p := &Partition{
		buckets: make(map[string][]Transaction, len(categories)+1),
	}
	for _, category := range categories {
		p.ensure(category)
	}
	return p
}

func (p *Partition) ensure(category string) {
	if _, ok := p.buckets[category]; ok {
		return
	}
	p.buckets[category] = []Transaction{}

	last := len(p.order) - 1
	if last >= 0 && p.order[last] == CategoryUncategorized {
		p.order = append(p.order[:last], category, CategoryUncategorized)
		return
	}
	p.order = append(p.order, category)
}

// Append adds a transaction to a bucket, creating the bucket at the end (but
// before Uncategorized) when it is new.
func (p *Partition) Append(category string, tx Transaction) {
	p.ensure(category)
	p.buckets[category] = append(p.buckets[category], tx)
}

// Categories returns the bucket names in order.
func (p *Partition) Categories() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Transactions returns the transactions of a bucket.
func (p *Partition) Transactions(category string) []Transaction {
	return p.buckets[category]
}

// All returns every transaction in bucket order.
func (p *Partition) All() []Transaction {
	var all []Transaction
	for _, category := range p.order {
		all = append(all, p.buckets[category]...)
	}
	return all
}

// Len returns the total number of transactions across all buckets.
func (p *Partition) Len() int {
	n := 0
	for _, txs := range p.buckets {
		n += len(txs)
	}
	return n
}

// Reassign moves the first transaction with the given key out of fromCategory
// and appends it to toCategory with its category updated. It returns false
// when no such transaction exists.
func (p *Partition) Reassign(key Key, fromCategory, toCategory string) bool {
	txs := p.buckets[fromCategory]
	for i, tx := range txs {
		if tx.Key() != key {
			continue
		}
		remaining := make([]Transaction, 0, len(txs)-1)
		remaining = append(remaining, txs[:i]...)
		remaining = append(remaining, txs[i+1:]...)
		p.buckets[fromCategory] = remaining
		if toCategory != CategoryIgnore {
			p.Append(toCategory, tx.WithCategory(toCategory))
		}
		return true
	}
	return false
}
