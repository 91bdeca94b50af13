package resolver

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = models.Transaction{
	Date:        "2024-01-05",
	Description: "Corner Bakery",
	Amount:      decimal.RequireFromString("1234.5"),
}

func TestPrompter_Resolve(t *testing.T) {
	categories := []string{"Food", "Transportation"}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "existing category", input: "1\n", expected: "Food"},
		{name: "second category", input: " 2 \n", expected: "Transportation"},
		{name: "ignore", input: "3\n", expected: models.CategoryIgnore},
		{name: "reprompt on non numeric", input: "abc\n\n2\n", expected: "Transportation"},
		{name: "reprompt on out of range", input: "0\n9\n1\n", expected: "Food"},
		{name: "create new category", input: "4\nDining\n", expected: "Dining"},
		{name: "create reprompts on empty name", input: "4\n\n  \nPets\n", expected: "Pets"},
		{name: "create with existing name reuses it", input: "4\nfood\n", expected: "Food"},
		{name: "create named ignore", input: "4\nIGNORE\n", expected: models.CategoryIgnore},
		{name: "create rejects uncategorized", input: "4\nuncategorized\nGifts\n", expected: "Gifts"},
		{name: "last line without newline", input: "2", expected: "Transportation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			prompter := NewPrompter(strings.NewReader(tt.input), &out, &logging.MockLogger{})

			category, err := prompter.Resolve(sample, categories)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, category)
		})
	}
}

func TestPrompter_ResolveShowsMenu(t *testing.T) {
	var out bytes.Buffer
	prompter := NewPrompter(strings.NewReader("x\n7\n1\n"), &out, &logging.MockLogger{})

	_, err := prompter.Resolve(sample, []string{"Food", models.CategoryIgnore, "Rent"})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Corner Bakery")
	assert.Contains(t, text, "2024-01-05")
	assert.Contains(t, text, "1,234.50")
	assert.Contains(t, text, "  1. Food\n  2. Rent\n  3. Ignore\n  4. Create new category\n")
	assert.Contains(t, text, "Invalid input. Please enter a number.")
	assert.Contains(t, text, "Invalid choice. Please enter a number between 1 and 4.")
}

func TestPrompter_ResolveEOF(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no input", input: ""},
		{name: "only invalid answers", input: "x\n"},
		{name: "eof while naming", input: "4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompter := NewPrompter(strings.NewReader(tt.input), io.Discard, &logging.MockLogger{})
			_, err := prompter.Resolve(sample, []string{"Food", "Transportation"})
			assert.True(t, errors.Is(err, io.EOF))
		})
	}
}

func TestPrompter_SequentialQuestionsShareInput(t *testing.T) {
	prompter := NewPrompter(strings.NewReader("1\n2\n"), io.Discard, &logging.MockLogger{})

	first, err := prompter.Resolve(sample, []string{"Food", "Rent"})
	require.NoError(t, err)
	second, err := prompter.Resolve(sample, []string{"Food", "Rent"})
	require.NoError(t, err)

	assert.Equal(t, "Food", first)
	assert.Equal(t, "Rent", second)
}
