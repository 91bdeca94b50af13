package budget_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budget-buddy/cmd/budget"
	"fjacquet/budget-buddy/internal/config"
	"fjacquet/budget-buddy/internal/container"
	"fjacquet/budget-buddy/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetCommand_Metadata(t *testing.T) {
	assert.Equal(t, "budget", budget.Cmd.Use)
	assert.Contains(t, budget.Cmd.Short, "budget limits")

	names := make([]string, 0, len(budget.Cmd.Commands()))
	for _, sub := range budget.Cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"set", "list"}, names)

	assert.Error(t, budget.SetCmd.Args(budget.SetCmd, []string{"Food"}))
	assert.NoError(t, budget.SetCmd.Args(budget.SetCmd, []string{"Food", "300"}))
	assert.Error(t, budget.ListCmd.Args(budget.ListCmd, []string{"extra"}))
}

func newContainer(t *testing.T) (*container.Container, string) {
	t.Helper()
	dir := t.TempDir()
	categoriesFile := filepath.Join(dir, "categories.yaml")
	require.NoError(t, os.WriteFile(categoriesFile, []byte(`keyword_mapping:
  Food:
    - grocery
    - supermarket
  Transportation:
    - gas
budget:
  Food: 300
`), 0600))

	cfg := &config.Config{
		Log:    config.LogConfig{Level: "info", Format: "text"},
		Paths:  config.PathsConfig{CategoriesFile: categoriesFile, LedgerFile: filepath.Join(dir, "transactions.csv")},
		Ledger: config.LedgerConfig{Backend: "csv"},
		CSV:    config.CSVConfig{Delimiter: ","},
		Chart:  config.ChartConfig{Width: 10, Height: 10},
	}
	c, err := container.NewContainer(cfg, container.WithLogger(&logging.MockLogger{}))
	require.NoError(t, err)
	return c, categoriesFile
}

func TestSet(t *testing.T) {
	c, categoriesFile := newContainer(t)

	var out bytes.Buffer
	require.NoError(t, budget.Set(c, "Transportation", "1500", &out))
	assert.Equal(t, "Budget for Transportation set to 1,500.00\n", out.String())

	reloaded, err := c.GetStore().Load()
	require.NoError(t, err)
	assert.Equal(t, "1500", reloaded.Budget.Limit("Transportation").String())
	assert.Equal(t, "300", reloaded.Budget.Limit("Food").String())

	data, err := os.ReadFile(categoriesFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Transportation: 1500")
}

func TestSet_NewBudgetOnlyCategory(t *testing.T) {
	c, _ := newContainer(t)

	var out bytes.Buffer
	require.NoError(t, budget.Set(c, "Rent", "1000.50", &out))

	reloaded, err := c.GetStore().Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Transportation", "Rent"}, reloaded.Categories())
}

func TestSet_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		limit       string
		expectError string
	}{
		{name: "not a number", category: "Food", limit: "lots", expectError: "invalid budget limit"},
		{name: "negative", category: "Food", limit: "-5", expectError: "must not be negative"},
		{name: "empty category", category: "", limit: "5", expectError: "category must not be empty"},
		{name: "ignore", category: "Ignore", limit: "5", expectError: "cannot have a budget"},
		{name: "uncategorized", category: "Uncategorized", limit: "5", expectError: "cannot have a budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContainer(t)
			var out bytes.Buffer
			err := budget.Set(c, tt.category, tt.limit, &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
			assert.Empty(t, out.String())
		})
	}
}

func TestList(t *testing.T) {
	c, _ := newContainer(t)

	var out bytes.Buffer
	require.NoError(t, budget.List(c, &out))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Regexp(t, `^Category\s+Budget\s+Keywords$`, string(lines[0]))
	assert.Regexp(t, `^Food\s+300\.00\s+2$`, string(lines[1]))
	assert.Regexp(t, `^Transportation\s+0\.00\s+1$`, string(lines[2]))
	assert.Regexp(t, `^Total\s+300\.00`, string(lines[3]))
}
