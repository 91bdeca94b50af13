// Package budget handles the per-category budget limits of the category configuration
package budget

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/budget-buddy/cmd/root"
	"fjacquet/budget-buddy/internal/container"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the budget command
var Cmd = &cobra.Command{
	Use:   "budget",
	Short: "Show or change per-category budget limits",
	Long: `Show or change the per-category budget limits stored in the category
configuration.

Examples:
  budget-buddy budget list
  budget-buddy budget set Food 300`,
}

// SetCmd represents the budget set command
var SetCmd = &cobra.Command{
	Use:   "set <category> <limit>",
	Short: "Set the budget limit of a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(c *container.Container) error {
			return Set(c, args[0], args[1], cmd.OutOrStdout())
		})
	},
}

// ListCmd represents the budget list command
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their budget limits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(c *container.Container) error {
			return List(c, cmd.OutOrStdout())
		})
	},
}

func init() {
	Cmd.AddCommand(SetCmd)
	Cmd.AddCommand(ListCmd)
}

func withContainer(cmd *cobra.Command, fn func(*container.Container) error) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	c, err := root.NewContainer(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()
	return fn(c)
}

// Set stores limit as the budget of category and saves the configuration
// when it changed.
func Set(c *container.Container, category, limit string, out io.Writer) error {
	switch category {
	case "":
		return fmt.Errorf("category must not be empty")
	case models.CategoryIgnore, models.CategoryUncategorized:
		return fmt.Errorf("category %s cannot have a budget", category)
	}

	amount, err := models.ParseAmount(limit)
	if err != nil {
		return fmt.Errorf("invalid budget limit %q: %w", limit, err)
	}
	if amount.IsNegative() {
		return fmt.Errorf("budget limit must not be negative, got %s", limit)
	}

	s := c.GetStore()
	categories, err := s.Load()
	if err != nil {
		return fmt.Errorf("failed to load category configuration: %w", err)
	}

	categories.SetBudget(category, amount)
	if categories.Dirty() {
		if err := s.Save(categories); err != nil {
			return err
		}
		c.GetLogger().Info("Budget updated",
			logging.Field{Key: logging.FieldCategory, Value: category},
			logging.Field{Key: "budget", Value: amount.StringFixed(2)})
	}

	fmt.Fprintf(out, "Budget for %s set to %s\n", category, models.FormatAmount(amount))
	return nil
}

// List prints every category with its budget limit and keyword count.
func List(c *container.Container, out io.Writer) error {
	categories, err := c.GetStore().Load()
	if err != nil {
		return fmt.Errorf("failed to load category configuration: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Category\tBudget\tKeywords")
	for _, category := range categories.Categories() {
		fmt.Fprintf(w, "%s\t%s\t%d\n",
			category,
			models.FormatAmount(categories.Budget.Limit(category)),
			len(categories.Keywords.Phrases(category)))
	}
	fmt.Fprintf(w, "Total\t%s\t\n", models.FormatAmount(categories.Budget.Total()))
	return w.Flush()
}
