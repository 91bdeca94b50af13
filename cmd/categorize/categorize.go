// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/budget-buddy/cmd/root"
	"fjacquet/budget-buddy/internal/categorizer"
	"fjacquet/budget-buddy/internal/container"

	"github.com/spf13/cobra"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize <description>",
	Short: "Categorize a transaction description with the keyword rules",
	Long: `Categorize a transaction description with the keyword rules of the category
configuration and print the matching category and phrase. Nothing is recorded.

Example:
  budget-buddy categorize "SHELL GAS STATION 042"`,
	Args: cobra.MinimumNArgs(1),
	RunE: categorizeFunc,
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	c, err := root.NewContainer(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	return Execute(c, strings.Join(args, " "), cmd.OutOrStdout())
}

// Execute matches description against the configured keyword rules and
// prints the outcome to out.
func Execute(c *container.Container, description string, out io.Writer) error {
	categories, err := c.GetStore().Load()
	if err != nil {
		return fmt.Errorf("failed to load category configuration: %w", err)
	}

	result := categorizer.NewKeywordMatcher(categories.Keywords, c.GetLogger()).Match(description)
	switch {
	case result.Ignored():
		fmt.Fprintf(out, "Category: %s (ignored, matched %q)\n", result.Category, result.Phrase)
	case result.Matched:
		fmt.Fprintf(out, "Category: %s (matched %q)\n", result.Category, result.Phrase)
	default:
		fmt.Fprintf(out, "Category: %s\n", result.Category)
	}
	return nil
}
