// Package run handles the budgeting pass over new transaction exports
package run

import (
	"fmt"
	"io"

	"fjacquet/budget-buddy/cmd/root"
	"fjacquet/budget-buddy/internal/container"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// Flags holds the options of the run command.
type Flags struct {
	NoPrompt  bool
	NoChart   bool
	InputDir  string
	OutputDir string
}

// Cmd represents the run command
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Categorize new transactions and report spending against budgets",
	Long: `Read every CSV export in the input directory, skip transactions already in
the ledger, merge repeated entries, categorize them with the keyword rules and
append them to the ledger. Transactions no rule matches are offered for
interactive categorization; the chosen category learns the description.

Example:
  budget-buddy run -i exports/ -o charts/`,
	Args: cobra.NoArgs,
	RunE: runFunc,
}

var flags Flags

func init() {
	Cmd.Flags().BoolVar(&flags.NoPrompt, "no-prompt", false, "Do not ask for categories of unmatched transactions")
	Cmd.Flags().BoolVar(&flags.NoChart, "no-chart", false, "Do not render the budget chart")
	Cmd.Flags().StringVarP(&flags.InputDir, "input", "i", "", "Input directory with CSV exports (overrides paths.input_dir)")
	Cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", "", "Output directory for the chart (overrides paths.output_dir)")
}

func runFunc(cmd *cobra.Command, args []string) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if flags.InputDir != "" {
		cfg.Paths.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		cfg.Paths.OutputDir = flags.OutputDir
	}

	c, err := root.NewContainer(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			c.GetLogger().WithError(cerr).Warn("Failed to close ledger")
		}
	}()

	return Execute(c, container.PipelineOptions{
		Interactive: !flags.NoPrompt,
		Chart:       !flags.NoChart,
	}, cmd.OutOrStdout())
}

// Execute runs one budgeting pass and prints the budget report and a
// summary of the run to out.
func Execute(c *container.Container, opts container.PipelineOptions, out io.Writer) error {
	categories, err := c.GetStore().Load()
	if err != nil {
		return fmt.Errorf("failed to load category configuration: %w", err)
	}

	p, err := c.NewPipeline(categories, opts)
	if err != nil {
		return err
	}

	result, err := p.Run()
	if err != nil {
		return err
	}

	text, err := c.GetReportGenerator().GenerateReport(result.Status, report.FormatText)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, string(text))
	fmt.Fprintf(out, "\nRead %d transactions: %d already recorded, %d after merging, %d appended to the ledger.\n",
		result.Read, result.Read-result.Fresh, result.Merged, result.Appended)
	if result.Stats.Ignored > 0 {
		fmt.Fprintf(out, "Ignored %d transactions.\n", result.Stats.Ignored)
	}
	if result.Resolved > 0 {
		fmt.Fprintf(out, "Categorized %d previously unmatched transactions.\n", result.Resolved)
	}
	if rowErr := result.RowError(); rowErr != nil {
		skipped := multierr.Errors(rowErr)
		c.GetLogger().WithError(rowErr).Warn("Skipped unreadable records",
			logging.Field{Key: logging.FieldCount, Value: len(skipped)})
		for _, err := range skipped {
			fmt.Fprintf(out, "Skipped: %v\n", err)
		}
	}
	if result.ConfigErr != nil {
		fmt.Fprintf(out, "Warning: category configuration not saved: %v\n", result.ConfigErr)
	}
	if result.ChartErr != nil {
		fmt.Fprintf(out, "Warning: budget chart not rendered: %v\n", result.ChartErr)
	}
	if result.ChartPath != "" {
		fmt.Fprintf(out, "\nResults saved as %s\n", result.ChartPath)
	}
	return nil
}
