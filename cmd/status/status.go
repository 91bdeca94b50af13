// Package status reports spending recorded in the ledger against the budgets
package status

import (
	"fmt"
	"io"

	"fjacquet/budget-buddy/cmd/root"
	"fjacquet/budget-buddy/internal/budget"
	"fjacquet/budget-buddy/internal/container"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/report"
	"fjacquet/budget-buddy/internal/validation"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// Flags holds the options of the status command.
type Flags struct {
	Format string
	Chart  bool
}

// Cmd represents the status command
var Cmd = &cobra.Command{
	Use:   "status",
	Short: "Report spending recorded in the ledger against the budgets",
	Long: `Report spending of every transaction recorded in the ledger against the
per-category budgets. Transactions recorded as Uncategorized are matched again
so keywords learned since they were recorded apply.

Example:
  budget-buddy status --format json`,
	Args: cobra.NoArgs,
	RunE: statusFunc,
}

var flags Flags

func init() {
	Cmd.Flags().StringVarP(&flags.Format, "format", "f", report.FormatText, "Report format (text, json or xml)")
	Cmd.Flags().BoolVar(&flags.Chart, "chart", false, "Also render the budget chart to the output directory")
}

func statusFunc(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidReportFormat(flags.Format, report.FormatText, report.FormatJSON, report.FormatXML); err != nil {
		return err
	}
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	c, err := root.NewContainer(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	return Execute(c, flags, cmd.OutOrStdout())
}

// Execute aggregates the whole ledger and writes the report to out.
func Execute(c *container.Container, opts Flags, out io.Writer) error {
	categories, err := c.GetStore().Load()
	if err != nil {
		return fmt.Errorf("failed to load category configuration: %w", err)
	}

	l, err := c.GetLedger()
	if err != nil {
		return err
	}
	records, skipped, err := l.Load()
	if err != nil {
		return fmt.Errorf("error loading ledger: %w", err)
	}
	if len(skipped) > 0 {
		c.GetLogger().WithError(multierr.Combine(skipped...)).Warn("Ledger has unreadable rows",
			logging.Field{Key: logging.FieldCount, Value: len(skipped)})
	}

	classification := c.NewClassifier(categories).Regroup(records)
	status := budget.Aggregate(classification.Partition, categories.Budget)

	rendered, err := c.GetReportGenerator().GenerateReport(status, opts.Format)
	if err != nil {
		return err
	}
	if _, err := out.Write(rendered); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if opts.Format != report.FormatText && opts.Format != "" {
		fmt.Fprintln(out)
	}

	if opts.Chart && classification.Partition.Len() > 0 {
		path, err := c.GetChartRenderer().Render(status)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nResults saved as %s\n", path)
	}
	return nil
}
