// Package report renders the budget status for the terminal or for other
// programs.
package report

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"text/tabwriter"

	"fjacquet/budget-buddy/internal/budget"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"
)

// Supported report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// BudgetReport is the serializable form of a budget status.
type BudgetReport struct {
	XMLName             xml.Name       `json:"-" xml:"budgetReport"`
	Categories          []CategoryLine `json:"categories" xml:"category"`
	TotalBudget         string         `json:"total_budget" xml:"totalBudget"`
	TotalSpent          string         `json:"total_spent" xml:"totalSpent"`
	TotalPercentageUsed string         `json:"total_percentage_used" xml:"totalPercentageUsed"`
}

// CategoryLine is one category of a BudgetReport. Amounts are fixed to two
// decimals.
type CategoryLine struct {
	Category       string `json:"category" xml:"name,attr"`
	Budget         string `json:"budget" xml:"budget"`
	Spent          string `json:"spent" xml:"spent"`
	PercentageUsed string `json:"percentage_used" xml:"percentageUsed"`
	Transactions   int    `json:"transactions" xml:"transactions"`
	Over           bool   `json:"over" xml:"over"`
	Overage        string `json:"overage" xml:"overage"`
}

// NewBudgetReport converts a status into its report form.
func NewBudgetReport(status budget.Status) *BudgetReport {
	report := &BudgetReport{
		Categories:          make([]CategoryLine, 0, len(status.Categories)),
		TotalBudget:         status.TotalBudget.StringFixed(2),
		TotalSpent:          status.TotalSpent.StringFixed(2),
		TotalPercentageUsed: status.TotalPercentageUsed().StringFixed(2),
	}
	for _, cs := range status.Categories {
		report.Categories = append(report.Categories, CategoryLine{
			Category:       cs.Category,
			Budget:         cs.Budget.StringFixed(2),
			Spent:          cs.Spent.StringFixed(2),
			PercentageUsed: cs.PercentageUsed.StringFixed(2),
			Transactions:   cs.Count,
			Over:           cs.Over(),
			Overage:        cs.Overage().StringFixed(2),
		})
	}
	return report
}

// ReportGenerator renders budget reports in various formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ReportGenerator{
		logger: logger.WithField("component", "ReportGenerator"),
	}
}

// GenerateReport renders the status in the specified format (text, json or xml).
func (g *ReportGenerator) GenerateReport(status budget.Status, format string) ([]byte, error) {
	switch format {
	case FormatText, "":
		return g.generateTextReport(status)
	case FormatJSON:
		return g.generateJSONReport(status)
	case FormatXML:
		return g.generateXMLReport(status)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateTextReport(status budget.Status) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("Budget Status:\n")

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Category\tBudget\tSpent\tUsed\tCount\t")
	for _, cs := range status.Categories {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s%%\t%d\t\n",
			cs.Category,
			models.FormatAmount(cs.Budget),
			models.FormatAmount(cs.Spent),
			cs.PercentageUsed.StringFixed(2),
			cs.Count,
		)
	}
	if err := w.Flush(); err != nil {
		g.logger.WithError(err).Error("Failed to render text report")
		return nil, fmt.Errorf("failed to render text report: %w", err)
	}

	for _, cs := range status.Overages() {
		fmt.Fprintf(&buf, "Warning: you have exceeded the budget for %s by %s\n",
			cs.Category, models.FormatAmount(cs.Overage()))
	}

	fmt.Fprintf(&buf, "\nTotal Budget: %s\n", models.FormatAmount(status.TotalBudget))
	fmt.Fprintf(&buf, "Total Spent Across All Categories: %s\n", models.FormatAmount(status.TotalSpent))
	return buf.Bytes(), nil
}

// generateJSONReport generates a budget report in JSON format.
func (g *ReportGenerator) generateJSONReport(status budget.Status) ([]byte, error) {
	jsonReport, err := json.MarshalIndent(NewBudgetReport(status), "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return jsonReport, nil
}

// generateXMLReport generates a budget report in XML format.
func (g *ReportGenerator) generateXMLReport(status budget.Status) ([]byte, error) {
	xmlReport, err := xml.MarshalIndent(NewBudgetReport(status), "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal XML report")
		return nil, fmt.Errorf("failed to marshal XML report: %w", err)
	}
	return []byte(xml.Header + string(xmlReport)), nil
}
