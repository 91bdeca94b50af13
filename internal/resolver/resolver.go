// Package resolver asks the user to categorize transactions that no keyword
// matched.
package resolver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"
)

// OptionCreateCategory is the menu label for defining a new category.
const OptionCreateCategory = "Create new category"

// Prompter resolves transactions through a numbered menu on a text stream.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	logger logging.Logger
}

// NewPrompter creates a Prompter reading answers from in and writing the menu
// to out.
func NewPrompter(in io.Reader, out io.Writer, logger logging.Logger) *Prompter {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

// Resolve shows the transaction and the menu (the given categories, then
// Ignore, then "Create new category") and returns the chosen category name.
// Invalid answers are rejected and the question is asked again. io.EOF is
// returned when the input ends before a choice is made.
func (p *Prompter) Resolve(tx models.Transaction, categories []string) (string, error) {
	options := menuOptions(categories)

	fmt.Fprintf(p.out, "\nUncategorized transaction:\n  Date:        %s\n  Description: %s\n  Amount:      %s\n\n",
		tx.Date, tx.Description, models.FormatAmount(tx.Magnitude()))
	for i, option := range options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, option)
	}

	for {
		fmt.Fprintf(p.out, "Select a category [1-%d]: ", len(options))
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}

		choice, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(p.out, "Invalid input. Please enter a number.")
			continue
		}
		if choice < 1 || choice > len(options) {
			fmt.Fprintf(p.out, "Invalid choice. Please enter a number between 1 and %d.\n", len(options))
			continue
		}

		selected := options[choice-1]
		if selected == OptionCreateCategory {
			return p.askCategoryName(categories)
		}

		p.logger.Debug("Category chosen",
			logging.Field{Key: logging.FieldDescription, Value: tx.Description},
			logging.Field{Key: logging.FieldAmount, Value: tx.Magnitude().StringFixed(2)},
			logging.Field{Key: logging.FieldCategory, Value: selected},
		)
		return selected, nil
	}
}

func (p *Prompter) askCategoryName(existing []string) (string, error) {
	for {
		fmt.Fprint(p.out, "New category name: ")
		name, err := p.readLine()
		if err != nil {
			return "", err
		}
		if name == "" {
			fmt.Fprintln(p.out, "Category name cannot be empty.")
			continue
		}
		if strings.EqualFold(name, models.CategoryUncategorized) {
			fmt.Fprintf(p.out, "%s is reserved, choose another name.\n", models.CategoryUncategorized)
			continue
		}
		if strings.EqualFold(name, models.CategoryIgnore) {
			return models.CategoryIgnore, nil
		}
		for _, category := range existing {
			if strings.EqualFold(category, name) {
				return category, nil
			}
		}

		p.logger.Info("Creating category", logging.Field{Key: logging.FieldCategory, Value: name})
		return name, nil
	}
}

// readLine returns the next trimmed line. A final line without a newline is
// still returned; io.EOF is only reported when nothing was read.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func menuOptions(categories []string) []string {
	options := make([]string, 0, len(categories)+2)
	for _, category := range categories {
		if category == models.CategoryIgnore || category == models.CategoryUncategorized {
			continue
		}
		options = append(options, category)
	}
	return append(options, models.CategoryIgnore, OptionCreateCategory)
}
