// Package pipeline runs one budgeting pass: read new exports, drop what the
// ledger already holds, merge repeated entries, categorize, let the user
// resolve the leftovers, persist, and report against the budgets.
package pipeline

import (
	"errors"
	"fmt"
	"io"

	"fjacquet/budget-buddy/internal/budget"
	"fjacquet/budget-buddy/internal/categorizer"
	"fjacquet/budget-buddy/internal/ledger"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"
	"fjacquet/budget-buddy/internal/source"
	"fjacquet/budget-buddy/internal/store"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Source provides the raw records of a run.
type Source interface {
	Read() (source.Batch, error)
}

// Ledger is the persisted record of processed transactions. Load reports
// unreadable rows separately from the records; see ledger.SkippedRowError.
type Ledger interface {
	Load() ([]models.Transaction, []error, error)
	Append(transactions []models.Transaction) error
}

// ConfigSaver persists the category configuration.
type ConfigSaver interface {
	Save(cfg *store.CategoryConfig) error
}

// Resolver picks a category for a transaction no phrase matched. It returns
// io.EOF when no more answers are available.
type Resolver interface {
	Resolve(tx models.Transaction, categories []string) (string, error)
}

// Visualizer renders the budget status and returns the written file.
type Visualizer interface {
	Render(status budget.Status) (string, error)
}

// Deps are the collaborators of a Pipeline. Resolver and Visualizer are
// optional.
type Deps struct {
	Source     Source
	Ledger     Ledger
	Config     *store.CategoryConfig
	Saver      ConfigSaver
	Resolver   Resolver
	Visualizer Visualizer
	Logger     logging.Logger
}

// Result summarizes a run.
type Result struct {
	RunID string

	Read     int // records read from the source
	Fresh    int // records left after dropping those already in the ledger
	Merged   int // records left after merging repeated entries
	Resolved int // unmatched records categorized by the resolver or by phrases learned this run
	Appended int // records written to the ledger

	Stats     models.CategorizationStats
	Partition *models.Partition
	Status    budget.Status

	// RowErrors lists skipped source files and rows, then skipped ledger rows.
	RowErrors []error

	ChartPath string
	ChartErr  error
	ConfigErr error
}

// RowError combines every row-level error into one, or returns nil.
func (r *Result) RowError() error {
	return multierr.Combine(r.RowErrors...)
}

// Pipeline runs budgeting passes over its dependencies.
type Pipeline struct {
	deps Deps
}

// New creates a Pipeline. Source, Ledger, Config and Saver are required.
func New(deps Deps) (*Pipeline, error) {
	switch {
	case deps.Source == nil:
		return nil, errors.New("pipeline: source is required")
	case deps.Ledger == nil:
		return nil, errors.New("pipeline: ledger is required")
	case deps.Config == nil:
		return nil, errors.New("pipeline: category configuration is required")
	case deps.Saver == nil:
		return nil, errors.New("pipeline: configuration saver is required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Pipeline{deps: deps}, nil
}

// Run executes one pass. Failing to read the ledger or the source, or to
// append to the ledger, aborts the run. Failing to save the configuration or
// to render the chart is logged and reported in the Result.
func (p *Pipeline) Run() (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	log := p.deps.Logger.WithField(logging.FieldRunID, result.RunID)
	cfg := p.deps.Config

	existing, skipped, err := p.deps.Ledger.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading ledger: %w", err)
	}
	if len(skipped) > 0 {
		log.WithError(multierr.Combine(skipped...)).Warn("Ledger has unreadable rows",
			logging.Field{Key: logging.FieldCount, Value: len(skipped)})
	}

	batch, err := p.deps.Source.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	result.RowErrors = append(append(result.RowErrors, batch.Errors...), skipped...)
	result.Read = len(batch.Transactions)

	fresh := Dedupe(batch.Transactions, recorded(existing, skipped))
	result.Fresh = len(fresh)

	merged := Merge(SortForMerge(fresh))
	result.Merged = len(merged)

	log.Info("Prepared new transactions",
		logging.Field{Key: "read", Value: result.Read},
		logging.Field{Key: "fresh", Value: result.Fresh},
		logging.Field{Key: "merged", Value: result.Merged},
	)

	matcher := categorizer.NewKeywordMatcher(cfg.Keywords, log)
	classification := categorizer.NewClassifier(cfg.Keywords, matcher, log).Classify(merged)
	result.Stats = classification.Stats
	result.Partition = classification.Partition

	result.Resolved = p.resolve(classification, matcher, log)

	toPersist := result.Partition.All()
	if err := p.deps.Ledger.Append(toPersist); err != nil {
		return nil, fmt.Errorf("error appending to ledger: %w", err)
	}
	result.Appended = len(toPersist)

	if cfg.Dirty() {
		if err := p.deps.Saver.Save(cfg); err != nil {
			result.ConfigErr = err
			log.WithError(err).Error("Failed to save category configuration")
		}
	}

	result.Status = budget.Aggregate(result.Partition, cfg.Budget)
	result.Status.LogSummary(log)

	if p.deps.Visualizer != nil && result.Partition.Len() > 0 {
		path, err := p.deps.Visualizer.Render(result.Status)
		if err != nil {
			result.ChartErr = err
			log.WithError(err).Warn("Failed to render budget chart")
		} else {
			result.ChartPath = path
		}
	}

	log.Info("Run complete",
		logging.Field{Key: "appended", Value: result.Appended},
		logging.Field{Key: "resolved", Value: result.Resolved},
		logging.Field{Key: "row_errors", Value: len(result.RowErrors)},
	)
	return result, nil
}

// recorded returns the ledger records plus a key-only record for every skipped
// ledger row whose key was readable, so Dedupe still treats them as processed.
func recorded(existing []models.Transaction, skipped []error) []models.Transaction {
	keys := ledger.SkippedKeys(skipped)
	if len(keys) == 0 {
		return existing
	}
	all := make([]models.Transaction, 0, len(existing)+len(keys))
	all = append(all, existing...)
	for _, key := range keys {
		all = append(all, models.Transaction{Date: key.Date, Description: key.Description})
	}
	return all
}

// resolve works through the unmatched records in arrival order. Each record is
// first matched again so a phrase learned for an earlier record applies to
// later ones without asking. Otherwise the resolver is asked, and its answer
// is learned as a phrase. When input runs out the remaining records stay
// Uncategorized.
func (p *Pipeline) resolve(classification categorizer.Classification, matcher categorizer.Matcher, log logging.Logger) int {
	cfg := p.deps.Config
	partition := classification.Partition
	resolved := 0
	prompting := p.deps.Resolver != nil

	for _, tx := range classification.Unmatched {
		if match := matcher.Match(tx.Description); match.Matched {
			partition.Reassign(tx.Key(), models.CategoryUncategorized, match.Category)
			resolved++
			continue
		}
		if !prompting {
			continue
		}

		category, err := p.deps.Resolver.Resolve(tx, cfg.Categories())
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.WithError(err).Warn("Stopping interactive categorization")
			} else {
				log.Info("Input ended, leaving remaining transactions uncategorized")
			}
			prompting = false
			continue
		}

		phrase, added := cfg.Learn(category, tx.Description)
		if added {
			log.Info("Learned keyword",
				logging.Field{Key: logging.FieldCategory, Value: category},
				logging.Field{Key: logging.FieldPhrase, Value: phrase},
			)
		}
		partition.Reassign(tx.Key(), models.CategoryUncategorized, category)
		resolved++
	}
	return resolved
}
