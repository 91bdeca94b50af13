// Package container provides dependency injection for the budget-buddy application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"io"
	"os"

	"fjacquet/budget-buddy/internal/categorizer"
	"fjacquet/budget-buddy/internal/chart"
	"fjacquet/budget-buddy/internal/config"
	"fjacquet/budget-buddy/internal/ledger"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/pipeline"
	"fjacquet/budget-buddy/internal/report"
	"fjacquet/budget-buddy/internal/resolver"
	"fjacquet/budget-buddy/internal/source"
	"fjacquet/budget-buddy/internal/store"
)

// Option customizes a Container.
type Option func(*Container)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithIO sets the streams the interactive resolver reads from and writes to.
// Stdin and stdout are used by default.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Container) {
		c.in = in
		c.out = out
	}
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods. The ledger is opened on first use so
// commands that never touch it do not create it.
type Container struct {
	logger logging.Logger
	config *config.Config
	in     io.Reader
	out    io.Writer

	store    *store.CategoryStore
	source   *source.CSVSource
	chart    *chart.Renderer
	reporter *report.ReportGenerator

	ledger ledger.Store
}

// PipelineOptions toggles the optional stages of a run.
type PipelineOptions struct {
	Interactive bool
	Chart       bool
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{
		config: cfg,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = config.ConfigureLoggingFromConfig(cfg)
	}

	c.store = store.NewCategoryStore(cfg.Paths.CategoriesFile, c.logger)
	c.source = source.NewCSVSource(cfg.Paths.InputDir, cfg.Delimiter(), c.logger)
	c.chart = chart.NewRenderer(cfg.Paths.OutputDir, cfg.Chart.Width, cfg.Chart.Height, c.logger)
	c.reporter = report.NewReportGenerator(c.logger)

	c.logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldBackend, Value: cfg.Ledger.Backend},
		logging.Field{Key: logging.FieldInputDir, Value: cfg.Paths.InputDir},
		logging.Field{Key: "categories_file", Value: cfg.Paths.CategoriesFile})

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the category configuration store.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetSource returns the input record reader.
func (c *Container) GetSource() *source.CSVSource {
	return c.source
}

// GetChartRenderer returns the budget chart renderer.
func (c *Container) GetChartRenderer() *chart.Renderer {
	return c.chart
}

// GetReportGenerator returns the budget report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reporter
}

// GetLedger opens the configured ledger on first call and returns it.
func (c *Container) GetLedger() (ledger.Store, error) {
	if c.ledger != nil {
		return c.ledger, nil
	}
	l, err := ledger.New(ledger.Options{
		Backend:   c.config.Ledger.Backend,
		Path:      c.config.Paths.LedgerFile,
		Delimiter: c.config.Delimiter(),
	}, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	c.ledger = l
	return l, nil
}

// NewClassifier returns a keyword classifier over the given configuration.
func (c *Container) NewClassifier(categories *store.CategoryConfig) *categorizer.Classifier {
	return categorizer.NewClassifier(categories.Keywords, nil, c.logger)
}

// NewPipeline wires a pipeline over the loaded category configuration.
// The resolver runs only when both opts.Interactive and resolver.enabled are
// set; the chart likewise needs opts.Chart and chart.enabled.
func (c *Container) NewPipeline(categories *store.CategoryConfig, opts PipelineOptions) (*pipeline.Pipeline, error) {
	l, err := c.GetLedger()
	if err != nil {
		return nil, err
	}

	deps := pipeline.Deps{
		Source: c.source,
		Ledger: l,
		Config: categories,
		Saver:  c.store,
		Logger: c.logger,
	}
	if opts.Interactive && c.config.Resolver.Enabled {
		deps.Resolver = resolver.NewPrompter(c.in, c.out, c.logger)
	}
	if opts.Chart && c.config.Chart.Enabled {
		deps.Visualizer = c.chart
	}

	return pipeline.New(deps)
}

// Close releases the ledger if it was opened.
func (c *Container) Close() error {
	if c.ledger == nil {
		return nil
	}
	err := c.ledger.Close()
	c.ledger = nil
	return err
}
