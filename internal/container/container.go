// Package container provides dependency injection for the fillcash application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"time"

	"fjacquet/fillcash/internal/config"
	"fjacquet/fillcash/internal/extractor"
	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/pipeline"
	"fjacquet/fillcash/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	registry *extractor.Registry
	bills    *store.BillStore
	pipeline *pipeline.Pipeline
}

// Option overrides a default collaborator.
type Option func(*options)

type options struct {
	logger logging.Logger
	text   extractor.TextExtractor
	clock  func() time.Time
}

// WithLogger replaces the logger built from the log configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTextExtractor replaces pdftotext for PDF statements.
func WithTextExtractor(text extractor.TextExtractor) Option {
	return func(o *options) { o.text = text }
}

// WithClock replaces time.Now as the run date.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// NewContainer creates and wires all application dependencies.
// A configured bank and statement format must have a registered extractor.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = config.NewLogger(cfg)
	}

	registry := extractor.NewRegistry(logger, o.text)
	if cfg.BankName != "" && !registry.Supports(cfg.BankName, cfg.StatementFormat) {
		_, err := registry.Get(cfg.BankName, cfg.StatementFormat)
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	bills := store.NewBillStore(cfg.Paths.BillsFile, logger)

	var pipelineOpts []pipeline.Option
	if o.clock != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithClock(o.clock))
	}
	p := pipeline.New(cfg, registry, bills, logger, pipelineOpts...)

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldBank, cfg.BankName),
		logging.F(logging.FieldFormat, cfg.StatementFormat),
		logging.F("cards", len(cfg.Cards)))

	return &Container{
		logger:   logger,
		config:   cfg,
		registry: registry,
		bills:    bills,
		pipeline: p,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRegistry returns the statement extractor registry.
func (c *Container) GetRegistry() *extractor.Registry {
	return c.registry
}

// GetBillStore returns the card bill schedule store.
func (c *Container) GetBillStore() *store.BillStore {
	return c.bills
}

// GetPipeline returns the stage runner.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
