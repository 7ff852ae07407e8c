// Package container wires the application's dependencies from its configuration.
package container

import (
	"context"
	"fmt"

	"mynab/budget-import/internal/categorizer"
	"mynab/budget-import/internal/config"
	"mynab/budget-import/internal/factory"
	"mynab/budget-import/internal/filter"
	"mynab/budget-import/internal/importer"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/mercadopagoparser"
	"mynab/budget-import/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Container holds the wired dependencies. It is immutable after creation.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	registry   *factory.Registry
	classifier *categorizer.Classifier
	store      store.Store
	pool       *pgxpool.Pool
	metrics    *prometheus.Registry
	importer   *importer.Importer
}

// Option overrides a dependency, mostly for tests.
type Option func(*options)

type options struct {
	logger    logging.Logger
	extractor mercadopagoparser.PDFExtractor
	store     store.Store
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPDFExtractor replaces the pdftotext extractor.
func WithPDFExtractor(e mercadopagoparser.PDFExtractor) Option {
	return func(o *options) { o.extractor = e }
}

// WithStore replaces the store selected by database.url.
func WithStore(s store.Store) Option {
	return func(o *options) { o.store = s }
}

// NewContainer creates and wires all dependencies. A non-empty database.url opens a
// connection pool; otherwise an in-memory store is used.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	extractor := o.extractor
	if extractor == nil {
		extractor = mercadopagoparser.NewPdftotextExtractor(cfg.Parsers.PDF.PdftotextPath)
	}
	registry := factory.NewRegistry(logger, extractor)

	rules, err := categorizer.LoadRuleset()
	if err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}
	classifier := categorizer.NewClassifier(rules, logger)

	c := &Container{
		logger:     logger,
		config:     cfg,
		registry:   registry,
		classifier: classifier,
		store:      o.store,
	}

	if c.store == nil {
		if cfg.Database.URL != "" {
			pool, err := store.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.Schema)
			if err != nil {
				return nil, err
			}
			c.pool = pool
			c.store = store.NewPostgresStore(pool, logger)
		} else {
			logger.Warn("No database configured, using in-memory store")
			c.store = store.NewMemoryStore()
		}
	}

	var metrics *importer.Metrics
	if cfg.Metrics.Enabled {
		c.metrics = prometheus.NewRegistry()
		if metrics, err = importer.NewMetrics(c.metrics); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	c.importer = importer.New(registry, filter.NewStage(classifier, logger), c.store, importer.Options{
		IgnorePhrases:   cfg.Import.IgnorePhrases,
		DefaultCurrency: cfg.Import.DefaultCurrency,
		Metrics:         metrics,
		Logger:          logger,
	})

	logger.Debug("Container initialized",
		logging.F("institutions", len(registry.Institutions())),
		logging.F("database", c.pool != nil),
		logging.F("metrics", cfg.Metrics.Enabled))
	return c, nil
}

// GetLogger returns the logger.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the configuration.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRegistry returns the institution registry.
func (c *Container) GetRegistry() *factory.Registry {
	return c.registry
}

// GetClassifier returns the category classifier.
func (c *Container) GetClassifier() *categorizer.Classifier {
	return c.classifier
}

// GetStore returns the store.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetPool returns the database pool, or nil when no database is configured.
func (c *Container) GetPool() *pgxpool.Pool {
	return c.pool
}

// GetMetricsRegistry returns the prometheus registry, or nil when metrics are off.
func (c *Container) GetMetricsRegistry() *prometheus.Registry {
	return c.metrics
}

// GetImporter returns the importer.
func (c *Container) GetImporter() *importer.Importer {
	return c.importer
}

// Close releases the database pool.
func (c *Container) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}
