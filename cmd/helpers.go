package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/ytnotes/internal/cache"
	"github.com/ziadkadry99/ytnotes/internal/config"
	"github.com/ziadkadry99/ytnotes/internal/db"
	"github.com/ziadkadry99/ytnotes/internal/embeddings"
	"github.com/ziadkadry99/ytnotes/internal/history"
	"github.com/ziadkadry99/ytnotes/internal/llm"
	"github.com/ziadkadry99/ytnotes/internal/metrics"
	"github.com/ziadkadry99/ytnotes/internal/notes"
	"github.com/ziadkadry99/ytnotes/internal/search"
	"github.com/ziadkadry99/ytnotes/internal/youtube"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `ytnotes init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// app bundles the collaborators shared by serve, generate and mcp.
type app struct {
	cfg      *config.Config
	database *db.DB
	history  *history.Store
	cache    *cache.Cache
	index    *search.Index
	metrics  *metrics.Exporter
	notes    *notes.Service
}

// openHistory opens the history database and, when an embedding provider is
// configured, the search index.
func openHistory(cfg *config.Config, logger *log.Logger) (*db.DB, *history.Store, *search.Index, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	embedder, err := embeddings.New(string(cfg.EmbeddingProvider), cfg.EmbeddingModel)
	if err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	var index *search.Index
	if embedder != nil {
		index, err = search.New(embedder, cfg.SearchDir())
		if err != nil {
			database.Close()
			return nil, nil, nil, err
		}
		logger.Debug("search index ready", "embedder", embedder.Name(), "documents", index.Count())
	}
	var opts []history.StoreOption
	if index != nil {
		opts = append(opts, history.WithDeleteHook(index.DeleteHook(logger)))
	}
	return database, history.NewStore(database, opts...), index, nil
}

// newApp wires the generation pipeline from cfg.
func newApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute)

	database, hist, index, err := openHistory(cfg, logger)
	if err != nil {
		return nil, err
	}

	transcripts := cache.New(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		TTL:        cfg.CacheTTLDuration(),
		MaxEntries: cfg.CacheMaxEntries,
	}, logger)

	exporter := metrics.New(metrics.DefaultConfig())
	exporter.WatchCache(transcripts)

	fetcher := youtube.NewFetcher(
		youtube.WithLanguages(cfg.TranscriptLanguages()...),
		youtube.WithLogger(logger),
	)

	opts := []notes.Option{
		notes.WithModel(cfg.Model),
		notes.WithRecorder(hist),
		notes.WithObserver(exporter),
		notes.WithLogger(logger),
	}
	if index != nil {
		opts = append(opts, notes.WithIndexer(index))
	}

	return &app{
		cfg:      cfg,
		database: database,
		history:  hist,
		cache:    transcripts,
		index:    index,
		metrics:  exporter,
		notes:    notes.NewService(cache.NewCachedFetcher(fetcher, transcripts), provider, opts...),
	}, nil
}

func (a *app) Close() {
	a.cache.Close()
	a.database.Close()
}
