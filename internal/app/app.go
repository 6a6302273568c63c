// Package app wires the configured adapters into a tracker run.
package app

import (
	"context"
	"fmt"

	"metalwatch/config"
	"metalwatch/internal/metals"
	"metalwatch/internal/tracker"
	"metalwatch/pkg/github"
	"metalwatch/pkg/pricesource"
	"metalwatch/pkg/storage"
	"metalwatch/pkg/storage/file"
	"metalwatch/pkg/storage/postgres"
	"metalwatch/pkg/storage/redisstore"

	"go.uber.org/zap"
)

// Run builds the price source, store and notifier from cfg and runs the tracker once.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*tracker.Report, error) {
	if err := cfg.ResolveSecrets(ctx); err != nil {
		return nil, err
	}

	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	scraper := pricesource.NewScraper(pages(cfg.Source), cfg.Source.UserAgent, cfg.Source.Timeout, logger)

	notifier := github.NewClient(
		cfg.GitHub.BaseURL,
		cfg.GitHub.Token,
		cfg.GitHub.Repository,
		cfg.GitHub.IssueNumber,
		cfg.GitHub.Timeout,
	)

	logger.Info("starting run",
		zap.String("store", cfg.Store.Driver),
		zap.String("repository", cfg.GitHub.Repository),
		zap.Int("issue", cfg.GitHub.IssueNumber),
		zap.Float64("crash_threshold", cfg.Alert.CrashThreshold),
	)

	return tracker.New(scraper, store, notifier, cfg.Alert.CrashThreshold, logger).Run(ctx)
}

// OpenStore returns the configured snapshot store and a function releasing its connection.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Store.Driver {
	case "file":
		return file.NewStore(cfg.Store.Path), func() {}, nil

	case "postgres":
		client, err := postgres.InitializeAndMigrate(cfg.Postgres, true)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		return postgres.NewSnapshotStore(client), func() { _ = client.Close() }, nil

	case "redis":
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewStore(client, cfg.Store.RedisKey), func() { _ = client.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func pages(src config.SourceConfig) map[metals.Commodity]pricesource.Page {
	toPage := func(c metals.Commodity, p config.PageConfig) pricesource.Page {
		quantity := p.ReferenceQuantity
		if quantity == "" {
			quantity = c.Meta().ReferenceQuantity
		}
		return pricesource.Page{URL: p.URL, Title: p.Title, ReferenceQuantity: quantity}
	}
	return map[metals.Commodity]pricesource.Page{
		metals.Gold:   toPage(metals.Gold, src.Gold),
		metals.Silver: toPage(metals.Silver, src.Silver),
	}
}
