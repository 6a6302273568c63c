// Package tracker runs the fetch, compare and notify pipeline once.
package tracker

import (
	"context"
	"fmt"

	"metalwatch/internal/change"
	"metalwatch/internal/metals"
	"metalwatch/pkg/storage"

	"go.uber.org/zap"
)

// PriceFetcher returns the current price of every commodity.
type PriceFetcher interface {
	FetchSnapshot(ctx context.Context) (metals.Snapshot, error)
}

// Notifier delivers one message to the destination thread.
type Notifier interface {
	Post(ctx context.Context, message string) error
}

type Tracker struct {
	fetcher   PriceFetcher
	store     storage.Store
	notifier  Notifier
	threshold float64
	logger    *zap.Logger
}

func New(fetcher PriceFetcher, store storage.Store, notifier Notifier, threshold float64, logger *zap.Logger) *Tracker {
	return &Tracker{
		fetcher:   fetcher,
		store:     store,
		notifier:  notifier,
		threshold: threshold,
		logger:    logger,
	}
}

// Report summarizes what a completed run did.
type Report struct {
	Current  metals.Snapshot
	Previous *metals.Snapshot // nil on the first run
	Changes  []change.Result  // empty on the first run
	Alerts   []metals.Commodity
}

// Run executes one pass: fetch current prices, load the previous snapshot,
// post the summary, post a crash alert for each commodity that dropped by at
// least the threshold, then save the current snapshot. Any error stops the run
// where it happened; the snapshot is only saved after every post succeeded.
func (t *Tracker) Run(ctx context.Context) (*Report, error) {
	current, err := t.fetcher.FetchSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	t.logger.Info("fetched prices",
		zap.Float64("gold", current.Gold),
		zap.Float64("silver", current.Silver),
	)

	previous, ok, err := t.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load previous prices: %w", err)
	}

	report := &Report{Current: current}
	if ok {
		report.Previous = &previous
		t.logger.Info("loaded previous prices",
			zap.Float64("gold", previous.Gold),
			zap.Float64("silver", previous.Silver),
		)
	} else {
		t.logger.Info("no previous prices, first run")
	}

	if err := t.notifier.Post(ctx, SummaryMessage(current)); err != nil {
		return nil, fmt.Errorf("post summary: %w", err)
	}
	t.logger.Info("posted summary")

	if ok {
		report.Changes = change.Evaluate(previous, current, t.threshold)
		for _, r := range report.Changes {
			t.logger.Info("price change",
				zap.String("commodity", string(r.Commodity)),
				zap.Float64("percent", r.Percent),
				zap.Bool("crashed", r.Crashed),
			)
			if !r.Crashed {
				continue
			}
			if err := t.notifier.Post(ctx, CrashMessage(r)); err != nil {
				return nil, fmt.Errorf("post %s crash alert: %w", r.Commodity, err)
			}
			report.Alerts = append(report.Alerts, r.Commodity)
			t.logger.Warn("posted crash alert",
				zap.String("commodity", string(r.Commodity)),
				zap.Float64("percent", r.Percent),
			)
		}
	}

	if err := t.store.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("save prices: %w", err)
	}
	t.logger.Info("saved prices")

	return report, nil
}
