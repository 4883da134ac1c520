package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dyphira-git/dyfusion-explorer/internal/metrics"
	"github.com/dyphira-git/dyfusion-explorer/internal/models"
	"github.com/dyphira-git/dyfusion-explorer/internal/source"
)

// Loader builds validated dashboard snapshots from a data source.
type Loader struct {
	src      source.DataSource
	feedSize uint
	metrics  *metrics.Metrics
	now      func() time.Time
}

func New(src source.DataSource, feedSize uint, m *metrics.Metrics) *Loader {
	return &Loader{src: src, feedSize: feedSize, metrics: m, now: time.Now}
}

// Load fetches stats, blocks and transactions concurrently and validates them.
// A malformed entry fails the whole load.
func (l *Loader) Load(ctx context.Context) (*models.Dashboard, error) {
	start := l.now()

	var (
		stats  *models.StatsSummary
		blocks []models.BlockSummary
		txs    []models.TransactionSummary
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if stats, err = l.src.GetStats(ctx); err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if blocks, err = l.src.GetLatestBlocks(ctx, l.feedSize); err != nil {
			return fmt.Errorf("failed to get latest blocks: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if txs, err = l.src.GetLatestTransactions(ctx, l.feedSize); err != nil {
			return fmt.Errorf("failed to get latest transactions: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		l.fail("fetch")
		return nil, err
	}

	if err := validate(stats, blocks, txs); err != nil {
		l.fail("validate")
		slog.Error("Rejected malformed dashboard data", "error", err)
		return nil, err
	}

	if l.metrics != nil {
		l.metrics.LoadDuration.Observe(l.now().Sub(start).Seconds())
		l.metrics.FeedEntries.WithLabelValues("blocks").Set(float64(len(blocks)))
		l.metrics.FeedEntries.WithLabelValues("transactions").Set(float64(len(txs)))
	}
	slog.Debug("Loaded dashboard", "blocks", len(blocks), "transactions", len(txs), "latestBlock", stats.LatestBlock)

	return &models.Dashboard{
		Stats:        *stats,
		Blocks:       blocks,
		Transactions: txs,
		LoadedAt:     l.now(),
	}, nil
}

func validate(stats *models.StatsSummary, blocks []models.BlockSummary, txs []models.TransactionSummary) error {
	if stats == nil {
		return fmt.Errorf("invalid stats: %w", models.ErrMissingField)
	}
	if err := stats.Validate(); err != nil {
		return fmt.Errorf("invalid stats: %w", err)
	}
	if err := models.ValidateBlockFeed(blocks); err != nil {
		return fmt.Errorf("invalid block feed: %w", err)
	}
	if err := models.ValidateTransactionFeed(txs); err != nil {
		return fmt.Errorf("invalid transaction feed: %w", err)
	}
	return nil
}

func (l *Loader) fail(stage string) {
	if l.metrics != nil {
		l.metrics.LoadFailures.WithLabelValues(stage).Inc()
	}
}
