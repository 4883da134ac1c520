package source

import (
	"context"
	"fmt"

	"github.com/dyphira-git/dyfusion-explorer/internal/config"
	"github.com/dyphira-git/dyfusion-explorer/internal/models"
)

type DataSource interface {
	// GetStats returns the headline chain metrics.
	GetStats(ctx context.Context) (*models.StatsSummary, error)

	// GetLatestBlocks returns at most limit block summaries, newest first.
	GetLatestBlocks(ctx context.Context, limit uint) ([]models.BlockSummary, error)

	// GetLatestTransactions returns at most limit transaction summaries, newest first.
	GetLatestTransactions(ctx context.Context, limit uint) ([]models.TransactionSummary, error)

	// Close releases the source's resources.
	Close() error
}

// New opens the data source selected by cfg.
func New(cfg config.SourceConfig) (DataSource, error) {
	switch cfg.Kind {
	case config.SourceFixture:
		var (
			src *FixtureSource
			err error
		)
		if cfg.FixturePath != "" {
			src, err = NewFixtureSourceFromFile(cfg.FixturePath)
		} else {
			src, err = NewFixtureSource()
		}
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.SourcePostgres:
		src, err := NewPostgresSource(cfg.DBURL, cfg.StatsWindow)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.SourceREST:
		return NewRESTSource(cfg.RESTURL, cfg.RESTPaths, cfg.MaxRetries), nil
	}
	return nil, fmt.Errorf("unknown source %q", cfg.Kind)
}
