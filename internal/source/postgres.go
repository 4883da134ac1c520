package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dyphira-git/dyfusion-explorer/internal/models"
)

const statsQuery = `
WITH recent AS (
    SELECT height, validator, block_time FROM blocks ORDER BY height DESC LIMIT $1
)
SELECT
    COALESCE((SELECT MAX(height) FROM blocks), 0),
    (SELECT COUNT(*) FROM transactions),
    COUNT(DISTINCT validator),
    COALESCE(EXTRACT(EPOCH FROM (MAX(block_time) - MIN(block_time)))::float8 / NULLIF(COUNT(*) - 1, 0), 0)
FROM recent`

const latestBlocksQuery = `SELECT height, validator, tx_count, block_time FROM blocks ORDER BY height DESC LIMIT $1`

const latestTransactionsQuery = `SELECT hash, sender, receiver, amount::text, denom, status FROM transactions ORDER BY block_height DESC, position DESC LIMIT $1`

// PostgresSource reads dashboard data from an indexer database.
type PostgresSource struct {
	db          *sql.DB
	statsWindow uint
	now         func() time.Time
}

// NewPostgresSource opens dbURL with the pgx driver and verifies the connection.
// Active validators and average block time are computed over the last statsWindow blocks.
func NewPostgresSource(dbURL string, statsWindow uint) (*PostgresSource, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewPostgresSourceFromDB(db, statsWindow), nil
}

func NewPostgresSourceFromDB(db *sql.DB, statsWindow uint) *PostgresSource {
	return &PostgresSource{db: db, statsWindow: statsWindow, now: time.Now}
}

func (p *PostgresSource) GetStats(ctx context.Context) (*models.StatsSummary, error) {
	var stats models.StatsSummary
	err := p.db.QueryRowContext(ctx, statsQuery, int64(p.statsWindow)).Scan(
		&stats.LatestBlock,
		&stats.TotalTransactions,
		&stats.ActiveValidators,
		&stats.AvgBlockTime,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &stats, nil
}

func (p *PostgresSource) GetLatestBlocks(ctx context.Context, limit uint) ([]models.BlockSummary, error) {
	rows, err := p.db.QueryContext(ctx, latestBlocksQuery, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query latest blocks: %w", err)
	}
	defer rows.Close()

	now := p.now()
	blocks := make([]models.BlockSummary, 0, limit)
	for rows.Next() {
		var (
			b         models.BlockSummary
			blockTime time.Time
		)
		if err := rows.Scan(&b.Number, &b.Validator, &b.TxCount, &blockTime); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		b.Age = relativeAge(blockTime, now)
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blocks: %w", err)
	}
	return blocks, nil
}

func (p *PostgresSource) GetLatestTransactions(ctx context.Context, limit uint) ([]models.TransactionSummary, error) {
	rows, err := p.db.QueryContext(ctx, latestTransactionsQuery, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query latest transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]models.TransactionSummary, 0, limit)
	for rows.Next() {
		var (
			tx     models.TransactionSummary
			status string
		)
		if err := rows.Scan(&tx.Hash, &tx.From, &tx.To, &tx.Amount.Quantity, &tx.Amount.Unit, &status); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Status = models.TxStatus(status)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

func (p *PostgresSource) Close() error {
	return p.db.Close()
}

// relativeAge renders t relative to now, e.g. "3 minutes ago".
func relativeAge(t, now time.Time) string {
	if now.Sub(t) < 10*time.Second {
		return "a few seconds ago"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
