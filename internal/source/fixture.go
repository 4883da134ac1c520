package source

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dyphira-git/dyfusion-explorer/internal/models"
)

//go:embed fixtures/dashboard.json
var sampleDashboard []byte

type fixtureDocument struct {
	Stats        *models.StatsSummary        `json:"stats"`
	Blocks       []models.BlockSummary       `json:"blocks"`
	Transactions []models.TransactionSummary `json:"transactions"`
}

// FixtureSource serves a static dashboard document.
type FixtureSource struct {
	doc fixtureDocument
}

// NewFixtureSource returns a source backed by the embedded sample data.
func NewFixtureSource() (*FixtureSource, error) {
	return decodeFixture(sampleDashboard)
}

// NewFixtureSourceFromFile returns a source backed by a JSON document on disk.
func NewFixtureSourceFromFile(path string) (*FixtureSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return decodeFixture(data)
}

func decodeFixture(data []byte) (*FixtureSource, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc fixtureDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode fixture: unexpected data after document")
	}
	if doc.Stats == nil {
		return nil, fmt.Errorf("failed to decode fixture: %w: stats", models.ErrMissingField)
	}
	return &FixtureSource{doc: doc}, nil
}

func (f *FixtureSource) GetStats(ctx context.Context) (*models.StatsSummary, error) {
	stats := *f.doc.Stats
	return &stats, nil
}

func (f *FixtureSource) GetLatestBlocks(ctx context.Context, limit uint) ([]models.BlockSummary, error) {
	return capped(f.doc.Blocks, limit), nil
}

func (f *FixtureSource) GetLatestTransactions(ctx context.Context, limit uint) ([]models.TransactionSummary, error) {
	return capped(f.doc.Transactions, limit), nil
}

func (f *FixtureSource) Close() error {
	return nil
}

// capped returns a copy of at most limit leading entries.
func capped[T any](in []T, limit uint) []T {
	n := len(in)
	if uint(n) > limit {
		n = int(limit)
	}
	out := make([]T, n)
	copy(out, in[:n])
	return out
}
