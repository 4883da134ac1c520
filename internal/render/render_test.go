package render

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyphira-git/dyfusion-explorer/internal/models"
	"github.com/dyphira-git/dyfusion-explorer/internal/source"
)

func sampleDashboard(t *testing.T) *models.Dashboard {
	t.Helper()
	src, err := source.NewFixtureSource()
	require.NoError(t, err)

	ctx := context.Background()
	stats, err := src.GetStats(ctx)
	require.NoError(t, err)
	blocks, err := src.GetLatestBlocks(ctx, 5)
	require.NoError(t, err)
	txs, err := src.GetLatestTransactions(ctx, 5)
	require.NoError(t, err)

	return &models.Dashboard{Stats: *stats, Blocks: blocks, Transactions: txs}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestPresentStats(t *testing.T) {
	cards := PresentStats(models.StatsSummary{LatestBlock: 1234567, TotalTransactions: 10987654, ActiveValidators: 42, AvgBlockTime: 2.1})

	require.Len(t, cards, 4)
	assert.Equal(t, StatCard{Icon: "box", Title: "Latest Block", Value: "1,234,567"}, cards[0])
	assert.Equal(t, StatCard{Icon: "arrow-right", Title: "Total Transactions", Value: "10,987,654"}, cards[1])
	assert.Equal(t, StatCard{Icon: "server", Title: "Active Validators", Value: "42"}, cards[2])
	assert.Equal(t, StatCard{Icon: "clock", Title: "Avg Block Time", Value: "2.1s"}, cards[3])
}

func TestPresentStatsLargeValues(t *testing.T) {
	cards := PresentStats(models.StatsSummary{LatestBlock: 1000, TotalTransactions: 1234, ActiveValidators: 1234, AvgBlockTime: 12})

	assert.Equal(t, "1,000", cards[0].Value)
	assert.Equal(t, "1,234", cards[1].Value)
	assert.Equal(t, "1234", cards[2].Value)
	assert.Equal(t, "12s", cards[3].Value)
}

func TestFormat(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{name: "zero", got: formatCount(0), want: "0"},
		{name: "hundreds", got: formatCount(999), want: "999"},
		{name: "thousands", got: formatCount(1000), want: "1,000"},
		{name: "whole seconds", got: formatSeconds(2), want: "2s"},
		{name: "fraction", got: formatSeconds(0.25), want: "0.25s"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestPresentBlocksPreservesOrder(t *testing.T) {
	// deliberately not sorted: the presenter must not reorder
	blocks := []models.BlockSummary{
		{Number: 5, Validator: "v5", TxCount: 1, Age: "now"},
		{Number: 9, Validator: "v9", TxCount: 0, Age: "later"},
		{Number: 5, Validator: "v5", TxCount: 1, Age: "now"},
		{Number: 1, Validator: "v1", TxCount: 31, Age: "earlier"},
	}

	rows := PresentBlocks(blocks)
	require.Len(t, rows, len(blocks))
	for i, b := range blocks {
		assert.Equal(t, b.Validator, rows[i].Validator)
		assert.Equal(t, b.Age, rows[i].Age)
	}
	assert.Equal(t, "9", rows[1].Number)
	assert.Equal(t, "0 txns", rows[1].TxCount)
	assert.Equal(t, "31 txns", rows[3].TxCount)
}

func TestPresentTransactionsIndicators(t *testing.T) {
	dash := sampleDashboard(t)

	rows := PresentTransactions(dash.Transactions)
	require.Len(t, rows, len(dash.Transactions))
	for i, tx := range dash.Transactions {
		switch tx.Status {
		case models.StatusSuccess:
			assert.Equal(t, IndicatorSuccess, rows[i].Indicator, tx.Hash)
		case models.StatusFailed:
			assert.Equal(t, IndicatorFailure, rows[i].Indicator, tx.Hash)
		}
	}
	assert.Equal(t, "0.01 DFX", rows[2].Amount)
	assert.Equal(t, IndicatorUnknown, indicatorFor("Pending"))
}

func TestRenderStats(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.RenderStats(&buf, sampleDashboard(t).Stats))

	out := buf.String()
	for _, want := range []string{"Latest Block", "1,234,567", "10,987,654", ">42<", "2.1s"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderBlocks(t *testing.T) {
	r := newTestRenderer(t)

	t.Run("rows in input order", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.RenderBlocks(&buf, sampleDashboard(t).Blocks))
		out := buf.String()

		assert.Equal(t, 5, strings.Count(out, `class="feed-row block-row"`))
		last := -1
		for _, n := range []string{"1234567", "1234566", "1234565", "1234564", "1234563"} {
			idx := strings.Index(out, `data-block="`+n+`"`)
			require.Greater(t, idx, last, n)
			last = idx
		}
		assert.Contains(t, out, "0xValidatorThree...")
		assert.Contains(t, out, "31 txns")
	})

	t.Run("empty feed", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.RenderBlocks(&buf, nil))
		assert.Zero(t, strings.Count(buf.String(), "block-row"))
	})
}

func TestRenderTransactions(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.RenderTransactions(&buf, sampleDashboard(t).Transactions))
	out := buf.String()

	assert.Equal(t, 5, strings.Count(out, `class="feed-row tx-row"`))
	assert.Equal(t, 1, strings.Count(out, `data-indicator="failure"`))
	assert.Equal(t, 4, strings.Count(out, `data-indicator="success"`))
	assert.Contains(t, out, "From <span class=\"link-alt\">0xFromFive...</span> to <span class=\"link-alt\">0xToSix...</span>")
}

func TestRenderDashboard(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.RenderDashboard(&buf, sampleDashboard(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "Dyfusion Chain Explorer")
	assert.Contains(t, out, "Search by Address / Txn Hash / Block")
	assert.Contains(t, out, "&copy; 2025 Dyfusion")
	assert.Equal(t, 4, strings.Count(out, `class="stat-card"`))
	assert.Equal(t, 5, strings.Count(out, "block-row"))
	assert.Equal(t, 5, strings.Count(out, "tx-row"))
}

func TestRenderDashboardEmptyFeeds(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.RenderDashboard(&buf, &models.Dashboard{}))
	out := buf.String()

	assert.Contains(t, out, "Latest Blocks")
	assert.Zero(t, strings.Count(out, "block-row"))
	assert.Zero(t, strings.Count(out, "tx-row"))
}

func TestRenderJSON(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.RenderJSON(&buf, sampleDashboard(t)))

	var page Page
	require.NoError(t, json.Unmarshal(buf.Bytes(), &page))
	assert.Len(t, page.Stats, 4)
	assert.Equal(t, "1,234,567", page.Stats[0].Value)
	assert.Len(t, page.Blocks, 5)
	assert.Equal(t, "failure", page.Transactions[2].Indicator.Kind)
}
