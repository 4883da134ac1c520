package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dyphira-git/dyfusion-explorer/internal/config"
	"github.com/dyphira-git/dyfusion-explorer/internal/models"
	"github.com/dyphira-git/dyfusion-explorer/internal/utils"
)

const (
	statsEndpoint        = "/stats"
	blocksEndpoint       = "/blocks"
	transactionsEndpoint = "/transactions"
)

// RESTSource reads dashboard data from an indexer's JSON API.
type RESTSource struct {
	client *resty.Client
	paths  config.RESTPaths
}

// NewRESTSource retries transport errors, 429 and 5xx responses up to maxRetries times.
func NewRESTSource(baseURL string, paths config.RESTPaths, maxRetries uint) *RESTSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json").
		SetRetryCount(int(maxRetries)).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(retryable)
	return &RESTSource{client: client, paths: paths}
}

func retryable(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (r *RESTSource) GetStats(ctx context.Context) (*models.StatsSummary, error) {
	var stats models.StatsSummary
	if err := r.fetch(ctx, statsEndpoint, nil, r.paths.Stats, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *RESTSource) GetLatestBlocks(ctx context.Context, limit uint) ([]models.BlockSummary, error) {
	var blocks []models.BlockSummary
	if err := r.fetch(ctx, blocksEndpoint, limitParam(limit), r.paths.Blocks, &blocks); err != nil {
		return nil, err
	}
	return capped(blocks, limit), nil
}

func (r *RESTSource) GetLatestTransactions(ctx context.Context, limit uint) ([]models.TransactionSummary, error) {
	var txs []models.TransactionSummary
	if err := r.fetch(ctx, transactionsEndpoint, limitParam(limit), r.paths.Transactions, &txs); err != nil {
		return nil, err
	}
	return capped(txs, limit), nil
}

func (r *RESTSource) Close() error {
	return nil
}

// fetch GETs endpoint, unwraps the payload at path and decodes it into out.
func (r *RESTSource) fetch(ctx context.Context, endpoint string, params map[string]string, path string, out any) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(endpoint)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", endpoint, err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed to get %s: unexpected status %s", endpoint, resp.Status())
	}
	body := resp.Body()

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	payload, err := utils.GetNestedField(doc, path)
	if err != nil {
		return fmt.Errorf("failed to unwrap %s response: %w", endpoint, err)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to re-encode %s payload: %w", endpoint, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", endpoint, err)
	}
	return nil
}

func limitParam(limit uint) map[string]string {
	return map[string]string{"limit": strconv.FormatUint(uint64(limit), 10)}
}
