package render

import (
	"strconv"

	"github.com/dyphira-git/dyfusion-explorer/internal/models"
)

// StatCard is one labeled headline value.
type StatCard struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// BlockRow is one rendered row of the blocks feed.
type BlockRow struct {
	Number    string `json:"number"`
	Validator string `json:"validator"`
	Age       string `json:"age"`
	TxCount   string `json:"txCount"`
}

// Indicator is the visual treatment of a transaction status.
type Indicator struct {
	Kind string `json:"kind"`
	Icon string `json:"icon"`
}

var (
	IndicatorSuccess = Indicator{Kind: "success", Icon: "check-circle"}
	IndicatorFailure = Indicator{Kind: "failure", Icon: "x-circle"}
	// IndicatorUnknown is never produced for loader-validated data.
	IndicatorUnknown = Indicator{Kind: "unknown", Icon: "help-circle"}
)

// TxRow is one rendered row of the transactions feed.
type TxRow struct {
	Hash      string    `json:"hash"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	Indicator Indicator `json:"indicator"`
}

// PresentStats groups digits of the block and transaction counters only.
// The validator count is shown as a plain integer.
func PresentStats(s models.StatsSummary) []StatCard {
	return []StatCard{
		{Icon: "box", Title: "Latest Block", Value: formatCount(s.LatestBlock)},
		{Icon: "arrow-right", Title: "Total Transactions", Value: formatCount(s.TotalTransactions)},
		{Icon: "server", Title: "Active Validators", Value: strconv.FormatUint(s.ActiveValidators, 10)},
		{Icon: "clock", Title: "Avg Block Time", Value: formatSeconds(s.AvgBlockTime)},
	}
}

// PresentBlocks maps blocks to rows one to one, keeping input order.
func PresentBlocks(blocks []models.BlockSummary) []BlockRow {
	rows := make([]BlockRow, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, BlockRow{
			Number:    strconv.FormatUint(b.Number, 10),
			Validator: b.Validator,
			Age:       b.Age,
			TxCount:   strconv.FormatUint(b.TxCount, 10) + " txns",
		})
	}
	return rows
}

// PresentTransactions maps transactions to rows one to one, keeping input order.
func PresentTransactions(txs []models.TransactionSummary) []TxRow {
	rows := make([]TxRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, TxRow{
			Hash:      tx.Hash,
			From:      tx.From,
			To:        tx.To,
			Amount:    tx.Amount.String(),
			Status:    string(tx.Status),
			Indicator: indicatorFor(tx.Status),
		})
	}
	return rows
}

func indicatorFor(status models.TxStatus) Indicator {
	switch status {
	case models.StatusSuccess:
		return IndicatorSuccess
	case models.StatusFailed:
		return IndicatorFailure
	}
	return IndicatorUnknown
}
