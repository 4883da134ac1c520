package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBlocks() []BlockSummary {
	return []BlockSummary{
		{Number: 1234567, Validator: "0xValidatorOne...", TxCount: 15, Age: "a few seconds ago"},
		{Number: 1234566, Validator: "0xValidatorTwo...", TxCount: 23, Age: "1 minute ago"},
		{Number: 1234565, Validator: "0xValidatorOne...", TxCount: 18, Age: "2 minutes ago"},
	}
}

func TestParseTxStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    TxStatus
		wantErr bool
	}{
		{in: "Success", want: StatusSuccess},
		{in: "Failed", want: StatusFailed},
		{in: "Pending", wantErr: true},
		{in: "success", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTxStatus(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    Amount
		wantErr string
	}{
		{name: "fraction", in: "0.5 DFX", want: Amount{Quantity: "0.5", Unit: "DFX"}},
		{name: "integer", in: "10 DFX", want: Amount{Quantity: "10", Unit: "DFX"}},
		{name: "extra spaces", in: "  3.14   DFX ", want: Amount{Quantity: "3.14", Unit: "DFX"}},
		{name: "no unit", in: "0.5", wantErr: "invalid amount"},
		{name: "not a number", in: "abc DFX", wantErr: "error parsing quantity"},
		{name: "fraction syntax", in: "1/3 DFX", wantErr: "error parsing quantity"},
		{name: "hex", in: "0x1F DFX", wantErr: "error parsing quantity"},
		{name: "negative", in: "-5 DFX", wantErr: "error parsing quantity"},
		{name: "exponent", in: "1e400 DFX", wantErr: "error parsing quantity"},
		{name: "trailing dot", in: "5. DFX", wantErr: "error parsing quantity"},
		{name: "empty", in: "", wantErr: "invalid amount"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.wantErr != "" {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAmount)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAmountJSON(t *testing.T) {
	var tx TransactionSummary
	err := json.Unmarshal([]byte(`{"hash":"0xabc...def","from":"a","to":"b","amount":"0.5 DFX","status":"Success"}`), &tx)
	require.NoError(t, err)
	assert.Equal(t, Amount{Quantity: "0.5", Unit: "DFX"}, tx.Amount)

	out, err := json.Marshal(tx.Amount)
	require.NoError(t, err)
	assert.JSONEq(t, `"0.5 DFX"`, string(out))

	err = json.Unmarshal([]byte(`{"amount":"lots"}`), &tx)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestValidateBlockFeed(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateBlockFeed(sampleBlocks()))
	})

	t.Run("empty", func(t *testing.T) {
		assert.NoError(t, ValidateBlockFeed(nil))
	})

	t.Run("missing validator", func(t *testing.T) {
		blocks := sampleBlocks()
		blocks[1].Validator = ""
		err := ValidateBlockFeed(blocks)
		assert.ErrorIs(t, err, ErrMissingField)
		assert.Contains(t, err.Error(), "entry 1")
	})

	t.Run("zero number", func(t *testing.T) {
		blocks := sampleBlocks()
		blocks[0].Number = 0
		assert.ErrorIs(t, ValidateBlockFeed(blocks), ErrMissingField)
	})

	t.Run("duplicate", func(t *testing.T) {
		blocks := sampleBlocks()
		blocks[2].Number = blocks[1].Number
		assert.ErrorIs(t, ValidateBlockFeed(blocks), ErrDuplicate)
	})

	t.Run("ascending", func(t *testing.T) {
		blocks := sampleBlocks()
		blocks[0], blocks[2] = blocks[2], blocks[0]
		assert.ErrorIs(t, ValidateBlockFeed(blocks), ErrFeedOrder)
	})
}

func TestValidateTransactionFeed(t *testing.T) {
	valid := func() []TransactionSummary {
		return []TransactionSummary{
			{Hash: "0xabc...def", From: "0xFromOne...", To: "0xToTwo...", Amount: Amount{"0.5", "DFX"}, Status: StatusSuccess},
			{Hash: "0x789...abc", From: "0xFromFive...", To: "0xToSix...", Amount: Amount{"0.01", "DFX"}, Status: StatusFailed},
		}
	}

	cases := []struct {
		name    string
		mutate  func([]TransactionSummary)
		wantErr error
	}{
		{name: "valid", mutate: func([]TransactionSummary) {}},
		{name: "missing hash", mutate: func(txs []TransactionSummary) { txs[0].Hash = "" }, wantErr: ErrMissingField},
		{name: "missing to", mutate: func(txs []TransactionSummary) { txs[1].To = "" }, wantErr: ErrMissingField},
		{name: "missing amount", mutate: func(txs []TransactionSummary) { txs[1].Amount = Amount{} }, wantErr: ErrMissingField},
		{name: "non-decimal quantity", mutate: func(txs []TransactionSummary) { txs[0].Amount = Amount{"lots", "DFX"} }, wantErr: ErrInvalidAmount},
		{name: "negative quantity", mutate: func(txs []TransactionSummary) { txs[1].Amount = Amount{"-0.01", "DFX"} }, wantErr: ErrInvalidAmount},
		{name: "pending status", mutate: func(txs []TransactionSummary) { txs[0].Status = "Pending" }, wantErr: ErrUnknownStatus},
		{name: "duplicate hash", mutate: func(txs []TransactionSummary) { txs[1].Hash = txs[0].Hash }, wantErr: ErrDuplicate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txs := valid()
			tc.mutate(txs)
			err := ValidateTransactionFeed(txs)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestStatsSummaryValidate(t *testing.T) {
	assert.NoError(t, StatsSummary{LatestBlock: 1234567, TotalTransactions: 10987654, ActiveValidators: 42, AvgBlockTime: 2.1}.Validate())
	assert.NoError(t, StatsSummary{}.Validate())
	assert.ErrorIs(t, StatsSummary{AvgBlockTime: -1}.Validate(), ErrOutOfRange)
	assert.ErrorIs(t, StatsSummary{AvgBlockTime: math.NaN()}.Validate(), ErrOutOfRange)
	assert.ErrorIs(t, StatsSummary{AvgBlockTime: math.Inf(1)}.Validate(), ErrOutOfRange)
}
