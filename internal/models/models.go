package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrMissingField is returned when a required attribute is empty or zero.
	ErrMissingField = errors.New("missing required field")
	// ErrUnknownStatus is returned for transaction statuses other than Success and Failed.
	ErrUnknownStatus = errors.New("unknown transaction status")
	// ErrFeedOrder is returned when block numbers are not strictly decreasing.
	ErrFeedOrder = errors.New("block feed is not strictly decreasing")
	// ErrDuplicate is returned when a feed repeats a block number or transaction hash.
	ErrDuplicate = errors.New("duplicate feed entry")
	// ErrInvalidAmount is returned when an amount is not "<decimal> <unit>".
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrOutOfRange is returned for negative or non-finite metrics.
	ErrOutOfRange = errors.New("value out of range")
)

// TxStatus is the terminal status of a transaction.
type TxStatus string

const (
	StatusSuccess TxStatus = "Success"
	StatusFailed  TxStatus = "Failed"
)

// ParseTxStatus accepts exactly "Success" and "Failed".
func ParseTxStatus(s string) (TxStatus, error) {
	switch TxStatus(s) {
	case StatusSuccess, StatusFailed:
		return TxStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Amount is a decimal quantity with a unit label, e.g. "0.5 DFX".
// It is encoded in JSON as its display string.
type Amount struct {
	Quantity string
	Unit     string
}

// quantityPattern is an unsigned plain decimal: no sign, exponent, fraction or radix prefix.
var quantityPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ParseAmount parses "<decimal> <unit>".
func ParseAmount(s string) (Amount, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	a := Amount{Quantity: fields[0], Unit: fields[1]}
	if err := a.Validate(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// Validate checks that the quantity is an unsigned decimal.
func (a Amount) Validate() error {
	if !quantityPattern.MatchString(a.Quantity) {
		return pkgerrors.WithMessagef(ErrInvalidAmount, "error parsing quantity %q", a.Quantity)
	}
	return nil
}

func (a Amount) String() string {
	return a.Quantity + " " + a.Unit
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode amount: %w", err)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// BlockSummary is one row of the recent blocks feed.
type BlockSummary struct {
	Number    uint64 `json:"number"`
	Validator string `json:"validator"`
	TxCount   uint64 `json:"txCount"`
	Age       string `json:"timestamp"`
}

// Validate checks that all required attributes are present.
func (b BlockSummary) Validate() error {
	switch {
	case b.Number == 0:
		return fmt.Errorf("%w: number", ErrMissingField)
	case b.Validator == "":
		return fmt.Errorf("%w: validator (block %d)", ErrMissingField, b.Number)
	case b.Age == "":
		return fmt.Errorf("%w: timestamp (block %d)", ErrMissingField, b.Number)
	}
	return nil
}

// TransactionSummary is one row of the recent transactions feed.
type TransactionSummary struct {
	Hash   string   `json:"hash"`
	From   string   `json:"from"`
	To     string   `json:"to"`
	Amount Amount   `json:"amount"`
	Status TxStatus `json:"status"`
}

// Validate checks that all required attributes are present and the status is known.
func (t TransactionSummary) Validate() error {
	switch {
	case t.Hash == "":
		return fmt.Errorf("%w: hash", ErrMissingField)
	case t.From == "":
		return fmt.Errorf("%w: from (tx %s)", ErrMissingField, t.Hash)
	case t.To == "":
		return fmt.Errorf("%w: to (tx %s)", ErrMissingField, t.Hash)
	case t.Amount.Quantity == "" || t.Amount.Unit == "":
		return fmt.Errorf("%w: amount (tx %s)", ErrMissingField, t.Hash)
	}
	if err := t.Amount.Validate(); err != nil {
		return fmt.Errorf("tx %s: %w", t.Hash, err)
	}
	if _, err := ParseTxStatus(string(t.Status)); err != nil {
		return fmt.Errorf("tx %s: %w", t.Hash, err)
	}
	return nil
}

// StatsSummary holds the four headline metrics of the chain.
type StatsSummary struct {
	LatestBlock       uint64  `json:"latestBlock"`
	TotalTransactions uint64  `json:"totalTransactions"`
	ActiveValidators  uint64  `json:"activeValidators"`
	AvgBlockTime      float64 `json:"avgBlockTime"`
}

// Validate rejects negative or non-finite block times. Counters are unsigned.
func (s StatsSummary) Validate() error {
	if s.AvgBlockTime < 0 || math.IsNaN(s.AvgBlockTime) || math.IsInf(s.AvgBlockTime, 0) {
		return fmt.Errorf("%w: avgBlockTime %v", ErrOutOfRange, s.AvgBlockTime)
	}
	return nil
}

// ValidateBlockFeed checks every entry, and that numbers are unique and newest first.
func ValidateBlockFeed(blocks []BlockSummary) error {
	for i, b := range blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("block feed entry %d: %w", i, err)
		}
		if i == 0 {
			continue
		}
		prev := blocks[i-1].Number
		if b.Number == prev {
			return fmt.Errorf("%w: block %d", ErrDuplicate, b.Number)
		}
		if b.Number > prev {
			return fmt.Errorf("%w: block %d follows %d", ErrFeedOrder, b.Number, prev)
		}
	}
	return nil
}

// ValidateTransactionFeed checks every entry and hash uniqueness.
func ValidateTransactionFeed(txs []TransactionSummary) error {
	seen := make(map[string]struct{}, len(txs))
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction feed entry %d: %w", i, err)
		}
		if _, ok := seen[tx.Hash]; ok {
			return fmt.Errorf("%w: tx %s", ErrDuplicate, tx.Hash)
		}
		seen[tx.Hash] = struct{}{}
	}
	return nil
}

// Dashboard is the immutable snapshot handed to the presenters.
type Dashboard struct {
	Stats        StatsSummary
	Blocks       []BlockSummary
	Transactions []TransactionSummary
	LoadedAt     time.Time
}
