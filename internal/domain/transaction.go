package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType names the kind of money movement a journal record describes.
type TransactionType string

// Supported transaction types.
const (
	TransactionDeposit  TransactionType = "DEPOSIT"
	TransactionWithdraw TransactionType = "WITHDRAW"
	TransactionTransfer TransactionType = "TRANSFER"
)

// Transaction is a single immutable journal record. Amount is always
// positive; the type encodes the direction. RecipientAccountID is the
// counterparty account and is set only on TRANSFER records.
type Transaction struct {
	ID                 string          `json:"id"`
	AccountID          int32           `json:"account_id"`
	CustomerID         int32           `json:"customer_id"`
	Type               TransactionType `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Time               time.Time       `json:"time"`
	PostBalance        decimal.Decimal `json:"post_balance"`
	RecipientAccountID int32           `json:"recipient_account_id,omitempty"`
}

// TransferTxResult is the result of a completed transfer: both updated
// accounts and the journal record written for each side.
type TransferTxResult struct {
	FromAccount     Account     `json:"from_account"`
	ToAccount       Account     `json:"to_account"`
	FromTransaction Transaction `json:"from_transaction"`
	ToTransaction   Transaction `json:"to_transaction"`
}
