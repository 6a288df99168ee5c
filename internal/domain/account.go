// Package domain provides defenitions of all entities.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that an account with the given id already exists.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrAccountInactive indicates that the account has been deactivated.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrAccountActive indicates that the account does not need reactivation.
	ErrAccountActive = errors.New("account is already active")
	// ErrInvalidAmount indicates a zero or negative amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrOverdraftCapExceeded indicates that the withdrawal would push the
	// balance below the maximum allowed overdraft.
	ErrOverdraftCapExceeded = errors.New("overdraft cap exceeded")
	// ErrFundingSourceRequired indicates that reactivating a negative-balance
	// account needs a funding account to settle the debt.
	ErrFundingSourceRequired = errors.New("funding source required")
	// ErrSameAccountTransfer indicates a transfer where source and
	// destination are the same account.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
	// ErrAccountOwnerMismatch indicates that the account does not belong to
	// the authenticated user.
	ErrAccountOwnerMismatch = errors.New("account does not belong to the authenticated user")
)

// Overdraft policy shared by both account types.
var (
	// OverdraftFee is charged the moment a withdrawal pushes the balance below zero.
	OverdraftFee = decimal.NewFromInt(35)
	// MaxOverdraftAmount is the largest negative balance an account may reach.
	MaxOverdraftAmount = decimal.NewFromInt(100)
)

// MaxOverdraftCount is the number of overdrafts after which an account is deactivated.
const MaxOverdraftCount = 2

// AccountType distinguishes checking and savings accounts.
type AccountType string

// Supported account types.
const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
)

// Account holds balance and risk-control state for a single account.
// Both account types follow the identical overdraft state machine.
type Account struct {
	ID             int32           `json:"id"`
	CustomerID     int32           `json:"customer_id"`
	Type           AccountType     `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	IsActive       bool            `json:"is_active"`
	OverdraftCount int32           `json:"overdraft_count"`
	CardTier       CardTier        `json:"card_tier"`
}
