package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CardTier is the debit card profile that defines the daily transaction caps
// of the account it is attached to.
type CardTier string

// Supported card tiers.
const (
	TierStandard CardTier = "Standard"
	TierTitanium CardTier = "Titanium"
	TierPlatinum CardTier = "Platinum"
)

// IsSupportedTier checks whether the given string names a known card tier.
func IsSupportedTier(tier string) bool {
	switch CardTier(tier) {
	case TierStandard, TierTitanium, TierPlatinum:
		return true
	}

	return false
}

// LimitCategory names one of the daily-capped transaction categories.
type LimitCategory string

// Daily limit categories. Deposits to the customer's own accounts share the
// running sum of external deposits but are compared against their own cap.
const (
	LimitWithdraw    LimitCategory = "withdraw"
	LimitTransfer    LimitCategory = "transfer"
	LimitTransferOwn LimitCategory = "transfer_own"
	LimitDeposit     LimitCategory = "deposit"
	LimitDepositOwn  LimitCategory = "deposit_own"
)

// DailyLimits holds the five per-day caps a card tier carries.
type DailyLimits struct {
	Withdraw    decimal.Decimal
	Transfer    decimal.Decimal
	TransferOwn decimal.Decimal
	Deposit     decimal.Decimal
	DepositOwn  decimal.Decimal
}

// Limits returns the daily caps for the tier. Unknown tiers fall back to
// Standard, matching how snapshots with unrecognized card types are loaded.
func (t CardTier) Limits() DailyLimits {
	switch t {
	case TierPlatinum:
		return DailyLimits{
			Withdraw:    decimal.NewFromInt(20_000),
			Transfer:    decimal.NewFromInt(40_000),
			TransferOwn: decimal.NewFromInt(80_000),
			Deposit:     decimal.NewFromInt(100_000),
			DepositOwn:  decimal.NewFromInt(200_000),
		}
	case TierTitanium:
		return DailyLimits{
			Withdraw:    decimal.NewFromInt(10_000),
			Transfer:    decimal.NewFromInt(20_000),
			TransferOwn: decimal.NewFromInt(40_000),
			Deposit:     decimal.NewFromInt(100_000),
			DepositOwn:  decimal.NewFromInt(200_000),
		}
	default:
		return DailyLimits{
			Withdraw:    decimal.NewFromInt(5_000),
			Transfer:    decimal.NewFromInt(10_000),
			TransferOwn: decimal.NewFromInt(20_000),
			Deposit:     decimal.NewFromInt(100_000),
			DepositOwn:  decimal.NewFromInt(200_000),
		}
	}
}

// Cap returns the tier's cap for the given category.
func (t CardTier) Cap(category LimitCategory) decimal.Decimal {
	l := t.Limits()

	switch category {
	case LimitWithdraw:
		return l.Withdraw
	case LimitTransfer:
		return l.Transfer
	case LimitTransferOwn:
		return l.TransferOwn
	case LimitDeposit:
		return l.Deposit
	case LimitDepositOwn:
		return l.DepositOwn
	}

	return decimal.Zero
}

// DailyLimitExceededError reports that an operation would push the day's
// running sum for a category over the card tier's cap.
type DailyLimitExceededError struct {
	Category  LimitCategory
	Limit     decimal.Decimal
	Used      decimal.Decimal
	Remaining decimal.Decimal
}

func (e *DailyLimitExceededError) Error() string {
	return fmt.Sprintf("daily %s limit exceeded: limit %s, used %s, remaining %s",
		e.Category, e.Limit, e.Used, e.Remaining)
}
