// Package ledger implements the account balance state machine, including
// overdraft, deactivation and reactivation rules. The rules are identical
// for checking and savings accounts.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/acmebank/ledger/internal/domain"
)

// Deposit credits amount to the account. Deposits are allowed on
// deactivated accounts so a customer can fund recovery.
func Deposit(account *domain.Account, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	account.Balance = account.Balance.Add(amount)

	return nil
}

// Withdraw debits amount from the account. When the balance cannot cover the
// amount, the overdraft path applies the fixed fee and increments the
// overdraft count; reaching the overdraft count limit deactivates the
// account. The withdrawal is rejected outright, with no state change, if it
// would push the balance below the maximum overdraft.
func Withdraw(account *domain.Account, amount decimal.Decimal) error {
	if !account.IsActive {
		return domain.ErrAccountInactive
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	if account.Balance.GreaterThanOrEqual(amount) {
		account.Balance = account.Balance.Sub(amount)
		return nil
	}

	newBalance := account.Balance.Sub(amount).Sub(domain.OverdraftFee)
	if newBalance.LessThan(domain.MaxOverdraftAmount.Neg()) {
		return domain.ErrOverdraftCapExceeded
	}

	account.Balance = newBalance
	account.OverdraftCount++

	if account.OverdraftCount >= domain.MaxOverdraftCount {
		account.IsActive = false
	}

	return nil
}

// Reactivate restores a deactivated account. A non-negative balance
// reactivates immediately. A negative balance requires a funding account:
// the debt is settled with a standard withdraw/deposit pair, so the funding
// account is subject to its own overdraft rules.
func Reactivate(account, funding *domain.Account) error {
	if account.IsActive {
		return domain.ErrAccountActive
	}

	if account.Balance.LessThan(decimal.Zero) {
		if funding == nil {
			return domain.ErrFundingSourceRequired
		}

		debt := account.Balance.Neg()

		if err := Withdraw(funding, debt); err != nil {
			return err
		}

		if err := Deposit(account, debt); err != nil {
			return err
		}
	}

	account.IsActive = true
	account.OverdraftCount = 0

	return nil
}
