// Package dailylimit enforces per-card daily transaction caps.
package dailylimit

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acmebank/ledger/internal/domain"
)

const dayLayout = "2006-01-02"

// Tracker keeps per-account, per-calendar-day running sums for each limit
// category. Counters live only in memory: a process restart resets all
// running sums to zero.
type Tracker struct {
	mu       sync.Mutex
	counters map[int32]*counter
	now      func() time.Time
}

// counter holds one account's running sums for the day it is stamped with.
// Deposits to own accounts accumulate into the deposit sum.
type counter struct {
	day         string
	withdraw    decimal.Decimal
	deposit     decimal.Decimal
	transfer    decimal.Decimal
	transferOwn decimal.Decimal
}

// New returns a tracker using the wall clock.
func New() *Tracker {
	return newTracker(time.Now)
}

func newTracker(now func() time.Time) *Tracker {
	return &Tracker{
		counters: make(map[int32]*counter),
		now:      now,
	}
}

// Check reports whether adding amount to the account's running sum for the
// category would stay within the card tier's cap. It never mutates the sums.
func (t *Tracker) Check(accountID int32, tier domain.CardTier, category domain.LimitCategory, amount decimal.Decimal) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.counterFor(accountID)
	used := c.sum(category)
	limit := tier.Cap(category)

	if used.Add(amount).GreaterThan(limit) {
		return &domain.DailyLimitExceededError{
			Category:  category,
			Limit:     limit,
			Used:      used,
			Remaining: limit.Sub(used),
		}
	}

	return nil
}

// Commit adds amount to the account's running sum for the category. It must
// only be called after the corresponding ledger mutation has succeeded.
func (t *Tracker) Commit(accountID int32, category domain.LimitCategory, amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.counterFor(accountID)

	switch category {
	case domain.LimitWithdraw:
		c.withdraw = c.withdraw.Add(amount)
	case domain.LimitDeposit, domain.LimitDepositOwn:
		c.deposit = c.deposit.Add(amount)
	case domain.LimitTransfer:
		c.transfer = c.transfer.Add(amount)
	case domain.LimitTransferOwn:
		c.transferOwn = c.transferOwn.Add(amount)
	}
}

// counterFor returns the account's counter, creating it lazily and zeroing
// all sums when the stored day differs from today. Callers must hold mu.
func (t *Tracker) counterFor(accountID int32) *counter {
	today := t.now().Format(dayLayout)

	c, ok := t.counters[accountID]
	if !ok {
		c = &counter{day: today}
		t.counters[accountID] = c
	}

	if c.day != today {
		*c = counter{day: today}
	}

	return c
}

func (c *counter) sum(category domain.LimitCategory) decimal.Decimal {
	switch category {
	case domain.LimitWithdraw:
		return c.withdraw
	case domain.LimitDeposit, domain.LimitDepositOwn:
		return c.deposit
	case domain.LimitTransfer:
		return c.transfer
	case domain.LimitTransferOwn:
		return c.transferOwn
	}

	return decimal.Zero
}
