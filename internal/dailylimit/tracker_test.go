package dailylimit

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acmebank/ledger/internal/domain"
)

func TestCheckAndCommit(t *testing.T) {
	t.Parallel()

	tracker := New()

	// Standard tier caps daily withdrawals at 5000.
	require.NoError(t, tracker.Check(1, domain.TierStandard, domain.LimitWithdraw, decimal.NewFromInt(3000)))
	tracker.Commit(1, domain.LimitWithdraw, decimal.NewFromInt(3000))

	require.NoError(t, tracker.Check(1, domain.TierStandard, domain.LimitWithdraw, decimal.NewFromInt(2000)))
	tracker.Commit(1, domain.LimitWithdraw, decimal.NewFromInt(2000))

	err := tracker.Check(1, domain.TierStandard, domain.LimitWithdraw, decimal.NewFromInt(1))

	var limitErr *domain.DailyLimitExceededError
	require.True(t, errors.As(err, &limitErr))
	require.Equal(t, domain.LimitWithdraw, limitErr.Category)
	require.True(t, limitErr.Limit.Equal(decimal.NewFromInt(5000)))
	require.True(t, limitErr.Used.Equal(decimal.NewFromInt(5000)))
	require.True(t, limitErr.Remaining.Equal(decimal.Zero))
}

func TestRejectedCheckDoesNotMutate(t *testing.T) {
	t.Parallel()

	tracker := New()

	require.Error(t, tracker.Check(1, domain.TierStandard, domain.LimitWithdraw, decimal.NewFromInt(6000)))

	// The rejected check must not have consumed any of the cap.
	require.NoError(t, tracker.Check(1, domain.TierStandard, domain.LimitWithdraw, decimal.NewFromInt(5000)))
}

func TestCategoriesAreIndependent(t *testing.T) {
	t.Parallel()

	tracker := New()

	tracker.Commit(1, domain.LimitWithdraw, decimal.NewFromInt(5000))

	// Exhausted withdraw cap does not affect transfers.
	require.Error(t, tracker.Check(1, domain.TierStandard, domain.LimitWithdraw, decimal.NewFromInt(1)))
	require.NoError(t, tracker.Check(1, domain.TierStandard, domain.LimitTransfer, decimal.NewFromInt(10000)))
}

func TestAccountsAreIndependent(t *testing.T) {
	t.Parallel()

	tracker := New()

	tracker.Commit(1, domain.LimitWithdraw, decimal.NewFromInt(5000))

	require.Error(t, tracker.Check(1, domain.TierStandard, domain.LimitWithdraw, decimal.NewFromInt(1)))
	require.NoError(t, tracker.Check(2, domain.TierStandard, domain.LimitWithdraw, decimal.NewFromInt(5000)))
}

func TestDepositOwnSharesDepositSum(t *testing.T) {
	t.Parallel()

	tracker := New()

	tracker.Commit(1, domain.LimitDepositOwn, decimal.NewFromInt(150_000))

	// Own deposits consumed part of the shared deposit sum: the external
	// deposit cap (100k) is already blown, while the own cap (200k) is not.
	require.Error(t, tracker.Check(1, domain.TierStandard, domain.LimitDeposit, decimal.NewFromInt(1)))
	require.NoError(t, tracker.Check(1, domain.TierStandard, domain.LimitDepositOwn, decimal.NewFromInt(50_000)))
}

func TestTierCapsDiffer(t *testing.T) {
	t.Parallel()

	tracker := New()

	amount := decimal.NewFromInt(15_000)

	require.Error(t, tracker.Check(1, domain.TierStandard, domain.LimitWithdraw, amount))
	require.Error(t, tracker.Check(1, domain.TierTitanium, domain.LimitWithdraw, amount))
	require.NoError(t, tracker.Check(1, domain.TierPlatinum, domain.LimitWithdraw, amount))
}

func TestDayRolloverResetsSums(t *testing.T) {
	t.Parallel()

	current := time.Date(2024, 3, 1, 23, 50, 0, 0, time.UTC)
	tracker := newTracker(func() time.Time { return current })

	tracker.Commit(1, domain.LimitWithdraw, decimal.NewFromInt(5000))
	require.Error(t, tracker.Check(1, domain.TierStandard, domain.LimitWithdraw, decimal.NewFromInt(1)))

	// Midnight passes: the first access on the new day restamps the counter
	// and zeroes every sum.
	current = current.Add(time.Hour)

	require.NoError(t, tracker.Check(1, domain.TierStandard, domain.LimitWithdraw, decimal.NewFromInt(5000)))
}
