package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acmebank/ledger/internal/domain"
)

func activeAccount(balance int64) domain.Account {
	return domain.Account{
		ID:         1,
		CustomerID: 10,
		Type:       domain.Checking,
		Balance:    decimal.NewFromInt(balance),
		IsActive:   true,
		CardTier:   domain.TierStandard,
	}
}

func TestDeposit(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		account     domain.Account
		amount      decimal.Decimal
		wantErr     error
		wantBalance decimal.Decimal
	}{
		{
			name:        "OK",
			account:     activeAccount(100),
			amount:      decimal.NewFromInt(50),
			wantBalance: decimal.NewFromInt(150),
		},
		{
			name:        "ZeroAmount",
			account:     activeAccount(100),
			amount:      decimal.Zero,
			wantErr:     domain.ErrInvalidAmount,
			wantBalance: decimal.NewFromInt(100),
		},
		{
			name:        "NegativeAmount",
			account:     activeAccount(100),
			amount:      decimal.NewFromInt(-5),
			wantErr:     domain.ErrInvalidAmount,
			wantBalance: decimal.NewFromInt(100),
		},
		{
			name: "InactiveAccountAccepted",
			account: domain.Account{
				Balance:        decimal.NewFromInt(-85),
				IsActive:       false,
				OverdraftCount: 2,
			},
			amount:      decimal.NewFromInt(100),
			wantBalance: decimal.NewFromInt(15),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Deposit(&tc.account, tc.amount)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			require.True(t, tc.account.Balance.Equal(tc.wantBalance),
				"balance = %s, want %s", tc.account.Balance, tc.wantBalance)
		})
	}
}

func TestWithdraw(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name               string
		account            domain.Account
		amount             decimal.Decimal
		wantErr            error
		wantBalance        decimal.Decimal
		wantOverdraftCount int32
		wantActive         bool
	}{
		{
			name:        "SufficientBalanceNoFee",
			account:     activeAccount(100),
			amount:      decimal.NewFromInt(40),
			wantBalance: decimal.NewFromInt(60),
			wantActive:  true,
		},
		{
			name:        "ExactBalanceNoFee",
			account:     activeAccount(100),
			amount:      decimal.NewFromInt(100),
			wantBalance: decimal.Zero,
			wantActive:  true,
		},
		{
			name:               "OverdraftChargesFee",
			account:            activeAccount(50),
			amount:             decimal.NewFromInt(100),
			wantBalance:        decimal.NewFromInt(-85),
			wantOverdraftCount: 1,
			wantActive:         true,
		},
		{
			name: "OverdraftCapRejected",
			account: domain.Account{
				Balance:        decimal.NewFromInt(-85),
				IsActive:       true,
				OverdraftCount: 1,
			},
			amount:             decimal.NewFromInt(1),
			wantErr:            domain.ErrOverdraftCapExceeded,
			wantBalance:        decimal.NewFromInt(-85),
			wantOverdraftCount: 1,
			wantActive:         true,
		},
		{
			name: "SecondOverdraftDeactivates",
			account: domain.Account{
				Balance:        decimal.NewFromInt(10),
				IsActive:       true,
				OverdraftCount: 1,
			},
			amount:             decimal.NewFromInt(20),
			wantBalance:        decimal.NewFromInt(-45),
			wantOverdraftCount: 2,
			wantActive:         false,
		},
		{
			name: "InactiveRejectedDespiteFunds",
			account: domain.Account{
				Balance:        decimal.NewFromInt(1000),
				IsActive:       false,
				OverdraftCount: 2,
			},
			amount:             decimal.NewFromInt(10),
			wantErr:            domain.ErrAccountInactive,
			wantBalance:        decimal.NewFromInt(1000),
			wantOverdraftCount: 2,
			wantActive:         false,
		},
		{
			name:        "ZeroAmount",
			account:     activeAccount(100),
			amount:      decimal.Zero,
			wantErr:     domain.ErrInvalidAmount,
			wantBalance: decimal.NewFromInt(100),
			wantActive:  true,
		},
		{
			name:        "NegativeAmount",
			account:     activeAccount(100),
			amount:      decimal.NewFromInt(-10),
			wantErr:     domain.ErrInvalidAmount,
			wantBalance: decimal.NewFromInt(100),
			wantActive:  true,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Withdraw(&tc.account, tc.amount)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			require.True(t, tc.account.Balance.Equal(tc.wantBalance),
				"balance = %s, want %s", tc.account.Balance, tc.wantBalance)
			require.Equal(t, tc.wantOverdraftCount, tc.account.OverdraftCount)
			require.Equal(t, tc.wantActive, tc.account.IsActive)
		})
	}
}

// TestOverdraftSequence walks the canonical overdraft scenario: a $100
// withdrawal from a $50 balance is accepted at -85 with one overdraft, and
// the following $1 withdrawal is rejected because -85-1-35 < -100.
func TestOverdraftSequence(t *testing.T) {
	t.Parallel()

	account := activeAccount(50)

	require.NoError(t, Withdraw(&account, decimal.NewFromInt(100)))
	require.True(t, account.Balance.Equal(decimal.NewFromInt(-85)))
	require.Equal(t, int32(1), account.OverdraftCount)
	require.True(t, account.IsActive)

	err := Withdraw(&account, decimal.NewFromInt(1))
	require.ErrorIs(t, err, domain.ErrOverdraftCapExceeded)
	require.True(t, account.Balance.Equal(decimal.NewFromInt(-85)))
	require.Equal(t, int32(1), account.OverdraftCount)
	require.True(t, account.IsActive)
}

func TestReactivate(t *testing.T) {
	t.Parallel()

	t.Run("ActiveAccountRejected", func(t *testing.T) {
		t.Parallel()

		account := activeAccount(100)
		require.ErrorIs(t, Reactivate(&account, nil), domain.ErrAccountActive)
	})

	t.Run("NonNegativeBalanceImmediate", func(t *testing.T) {
		t.Parallel()

		account := domain.Account{
			Balance:        decimal.NewFromInt(20),
			IsActive:       false,
			OverdraftCount: 2,
		}

		require.NoError(t, Reactivate(&account, nil))
		require.True(t, account.IsActive)
		require.Equal(t, int32(0), account.OverdraftCount)
		require.True(t, account.Balance.Equal(decimal.NewFromInt(20)))
	})

	t.Run("NegativeBalanceRequiresFunding", func(t *testing.T) {
		t.Parallel()

		account := domain.Account{
			Balance:        decimal.NewFromInt(-85),
			IsActive:       false,
			OverdraftCount: 2,
		}

		require.ErrorIs(t, Reactivate(&account, nil), domain.ErrFundingSourceRequired)
		require.False(t, account.IsActive)
	})

	t.Run("FundedReactivation", func(t *testing.T) {
		t.Parallel()

		account := domain.Account{
			ID:             1,
			Balance:        decimal.NewFromInt(-85),
			IsActive:       false,
			OverdraftCount: 2,
		}
		funding := activeAccount(200)
		funding.ID = 2

		require.NoError(t, Reactivate(&account, &funding))
		require.True(t, account.IsActive)
		require.Equal(t, int32(0), account.OverdraftCount)
		require.True(t, account.Balance.Equal(decimal.Zero))
		require.True(t, funding.Balance.Equal(decimal.NewFromInt(115)))
		require.Equal(t, int32(0), funding.OverdraftCount)
	})

	t.Run("FundingOverdraftCapBlocks", func(t *testing.T) {
		t.Parallel()

		account := domain.Account{
			Balance:        decimal.NewFromInt(-85),
			IsActive:       false,
			OverdraftCount: 2,
		}
		// 10 - 85 - 35 = -110 < -100, so the funding withdrawal is rejected
		// and the account stays deactivated with its debt untouched.
		funding := activeAccount(10)

		require.ErrorIs(t, Reactivate(&account, &funding), domain.ErrOverdraftCapExceeded)
		require.False(t, account.IsActive)
		require.True(t, account.Balance.Equal(decimal.NewFromInt(-85)))
		require.True(t, funding.Balance.Equal(decimal.NewFromInt(10)))
	})
}
