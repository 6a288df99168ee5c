package journal

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acmebank/ledger/internal/domain"
	"github.com/acmebank/ledger/internal/securestore"
)

func testTransaction(accountID, customerID int32, typ domain.TransactionType) domain.Transaction {
	return domain.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		CustomerID:  customerID,
		Type:        typ,
		Amount:      decimal.NewFromInt(100),
		Time:        time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC),
		PostBalance: decimal.NewFromInt(900),
	}
}

func TestAppendLoadAllRoundTrip(t *testing.T) {
	t.Parallel()

	j := New(securestore.NewMemory())

	want := []domain.Transaction{
		testTransaction(1, 10, domain.TransactionDeposit),
		testTransaction(1, 10, domain.TransactionWithdraw),
		testTransaction(2, 10, domain.TransactionDeposit),
	}
	// Second record is a transfer to account 7.
	want[1].Type = domain.TransactionTransfer
	want[1].RecipientAccountID = 7

	for _, tx := range want {
		require.NoError(t, j.Append(10, tx))
	}

	got, err := j.LoadAll(10)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadAllEmptyCustomer(t *testing.T) {
	t.Parallel()

	j := New(securestore.NewMemory())

	got, err := j.LoadAll(42)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLoadAllSkipsMalformedLines(t *testing.T) {
	t.Parallel()

	store := securestore.NewMemory()
	j := New(store)

	good := testTransaction(1, 10, domain.TransactionDeposit)
	require.NoError(t, j.Append(10, good))

	malformed := []string{
		"garbage",
		"id,notanumber,10,DEPOSIT,100,2024-03-01 12:30:45,900,",
		"id,1,10,DEPOSIT,notanamount,2024-03-01 12:30:45,900,",
		"id,1,10,DEPOSIT,100,not-a-date,900,",
		"",
	}
	for _, line := range malformed {
		require.NoError(t, store.AppendRecord("transactions/Customer-10.enc", line))
	}

	require.NoError(t, j.Append(10, good))

	got, err := j.LoadAll(10)
	require.NoError(t, err)
	require.Equal(t, []domain.Transaction{good, good}, got)
}

func TestCustomersAreIsolated(t *testing.T) {
	t.Parallel()

	j := New(securestore.NewMemory())

	require.NoError(t, j.Append(10, testTransaction(1, 10, domain.TransactionDeposit)))

	got, err := j.LoadAll(11)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRecipientOnlyOnTransfers(t *testing.T) {
	t.Parallel()

	// A non-transfer record never serializes a recipient, even if set.
	tx := testTransaction(1, 10, domain.TransactionWithdraw)
	tx.RecipientAccountID = 99

	line := formatLine(tx)
	parsed, err := parseLine(line)
	require.NoError(t, err)
	require.Equal(t, int32(0), parsed.RecipientAccountID)
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	t.Parallel()

	j := New(securestore.NewMemory())

	const n = 50

	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			tx := testTransaction(1, 10, domain.TransactionDeposit)
			tx.ID = fmt.Sprintf("tx-%d", i)
			done <- j.Append(10, tx)
		}(i)
	}

	for i := 0; i < n; i++ {
		require.NoError(t, <-done)
	}

	got, err := j.LoadAll(10)
	require.NoError(t, err)
	require.Len(t, got, n)
}
