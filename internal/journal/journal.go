// Package journal maintains the per-customer append-only encrypted
// transaction history.
package journal

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acmebank/ledger/internal/domain"
	"github.com/acmebank/ledger/internal/securestore"
)

const timeLayout = "2006-01-02 15:04:05"

// Journal appends and replays transaction records through the secure store.
// Appends to the same customer's blob are serialized, since the store's
// append is a read-modify-write of the whole blob.
type Journal struct {
	store securestore.Store

	mu    sync.Mutex
	locks map[int32]*sync.Mutex
}

// New returns a journal backed by the given store.
func New(store securestore.Store) *Journal {
	return &Journal{
		store: store,
		locks: make(map[int32]*sync.Mutex),
	}
}

// Append serializes the transaction and appends it to the customer's journal.
func (j *Journal) Append(customerID int32, tx domain.Transaction) error {
	lock := j.customerLock(customerID)
	lock.Lock()
	defer lock.Unlock()

	return j.store.AppendRecord(blobKey(customerID), formatLine(tx))
}

// LoadAll returns the customer's full transaction history in stored order.
// Malformed lines are skipped rather than aborting the replay.
func (j *Journal) LoadAll(customerID int32) ([]domain.Transaction, error) {
	lines, err := j.store.ReadRecords(blobKey(customerID))
	if err != nil {
		return nil, err
	}

	var txs []domain.Transaction

	for _, line := range lines {
		tx, err := parseLine(line)
		if err != nil {
			continue
		}

		txs = append(txs, tx)
	}

	return txs, nil
}

func (j *Journal) customerLock(customerID int32) *sync.Mutex {
	j.mu.Lock()
	defer j.mu.Unlock()

	lock, ok := j.locks[customerID]
	if !ok {
		lock = &sync.Mutex{}
		j.locks[customerID] = lock
	}

	return lock
}

func blobKey(customerID int32) string {
	return fmt.Sprintf("transactions/Customer-%d.enc", customerID)
}

// formatLine renders the canonical record layout:
// transactionId,accountId,customerId,type,amount,dateTime,postBalance,recipientAccountId
// with recipientAccountId empty unless the record is a transfer.
func formatLine(tx domain.Transaction) string {
	recipient := ""
	if tx.Type == domain.TransactionTransfer {
		recipient = strconv.FormatInt(int64(tx.RecipientAccountID), 10)
	}

	return strings.Join([]string{
		tx.ID,
		strconv.FormatInt(int64(tx.AccountID), 10),
		strconv.FormatInt(int64(tx.CustomerID), 10),
		string(tx.Type),
		tx.Amount.String(),
		tx.Time.Format(timeLayout),
		tx.PostBalance.String(),
		recipient,
	}, ",")
}

func parseLine(line string) (domain.Transaction, error) {
	var tx domain.Transaction

	fields := strings.Split(line, ",")
	if len(fields) != 8 {
		return tx, fmt.Errorf("expected 8 fields, got %d", len(fields))
	}

	accountID, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return tx, err
	}

	customerID, err := strconv.ParseInt(fields[2], 10, 32)
	if err != nil {
		return tx, err
	}

	amount, err := decimal.NewFromString(fields[4])
	if err != nil {
		return tx, err
	}

	at, err := time.Parse(timeLayout, fields[5])
	if err != nil {
		return tx, err
	}

	postBalance, err := decimal.NewFromString(fields[6])
	if err != nil {
		return tx, err
	}

	var recipient int64
	if fields[7] != "" {
		recipient, err = strconv.ParseInt(fields[7], 10, 32)
		if err != nil {
			return tx, err
		}
	}

	tx = domain.Transaction{
		ID:                 fields[0],
		AccountID:          int32(accountID),
		CustomerID:         int32(customerID),
		Type:               domain.TransactionType(fields[3]),
		Amount:             amount,
		Time:               at,
		PostBalance:        postBalance,
		RecipientAccountID: int32(recipient),
	}

	return tx, nil
}
