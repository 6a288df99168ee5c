// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/acmebank/ledger/internal/domain"
	"github.com/acmebank/ledger/internal/securestore"
	"github.com/acmebank/ledger/pkg/errorspkg"
)

// Repo persists account snapshots as single-line encrypted blobs.
type Repo struct {
	store securestore.Store
}

// New returns an account repo backed by the given store.
func New(store securestore.Store) *Repo {
	return &Repo{store: store}
}

// Get loads the account snapshot for the given id.
func (r *Repo) Get(ctx context.Context, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	lines, err := r.store.ReadRecords(blobKey(id))
	if err != nil {
		l.Error().Err(err).Int32("account_id", id).Send()
		return domain.Account{}, err
	}

	if len(lines) == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	account, err := parseSnapshot(lines[0])
	if err != nil {
		l.Error().Err(err).Int32("account_id", id).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	return account, nil
}

// Save overwrites the account snapshot.
func (r *Repo) Save(ctx context.Context, account domain.Account) error {
	l := zerolog.Ctx(ctx)

	err := r.store.WriteRecords(blobKey(account.ID), []string{formatSnapshot(account)})
	if err != nil {
		l.Error().Err(err).Int32("account_id", account.ID).Send()
		return err
	}

	return nil
}

// Exists reports whether a snapshot is stored for the given id.
func (r *Repo) Exists(ctx context.Context, id int32) bool {
	return r.store.Exists(blobKey(id))
}

func blobKey(id int32) string {
	return fmt.Sprintf("accounts/Account-%d.enc", id)
}

// formatSnapshot renders the canonical snapshot layout:
// accountId,customerId,accountType,balance,isActive,overdraftCount,cardType
func formatSnapshot(a domain.Account) string {
	return strings.Join([]string{
		strconv.FormatInt(int64(a.ID), 10),
		strconv.FormatInt(int64(a.CustomerID), 10),
		string(a.Type),
		a.Balance.String(),
		strconv.FormatBool(a.IsActive),
		strconv.FormatInt(int64(a.OverdraftCount), 10),
		string(a.CardTier),
	}, ",")
}

func parseSnapshot(line string) (domain.Account, error) {
	var a domain.Account

	fields := strings.Split(line, ",")
	if len(fields) != 7 {
		return a, fmt.Errorf("expected 7 fields, got %d", len(fields))
	}

	id, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil {
		return a, err
	}

	customerID, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return a, err
	}

	balance, err := decimal.NewFromString(fields[3])
	if err != nil {
		return a, err
	}

	isActive, err := strconv.ParseBool(fields[4])
	if err != nil {
		return a, err
	}

	overdraftCount, err := strconv.ParseInt(fields[5], 10, 32)
	if err != nil {
		return a, err
	}

	a = domain.Account{
		ID:             int32(id),
		CustomerID:     int32(customerID),
		Type:           domain.AccountType(fields[2]),
		Balance:        balance,
		IsActive:       isActive,
		OverdraftCount: int32(overdraftCount),
		CardTier:       domain.CardTier(fields[6]),
	}

	return a, nil
}
