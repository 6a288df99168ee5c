// Package ledgerservice orchestrates the ledger use cases: deposits,
// withdrawals, transfers, reactivation and login.
package ledgerservice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/acmebank/ledger/internal/domain"
	"github.com/acmebank/ledger/internal/ledger"
	"github.com/acmebank/ledger/pkg/passpkg"
	"github.com/acmebank/ledger/pkg/tokenpkg"
)

// AccountRepo provides account snapshot persistence needed by the service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type AccountRepo interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
	Save(ctx context.Context, account domain.Account) error
	Exists(ctx context.Context, id int32) bool
}

// UserRepo provides read access to user identity records.
type UserRepo interface {
	Get(ctx context.Context, id int32) (domain.User, error)
}

// Journal provides the append-only transaction history.
type Journal interface {
	Append(customerID int32, tx domain.Transaction) error
	LoadAll(customerID int32) ([]domain.Transaction, error)
}

// LimitTracker enforces the per-card daily transaction caps.
type LimitTracker interface {
	Check(accountID int32, tier domain.CardTier, category domain.LimitCategory, amount decimal.Decimal) error
	Commit(accountID int32, category domain.LimitCategory, amount decimal.Decimal)
}

// Guard tracks failed logins and imposes timed lockouts.
type Guard interface {
	Check(userID int32) error
	Fail(userID int32)
	Reset(userID int32)
}

// Service facilitates the ledger use case logic. Operations on the same
// account are serialized with one lock per account id to prevent lost
// updates on the read-modify-written snapshots.
type Service struct {
	accounts   AccountRepo
	users      UserRepo
	journal    Journal
	limits     LimitTracker
	guard      Guard
	tokenMaker tokenpkg.Maker

	accessTokenDuration time.Duration

	mu           sync.Mutex
	accountLocks map[int32]*sync.Mutex
}

// New returns a ledger service struct to manage the ledger use cases.
func New(
	accounts AccountRepo,
	users UserRepo,
	journal Journal,
	limits LimitTracker,
	guard Guard,
	tokenMaker tokenpkg.Maker,
	accessTokenDuration time.Duration,
) *Service {
	return &Service{
		accounts:            accounts,
		users:               users,
		journal:             journal,
		limits:              limits,
		guard:               guard,
		tokenMaker:          tokenMaker,
		accessTokenDuration: accessTokenDuration,
		accountLocks:        make(map[int32]*sync.Mutex),
	}
}

// OpenAccount persists a fully formed account supplied by the external
// account-opening flow. New accounts start active with a clean overdraft count.
func (s *Service) OpenAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	unlock := s.lockAccount(account.ID)
	defer unlock()

	if s.accounts.Exists(ctx, account.ID) {
		l.Info().Int32("account_id", account.ID).Msg("account already exists")
		return domain.Account{}, domain.ErrAccountAlreadyExists
	}

	account.IsActive = true
	account.OverdraftCount = 0

	if err := s.accounts.Save(ctx, account); err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// GetAccount returns the current account snapshot.
func (s *Service) GetAccount(ctx context.Context, id int32) (domain.Account, error) {
	return s.accounts.Get(ctx, id)
}

// Deposit credits amount to the account, appends the journal record and
// persists the new snapshot. Deposits are allowed on deactivated accounts.
func (s *Service) Deposit(ctx context.Context, accountID int32, amount decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	unlock := s.lockAccount(accountID)
	defer unlock()

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return domain.Account{}, err
	}

	if err := s.limits.Check(account.ID, account.CardTier, domain.LimitDeposit, amount); err != nil {
		l.Info().Err(err).Int32("account_id", accountID).Send()
		return domain.Account{}, err
	}

	if err := ledger.Deposit(&account, amount); err != nil {
		l.Info().Err(err).Int32("account_id", accountID).Send()
		return domain.Account{}, err
	}

	s.limits.Commit(account.ID, domain.LimitDeposit, amount)

	tx := newTransaction(account, domain.TransactionDeposit, amount, 0)
	if err := s.journal.Append(account.CustomerID, tx); err != nil {
		l.Error().Err(err).Int32("account_id", accountID).Send()
		return domain.Account{}, err
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// Withdraw debits amount from the account under the overdraft rules, appends
// the journal record and persists the new snapshot.
func (s *Service) Withdraw(ctx context.Context, accountID int32, amount decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	unlock := s.lockAccount(accountID)
	defer unlock()

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return domain.Account{}, err
	}

	if err := s.limits.Check(account.ID, account.CardTier, domain.LimitWithdraw, amount); err != nil {
		l.Info().Err(err).Int32("account_id", accountID).Send()
		return domain.Account{}, err
	}

	if err := ledger.Withdraw(&account, amount); err != nil {
		l.Info().Err(err).Int32("account_id", accountID).Send()
		return domain.Account{}, err
	}

	s.limits.Commit(account.ID, domain.LimitWithdraw, amount)

	tx := newTransaction(account, domain.TransactionWithdraw, amount, 0)
	if err := s.journal.Append(account.CustomerID, tx); err != nil {
		l.Error().Err(err).Int32("account_id", accountID).Send()
		return domain.Account{}, err
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// Transfer moves amount from one account to another as a withdraw/deposit
// pair. If the withdrawal fails, the deposit does not happen and no journal
// records are written. Each side's record carries the other account as the
// counterparty.
func (s *Service) Transfer(ctx context.Context, fromID, toID int32, amount decimal.Decimal) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	if fromID == toID {
		return domain.TransferTxResult{}, domain.ErrSameAccountTransfer
	}

	unlock := s.lockAccounts(fromID, toID)
	defer unlock()

	from, err := s.accounts.Get(ctx, fromID)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	to, err := s.accounts.Get(ctx, toID)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	category := domain.LimitTransfer
	if from.CustomerID == to.CustomerID {
		category = domain.LimitTransferOwn
	}

	if err := s.limits.Check(from.ID, from.CardTier, category, amount); err != nil {
		l.Info().Err(err).Int32("from_account_id", fromID).Send()
		return domain.TransferTxResult{}, err
	}

	if err := ledger.Withdraw(&from, amount); err != nil {
		l.Info().Err(err).Int32("from_account_id", fromID).Send()
		return domain.TransferTxResult{}, err
	}

	if err := ledger.Deposit(&to, amount); err != nil {
		l.Error().Err(err).Int32("to_account_id", toID).Send()
		return domain.TransferTxResult{}, err
	}

	s.limits.Commit(from.ID, category, amount)

	fromTx := newTransaction(from, domain.TransactionTransfer, amount, to.ID)
	if err := s.journal.Append(from.CustomerID, fromTx); err != nil {
		l.Error().Err(err).Int32("from_account_id", fromID).Send()
		return domain.TransferTxResult{}, err
	}

	toTx := newTransaction(to, domain.TransactionTransfer, amount, from.ID)
	if err := s.journal.Append(to.CustomerID, toTx); err != nil {
		l.Error().Err(err).Int32("to_account_id", toID).Send()
		return domain.TransferTxResult{}, err
	}

	if err := s.accounts.Save(ctx, from); err != nil {
		return domain.TransferTxResult{}, err
	}

	if err := s.accounts.Save(ctx, to); err != nil {
		return domain.TransferTxResult{}, err
	}

	result := domain.TransferTxResult{
		FromAccount:     from,
		ToAccount:       to,
		FromTransaction: fromTx,
		ToTransaction:   toTx,
	}

	return result, nil
}

// Reactivate restores a deactivated account. A negative balance is settled
// from the funding account first; the settlement is journaled as a transfer
// pair. Pass fundingID zero when no funding account is involved.
func (s *Service) Reactivate(ctx context.Context, accountID, fundingID int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var unlock func()
	if fundingID != 0 && fundingID != accountID {
		unlock = s.lockAccounts(accountID, fundingID)
	} else {
		unlock = s.lockAccount(accountID)
	}
	defer unlock()

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return domain.Account{}, err
	}

	var funding *domain.Account

	if fundingID != 0 && fundingID != accountID {
		f, err := s.accounts.Get(ctx, fundingID)
		if err != nil {
			return domain.Account{}, err
		}

		funding = &f
	}

	debt := account.Balance.Neg()
	settling := account.Balance.LessThan(decimal.Zero) && funding != nil

	if err := ledger.Reactivate(&account, funding); err != nil {
		l.Info().Err(err).Int32("account_id", accountID).Send()
		return domain.Account{}, err
	}

	if settling {
		fromTx := newTransaction(*funding, domain.TransactionTransfer, debt, account.ID)
		if err := s.journal.Append(funding.CustomerID, fromTx); err != nil {
			l.Error().Err(err).Int32("account_id", fundingID).Send()
			return domain.Account{}, err
		}

		toTx := newTransaction(account, domain.TransactionTransfer, debt, funding.ID)
		if err := s.journal.Append(account.CustomerID, toTx); err != nil {
			l.Error().Err(err).Int32("account_id", accountID).Send()
			return domain.Account{}, err
		}

		if err := s.accounts.Save(ctx, *funding); err != nil {
			return domain.Account{}, err
		}
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// ListTransactions returns the customer's full journal in chronological order.
func (s *Service) ListTransactions(ctx context.Context, customerID int32) ([]domain.Transaction, error) {
	return s.journal.LoadAll(customerID)
}

// Login verifies the user's password behind the lockout guard and issues an
// access token. While the user id is locked, credentials are not consulted.
func (s *Service) Login(ctx context.Context, userID int32, password string) (string, *tokenpkg.Payload, domain.User, error) {
	l := zerolog.Ctx(ctx)

	if err := s.guard.Check(userID); err != nil {
		l.Info().Err(err).Int32("user_id", userID).Send()
		return "", nil, domain.User{}, err
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", nil, domain.User{}, err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		s.guard.Fail(userID)
		l.Info().Int32("user_id", userID).Msg("wrong password")

		return "", nil, domain.User{}, domain.ErrWrongPassword
	}

	s.guard.Reset(userID)

	token, payload, err := s.tokenMaker.CreateToken(userID, s.accessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return "", nil, domain.User{}, err
	}

	user.HashedPassword = ""

	return token, payload, user, nil
}

func (s *Service) lockAccount(id int32) func() {
	s.mu.Lock()

	lock, ok := s.accountLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.accountLocks[id] = lock
	}

	s.mu.Unlock()

	lock.Lock()

	return lock.Unlock
}

// lockAccounts acquires both account locks in id order to avoid deadlocks
// between concurrent transfers.
func (s *Service) lockAccounts(a, b int32) func() {
	first, second := a, b
	if second < first {
		first, second = second, first
	}

	unlockFirst := s.lockAccount(first)
	unlockSecond := s.lockAccount(second)

	return func() {
		unlockSecond()
		unlockFirst()
	}
}

func newTransaction(account domain.Account, typ domain.TransactionType, amount decimal.Decimal, recipientID int32) domain.Transaction {
	return domain.Transaction{
		ID:                 uuid.NewString(),
		AccountID:          account.ID,
		CustomerID:         account.CustomerID,
		Type:               typ,
		Amount:             amount,
		Time:               time.Now().UTC().Truncate(time.Second),
		PostBalance:        account.Balance,
		RecipientAccountID: recipientID,
	}
}
