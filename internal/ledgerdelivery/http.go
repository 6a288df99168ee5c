// Package ledgerdelivery manages delivery layer of accounts and transactions.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/acmebank/ledger/internal/domain"
	"github.com/acmebank/ledger/internal/middleware"
	"github.com/acmebank/ledger/pkg/errorspkg"
	"github.com/acmebank/ledger/pkg/tokenpkg"
	"github.com/acmebank/ledger/pkg/web"
)

// Service provides service layer interface needed by the ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	OpenAccount(ctx context.Context, account domain.Account) (domain.Account, error)
	GetAccount(ctx context.Context, id int32) (domain.Account, error)
	Deposit(ctx context.Context, accountID int32, amount decimal.Decimal) (domain.Account, error)
	Withdraw(ctx context.Context, accountID int32, amount decimal.Decimal) (domain.Account, error)
	Transfer(ctx context.Context, fromID, toID int32, amount decimal.Decimal) (domain.TransferTxResult, error)
	Reactivate(ctx context.Context, accountID, fundingID int32) (domain.Account, error)
	ListTransactions(ctx context.Context, customerID int32) ([]domain.Transaction, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) *Handler {
	return &Handler{service: ls}
}

type accountData struct {
	Account domain.Account `json:"account"`
}

type accountResponse struct {
	Data accountData `json:"data,omitempty"`
}

func bindError(gctx *gin.Context, l *zerolog.Logger, err error) {
	l.Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))
}

func domainError(gctx *gin.Context, err error) {
	var limitErr *domain.DailyLimitExceededError
	if errors.As(err, &limitErr) {
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	switch err {
	case domain.ErrAccountNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
		return
	case domain.ErrAccountAlreadyExists:
		gctx.JSON(http.StatusConflict, web.Error(err))
		return
	case
		domain.ErrInvalidAmount,
		domain.ErrAccountInactive,
		domain.ErrAccountActive,
		domain.ErrOverdraftCapExceeded,
		domain.ErrSameAccountTransfer,
		domain.ErrFundingSourceRequired:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	return amount, nil
}

type openAccountRequest struct {
	AccountID int32  `json:"account_id" binding:"required,min=1"`
	Type      string `json:"type" binding:"required,oneof=CHECKING SAVINGS"`
	Balance   string `json:"balance" binding:"required"`
	CardTier  string `json:"card_tier" binding:"required,cardtier"`
}

// OpenAccount handles http request to open a new account for the
// authenticated customer.
func (h *Handler) OpenAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req openAccountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, l, err)

		return
	}

	balance, err := decimal.NewFromString(req.Balance)
	if err != nil || balance.IsNegative() {
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	account := domain.Account{
		ID:         req.AccountID,
		CustomerID: authPayload.UserID,
		Type:       domain.AccountType(req.Type),
		Balance:    balance,
		CardTier:   domain.CardTier(req.CardTier),
	}

	opened, err := h.service.OpenAccount(ctx, account)
	if err != nil {
		domainError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, accountResponse{Data: accountData{opened}})
}

type getAccountRequest struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

// GetAccount handles http request to get an account snapshot.
func (h *Handler) GetAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getAccountRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		bindError(gctx, l, err)

		return
	}

	account, err := h.service.GetAccount(ctx, req.ID)
	if err != nil {
		domainError(gctx, err)

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)
	if account.CustomerID != authPayload.UserID {
		l.Warn().Int32("account_id", req.ID).Int32("user_id", authPayload.UserID).Msg("account owner mismatch")
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrAccountOwnerMismatch))

		return
	}

	gctx.JSON(http.StatusOK, accountResponse{Data: accountData{account}})
}

type amountRequest struct {
	AccountID int32  `json:"account_id" binding:"required,min=1"`
	Amount    string `json:"amount" binding:"required"`
}

// Deposit handles http request to credit an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, l, err)

		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	account, err := h.service.Deposit(ctx, req.AccountID, amount)
	if err != nil {
		domainError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, accountResponse{Data: accountData{account}})
}

// Withdraw handles http request to debit an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, l, err)

		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	account, err := h.service.Withdraw(ctx, req.AccountID, amount)
	if err != nil {
		domainError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, accountResponse{Data: accountData{account}})
}

type transferRequest struct {
	FromAccountID int32  `json:"from_account_id" binding:"required,min=1"`
	ToAccountID   int32  `json:"to_account_id" binding:"required,min=1"`
	Amount        string `json:"amount" binding:"required"`
}

type transferData struct {
	Transfer domain.TransferTxResult `json:"transfer"`
}

type transferResponse struct {
	Data transferData `json:"data,omitempty"`
}

// Transfer handles http request to move money between two accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, l, err)

		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	result, err := h.service.Transfer(ctx, req.FromAccountID, req.ToAccountID, amount)
	if err != nil {
		domainError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, transferResponse{Data: transferData{result}})
}

type reactivateRequest struct {
	AccountID        int32 `json:"account_id" binding:"required,min=1"`
	FundingAccountID int32 `json:"funding_account_id" binding:"omitempty,min=1"`
}

// Reactivate handles http request to restore a deactivated account.
func (h *Handler) Reactivate(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req reactivateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, l, err)

		return
	}

	account, err := h.service.Reactivate(ctx, req.AccountID, req.FundingAccountID)
	if err != nil {
		domainError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, accountResponse{Data: accountData{account}})
}

type transactionsData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type transactionsResponse struct {
	Data transactionsData `json:"data,omitempty"`
}

// ListTransactions handles http request to list the authenticated customer's
// journal in chronological order.
func (h *Handler) ListTransactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transactions, err := h.service.ListTransactions(ctx, authPayload.UserID)
	if err != nil {
		domainError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, transactionsResponse{Data: transactionsData{transactions}})
}
