// Package authdelivery manages delivery layer of user authentication.
package authdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/acmebank/ledger/internal/domain"
	"github.com/acmebank/ledger/pkg/errorspkg"
	"github.com/acmebank/ledger/pkg/tokenpkg"
	"github.com/acmebank/ledger/pkg/web"
)

// Service provides service layer interface needed by the auth delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package authdelivery
type Service interface {
	Login(ctx context.Context, userID int32, password string) (string, *tokenpkg.Payload, domain.User, error)
}

// Handler facilitates auth delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns auth handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type loginRequest struct {
	UserID   int32  `json:"user_id" binding:"required,min=1"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login handles http login request and returns user data with an access token.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	accessToken, payload, user, err := h.service.Login(ctx, req.UserID, req.Password)
	if err != nil {
		var lockedErr *domain.AccountLockedError
		if errors.As(err, &lockedErr) {
			gctx.JSON(http.StatusForbidden, web.Error(err))

			return
		}

		switch err {
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrWrongPassword:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: payload.ExpiredAt,
		Data: struct {
			User domain.User `json:"user,omitempty"`
		}{
			User: user,
		},
	}

	gctx.JSON(http.StatusOK, res)
}
