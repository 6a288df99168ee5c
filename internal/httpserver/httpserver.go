// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/acmebank/ledger/internal/accountrepo"
	"github.com/acmebank/ledger/internal/authdelivery"
	"github.com/acmebank/ledger/internal/authguard"
	"github.com/acmebank/ledger/internal/dailylimit"
	"github.com/acmebank/ledger/internal/journal"
	"github.com/acmebank/ledger/internal/ledgerdelivery"
	"github.com/acmebank/ledger/internal/ledgerservice"
	"github.com/acmebank/ledger/internal/middleware"
	"github.com/acmebank/ledger/internal/securestore"
	"github.com/acmebank/ledger/internal/userrepo"
	"github.com/acmebank/ledger/pkg/configpkg"
	"github.com/acmebank/ledger/pkg/tokenpkg"
)

// Server holds the encrypted store, handlers router and configuration.
type Server struct {
	Store  securestore.Store
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(store securestore.Store, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.New(store)
	userRepo := userrepo.New(store)
	txJournal := journal.New(store)
	limitTracker := dailylimit.New()

	maxFailures := config.LockoutMaxFailures
	if maxFailures == 0 {
		maxFailures = authguard.DefaultMaxFailures
	}

	lockDuration := config.LockoutDuration
	if lockDuration == 0 {
		lockDuration = authguard.DefaultLockDuration
	}

	guard := authguard.New(maxFailures, lockDuration)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	ledgerService := ledgerservice.New(
		accountRepo, userRepo, txJournal, limitTracker, guard,
		tokenMaker, config.AccessTokenDuration,
	)

	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)
	authHandler := authdelivery.NewHandler(ledgerService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users/login", authHandler.Login)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/accounts", ledgerHandler.OpenAccount)
	authRoutes.GET("/accounts/:id", ledgerHandler.GetAccount)

	authRoutes.POST("/deposits", ledgerHandler.Deposit)
	authRoutes.POST("/withdrawals", ledgerHandler.Withdraw)
	authRoutes.POST("/transfers", ledgerHandler.Transfer)
	authRoutes.POST("/reactivations", ledgerHandler.Reactivate)

	authRoutes.GET("/transactions", ledgerHandler.ListTransactions)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("cardtier", ledgerdelivery.ValidCardTier)
		if err != nil {
			return nil, errors.New("cannot register card tier validator")
		}
	}

	server := &Server{
		Store:  store,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
