package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/acmebank/ledger/internal/httpserver"
	"github.com/acmebank/ledger/internal/middleware"
	"github.com/acmebank/ledger/internal/securestore"
	"github.com/acmebank/ledger/pkg/configpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	key, err := securestore.LoadOrCreateKey(config.KeyFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot load encryption key")
	}

	store, err := securestore.NewFileStore(config.DataDir, key)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot open encrypted store")
	}

	server, err := httpserver.New(store, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("starting server")

	if err := http.ListenAndServe(config.ServerAddress, server); err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
