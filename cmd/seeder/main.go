package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/arhyth/bankxledger"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfp := flag.String("config", "config.yml", "path to configuration file")
	sqlDir := flag.String("sql", "testdata", "directory holding init_db.sql and teardown_db.sql")
	demo := flag.Bool("demo", false, "also open the demo accounts")
	flag.Parse()

	cfg, err := bankxledger.LoadConfig(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error loading config")
	}
	if cfg.Database.Driver == bankxledger.DriverPostgres {
		lh, err := bankxledger.NewLocalHelper(cfg.Database.ConnStr, *sqlDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("error starting local helper")
		}
		if _, err = lh.InitDB(); err != nil {
			logger.Fatal().Err(err).Msg("error initializing database")
		}
	}
	if !*demo {
		return
	}

	repo, closeRepo, err := bankxledger.OpenRepository(cfg.ForProcess(bankxledger.ProcessCLI), &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening database")
	}
	defer closeRepo()
	svc, err := bankxledger.NewService(repo, &logger, cfg.ServiceOptions()...)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting service")
	}
	accts, err := bankxledger.Seed(svc, bankxledger.DemoAccounts)
	if err != nil {
		logger.Fatal().Err(err).Msg("error seeding accounts")
	}
	for _, a := range accts {
		logger.Info().
			Str("id", a.AcctID.String()).
			Str("number", a.AccountNumber).
			Str("customer", a.CustomerName).
			Msg("seeded account")
	}
}
