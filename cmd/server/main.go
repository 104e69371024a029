package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/arhyth/bankxledger"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()

	cfg, err := bankxledger.LoadConfig(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error loading config")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	cfg = cfg.ForProcess(bankxledger.ProcessServer)

	repo, closeRepo, err := bankxledger.OpenRepository(cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("error starting database")
	}
	defer closeRepo()

	svc, err := bankxledger.NewService(repo, &logger, cfg.ServiceOptions()...)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting service")
	}

	locker, closeLocker, err := bankxledger.OpenLocker(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting account locker")
	}
	defer closeLocker()

	limits := bankxledger.NewServiceLimits(cfg.Limits.Mutations, cfg.Limits.Queries, cfg.Limits.Timeout)
	brkr := bankxledger.NewServiceBreaker(cfg.BreakerSettings())
	wrapped := bankxledger.Chain(svc,
		bankxledger.NewLimitMiddleware(limits),
		bankxledger.NewLockMiddleware(locker, cfg.Redis.LockTimeout),
		bankxledger.NewCircuitBreakMiddleware(brkr),
	)
	hndlr := bankxledger.NewHTTPHandler(wrapped, &logger, bankxledger.HTTPOptions{
		RatePerMinute: cfg.HTTP.RatePerMinute,
		IsDevelopment: cfg.HTTP.IsDevelopment,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      hndlr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Err(err).Msg("error shutting down server")
		}
	}()

	logger.Info().Str("addr", cfg.HTTP.Addr).Str("driver", cfg.Database.Driver).Msg("ledger server listening")
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Err(err).Msg("server stopped")
	}
}
