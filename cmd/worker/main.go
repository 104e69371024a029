package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/arhyth/bankxledger"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfp := flag.String("config", "config.yml", "path to configuration file")
	once := flag.Bool("once", false, "run a single accrual pass and exit")
	flag.Parse()

	cfg, err := bankxledger.LoadConfig(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error loading config")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	cfg = cfg.ForProcess(bankxledger.ProcessWorker)
	if cfg.Redis.Addr == "" && !*once {
		logger.Fatal().Msg("redis.addr is required to run the worker")
	}
	if cfg.Redis.Addr == "" {
		logger.Warn().Msg("redis.addr not set, accounts are locked against this process only")
	}

	repo, closeRepo, err := bankxledger.OpenRepository(cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting database")
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
	locked := bankxledger.Chain(svc, bankxledger.NewLockMiddleware(locker, cfg.Redis.LockTimeout))
	job := bankxledger.NewInterestJob(locked, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		rep, err := job.Run(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("interest accrual failed")
		}
		logger.Info().
			Int("credited", rep.Credited).
			Int("skipped", rep.Skipped).
			Int("failed", rep.Failed).
			Msg("interest accrual finished")
		return
	}

	worker, err := bankxledger.NewWorker(bankxledger.WorkerConfig{
		RedisOpts:    asynq.RedisClientOpt{Addr: cfg.Redis.Addr},
		Concurrency:  cfg.Worker.Concurrency,
		InterestCron: cfg.Worker.InterestCron,
		Job:          job,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting worker")
	}
	logger.Info().Str("cron", cfg.Worker.InterestCron).Msg("interest worker running")
	if err = worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Err(err).Msg("worker stopped")
	}
}
