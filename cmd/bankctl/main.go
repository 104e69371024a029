package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/arhyth/bankxledger"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()

	cfg, err := bankxledger.LoadConfig(*cfp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %s\n", err)
		return
	}
	cfg = cfg.ForProcess(bankxledger.ProcessCLI)
	repo, closeRepo, err := bankxledger.OpenRepository(cfg, &logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %s\n", err)
		return
	}
	svc, err := bankxledger.NewService(repo, &logger, cfg.ServiceOptions()...)
	if err != nil {
		closeRepo()
		fmt.Fprintf(os.Stderr, "❌ Error: %s\n", err)
		return
	}

	locker, closeLocker, err := bankxledger.OpenLocker(cfg)
	if err != nil {
		closeRepo()
		fmt.Fprintf(os.Stderr, "❌ Error: %s\n", err)
		return
	}
	cli := &bankxledger.CLI{
		Svc: bankxledger.Chain(svc, bankxledger.NewLockMiddleware(locker, cfg.Redis.LockTimeout)),
		Out: os.Stdout,
		Err: os.Stderr,
	}
	code := cli.Run(flag.Args())
	closeLocker()
	closeRepo()
	os.Exit(code)
}
