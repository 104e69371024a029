package bankxledger

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const (
	// TaskInterestAccrue credits accrued interest on every eligible account.
	TaskInterestAccrue = "interest:accrue"
	QueueDefault       = "default"
)

// InterestAccruePayload names what triggered an accrual run: a one-off
// request processed at ScheduledFor, or the cron spec of the scheduler.
type InterestAccruePayload struct {
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	Cron         string     `json:"cron,omitempty"`
}

// NewInterestAccrueTask builds a one-off accrual task processed at at.
func NewInterestAccrueTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(InterestAccruePayload{ScheduledFor: &at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInterestAccrue, body, asynq.Queue(QueueDefault), asynq.ProcessAt(at)), nil
}

// NewScheduledInterestTask builds the task the scheduler enqueues on spec.
func NewScheduledInterestTask(spec string) (*asynq.Task, error) {
	body, err := json.Marshal(InterestAccruePayload{Cron: spec})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInterestAccrue, body, asynq.Queue(QueueDefault)), nil
}

// AccrualReport counts what a single accrual run did.
type AccrualReport struct {
	Credited int
	Skipped  int
	Failed   int
}

type InterestJob struct {
	svc Service
	log *zerolog.Logger
}

func NewInterestJob(svc Service, log *zerolog.Logger) *InterestJob {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &InterestJob{svc: svc, log: log}
}

// Run accrues interest on active accounts with a positive rate. One account
// failing does not stop the run.
func (j *InterestJob) Run(ctx context.Context) (AccrualReport, error) {
	var rep AccrualReport
	accts, err := j.svc.ListAccounts()
	if err != nil {
		return rep, err
	}
	for _, acct := range accts {
		if err = ctx.Err(); err != nil {
			return rep, err
		}
		if !acct.IsActive || !acct.InterestRate.IsPositive() {
			rep.Skipped++
			continue
		}
		interest, err := j.svc.CalculateInterest(acct.AcctID)
		if err != nil {
			rep.Failed++
			j.log.Err(err).
				Int64("account", acct.AcctID.Int64()).
				Msg("interest accrual failed")
			continue
		}
		if interest.IsZero() {
			rep.Skipped++
			continue
		}
		rep.Credited++
	}
	return rep, nil
}

func (j *InterestJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload InterestAccruePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	rep, err := j.Run(ctx)
	if err != nil {
		return err
	}
	evt := j.log.Info()
	if id, ok := asynq.GetTaskID(ctx); ok {
		evt = evt.Str("task_id", id)
	}
	if payload.ScheduledFor != nil {
		evt = evt.Time("scheduled_for", *payload.ScheduledFor)
	}
	if payload.Cron != "" {
		evt = evt.Str("cron", payload.Cron)
	}
	evt.Int("credited", rep.Credited).
		Int("skipped", rep.Skipped).
		Int("failed", rep.Failed).
		Msg("interest accrual finished")
	return nil
}

// Worker wraps the asynq server and the scheduler enqueuing accrual runs.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
}

type WorkerConfig struct {
	RedisOpts    asynq.RedisClientOpt
	Concurrency  int
	InterestCron string
	Job          *InterestJob
}

func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Job == nil {
		return nil, errors.New("worker: nil interest job")
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskInterestAccrue, cfg.Job.Handle)

	var scheduler *asynq.Scheduler
	if cfg.InterestCron != "" {
		task, err := NewScheduledInterestTask(cfg.InterestCron)
		if err != nil {
			return nil, err
		}
		scheduler = asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{Location: time.Local})
		if _, err = scheduler.Register(cfg.InterestCron, task, asynq.MaxRetry(3)); err != nil {
			return nil, err
		}
	}
	return &Worker{server: srv, mux: mux, scheduler: scheduler}, nil
}

// Run processes tasks until ctx is cancelled, then stops the scheduler and
// the server.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			w.server.Shutdown()
			return err
		}
	}
	<-ctx.Done()
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()
	return ctx.Err()
}
