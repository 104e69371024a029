package bankxledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"
)

const defaultWaitTimeout = 5 * time.Second

type Middleware func(Service) Service

// Chain wraps svc so that the first middleware is the outermost.
func Chain(svc Service, mws ...Middleware) Service {
	for i := len(mws) - 1; i >= 0; i-- {
		svc = mws[i](svc)
	}
	return svc
}

func waitCtx(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultWaitTimeout
	}
	return context.WithTimeout(context.Background(), d)
}

func unit(err error) (struct{}, error) {
	return struct{}{}, err
}

//
// Per-account serialization
//

// lockMiddleware holds the account locks of every id a mutating call touches
// for the duration of the call, which keeps the engine's read-validate-write
// sequence atomic per account. Queries pass through unlocked.
type lockMiddleware struct {
	next    Service
	locker  Locker
	timeout time.Duration
}

var (
	_ Service = (*lockMiddleware)(nil)
)

func NewLockMiddleware(locker Locker, timeout time.Duration) Middleware {
	return func(next Service) Service {
		return &lockMiddleware{
			next:    next,
			locker:  locker,
			timeout: timeout,
		}
	}
}

func locked[T any](l *lockMiddleware, ids []snowflake.ID, fn func() (T, error)) (T, error) {
	ctx, cancel := waitCtx(l.timeout)
	defer cancel()
	unlock, err := l.locker.Lock(ctx, ids...)
	if err != nil {
		var zero T
		return zero, err
	}
	defer unlock()
	return fn()
}

func (l *lockMiddleware) CreateAccount(req CreateAccountReq) (*Account, error) {
	return l.next.CreateAccount(req)
}

func (l *lockMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	return locked(l, []snowflake.ID{req.AcctID}, func() (*decimal.Decimal, error) {
		return l.next.Deposit(req)
	})
}

func (l *lockMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	return locked(l, []snowflake.ID{req.AcctID}, func() (*decimal.Decimal, error) {
		return l.next.Withdraw(req)
	})
}

func (l *lockMiddleware) Transfer(req TransferReq) (*TransferResult, error) {
	return locked(l, []snowflake.ID{req.FromID, req.ToID}, func() (*TransferResult, error) {
		return l.next.Transfer(req)
	})
}

func (l *lockMiddleware) BulkTransfer(req BulkTransferReq) (*BulkTransferReport, error) {
	ids := make([]snowflake.ID, 0, len(req.Legs)+1)
	ids = append(ids, req.FromID)
	for _, leg := range req.Legs {
		ids = append(ids, leg.ToID)
	}
	return locked(l, ids, func() (*BulkTransferReport, error) {
		return l.next.BulkTransfer(req)
	})
}

func (l *lockMiddleware) FreezeAccount(req FreezeReq) error {
	_, err := locked(l, []snowflake.ID{req.AcctID}, func() (struct{}, error) {
		return unit(l.next.FreezeAccount(req))
	})
	return err
}

func (l *lockMiddleware) UnfreezeAccount(req FreezeReq) error {
	_, err := locked(l, []snowflake.ID{req.AcctID}, func() (struct{}, error) {
		return unit(l.next.UnfreezeAccount(req))
	})
	return err
}

func (l *lockMiddleware) SetDailyWithdrawalLimit(req DailyLimitReq) error {
	_, err := locked(l, []snowflake.ID{req.AcctID}, func() (struct{}, error) {
		return unit(l.next.SetDailyWithdrawalLimit(req))
	})
	return err
}

func (l *lockMiddleware) SetInterestRate(req InterestRateReq) error {
	_, err := locked(l, []snowflake.ID{req.AcctID}, func() (struct{}, error) {
		return unit(l.next.SetInterestRate(req))
	})
	return err
}

func (l *lockMiddleware) CalculateInterest(id snowflake.ID) (decimal.Decimal, error) {
	return locked(l, []snowflake.ID{id}, func() (decimal.Decimal, error) {
		return l.next.CalculateInterest(id)
	})
}

func (l *lockMiddleware) DeactivateAccount(id snowflake.ID) error {
	_, err := locked(l, []snowflake.ID{id}, func() (struct{}, error) {
		return unit(l.next.DeactivateAccount(id))
	})
	return err
}

func (l *lockMiddleware) Account(id snowflake.ID) (*Account, error) {
	return l.next.Account(id)
}

func (l *lockMiddleware) Balance(id snowflake.ID) (*decimal.Decimal, error) {
	return l.next.Balance(id)
}

func (l *lockMiddleware) History(req HistoryReq) ([]Transaction, error) {
	return l.next.History(req)
}

func (l *lockMiddleware) ListAccounts() ([]Account, error) {
	return l.next.ListAccounts()
}

func (l *lockMiddleware) AccountSummary(id snowflake.ID) (*AccountSummary, error) {
	return l.next.AccountSummary(id)
}

func (l *lockMiddleware) MonthlyStatement(req StatementReq) (*MonthlyStatement, error) {
	return l.next.MonthlyStatement(req)
}

func (l *lockMiddleware) AccountStatistics(req StatisticsReq) (*AccountStatistics, error) {
	return l.next.AccountStatistics(req)
}

func (l *lockMiddleware) Statement(w io.Writer, req StatementReq) error {
	return l.next.Statement(w, req)
}

//
// Rate limiting middlewares
//

// limitMiddleware limits the number of in-flight requests to the service by using
// weighted semaphores, i.e., x/sync/semaphore.Semaphore with an acquisition timeout.
// Mutations and queries draw from separate pools so a burst of statement
// rendering cannot starve money movement.
type limitMiddleware struct {
	next   Service
	limits *ServiceLimits
}

var (
	_ Service = (*limitMiddleware)(nil)
)

type ServiceLimits struct {
	Mutations *semaphore.Weighted
	Queries   *semaphore.Weighted
	Timeout   time.Duration
}

func NewServiceLimits(mutations, queries int64, timeout time.Duration) *ServiceLimits {
	return &ServiceLimits{
		Mutations: semaphore.NewWeighted(mutations),
		Queries:   semaphore.NewWeighted(queries),
		Timeout:   timeout,
	}
}

func NewLimitMiddleware(limits *ServiceLimits) Middleware {
	return func(next Service) Service {
		return &limitMiddleware{
			next:   next,
			limits: limits,
		}
	}
}

func limited[T any](sem *semaphore.Weighted, timeout time.Duration, fn func() (T, error)) (T, error) {
	ctx, cancel := waitCtx(timeout)
	defer cancel()
	if err := sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, ErrOverloaded
	}
	defer sem.Release(1)
	return fn()
}

func (l *limitMiddleware) mutate(fn func() error) error {
	_, err := limited(l.limits.Mutations, l.limits.Timeout, func() (struct{}, error) {
		return unit(fn())
	})
	return err
}

func (l *limitMiddleware) CreateAccount(req CreateAccountReq) (*Account, error) {
	return limited(l.limits.Mutations, l.limits.Timeout, func() (*Account, error) {
		return l.next.CreateAccount(req)
	})
}

func (l *limitMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	return limited(l.limits.Mutations, l.limits.Timeout, func() (*decimal.Decimal, error) {
		return l.next.Deposit(req)
	})
}

func (l *limitMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	return limited(l.limits.Mutations, l.limits.Timeout, func() (*decimal.Decimal, error) {
		return l.next.Withdraw(req)
	})
}

func (l *limitMiddleware) Transfer(req TransferReq) (*TransferResult, error) {
	return limited(l.limits.Mutations, l.limits.Timeout, func() (*TransferResult, error) {
		return l.next.Transfer(req)
	})
}

func (l *limitMiddleware) BulkTransfer(req BulkTransferReq) (*BulkTransferReport, error) {
	return limited(l.limits.Mutations, l.limits.Timeout, func() (*BulkTransferReport, error) {
		return l.next.BulkTransfer(req)
	})
}

func (l *limitMiddleware) FreezeAccount(req FreezeReq) error {
	return l.mutate(func() error { return l.next.FreezeAccount(req) })
}

func (l *limitMiddleware) UnfreezeAccount(req FreezeReq) error {
	return l.mutate(func() error { return l.next.UnfreezeAccount(req) })
}

func (l *limitMiddleware) SetDailyWithdrawalLimit(req DailyLimitReq) error {
	return l.mutate(func() error { return l.next.SetDailyWithdrawalLimit(req) })
}

func (l *limitMiddleware) SetInterestRate(req InterestRateReq) error {
	return l.mutate(func() error { return l.next.SetInterestRate(req) })
}

func (l *limitMiddleware) CalculateInterest(id snowflake.ID) (decimal.Decimal, error) {
	return limited(l.limits.Mutations, l.limits.Timeout, func() (decimal.Decimal, error) {
		return l.next.CalculateInterest(id)
	})
}

func (l *limitMiddleware) DeactivateAccount(id snowflake.ID) error {
	return l.mutate(func() error { return l.next.DeactivateAccount(id) })
}

func (l *limitMiddleware) Account(id snowflake.ID) (*Account, error) {
	return limited(l.limits.Queries, l.limits.Timeout, func() (*Account, error) {
		return l.next.Account(id)
	})
}

func (l *limitMiddleware) Balance(id snowflake.ID) (*decimal.Decimal, error) {
	return limited(l.limits.Queries, l.limits.Timeout, func() (*decimal.Decimal, error) {
		return l.next.Balance(id)
	})
}

func (l *limitMiddleware) History(req HistoryReq) ([]Transaction, error) {
	return limited(l.limits.Queries, l.limits.Timeout, func() ([]Transaction, error) {
		return l.next.History(req)
	})
}

func (l *limitMiddleware) ListAccounts() ([]Account, error) {
	return limited(l.limits.Queries, l.limits.Timeout, func() ([]Account, error) {
		return l.next.ListAccounts()
	})
}

func (l *limitMiddleware) AccountSummary(id snowflake.ID) (*AccountSummary, error) {
	return limited(l.limits.Queries, l.limits.Timeout, func() (*AccountSummary, error) {
		return l.next.AccountSummary(id)
	})
}

func (l *limitMiddleware) MonthlyStatement(req StatementReq) (*MonthlyStatement, error) {
	return limited(l.limits.Queries, l.limits.Timeout, func() (*MonthlyStatement, error) {
		return l.next.MonthlyStatement(req)
	})
}

func (l *limitMiddleware) AccountStatistics(req StatisticsReq) (*AccountStatistics, error) {
	return limited(l.limits.Queries, l.limits.Timeout, func() (*AccountStatistics, error) {
		return l.next.AccountStatistics(req)
	})
}

func (l *limitMiddleware) Statement(w io.Writer, req StatementReq) error {
	_, err := limited(l.limits.Queries, l.limits.Timeout, func() (struct{}, error) {
		return unit(l.next.Statement(w, req))
	})
	return err
}

// circuitBreakMiddleware is a middleware that implements the circuit breaker pattern.
// Only store failures count against the breaker; business rule rejections are
// successful round trips as far as the store is concerned. While the breaker is
// open, calls fail fast with ErrOverloaded instead of piling onto a sick store.
type circuitBreakMiddleware struct {
	next Service
	brkr *gobreaker.CircuitBreaker[any]
}

var (
	_ Service = (*circuitBreakMiddleware)(nil)
)

// NewServiceBreaker builds the breaker shared by every Service method.
func NewServiceBreaker(st gobreaker.Settings) *gobreaker.CircuitBreaker[any] {
	if st.Name == "" {
		st.Name = "ledger-store"
	}
	st.IsSuccessful = func(err error) bool {
		return err == nil || IsDomainError(err)
	}
	return gobreaker.NewCircuitBreaker[any](st)
}

func NewCircuitBreakMiddleware(brkr *gobreaker.CircuitBreaker[any]) Middleware {
	return func(next Service) Service {
		return &circuitBreakMiddleware{
			next: next,
			brkr: brkr,
		}
	}
}

func guarded[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (any, error) {
		v, err := fn()
		return v, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrOverloaded, err)
	}
	v, _ := res.(T)
	return v, err
}

func (c *circuitBreakMiddleware) CreateAccount(req CreateAccountReq) (*Account, error) {
	return guarded(c.brkr, func() (*Account, error) {
		return c.next.CreateAccount(req)
	})
}

func (c *circuitBreakMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	return guarded(c.brkr, func() (*decimal.Decimal, error) {
		return c.next.Deposit(req)
	})
}

func (c *circuitBreakMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	return guarded(c.brkr, func() (*decimal.Decimal, error) {
		return c.next.Withdraw(req)
	})
}

func (c *circuitBreakMiddleware) Transfer(req TransferReq) (*TransferResult, error) {
	return guarded(c.brkr, func() (*TransferResult, error) {
		return c.next.Transfer(req)
	})
}

func (c *circuitBreakMiddleware) BulkTransfer(req BulkTransferReq) (*BulkTransferReport, error) {
	return guarded(c.brkr, func() (*BulkTransferReport, error) {
		return c.next.BulkTransfer(req)
	})
}

func (c *circuitBreakMiddleware) FreezeAccount(req FreezeReq) error {
	_, err := guarded(c.brkr, func() (struct{}, error) {
		return unit(c.next.FreezeAccount(req))
	})
	return err
}

func (c *circuitBreakMiddleware) UnfreezeAccount(req FreezeReq) error {
	_, err := guarded(c.brkr, func() (struct{}, error) {
		return unit(c.next.UnfreezeAccount(req))
	})
	return err
}

func (c *circuitBreakMiddleware) SetDailyWithdrawalLimit(req DailyLimitReq) error {
	_, err := guarded(c.brkr, func() (struct{}, error) {
		return unit(c.next.SetDailyWithdrawalLimit(req))
	})
	return err
}

func (c *circuitBreakMiddleware) SetInterestRate(req InterestRateReq) error {
	_, err := guarded(c.brkr, func() (struct{}, error) {
		return unit(c.next.SetInterestRate(req))
	})
	return err
}

func (c *circuitBreakMiddleware) CalculateInterest(id snowflake.ID) (decimal.Decimal, error) {
	return guarded(c.brkr, func() (decimal.Decimal, error) {
		return c.next.CalculateInterest(id)
	})
}

func (c *circuitBreakMiddleware) DeactivateAccount(id snowflake.ID) error {
	_, err := guarded(c.brkr, func() (struct{}, error) {
		return unit(c.next.DeactivateAccount(id))
	})
	return err
}

func (c *circuitBreakMiddleware) Account(id snowflake.ID) (*Account, error) {
	return guarded(c.brkr, func() (*Account, error) {
		return c.next.Account(id)
	})
}

func (c *circuitBreakMiddleware) Balance(id snowflake.ID) (*decimal.Decimal, error) {
	return guarded(c.brkr, func() (*decimal.Decimal, error) {
		return c.next.Balance(id)
	})
}

func (c *circuitBreakMiddleware) History(req HistoryReq) ([]Transaction, error) {
	return guarded(c.brkr, func() ([]Transaction, error) {
		return c.next.History(req)
	})
}

func (c *circuitBreakMiddleware) ListAccounts() ([]Account, error) {
	return guarded(c.brkr, func() ([]Account, error) {
		return c.next.ListAccounts()
	})
}

func (c *circuitBreakMiddleware) AccountSummary(id snowflake.ID) (*AccountSummary, error) {
	return guarded(c.brkr, func() (*AccountSummary, error) {
		return c.next.AccountSummary(id)
	})
}

func (c *circuitBreakMiddleware) MonthlyStatement(req StatementReq) (*MonthlyStatement, error) {
	return guarded(c.brkr, func() (*MonthlyStatement, error) {
		return c.next.MonthlyStatement(req)
	})
}

func (c *circuitBreakMiddleware) AccountStatistics(req StatisticsReq) (*AccountStatistics, error) {
	return guarded(c.brkr, func() (*AccountStatistics, error) {
		return c.next.AccountStatistics(req)
	})
}

func (c *circuitBreakMiddleware) Statement(w io.Writer, req StatementReq) error {
	_, err := guarded(c.brkr, func() (struct{}, error) {
		return unit(c.next.Statement(w, req))
	})
	return err
}
