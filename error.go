package bankxledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInternalServer         = errors.New("internal server error")
	ErrOverloaded             = errors.New("service overloaded, try again later")
	ErrDuplicateAccountNumber = errors.New("account number already exists")
)

// ErrBadRequest is the validation error kind. It is always returned before
// any store access.
type ErrBadRequest struct {
	Fields map[string]string `json:"fields"`
}

func (e ErrBadRequest) Error() string {
	return fmt.Sprintf("missing/invalid params: %v", e.Fields)
}

func badRequest(field, msg string) ErrBadRequest {
	return ErrBadRequest{Fields: map[string]string{field: msg}}
}

// Role values distinguish the two sides of a transfer in error messages.
const (
	RoleSource      = "source"
	RoleDestination = "destination"
)

func subject(role string, id int64) string {
	if role == "" {
		return fmt.Sprintf("account %d", id)
	}
	return fmt.Sprintf("%s account %d", role, id)
}

type ErrNotFound struct {
	ID   int64  `json:"id"`
	Role string `json:"role,omitempty"`
}

func (e ErrNotFound) Error() string {
	return subject(e.Role, e.ID) + " not found"
}

type ErrInactive struct {
	ID   int64  `json:"id"`
	Role string `json:"role,omitempty"`
}

func (e ErrInactive) Error() string {
	return subject(e.Role, e.ID) + " is not active"
}

type ErrFrozen struct {
	ID   int64  `json:"id"`
	Role string `json:"role,omitempty"`
}

func (e ErrFrozen) Error() string {
	return subject(e.Role, e.ID) + " is frozen"
}

type ErrAlreadyFrozen struct {
	ID int64 `json:"id"`
}

func (e ErrAlreadyFrozen) Error() string {
	return fmt.Sprintf("account %d is already frozen", e.ID)
}

type ErrNotFrozen struct {
	ID int64 `json:"id"`
}

func (e ErrNotFrozen) Error() string {
	return fmt.Sprintf("account %d is not frozen", e.ID)
}

type ErrInsufficientFunds struct {
	ID        int64           `json:"id"`
	Available decimal.Decimal `json:"available"`
	Required  decimal.Decimal `json:"required"`
}

func (e ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds in account %d: required %s, available %s",
		e.ID, e.Required.StringFixed(2), e.Available.StringFixed(2))
}

type ErrDailyLimitExceeded struct {
	ID         int64           `json:"id"`
	Limit      decimal.Decimal `json:"limit"`
	TodayTotal decimal.Decimal `json:"today_total"`
	Requested  decimal.Decimal `json:"requested"`
}

func (e ErrDailyLimitExceeded) Error() string {
	return fmt.Sprintf("daily withdrawal limit exceeded for account %d: limit %s, today's withdrawals %s, requested %s",
		e.ID, e.Limit.StringFixed(2), e.TodayTotal.StringFixed(2), e.Requested.StringFixed(2))
}

// ErrStoreWrite reports a store call that did not succeed. Committed is set
// when an earlier balance write of the same call already went through, and
// Inconsistent when a compensating write could not restore it either.
type ErrStoreWrite struct {
	Op           string `json:"op"`
	ID           int64  `json:"id"`
	Committed    bool   `json:"committed"`
	Inconsistent bool   `json:"inconsistent"`
	Err          error  `json:"-"`
}

func (e ErrStoreWrite) Error() string {
	msg := fmt.Sprintf("store %s failed for account %d", e.Op, e.ID)
	switch {
	case e.Inconsistent:
		msg += " (balances left inconsistent)"
	case e.Committed:
		msg += " (balance change committed)"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ErrStoreWrite) Unwrap() error {
	return e.Err
}

// IsDomainError reports whether err is a business rule rejection as opposed
// to an infrastructure failure.
func IsDomainError(err error) bool {
	switch {
	case errors.As(err, &ErrBadRequest{}),
		errors.As(err, &ErrNotFound{}),
		errors.As(err, &ErrInactive{}),
		errors.As(err, &ErrFrozen{}),
		errors.As(err, &ErrAlreadyFrozen{}),
		errors.As(err, &ErrNotFrozen{}),
		errors.As(err, &ErrInsufficientFunds{}),
		errors.As(err, &ErrDailyLimitExceeded{}):
		return true
	}
	return false
}
