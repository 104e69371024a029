package bankxledger

//go:generate mockgen -source=repository.go -destination=mocks/repository.go -package=mocks

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Repository is the ledger store. Absent accounts are reported as ErrNotFound;
// every other non-nil error is a store failure.
type Repository interface {
	CreateAccount(acct *Account) (snowflake.ID, error)
	GetAccount(id snowflake.ID) (*Account, error)
	GetAccountByNumber(number string) (*Account, error)
	UpdateBalance(id snowflake.ID, balance decimal.Decimal) error
	SetActive(id snowflake.ID, active bool) error
	SetFrozen(id snowflake.ID, frozen bool) error
	SetDailyLimit(id snowflake.ID, limit decimal.NullDecimal) error
	SetInterestRate(id snowflake.ID, rate decimal.Decimal) error
	SetLastInterestCalculation(id snowflake.ID, at time.Time) error
	// ListAccounts returns accounts newest-created first.
	ListAccounts() ([]Account, error)
	AppendTransaction(txn *Transaction) (snowflake.ID, error)
	// ListTransactions returns at most limit entries, newest first.
	ListTransactions(acctID snowflake.ID, limit int) ([]Transaction, error)
	// ListTransactionsInMonth returns the entries of the calendar month holding
	// month, in month's location, oldest first.
	ListTransactionsInMonth(acctID snowflake.ID, month time.Time) ([]Transaction, error)
	// SumSameDayDebits totals withdrawal, transfer_out and bulk_transfer_out
	// amounts recorded on the calendar day of day.
	SumSameDayDebits(acctID snowflake.ID, day time.Time) (decimal.Decimal, error)
}
