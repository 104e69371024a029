package bankxledger

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeBusiness AccountType = "business"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeBusiness:
		return true
	}
	return false
}

type TransactionType string

const (
	TxnDeposit         TransactionType = "deposit"
	TxnWithdrawal      TransactionType = "withdrawal"
	TxnTransferIn      TransactionType = "transfer_in"
	TxnTransferOut     TransactionType = "transfer_out"
	TxnBulkTransferIn  TransactionType = "bulk_transfer_in"
	TxnBulkTransferOut TransactionType = "bulk_transfer_out"
	TxnInterest        TransactionType = "interest"
	TxnFee             TransactionType = "fee"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxnDeposit, TxnWithdrawal, TxnTransferIn, TxnTransferOut,
		TxnBulkTransferIn, TxnBulkTransferOut, TxnInterest, TxnFee:
		return true
	}
	return false
}

// IsDebit reports whether the type counts against the daily withdrawal limit.
func (t TransactionType) IsDebit() bool {
	return t == TxnWithdrawal || t == TxnTransferOut || t == TxnBulkTransferOut
}

// IsCredit reports whether the entry increased the balance.
func (t TransactionType) IsCredit() bool {
	return t == TxnDeposit || t == TxnTransferIn || t == TxnBulkTransferIn || t == TxnInterest
}

type Account struct {
	AcctID                  snowflake.ID        `json:"id"`
	AccountNumber           string              `json:"account_number"`
	CustomerName            string              `json:"customer_name"`
	AccountType             AccountType         `json:"account_type"`
	Balance                 decimal.Decimal     `json:"balance"`
	MinimumBalance          decimal.Decimal     `json:"minimum_balance"`
	IsActive                bool                `json:"is_active"`
	IsFrozen                bool                `json:"is_frozen"`
	DailyWithdrawalLimit    decimal.NullDecimal `json:"daily_withdrawal_limit"`
	InterestRate            decimal.Decimal     `json:"interest_rate"`
	LastInterestCalculation *time.Time          `json:"last_interest_calculation,omitempty"`
	CreatedAt               time.Time           `json:"created_at"`
}

// Available is the amount that can be debited without crossing the minimum balance.
func (a *Account) Available() decimal.Decimal {
	return a.Balance.Sub(a.MinimumBalance)
}

func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Balance.Sub(amount).GreaterThanOrEqual(a.MinimumBalance)
}

func (a *Account) WithinDailyLimit(amount, todayTotal decimal.Decimal) bool {
	if !a.DailyWithdrawalLimit.Valid {
		return true
	}
	return todayTotal.Add(amount).LessThanOrEqual(a.DailyWithdrawalLimit.Decimal)
}

type Transaction struct {
	TxnID            snowflake.ID    `json:"id"`
	AcctID           snowflake.ID    `json:"account_id"`
	Type             TransactionType `json:"transaction_type"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Timestamp        time.Time       `json:"timestamp"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	RelatedAccountID *snowflake.ID   `json:"related_account_id,omitempty"`
}
