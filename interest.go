package bankxledger

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	daysPerYearPercent = decimal.NewFromInt(365 * 100)
)

// AccruedInterest is balance x rate x days / 365 / 100, rounded half-up to
// cents.
func AccruedInterest(balance, annualRate decimal.Decimal, days int64) decimal.Decimal {
	return balance.
		Mul(annualRate).
		Mul(decimal.NewFromInt(days)).
		Div(daysPerYearPercent).
		Round(2)
}

// wholeDays counts complete 24h periods between from and to.
func wholeDays(from, to time.Time) int64 {
	if to.Before(from) {
		return 0
	}
	return int64(to.Sub(from) / (24 * time.Hour))
}

func (s *serviceImpl) CalculateInterest(id snowflake.ID) (decimal.Decimal, error) {
	acct, err := s.loadActive(id, "")
	if err != nil {
		return decimal.Zero, err
	}
	if !acct.InterestRate.IsPositive() {
		return decimal.Zero, nil
	}

	since := acct.CreatedAt
	if acct.LastInterestCalculation != nil {
		since = *acct.LastInterestCalculation
	}
	now := s.now()
	days := wholeDays(since, now)
	if days < 1 {
		return decimal.Zero, nil
	}
	amount := AccruedInterest(acct.Balance, acct.InterestRate, days)
	if !amount.IsPositive() {
		return decimal.Zero, nil
	}

	bal := acct.Balance.Add(amount)
	if err = s.writeBalance(acct.AcctID, bal); err != nil {
		return decimal.Zero, err
	}
	var tsErr error
	if err = s.repo.SetLastInterestCalculation(acct.AcctID, now); err != nil {
		s.log.Err(err).Int64("account", id.Int64()).Msg("error saving interest calculation time")
		tsErr = ErrStoreWrite{Op: "set_last_interest_calculation", ID: id.Int64(), Committed: true, Err: err}
	}
	desc := fmt.Sprintf("Interest accrued for %d days at %s%% annual rate", days, acct.InterestRate.String())
	if err = s.record(acct.AcctID, TxnInterest, amount, desc, bal, nil); err != nil {
		return amount, err
	}
	return amount, tsErr
}

func (s *serviceImpl) SetInterestRate(req InterestRateReq) error {
	if req.Rate.IsNegative() {
		return badRequest("rate", "interest rate cannot be negative")
	}
	acct, err := s.loadAccount(req.AcctID, "")
	if err != nil {
		return err
	}
	if err = s.repo.SetInterestRate(acct.AcctID, req.Rate); err != nil {
		s.log.Err(err).Int64("account", acct.AcctID.Int64()).Msg("error setting interest rate")
		return ErrStoreWrite{Op: "set_interest_rate", ID: acct.AcctID.Int64(), Err: err}
	}
	desc := fmt.Sprintf("Interest rate set to %s%% annual", req.Rate.String())
	return s.record(acct.AcctID, TxnFee, decimal.Zero, desc, acct.Balance, nil)
}
