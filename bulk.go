package bankxledger

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	LegSucceeded = "success"
	LegFailed    = "failed"
)

type BulkLeg struct {
	ToID   snowflake.ID    `json:"to_account_id" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type BulkTransferReq struct {
	FromID      snowflake.ID `json:"-"`
	Legs        []BulkLeg    `json:"transfers" validate:"required,min=1,dive"`
	Description string       `json:"description"`
}

type LegResult struct {
	ToID   snowflake.ID    `json:"to_account_id"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
}

type BulkTransferReport struct {
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SuccessfulCount int             `json:"successful_count"`
	FailedCount     int             `json:"failed_count"`
	Successful      []LegResult     `json:"successful_transfers"`
	Failed          []LegResult     `json:"failed_transfers"`
}

// BulkTransfer moves money from one source to several destinations. All
// preconditions are checked before any money moves; after that each leg
// succeeds or fails on its own and the call always yields a report.
func (s *serviceImpl) BulkTransfer(req BulkTransferReq) (*BulkTransferReport, error) {
	if len(req.Legs) == 0 {
		return nil, badRequest("transfers", "transfer list cannot be empty")
	}
	total := decimal.Zero
	for i, leg := range req.Legs {
		if !leg.Amount.IsPositive() {
			return nil, badRequest(fmt.Sprintf("transfers[%d].amount", i),
				fmt.Sprintf("transfer amount must be positive for account %d", leg.ToID.Int64()))
		}
		if leg.ToID == req.FromID {
			return nil, badRequest(fmt.Sprintf("transfers[%d].to_account_id", i), "cannot transfer to the same account")
		}
		total = total.Add(leg.Amount)
	}

	from, err := s.loadActive(req.FromID, RoleSource)
	if err != nil {
		return nil, err
	}
	if from.IsFrozen {
		return nil, ErrFrozen{ID: from.AcctID.Int64(), Role: RoleSource}
	}
	dests := make(map[snowflake.ID]*Account, len(req.Legs))
	for _, leg := range req.Legs {
		if _, ok := dests[leg.ToID]; ok {
			continue
		}
		to, err := s.loadActive(leg.ToID, RoleDestination)
		if err != nil {
			return nil, err
		}
		dests[leg.ToID] = to
	}
	if !from.CanWithdraw(total) {
		return nil, ErrInsufficientFunds{
			ID:        from.AcctID.Int64(),
			Available: from.Available(),
			Required:  total,
		}
	}

	report := &BulkTransferReport{
		TotalAmount: total,
		Successful:  []LegResult{},
		Failed:      []LegResult{},
	}
	running := from.Balance
	for _, leg := range req.Legs {
		res := LegResult{ToID: leg.ToID, Amount: leg.Amount, Status: LegSucceeded}
		running, err = s.bulkLeg(from, running, dests[leg.ToID], leg.Amount, req.Description)
		if err != nil {
			s.log.Warn().
				Err(err).
				Int64("source", from.AcctID.Int64()).
				Int64("destination", leg.ToID.Int64()).
				Str("amount", leg.Amount.String()).
				Msg("bulk transfer leg failed")
			res.Status = LegFailed
			res.Error = err.Error()
			report.Failed = append(report.Failed, res)
			continue
		}
		report.Successful = append(report.Successful, res)
	}
	report.SuccessfulCount = len(report.Successful)
	report.FailedCount = len(report.Failed)
	return report, nil
}

// bulkLeg moves a single leg against the running source balance and returns
// the source balance the store now holds.
func (s *serviceImpl) bulkLeg(from *Account, running decimal.Decimal, to *Account, amount decimal.Decimal, desc string) (decimal.Decimal, error) {
	fromBal := running.Sub(amount)
	if fromBal.LessThan(from.MinimumBalance) {
		return running, ErrInsufficientFunds{
			ID:        from.AcctID.Int64(),
			Available: running.Sub(from.MinimumBalance),
			Required:  amount,
		}
	}
	toBal := to.Balance.Add(amount)

	if err := s.writeBalance(from.AcctID, fromBal); err != nil {
		return running, err
	}
	if err := s.repo.UpdateBalance(to.AcctID, toBal); err != nil {
		serr := s.revert(from.AcctID, running, to.AcctID, err)
		if serr.Inconsistent {
			return fromBal, serr
		}
		return running, serr
	}
	to.Balance = toBal

	outDesc, inDesc := desc, desc
	if desc == "" {
		outDesc = "Bulk transfer to account " + to.AccountNumber
		inDesc = "Bulk transfer from account " + from.AccountNumber
	}
	errOut := s.record(from.AcctID, TxnBulkTransferOut, amount, outDesc, fromBal, &to.AcctID)
	errIn := s.record(to.AcctID, TxnBulkTransferIn, amount, inDesc, toBal, &from.AcctID)
	if errOut != nil {
		return fromBal, errOut
	}
	return fromBal, errIn
}
