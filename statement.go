package bankxledger

import (
	"fmt"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	DefaultStatisticsDays = 30
	// scanLimit bounds how many recent entries summaries and statistics read.
	scanLimit  = 1000
	trendLimit = 10
)

type StatementReq struct {
	AcctID snowflake.ID
	Year   int
	Month  time.Month
}

type StatisticsReq struct {
	AcctID snowflake.ID
	Days   int
}

type MonthlyStatement struct {
	Account           Account         `json:"account"`
	Period            string          `json:"period"`
	OpeningBalance    decimal.Decimal `json:"opening_balance"`
	ClosingBalance    decimal.Decimal `json:"closing_balance"`
	TotalDeposits     decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals  decimal.Decimal `json:"total_withdrawals"`
	TotalTransfersIn  decimal.Decimal `json:"total_transfers_in"`
	TotalTransfersOut decimal.Decimal `json:"total_transfers_out"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	TotalFees         decimal.Decimal `json:"total_fees"`
	NetChange         decimal.Decimal `json:"net_change"`
	Transactions      []Transaction   `json:"transactions"`
	TransactionCount  int             `json:"transaction_count"`
}

type CategoryStats struct {
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
}

func (c *CategoryStats) add(amount decimal.Decimal) {
	c.Count++
	c.Total = c.Total.Add(amount)
}

func (c *CategoryStats) finish() {
	if c.Count > 0 {
		c.Average = c.Total.DivRound(decimal.NewFromInt(int64(c.Count)), 2)
	}
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type TrendPoint struct {
	Timestamp time.Time       `json:"date"`
	Balance   decimal.Decimal `json:"balance"`
	Change    decimal.Decimal `json:"change"`
}

type AccountStatistics struct {
	Account           Account         `json:"account"`
	PeriodDays        int             `json:"period_days"`
	TotalTransactions int             `json:"total_transactions"`
	Deposits          CategoryStats   `json:"deposits"`
	Withdrawals       CategoryStats   `json:"withdrawals"`
	TransfersIn       CategoryStats   `json:"transfers_in"`
	TransfersOut      CategoryStats   `json:"transfers_out"`
	Interest          CategoryStats   `json:"interest"`
	Fees              CategoryStats   `json:"fees"`
	DailyActivity     map[string]int  `json:"daily_activity"`
	LargestDeposit    decimal.Decimal `json:"largest_deposit"`
	LargestWithdrawal decimal.Decimal `json:"largest_withdrawal"`
	MostActiveDay     *DayCount       `json:"most_active_day"`
	BalanceTrend      []TrendPoint    `json:"balance_trend"`
}

type AccountSummary struct {
	Account            Account         `json:"account"`
	TotalDeposits      decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals   decimal.Decimal `json:"total_withdrawals"`
	AvailableBalance   decimal.Decimal `json:"available_balance"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
}

// MonthlyStatement reconstructs the opening balance backwards from the current
// balance, so it is only exact when nothing was posted after the month ended.
func (s *serviceImpl) MonthlyStatement(req StatementReq) (*MonthlyStatement, error) {
	if req.Month < time.January || req.Month > time.December {
		return nil, badRequest("month", "month must be between 1 and 12")
	}
	if req.Year < 1 {
		return nil, badRequest("year", "year must be positive")
	}
	acct, err := s.loadAccount(req.AcctID, "")
	if err != nil {
		return nil, err
	}
	month := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, s.now().Location())
	txns, err := s.repo.ListTransactionsInMonth(acct.AcctID, month)
	if err != nil {
		return nil, ErrStoreWrite{Op: "list_transactions_in_month", ID: acct.AcctID.Int64(), Err: err}
	}
	if txns == nil {
		txns = []Transaction{}
	}

	st := &MonthlyStatement{
		Account:          *acct,
		Period:           fmt.Sprintf("%04d-%02d", req.Year, int(req.Month)),
		ClosingBalance:   acct.Balance,
		Transactions:     txns,
		TransactionCount: len(txns),
	}
	for _, t := range txns {
		switch t.Type {
		case TxnDeposit:
			st.TotalDeposits = st.TotalDeposits.Add(t.Amount)
		case TxnWithdrawal:
			st.TotalWithdrawals = st.TotalWithdrawals.Add(t.Amount)
		case TxnTransferIn, TxnBulkTransferIn:
			st.TotalTransfersIn = st.TotalTransfersIn.Add(t.Amount)
		case TxnTransferOut, TxnBulkTransferOut:
			st.TotalTransfersOut = st.TotalTransfersOut.Add(t.Amount)
		case TxnInterest:
			st.TotalInterest = st.TotalInterest.Add(t.Amount)
		case TxnFee:
			st.TotalFees = st.TotalFees.Add(t.Amount)
		}
	}
	credits := st.TotalDeposits.Add(st.TotalTransfersIn).Add(st.TotalInterest)
	debits := st.TotalWithdrawals.Add(st.TotalTransfersOut).Add(st.TotalFees)
	st.NetChange = credits.Sub(debits)
	st.OpeningBalance = st.ClosingBalance.Sub(st.NetChange)
	return st, nil
}

func (s *serviceImpl) AccountStatistics(req StatisticsReq) (*AccountStatistics, error) {
	days := req.Days
	if days < 0 {
		return nil, badRequest("days", "days cannot be negative")
	}
	if days == 0 {
		days = DefaultStatisticsDays
	}
	acct, err := s.loadAccount(req.AcctID, "")
	if err != nil {
		return nil, err
	}
	all, err := s.repo.ListTransactions(acct.AcctID, scanLimit)
	if err != nil {
		return nil, ErrStoreWrite{Op: "list_transactions", ID: acct.AcctID.Int64(), Err: err}
	}

	cutoff := s.now().AddDate(0, 0, -days)
	stats := &AccountStatistics{
		Account:       *acct,
		PeriodDays:    days,
		DailyActivity: map[string]int{},
		BalanceTrend:  []TrendPoint{},
	}
	var dayOrder []string
	var period []Transaction
	for _, t := range all {
		if t.Timestamp.Before(cutoff) {
			continue
		}
		period = append(period, t)

		day := t.Timestamp.Format(time.DateOnly)
		if _, seen := stats.DailyActivity[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		stats.DailyActivity[day]++

		switch t.Type {
		case TxnDeposit:
			stats.Deposits.add(t.Amount)
			if t.Amount.GreaterThan(stats.LargestDeposit) {
				stats.LargestDeposit = t.Amount
			}
		case TxnWithdrawal:
			stats.Withdrawals.add(t.Amount)
			if t.Amount.GreaterThan(stats.LargestWithdrawal) {
				stats.LargestWithdrawal = t.Amount
			}
		case TxnTransferIn, TxnBulkTransferIn:
			stats.TransfersIn.add(t.Amount)
		case TxnTransferOut, TxnBulkTransferOut:
			stats.TransfersOut.add(t.Amount)
		case TxnInterest:
			stats.Interest.add(t.Amount)
		case TxnFee:
			stats.Fees.add(t.Amount)
		}
	}
	stats.TotalTransactions = len(period)
	stats.Deposits.finish()
	stats.Withdrawals.finish()
	stats.TransfersIn.finish()
	stats.TransfersOut.finish()

	// entries arrive newest first, so ties go to the most recent day
	for _, day := range dayOrder {
		if stats.MostActiveDay == nil || stats.DailyActivity[day] > stats.MostActiveDay.Count {
			stats.MostActiveDay = &DayCount{Day: day, Count: stats.DailyActivity[day]}
		}
	}

	for i, t := range period {
		if i == trendLimit {
			break
		}
		change := t.Amount
		if !t.Type.IsCredit() {
			change = change.Neg()
		}
		stats.BalanceTrend = append(stats.BalanceTrend, TrendPoint{
			Timestamp: t.Timestamp,
			Balance:   t.BalanceAfter,
			Change:    change,
		})
	}
	return stats, nil
}

func (s *serviceImpl) AccountSummary(id snowflake.ID) (*AccountSummary, error) {
	acct, err := s.loadAccount(id, "")
	if err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactions(acct.AcctID, scanLimit)
	if err != nil {
		return nil, ErrStoreWrite{Op: "list_transactions", ID: id.Int64(), Err: err}
	}

	sum := &AccountSummary{
		Account:            *acct,
		AvailableBalance:   acct.Available(),
		RecentTransactions: []Transaction{},
	}
	for i, t := range txns {
		switch t.Type {
		case TxnDeposit, TxnTransferIn, TxnBulkTransferIn:
			sum.TotalDeposits = sum.TotalDeposits.Add(t.Amount)
		case TxnWithdrawal, TxnTransferOut, TxnBulkTransferOut:
			sum.TotalWithdrawals = sum.TotalWithdrawals.Add(t.Amount)
		}
		if i < 5 {
			sum.RecentTransactions = append(sum.RecentTransactions, t)
		}
	}
	return sum, nil
}

// Statement renders the monthly statement as a PDF document.
func (s *serviceImpl) Statement(w io.Writer, req StatementReq) error {
	st, err := s.MonthlyStatement(req)
	if err != nil {
		return err
	}
	return renderStatementPDF(w, st)
}

func renderStatementPDF(w io.Writer, st *MonthlyStatement) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Statement "+st.Period, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Account statement "+st.Period, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(st.Account.AccountNumber+"  "+st.Account.CustomerName), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summary := []struct {
		label string
		value decimal.Decimal
	}{
		{"Opening balance", st.OpeningBalance},
		{"Deposits", st.TotalDeposits},
		{"Withdrawals", st.TotalWithdrawals},
		{"Transfers in", st.TotalTransfersIn},
		{"Transfers out", st.TotalTransfersOut},
		{"Interest", st.TotalInterest},
		{"Fees", st.TotalFees},
		{"Closing balance", st.ClosingBalance},
	}
	for _, row := range summary {
		pdf.CellFormat(50, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, FormatAmount(row.value), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 9)
	cols := []float64{32, 30, 68, 30, 30}
	for i, h := range []string{"Date", "Type", "Description", "Amount", "Balance"} {
		pdf.CellFormat(cols[i], 7, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
	for _, t := range st.Transactions {
		pdf.CellFormat(cols[0], 6, t.Timestamp.Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 6, string(t.Type), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 6, tr(truncate(t.Description, 44)), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3], 6, FormatAmount(t.Amount), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 6, FormatAmount(t.BalanceAfter), "", 1, "R", false, 0, "")
	}
	return pdf.Output(w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
