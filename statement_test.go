package bankxledger_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arhyth/bankxledger"
)

func TestMonthlyStatement(t *testing.T) {
	t.Run("months follow the engine clock's location", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		kiritimati := time.FixedZone("LINT", 14*60*60)
		clock := &testClock{now: time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC).In(kiritimati)}
		svc, _, _ := newMemoryService(tt, bankxledger.WithClock(clock.Now))
		a := openAccount(tt, svc, "Alice", "300", "0")

		march, err := svc.MonthlyStatement(bankxledger.StatementReq{AcctID: a.AcctID, Year: 2024, Month: time.March})
		reqrd.NoError(err)
		as.Equal(1, march.TransactionCount)
		feb, err := svc.MonthlyStatement(bankxledger.StatementReq{AcctID: a.AcctID, Year: 2024, Month: time.February})
		reqrd.NoError(err)
		as.Equal(0, feb.TransactionCount)
	})

	t.Run("totals the month and derives the opening balance", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		svc, _, clock := newMemoryService(tt)
		a := openAccount(tt, svc, "Alice", "1000", "0")
		b := openAccount(tt, svc, "Bob", "0", "0")

		clock.Advance(time.Hour)
		_, err := svc.Deposit(bankxledger.ChargeReq{AcctID: a.AcctID, Amount: dec("500")})
		reqrd.NoError(err)
		_, err = svc.Withdraw(bankxledger.ChargeReq{AcctID: a.AcctID, Amount: dec("200")})
		reqrd.NoError(err)
		_, err = svc.Transfer(bankxledger.TransferReq{FromID: a.AcctID, ToID: b.AcctID, Amount: dec("300")})
		reqrd.NoError(err)

		st, err := svc.MonthlyStatement(bankxledger.StatementReq{AcctID: a.AcctID, Year: 2024, Month: time.March})
		reqrd.NoError(err)
		as.Equal("2024-03", st.Period)
		as.Equal(4, st.TransactionCount)
		as.True(st.TotalDeposits.Equal(dec("1500")))
		as.True(st.TotalWithdrawals.Equal(dec("200")))
		as.True(st.TotalTransfersOut.Equal(dec("300")))
		as.True(st.TotalTransfersIn.IsZero())
		as.True(st.NetChange.Equal(dec("1000")))
		as.True(st.ClosingBalance.Equal(dec("1000")))
		as.True(st.OpeningBalance.IsZero())
		as.True(st.OpeningBalance.Equal(st.ClosingBalance.Sub(st.NetChange)))
		as.Equal(bankxledger.TxnDeposit, st.Transactions[0].Type)
		as.Equal(bankxledger.TxnTransferOut, st.Transactions[3].Type)

		in, err := svc.MonthlyStatement(bankxledger.StatementReq{AcctID: b.AcctID, Year: 2024, Month: time.March})
		reqrd.NoError(err)
		as.True(in.TotalTransfersIn.Equal(dec("300")))
	})

	t.Run("a quiet month opens where it closes", func(tt *testing.T) {
		as := assert.New(tt)
		svc, _, _ := newMemoryService(tt)
		a := openAccount(tt, svc, "Alice", "750", "0")

		st, err := svc.MonthlyStatement(bankxledger.StatementReq{AcctID: a.AcctID, Year: 2024, Month: time.February})
		as.NoError(err)
		as.Equal(0, st.TransactionCount)
		as.NotNil(st.Transactions)
		as.True(st.OpeningBalance.Equal(dec("750")))
		as.True(st.ClosingBalance.Equal(dec("750")))
	})

	t.Run("rejects bad periods and unknown accounts", func(tt *testing.T) {
		as := assert.New(tt)
		svc, _, _ := newMemoryService(tt)
		a := openAccount(tt, svc, "Alice", "750", "0")

		_, err := svc.MonthlyStatement(bankxledger.StatementReq{AcctID: a.AcctID, Year: 2024, Month: 13})
		as.ErrorAs(err, &bankxledger.ErrBadRequest{})
		_, err = svc.MonthlyStatement(bankxledger.StatementReq{AcctID: a.AcctID, Year: 2024})
		as.ErrorAs(err, &bankxledger.ErrBadRequest{})
		_, err = svc.MonthlyStatement(bankxledger.StatementReq{AcctID: 1, Year: 2024, Month: time.March})
		as.ErrorAs(err, &bankxledger.ErrNotFound{})
	})
}

func TestStatementPDF(t *testing.T) {
	as := assert.New(t)
	svc, _, _ := newMemoryService(t)
	a := openAccount(t, svc, "Zoë Ångström", "1234.56", "0")

	var buf bytes.Buffer
	err := svc.Statement(&buf, bankxledger.StatementReq{AcctID: a.AcctID, Year: 2024, Month: time.March})
	as.NoError(err)
	as.True(bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	err = svc.Statement(&buf, bankxledger.StatementReq{AcctID: a.AcctID, Year: 2024, Month: 0})
	as.ErrorAs(err, &bankxledger.ErrBadRequest{})
	as.Zero(buf.Len())
}

func TestAccountStatistics(t *testing.T) {
	t.Run("summarizes the window", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		svc, _, clock := newMemoryService(tt)
		a := openAccount(tt, svc, "Alice", "1000", "0")

		clock.Advance(24 * time.Hour)
		for _, amt := range []string{"100", "300"} {
			_, err := svc.Deposit(bankxledger.ChargeReq{AcctID: a.AcctID, Amount: dec(amt)})
			reqrd.NoError(err)
		}
		_, err := svc.Withdraw(bankxledger.ChargeReq{AcctID: a.AcctID, Amount: dec("50")})
		reqrd.NoError(err)

		stats, err := svc.AccountStatistics(bankxledger.StatisticsReq{AcctID: a.AcctID})
		reqrd.NoError(err)
		as.Equal(bankxledger.DefaultStatisticsDays, stats.PeriodDays)
		as.Equal(4, stats.TotalTransactions)
		as.Equal(3, stats.Deposits.Count)
		as.True(stats.Deposits.Total.Equal(dec("1400")))
		as.True(stats.Deposits.Average.Equal(dec("466.67")))
		as.True(stats.LargestDeposit.Equal(dec("1000")))
		as.True(stats.LargestWithdrawal.Equal(dec("50")))
		as.Equal(map[string]int{"2024-03-15": 1, "2024-03-16": 3}, stats.DailyActivity)
		reqrd.NotNil(stats.MostActiveDay)
		as.Equal("2024-03-16", stats.MostActiveDay.Day)
		as.Equal(3, stats.MostActiveDay.Count)

		reqrd.Len(stats.BalanceTrend, 4)
		as.True(stats.BalanceTrend[0].Balance.Equal(dec("1350")))
		as.True(stats.BalanceTrend[0].Change.Equal(dec("-50")))
		as.True(stats.BalanceTrend[1].Change.Equal(dec("300")))
	})

	t.Run("ignores entries before the window", func(tt *testing.T) {
		as := assert.New(tt)
		svc, _, clock := newMemoryService(tt)
		a := openAccount(tt, svc, "Alice", "1000", "0")
		clock.Advance(40 * 24 * time.Hour)
		_, err := svc.Deposit(bankxledger.ChargeReq{AcctID: a.AcctID, Amount: dec("10")})
		as.NoError(err)

		stats, err := svc.AccountStatistics(bankxledger.StatisticsReq{AcctID: a.AcctID, Days: 7})
		as.NoError(err)
		as.Equal(1, stats.TotalTransactions)
		as.True(stats.LargestDeposit.Equal(dec("10")))
	})

	t.Run("an empty window has no most active day", func(tt *testing.T) {
		as := assert.New(tt)
		svc, _, _ := newMemoryService(tt)
		a := openAccount(tt, svc, "Alice", "0", "0")
		stats, err := svc.AccountStatistics(bankxledger.StatisticsReq{AcctID: a.AcctID})
		as.NoError(err)
		as.Zero(stats.TotalTransactions)
		as.Nil(stats.MostActiveDay)
		as.Empty(stats.BalanceTrend)
	})

	t.Run("rejects negative windows", func(tt *testing.T) {
		as := assert.New(tt)
		svc, _, _ := newMemoryService(tt)
		a := openAccount(tt, svc, "Alice", "0", "0")
		_, err := svc.AccountStatistics(bankxledger.StatisticsReq{AcctID: a.AcctID, Days: -1})
		as.ErrorAs(err, &bankxledger.ErrBadRequest{})
	})
}

func TestAccountSummary(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	svc, _, _ := newMemoryService(t)
	a := openAccount(t, svc, "Alice", "1000", "100")
	b := openAccount(t, svc, "Bob", "500", "0")

	_, err := svc.Transfer(bankxledger.TransferReq{FromID: b.AcctID, ToID: a.AcctID, Amount: dec("200")})
	reqrd.NoError(err)
	for i := 0; i < 6; i++ {
		_, err = svc.Withdraw(bankxledger.ChargeReq{AcctID: a.AcctID, Amount: dec("10")})
		reqrd.NoError(err)
	}

	sum, err := svc.AccountSummary(a.AcctID)
	reqrd.NoError(err)
	as.True(sum.TotalDeposits.Equal(dec("1200")))
	as.True(sum.TotalWithdrawals.Equal(dec("60")))
	as.True(sum.Account.Balance.Equal(dec("1140")))
	as.True(sum.AvailableBalance.Equal(dec("1040")))
	as.Len(sum.RecentTransactions, 5)
	as.Equal(bankxledger.TxnWithdrawal, sum.RecentTransactions[0].Type)

	_, err = svc.AccountSummary(9)
	as.ErrorAs(err, &bankxledger.ErrNotFound{})
}
