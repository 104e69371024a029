package bankxledger

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const CurrencySymbol = "₽"

// CLI runs one bankctl subcommand against a Service. Failures are printed
// with an "Error:" marker; Run never reports them through its exit status.
type CLI struct {
	Svc Service
	Out io.Writer
	Err io.Writer
	Now func() time.Time
}

type cliCommand struct {
	usage string
	run   func(c *CLI, fs *flag.FlagSet, args []string) error
}

var cliCommands = map[string]cliCommand{
	"create-account": {"open a new account", (*CLI).createAccount},
	"show-account":   {"print account details and recent activity", (*CLI).showAccount},
	"list-accounts":  {"list every account", (*CLI).listAccounts},
	"deposit":        {"deposit into an account", (*CLI).deposit},
	"withdraw":       {"withdraw from an account", (*CLI).withdraw},
	"transfer":       {"move money between two accounts", (*CLI).transfer},
	"bulk-transfer":  {"pay several accounts from one source", (*CLI).bulkTransfer},
	"balance":        {"print the current balance", (*CLI).balance},
	"history":        {"print recent transactions", (*CLI).history},
	"freeze":         {"freeze an account", (*CLI).freeze},
	"unfreeze":       {"unfreeze an account", (*CLI).unfreeze},
	"set-limit":      {"set or clear the daily withdrawal limit", (*CLI).setLimit},
	"set-rate":       {"set the annual interest rate", (*CLI).setRate},
	"interest":       {"accrue interest now", (*CLI).interest},
	"deactivate":     {"close an account with zero balance", (*CLI).deactivate},
	"statement":      {"print a monthly statement", (*CLI).statement},
	"stats":          {"print account statistics", (*CLI).stats},
}

func (c *CLI) Run(args []string) int {
	if c.Now == nil {
		c.Now = time.Now
	}
	if len(args) == 0 {
		c.usage()
		return 0
	}
	cmd, ok := cliCommands[args[0]]
	if !ok {
		c.fail(fmt.Errorf("unknown command %q", args[0]))
		c.usage()
		return 0
	}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(c.Err)
	if err := cmd.run(c, fs, args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			c.fail(err)
		}
	}
	return 0
}

func (c *CLI) usage() {
	names := make([]string, 0, len(cliCommands))
	for name := range cliCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(c.Err, "usage: bankctl [-config file] <command> [flags]")
	for _, name := range names {
		fmt.Fprintf(c.Err, "  %-15s %s\n", name, cliCommands[name].usage)
	}
}

func (c *CLI) fail(err error) {
	fmt.Fprintf(c.Err, "❌ Error: %s\n", err)
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func money(d decimal.Decimal) string {
	return FormatAmount(d) + " " + CurrencySymbol
}

func parseID(name, raw string) (snowflake.ID, error) {
	if raw == "" {
		return 0, badRequest(name, "required")
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, badRequest(name, "invalid account id: "+raw)
	}
	return id, nil
}

func (c *CLI) createAccount(fs *flag.FlagSet, args []string) error {
	name := fs.String("name", "", "customer full name")
	typ := fs.String("type", string(AccountTypeChecking), "checking, savings or business")
	initial := fs.String("initial-deposit", "0.00", "initial deposit amount")
	minimum := fs.String("minimum-balance", "0.00", "minimum balance requirement")
	rate := fs.String("interest-rate", "0", "annual interest rate in percent")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req := CreateAccountReq{CustomerName: *name, AccountType: AccountType(*typ)}
	var err error
	if req.InitialDeposit, err = ParseAmount(*initial); err != nil {
		return err
	}
	if req.MinimumBalance, err = ParseAmount(*minimum); err != nil {
		return err
	}
	if req.InterestRate, err = ParseAmount(*rate); err != nil {
		return err
	}
	acct, err := c.Svc.CreateAccount(req)
	if err != nil {
		return err
	}
	c.printf("✅ Account created successfully!\n")
	c.printf("Account Number: %s\n", acct.AccountNumber)
	c.printf("Account ID: %s\n", acct.AcctID)
	c.printf("Customer: %s\n", acct.CustomerName)
	c.printf("Type: %s\n", acct.AccountType)
	c.printf("Balance: %s\n", money(acct.Balance))
	c.printf("Minimum Balance: %s\n", money(acct.MinimumBalance))
	return nil
}

func (c *CLI) showAccount(fs *flag.FlagSet, args []string) error {
	id := fs.String("account-id", "", "account id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	acctID, err := parseID("account-id", *id)
	if err != nil {
		return err
	}
	sum, err := c.Svc.AccountSummary(acctID)
	if err != nil {
		return err
	}
	acct := sum.Account
	status := "Active"
	if !acct.IsActive {
		status = "Inactive"
	}
	if acct.IsFrozen {
		status += " (frozen)"
	}
	c.printf("\n📊 Account Details\n%s\n", strings.Repeat("=", 50))
	c.printf("Account ID: %s\n", acct.AcctID)
	c.printf("Account Number: %s\n", acct.AccountNumber)
	c.printf("Customer: %s\n", acct.CustomerName)
	c.printf("Type: %s\n", acct.AccountType)
	c.printf("Balance: %s\n", money(acct.Balance))
	c.printf("Minimum Balance: %s\n", money(acct.MinimumBalance))
	c.printf("Available Balance: %s\n", money(sum.AvailableBalance))
	c.printf("Status: %s\n", status)
	c.printf("Created: %s\n", acct.CreatedAt.Format("2006-01-02 15:04:05"))
	c.printf("\n💰 Transaction Summary\n")
	c.printf("Total Deposits: %s\n", money(sum.TotalDeposits))
	c.printf("Total Withdrawals: %s\n", money(sum.TotalWithdrawals))
	if len(sum.RecentTransactions) > 0 {
		c.printf("\n📋 Recent Transactions\n")
		c.printTransactions(sum.RecentTransactions)
	}
	return nil
}

func (c *CLI) printTransactions(txns []Transaction) {
	c.printf("%-18s %-18s %-18s %-17s %s\n", "Type", "Amount", "Balance", "Date", "Description")
	c.printf("%s\n", strings.Repeat("-", 95))
	for _, t := range txns {
		c.printf("%-18s %-18s %-18s %-17s %s\n",
			t.Type, money(t.Amount), money(t.BalanceAfter), t.Timestamp.Format("2006-01-02 15:04"), t.Description)
	}
}

func (c *CLI) listAccounts(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	accts, err := c.Svc.ListAccounts()
	if err != nil {
		return err
	}
	c.printf("%-20s %-24s %-24s %-10s %s\n", "ID", "Number", "Customer", "Type", "Balance")
	for _, a := range accts {
		c.printf("%-20s %-24s %-24s %-10s %s\n", a.AcctID, a.AccountNumber, a.CustomerName, a.AccountType, money(a.Balance))
	}
	return nil
}

func (c *CLI) charge(fs *flag.FlagSet, args []string) (ChargeReq, error) {
	id := fs.String("account-id", "", "account id")
	amount := fs.String("amount", "", "amount")
	desc := fs.String("description", "", "transaction description")
	if err := fs.Parse(args); err != nil {
		return ChargeReq{}, err
	}
	acctID, err := parseID("account-id", *id)
	if err != nil {
		return ChargeReq{}, err
	}
	amt, err := ParseAmount(*amount)
	if err != nil {
		return ChargeReq{}, err
	}
	return ChargeReq{AcctID: acctID, Amount: amt, Description: *desc}, nil
}

func (c *CLI) deposit(fs *flag.FlagSet, args []string) error {
	req, err := c.charge(fs, args)
	if err != nil {
		return err
	}
	bal, err := c.Svc.Deposit(req)
	if err != nil {
		return err
	}
	c.printf("✅ Deposit successful!\nAmount: %s\nNew Balance: %s\n", money(req.Amount), money(*bal))
	return nil
}

func (c *CLI) withdraw(fs *flag.FlagSet, args []string) error {
	req, err := c.charge(fs, args)
	if err != nil {
		return err
	}
	bal, err := c.Svc.Withdraw(req)
	if err != nil {
		return err
	}
	c.printf("✅ Withdrawal successful!\nAmount: %s\nNew Balance: %s\n", money(req.Amount), money(*bal))
	return nil
}

func (c *CLI) transfer(fs *flag.FlagSet, args []string) error {
	from := fs.String("from-account", "", "source account id")
	to := fs.String("to-account", "", "destination account id")
	amount := fs.String("amount", "", "amount")
	desc := fs.String("description", "", "transfer description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	fromID, err := parseID("from-account", *from)
	if err != nil {
		return err
	}
	toID, err := parseID("to-account", *to)
	if err != nil {
		return err
	}
	amt, err := ParseAmount(*amount)
	if err != nil {
		return err
	}
	res, err := c.Svc.Transfer(TransferReq{FromID: fromID, ToID: toID, Amount: amt, Description: *desc})
	if err != nil {
		return err
	}
	c.printf("✅ Transfer successful!\nAmount: %s\n", money(amt))
	c.printf("From Account %s Balance: %s\n", fromID, money(res.FromBalance))
	c.printf("To Account %s Balance: %s\n", toID, money(res.ToBalance))
	return nil
}

// legList collects repeated -to id:amount flags.
type legList []BulkLeg

func (l *legList) String() string {
	parts := make([]string, len(*l))
	for i, leg := range *l {
		parts[i] = leg.ToID.String() + ":" + leg.Amount.String()
	}
	return strings.Join(parts, ",")
}

func (l *legList) Set(v string) error {
	id, amount, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("want account:amount, got %q", v)
	}
	toID, err := parseID("to", id)
	if err != nil {
		return err
	}
	amt, err := ParseAmount(amount)
	if err != nil {
		return err
	}
	*l = append(*l, BulkLeg{ToID: toID, Amount: amt})
	return nil
}

func (c *CLI) bulkTransfer(fs *flag.FlagSet, args []string) error {
	from := fs.String("from-account", "", "source account id")
	desc := fs.String("description", "", "transfer description")
	var legs legList
	fs.Var(&legs, "to", "destination as account:amount, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	fromID, err := parseID("from-account", *from)
	if err != nil {
		return err
	}
	rep, err := c.Svc.BulkTransfer(BulkTransferReq{FromID: fromID, Legs: legs, Description: *desc})
	if err != nil {
		return err
	}
	c.printf("Bulk transfer total: %s\n", money(rep.TotalAmount))
	c.printf("Successful: %d, Failed: %d\n", rep.SuccessfulCount, rep.FailedCount)
	for _, r := range rep.Successful {
		c.printf("  ✅ %s %s\n", r.ToID, money(r.Amount))
	}
	for _, r := range rep.Failed {
		c.printf("  ❌ %s %s: %s\n", r.ToID, money(r.Amount), r.Error)
	}
	return nil
}

func (c *CLI) accountFlag(fs *flag.FlagSet, args []string) (snowflake.ID, error) {
	id := fs.String("account-id", "", "account id")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	return parseID("account-id", *id)
}

func (c *CLI) balance(fs *flag.FlagSet, args []string) error {
	acctID, err := c.accountFlag(fs, args)
	if err != nil {
		return err
	}
	acct, err := c.Svc.Account(acctID)
	if err != nil {
		return err
	}
	c.printf("\n💰 Account Balance\n")
	c.printf("Account: %s\n", acct.AccountNumber)
	c.printf("Customer: %s\n", acct.CustomerName)
	c.printf("Current Balance: %s\n", money(acct.Balance))
	c.printf("Available Balance: %s\n", money(acct.Available()))
	return nil
}

func (c *CLI) history(fs *flag.FlagSet, args []string) error {
	id := fs.String("account-id", "", "account id")
	limit := fs.Int("limit", DefaultHistoryLimit, "number of entries")
	if err := fs.Parse(args); err != nil {
		return err
	}
	acctID, err := parseID("account-id", *id)
	if err != nil {
		return err
	}
	txns, err := c.Svc.History(HistoryReq{AcctID: acctID, Limit: *limit})
	if err != nil {
		return err
	}
	c.printTransactions(txns)
	return nil
}

func (c *CLI) freezeReq(fs *flag.FlagSet, args []string) (FreezeReq, error) {
	id := fs.String("account-id", "", "account id")
	reason := fs.String("reason", "", "reason recorded in the ledger")
	if err := fs.Parse(args); err != nil {
		return FreezeReq{}, err
	}
	acctID, err := parseID("account-id", *id)
	if err != nil {
		return FreezeReq{}, err
	}
	return FreezeReq{AcctID: acctID, Reason: *reason}, nil
}

func (c *CLI) freeze(fs *flag.FlagSet, args []string) error {
	req, err := c.freezeReq(fs, args)
	if err != nil {
		return err
	}
	if err = c.Svc.FreezeAccount(req); err != nil {
		return err
	}
	c.printf("✅ Account %s frozen\n", req.AcctID)
	return nil
}

func (c *CLI) unfreeze(fs *flag.FlagSet, args []string) error {
	req, err := c.freezeReq(fs, args)
	if err != nil {
		return err
	}
	if err = c.Svc.UnfreezeAccount(req); err != nil {
		return err
	}
	c.printf("✅ Account %s unfrozen\n", req.AcctID)
	return nil
}

func (c *CLI) setLimit(fs *flag.FlagSet, args []string) error {
	id := fs.String("account-id", "", "account id")
	limit := fs.String("limit", "", `daily limit, or "none" to remove it`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	acctID, err := parseID("account-id", *id)
	if err != nil {
		return err
	}
	req := DailyLimitReq{AcctID: acctID}
	if *limit != "" && !strings.EqualFold(*limit, "none") {
		amt, err := ParseAmount(*limit)
		if err != nil {
			return err
		}
		req.Limit = decimal.NewNullDecimal(amt)
	}
	if err = c.Svc.SetDailyWithdrawalLimit(req); err != nil {
		return err
	}
	if req.Limit.Valid {
		c.printf("✅ Daily withdrawal limit set to %s\n", money(req.Limit.Decimal))
	} else {
		c.printf("✅ Daily withdrawal limit removed\n")
	}
	return nil
}

func (c *CLI) setRate(fs *flag.FlagSet, args []string) error {
	id := fs.String("account-id", "", "account id")
	rate := fs.String("rate", "", "annual rate in percent")
	if err := fs.Parse(args); err != nil {
		return err
	}
	acctID, err := parseID("account-id", *id)
	if err != nil {
		return err
	}
	r, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(*rate), "%"))
	if err != nil {
		return badRequest("rate", "invalid rate: "+*rate)
	}
	if err = c.Svc.SetInterestRate(InterestRateReq{AcctID: acctID, Rate: r}); err != nil {
		return err
	}
	c.printf("✅ Interest rate set to %s%%\n", r.String())
	return nil
}

func (c *CLI) interest(fs *flag.FlagSet, args []string) error {
	acctID, err := c.accountFlag(fs, args)
	if err != nil {
		return err
	}
	amt, err := c.Svc.CalculateInterest(acctID)
	if err != nil {
		return err
	}
	c.printf("✅ Interest credited: %s\n", money(amt))
	return nil
}

func (c *CLI) deactivate(fs *flag.FlagSet, args []string) error {
	acctID, err := c.accountFlag(fs, args)
	if err != nil {
		return err
	}
	if err = c.Svc.DeactivateAccount(acctID); err != nil {
		return err
	}
	c.printf("✅ Account %s deactivated\n", acctID)
	return nil
}

func (c *CLI) statement(fs *flag.FlagSet, args []string) error {
	now := c.Now()
	id := fs.String("account-id", "", "account id")
	year := fs.Int("year", now.Year(), "statement year")
	month := fs.Int("month", int(now.Month()), "statement month")
	pdf := fs.String("pdf", "", "write the statement as PDF to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	acctID, err := parseID("account-id", *id)
	if err != nil {
		return err
	}
	req := StatementReq{AcctID: acctID, Year: *year, Month: time.Month(*month)}
	if *pdf != "" {
		return c.writePDF(*pdf, req)
	}
	st, err := c.Svc.MonthlyStatement(req)
	if err != nil {
		return err
	}
	c.printf("\n📄 Statement %s for %s\n", st.Period, st.Account.AccountNumber)
	c.printf("Opening Balance: %s\n", money(st.OpeningBalance))
	c.printf("Deposits: %s\n", money(st.TotalDeposits))
	c.printf("Withdrawals: %s\n", money(st.TotalWithdrawals))
	c.printf("Transfers In: %s\n", money(st.TotalTransfersIn))
	c.printf("Transfers Out: %s\n", money(st.TotalTransfersOut))
	c.printf("Interest: %s\n", money(st.TotalInterest))
	c.printf("Closing Balance: %s\n", money(st.ClosingBalance))
	c.printf("Transactions: %d\n", st.TransactionCount)
	if len(st.Transactions) > 0 {
		c.printTransactions(st.Transactions)
	}
	return nil
}

func (c *CLI) writePDF(path string, req StatementReq) error {
	fl, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = c.Svc.Statement(fl, req); err != nil {
		fl.Close()
		os.Remove(path)
		return err
	}
	if err = fl.Close(); err != nil {
		return err
	}
	c.printf("✅ Statement written to %s\n", path)
	return nil
}

func (c *CLI) stats(fs *flag.FlagSet, args []string) error {
	id := fs.String("account-id", "", "account id")
	days := fs.Int("days", DefaultStatisticsDays, "period in days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	acctID, err := parseID("account-id", *id)
	if err != nil {
		return err
	}
	st, err := c.Svc.AccountStatistics(StatisticsReq{AcctID: acctID, Days: *days})
	if err != nil {
		return err
	}
	c.printf("\n📈 Statistics for the last %d days\n", st.PeriodDays)
	c.printf("Transactions: %d\n", st.TotalTransactions)
	c.printf("Deposits: %d totaling %s (avg %s)\n", st.Deposits.Count, money(st.Deposits.Total), money(st.Deposits.Average))
	c.printf("Withdrawals: %d totaling %s (avg %s)\n", st.Withdrawals.Count, money(st.Withdrawals.Total), money(st.Withdrawals.Average))
	c.printf("Largest Deposit: %s\n", money(st.LargestDeposit))
	c.printf("Largest Withdrawal: %s\n", money(st.LargestWithdrawal))
	if st.MostActiveDay != nil {
		c.printf("Most Active Day: %s (%d transactions)\n", st.MostActiveDay.Day, st.MostActiveDay.Count)
	}
	return nil
}
