package bankxledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LocalHelper prepares a postgres database for local runs and tests.
type LocalHelper struct {
	Conn   *pgx.Conn
	SQLDir string
}

func NewLocalHelper(connStr, sqlDir string) (*LocalHelper, error) {
	conn, err := pgx.Connect(context.Background(), connStr)
	if err != nil {
		return nil, err
	}
	if sqlDir == "" {
		sqlDir = "testdata"
	}
	return &LocalHelper{
		Conn:   conn,
		SQLDir: sqlDir,
	}, nil
}

// InitDB creates the schema and returns a func dropping it again.
func (lh *LocalHelper) InitDB() (func(), error) {
	if err := lh.execFile("init_db.sql"); err != nil {
		return nil, err
	}
	return lh.teardownDB(), nil
}

func (lh *LocalHelper) execFile(name string) error {
	bits, err := os.ReadFile(filepath.Join(lh.SQLDir, name))
	if err != nil {
		return err
	}
	_, err = lh.Conn.Exec(context.Background(), string(bits))
	return err
}

func (lh *LocalHelper) teardownDB() func() {
	return func() {
		defer lh.Conn.Close(context.Background())

		if err := lh.execFile("teardown_db.sql"); err != nil {
			fmt.Fprintf(os.Stderr, "DB cleanup exec teardown sql: %s", err.Error())
		}
	}
}

// SeedAccount is one demo account created by Seed.
type SeedAccount struct {
	CustomerName   string
	AccountType    AccountType
	InitialDeposit string
	MinimumBalance string
	InterestRate   string
}

var DemoAccounts = []SeedAccount{
	{CustomerName: "Alice Johnson", AccountType: AccountTypeChecking, InitialDeposit: "5000.00", MinimumBalance: "100.00"},
	{CustomerName: "Bob Smith", AccountType: AccountTypeSavings, InitialDeposit: "12000.00", MinimumBalance: "500.00", InterestRate: "2.5"},
	{CustomerName: "Carol Diaz", AccountType: AccountTypeBusiness, InitialDeposit: "25000.00", MinimumBalance: "1000.00", InterestRate: "1.25"},
}

// Seed opens the given accounts through svc so each gets its account number
// and initial deposit entry the same way a client request would.
func Seed(svc Service, accts []SeedAccount) ([]Account, error) {
	out := make([]Account, 0, len(accts))
	for _, sa := range accts {
		req := CreateAccountReq{
			CustomerName: sa.CustomerName,
			AccountType:  sa.AccountType,
		}
		var err error
		if req.InitialDeposit, err = seedAmount(sa.InitialDeposit); err != nil {
			return out, err
		}
		if req.MinimumBalance, err = seedAmount(sa.MinimumBalance); err != nil {
			return out, err
		}
		if req.InterestRate, err = seedAmount(sa.InterestRate); err != nil {
			return out, err
		}
		acct, err := svc.CreateAccount(req)
		if err != nil {
			return out, fmt.Errorf("seeding %s: %w", sa.CustomerName, err)
		}
		out = append(out, *acct)
	}
	return out, nil
}

func seedAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
