package bankxledger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arhyth/bankxledger"
)

type cliHarness struct {
	cli *bankxledger.CLI
	out *bytes.Buffer
	err *bytes.Buffer
	svc bankxledger.Service
}

func newCLI(t *testing.T) *cliHarness {
	svc, _, clock := newMemoryService(t)
	h := &cliHarness{out: &bytes.Buffer{}, err: &bytes.Buffer{}, svc: svc}
	h.cli = &bankxledger.CLI{Svc: svc, Out: h.out, Err: h.err, Now: clock.Now}
	return h
}

// run executes one command and returns what it printed.
func (h *cliHarness) run(args ...string) (string, string) {
	h.out.Reset()
	h.err.Reset()
	h.cli.Run(args)
	return h.out.String(), h.err.String()
}

func TestCLI(t *testing.T) {
	t.Run("account lifecycle", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		h := newCLI(tt)

		out, errOut := h.run("create-account", "-name", "Alice Johnson", "-initial-deposit", "1,000", "-minimum-balance", "100")
		reqrd.Empty(errOut)
		as.Contains(out, "✅ Account created successfully!")
		as.Contains(out, "Balance: 1,000.00 ₽")
		as.Contains(out, "Minimum Balance: 100.00 ₽")

		accts, err := h.svc.ListAccounts()
		reqrd.NoError(err)
		reqrd.Len(accts, 1)
		id := accts[0].AcctID.String()

		out, _ = h.run("deposit", "-account-id", id, "-amount", "250.5")
		as.Contains(out, "✅ Deposit successful!")
		as.Contains(out, "New Balance: 1,250.50 ₽")

		_, errOut = h.run("withdraw", "-account-id", id, "-amount", "1200")
		as.Contains(errOut, "❌ Error: insufficient funds")

		out, _ = h.run("withdraw", "-account-id", id, "-amount", "50.50")
		as.Contains(out, "New Balance: 1,200.00 ₽")

		out, _ = h.run("balance", "-account-id", id)
		as.Contains(out, "Current Balance: 1,200.00 ₽")
		as.Contains(out, "Available Balance: 1,100.00 ₽")

		out, _ = h.run("show-account", "-account-id", id)
		as.Contains(out, "Status: Active")
		as.Contains(out, "Total Deposits: 1,250.50 ₽")
		as.Contains(out, "Recent Transactions")

		out, _ = h.run("history", "-account-id", id, "-limit", "1")
		as.Contains(out, "withdrawal")
		as.NotContains(out, "Initial deposit")

		out, _ = h.run("freeze", "-account-id", id, "-reason", "audit")
		as.Contains(out, "frozen")
		out, _ = h.run("show-account", "-account-id", id)
		as.Contains(out, "Status: Active (frozen)")
		_, errOut = h.run("freeze", "-account-id", id)
		as.Contains(errOut, "already frozen")
		out, _ = h.run("unfreeze", "-account-id", id)
		as.Contains(out, "unfrozen")

		out, _ = h.run("set-limit", "-account-id", id, "-limit", "300")
		as.Contains(out, "set to 300.00 ₽")
		out, _ = h.run("set-limit", "-account-id", id, "-limit", "none")
		as.Contains(out, "removed")

		out, _ = h.run("set-rate", "-account-id", id, "-rate", "2.5%")
		as.Contains(out, "Interest rate set to 2.5%")
		out, _ = h.run("interest", "-account-id", id)
		as.Contains(out, "Interest credited: 0.00 ₽")

		out, _ = h.run("list-accounts")
		as.Contains(out, id)
		as.Contains(out, "Alice Johnson")

		_, errOut = h.run("deactivate", "-account-id", id)
		as.Contains(errOut, "non-zero balance")
	})

	t.Run("transfers", func(tt *testing.T) {
		as := assert.New(tt)
		h := newCLI(tt)
		a := openAccount(tt, h.svc, "A", "1000", "0").AcctID.String()
		b := openAccount(tt, h.svc, "B", "0", "0").AcctID.String()
		c := openAccount(tt, h.svc, "C", "0", "0").AcctID.String()

		out, errOut := h.run("transfer", "-from-account", a, "-to-account", b, "-amount", "100")
		as.Empty(errOut)
		as.Contains(out, "✅ Transfer successful!")
		as.Contains(out, "From Account "+a+" Balance: 900.00 ₽")
		as.Contains(out, "To Account "+b+" Balance: 100.00 ₽")

		out, errOut = h.run("bulk-transfer", "-from-account", a, "-to", b+":200", "-to", c+":300")
		as.Empty(errOut)
		as.Contains(out, "Bulk transfer total: 500.00 ₽")
		as.Contains(out, "Successful: 2, Failed: 0")

		_, errOut = h.run("bulk-transfer", "-from-account", a, "-to", b)
		as.Contains(errOut, "want account:amount")
		_, errOut = h.run("transfer", "-from-account", a, "-to-account", "abc", "-amount", "1")
		as.Contains(errOut, "invalid account id")
	})

	t.Run("statements", func(tt *testing.T) {
		as := assert.New(tt)
		h := newCLI(tt)
		id := openAccount(tt, h.svc, "A", "1000", "0").AcctID.String()

		out, errOut := h.run("statement", "-account-id", id)
		as.Empty(errOut)
		as.Contains(out, "Statement 2024-03")
		as.Contains(out, "Deposits: 1,000.00 ₽")
		as.Contains(out, "Transactions: 1")

		_, errOut = h.run("statement", "-account-id", id, "-month", "13")
		as.Contains(errOut, "month must be between 1 and 12")

		path := filepath.Join(tt.TempDir(), "st.pdf")
		out, errOut = h.run("statement", "-account-id", id, "-year", "2024", "-month", "3", "-pdf", path)
		as.Empty(errOut)
		as.Contains(out, "Statement written to")
		bits, err := os.ReadFile(path)
		as.NoError(err)
		as.True(bytes.HasPrefix(bits, []byte("%PDF-")))

		bad := filepath.Join(tt.TempDir(), "bad.pdf")
		_, errOut = h.run("statement", "-account-id", id, "-month", "0", "-pdf", bad)
		as.NotEmpty(errOut)
		_, err = os.Stat(bad)
		as.True(os.IsNotExist(err))

		out, _ = h.run("stats", "-account-id", id, "-days", "7")
		as.Contains(out, "Statistics for the last 7 days")
		as.Contains(out, "Most Active Day: 2024-03-15 (1 transactions)")
	})

	t.Run("usage and unknown commands", func(tt *testing.T) {
		as := assert.New(tt)
		h := newCLI(tt)

		as.Equal(0, h.cli.Run(nil))
		as.Contains(h.err.String(), "usage: bankctl")

		_, errOut := h.run("launch")
		as.Contains(errOut, `❌ Error: unknown command "launch"`)
		as.True(strings.Contains(errOut, "create-account"))

		_, errOut = h.run("deposit", "-account-id", "1", "-amount", "ten")
		as.Contains(errOut, "invalid amount")
		_, errOut = h.run("balance")
		as.Contains(errOut, "account-id")
		_, errOut = h.run("balance", "-account-id", "77")
		as.Contains(errOut, "account 77 not found")
	})

	t.Run("defaults the clock", func(tt *testing.T) {
		svc, _, _ := newMemoryService(tt)
		var out bytes.Buffer
		cli := &bankxledger.CLI{Svc: svc, Out: &out, Err: &out}
		id := openAccount(tt, svc, "A", "0", "0").AcctID.String()
		cli.Run([]string{"statement", "-account-id", id})
		assert.Contains(tt, out.String(), time.Now().Format("2006-01"))
	})
}
