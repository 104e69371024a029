package bankxledger

import (
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// MemoryStore is a Repository held in process memory. Records are copied in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	node     *snowflake.Node
	accounts map[snowflake.ID]*Account
	byNumber map[string]snowflake.ID
	txns     map[snowflake.ID][]Transaction
}

var (
	_ Repository = (*MemoryStore)(nil)
)

func NewMemoryStore(nodeID int64) (*MemoryStore, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{
		node:     node,
		accounts: make(map[snowflake.ID]*Account),
		byNumber: make(map[string]snowflake.ID),
		txns:     make(map[snowflake.ID][]Transaction),
	}, nil
}

func (m *MemoryStore) CreateAccount(acct *Account) (snowflake.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byNumber[acct.AccountNumber]; ok {
		return 0, ErrDuplicateAccountNumber
	}
	id := m.node.Generate()
	stored := *acct
	stored.AcctID = id
	m.accounts[id] = &stored
	m.byNumber[stored.AccountNumber] = id
	return id, nil
}

func (m *MemoryStore) GetAccount(id snowflake.ID) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acct, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound{ID: id.Int64()}
	}
	cp := *acct
	return &cp, nil
}

func (m *MemoryStore) GetAccountByNumber(number string) (*Account, error) {
	m.mu.RLock()
	id, ok := m.byNumber[number]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound{}
	}
	return m.GetAccount(id)
}

func (m *MemoryStore) update(id snowflake.ID, fn func(*Account)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[id]
	if !ok {
		return ErrNotFound{ID: id.Int64()}
	}
	fn(acct)
	return nil
}

func (m *MemoryStore) UpdateBalance(id snowflake.ID, balance decimal.Decimal) error {
	return m.update(id, func(a *Account) { a.Balance = balance })
}

func (m *MemoryStore) SetActive(id snowflake.ID, active bool) error {
	return m.update(id, func(a *Account) { a.IsActive = active })
}

func (m *MemoryStore) SetFrozen(id snowflake.ID, frozen bool) error {
	return m.update(id, func(a *Account) { a.IsFrozen = frozen })
}

func (m *MemoryStore) SetDailyLimit(id snowflake.ID, limit decimal.NullDecimal) error {
	return m.update(id, func(a *Account) { a.DailyWithdrawalLimit = limit })
}

func (m *MemoryStore) SetInterestRate(id snowflake.ID, rate decimal.Decimal) error {
	return m.update(id, func(a *Account) { a.InterestRate = rate })
}

func (m *MemoryStore) SetLastInterestCalculation(id snowflake.ID, at time.Time) error {
	return m.update(id, func(a *Account) { a.LastInterestCalculation = &at })
}

func (m *MemoryStore) ListAccounts() ([]Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	accts := make([]Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		accts = append(accts, *a)
	}
	sort.Slice(accts, func(i, j int) bool {
		if accts[i].CreatedAt.Equal(accts[j].CreatedAt) {
			return accts[i].AcctID > accts[j].AcctID
		}
		return accts[i].CreatedAt.After(accts[j].CreatedAt)
	})
	return accts, nil
}

func (m *MemoryStore) AppendTransaction(txn *Transaction) (snowflake.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[txn.AcctID]; !ok {
		return 0, ErrNotFound{ID: txn.AcctID.Int64()}
	}
	id := m.node.Generate()
	stored := *txn
	stored.TxnID = id
	m.txns[txn.AcctID] = append(m.txns[txn.AcctID], stored)
	return id, nil
}

// newestFirst orders by timestamp, falling back to insertion order (ids are
// monotonic) for entries recorded at the same instant.
func newestFirst(txns []Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if txns[i].Timestamp.Equal(txns[j].Timestamp) {
			return txns[i].TxnID > txns[j].TxnID
		}
		return txns[i].Timestamp.After(txns[j].Timestamp)
	})
}

func (m *MemoryStore) ListTransactions(acctID snowflake.ID, limit int) ([]Transaction, error) {
	m.mu.RLock()
	txns := append([]Transaction(nil), m.txns[acctID]...)
	m.mu.RUnlock()

	newestFirst(txns)
	if limit >= 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

func (m *MemoryStore) ListTransactionsInMonth(acctID snowflake.ID, month time.Time) ([]Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var txns []Transaction
	start, end := monthBounds(month)
	for _, t := range m.txns[acctID] {
		if !t.Timestamp.Before(start) && t.Timestamp.Before(end) {
			txns = append(txns, t)
		}
	}
	sort.SliceStable(txns, func(i, j int) bool {
		if txns[i].Timestamp.Equal(txns[j].Timestamp) {
			return txns[i].TxnID < txns[j].TxnID
		}
		return txns[i].Timestamp.Before(txns[j].Timestamp)
	})
	return txns, nil
}

func (m *MemoryStore) SumSameDayDebits(acctID snowflake.ID, day time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start, end := dayBounds(day)
	total := decimal.Zero
	for _, t := range m.txns[acctID] {
		if !t.Timestamp.Before(start) && t.Timestamp.Before(end) && t.Type.IsDebit() {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}
