package bankxledger

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	DefaultAccountPrefix  = "BANK"
	DefaultNumberAttempts = 10
	DefaultHistoryLimit   = 10
)

type CreateAccountReq struct {
	CustomerName   string          `json:"customer_name" validate:"required"`
	AccountType    AccountType     `json:"account_type" validate:"omitempty,oneof=checking savings business"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
	MinimumBalance decimal.Decimal `json:"minimum_balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
}

type ChargeReq struct {
	AcctID      snowflake.ID    `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type TransferReq struct {
	FromID      snowflake.ID    `json:"-"`
	ToID        snowflake.ID    `json:"to_account_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type TransferResult struct {
	FromBalance decimal.Decimal `json:"from_balance"`
	ToBalance   decimal.Decimal `json:"to_balance"`
}

type FreezeReq struct {
	AcctID snowflake.ID `json:"-"`
	Reason string       `json:"reason"`
}

type DailyLimitReq struct {
	AcctID snowflake.ID        `json:"-"`
	Limit  decimal.NullDecimal `json:"limit"`
}

type InterestRateReq struct {
	AcctID snowflake.ID    `json:"-"`
	Rate   decimal.Decimal `json:"rate"`
}

type HistoryReq struct {
	AcctID snowflake.ID
	Limit  int
}

type Service interface {
	CreateAccount(CreateAccountReq) (*Account, error)
	Deposit(ChargeReq) (*decimal.Decimal, error)
	Withdraw(ChargeReq) (*decimal.Decimal, error)
	Transfer(TransferReq) (*TransferResult, error)
	BulkTransfer(BulkTransferReq) (*BulkTransferReport, error)
	FreezeAccount(FreezeReq) error
	UnfreezeAccount(FreezeReq) error
	SetDailyWithdrawalLimit(DailyLimitReq) error
	SetInterestRate(InterestRateReq) error
	CalculateInterest(snowflake.ID) (decimal.Decimal, error)
	DeactivateAccount(snowflake.ID) error
	Account(snowflake.ID) (*Account, error)
	Balance(snowflake.ID) (*decimal.Decimal, error)
	History(HistoryReq) ([]Transaction, error)
	ListAccounts() ([]Account, error)
	AccountSummary(snowflake.ID) (*AccountSummary, error)
	MonthlyStatement(StatementReq) (*MonthlyStatement, error)
	AccountStatistics(StatisticsReq) (*AccountStatistics, error)
	Statement(io.Writer, StatementReq) error
}

// TransferPolicy selects which withdrawal rules the plain Transfer operation
// also enforces on its source account. The zero value enforces neither.
type TransferPolicy struct {
	CheckFrozen     bool `yaml:"check_frozen" envconfig:"CHECK_FROZEN"`
	CheckDailyLimit bool `yaml:"check_daily_limit" envconfig:"CHECK_DAILY_LIMIT"`
}

type Option func(*serviceImpl)

func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		s.now = now
	}
}

func WithAccountPrefix(prefix string) Option {
	return func(s *serviceImpl) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

func WithNumberAttempts(n int) Option {
	return func(s *serviceImpl) {
		if n > 0 {
			s.attempts = n
		}
	}
}

func WithTransferPolicy(p TransferPolicy) Option {
	return func(s *serviceImpl) {
		s.policy = p
	}
}

var (
	_ Service = (*serviceImpl)(nil)
)

func NewService(repo Repository, log *zerolog.Logger, opts ...Option) (*serviceImpl, error) {
	if repo == nil {
		return nil, errors.New("bankxledger: nil repository")
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	svc := &serviceImpl{
		repo:     repo,
		log:      log,
		now:      defaultClock,
		prefix:   DefaultAccountPrefix,
		attempts: DefaultNumberAttempts,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// defaultClock drops precision the SQL stores cannot keep so timestamps read
// back equal what was written.
func defaultClock() time.Time {
	return time.Now().Truncate(time.Microsecond)
}

type serviceImpl struct {
	repo     Repository
	log      *zerolog.Logger
	now      func() time.Time
	prefix   string
	attempts int
	policy   TransferPolicy
}

// generateAccountNumber builds PREFIX-YYYYMMDD-XXXXXXXX with a random hex suffix.
func (s *serviceImpl) generateAccountNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%s-%s", s.prefix, s.now().Format("20060102"), suffix)
}

func (s *serviceImpl) CreateAccount(req CreateAccountReq) (*Account, error) {
	name := strings.TrimSpace(req.CustomerName)
	typ := req.AccountType
	if typ == "" {
		typ = AccountTypeChecking
	}

	fields := map[string]string{}
	if name == "" {
		fields["customer_name"] = "customer name cannot be empty"
	}
	if !typ.Valid() {
		fields["account_type"] = "must be one of checking, savings, business"
	}
	if req.InitialDeposit.IsNegative() {
		fields["initial_deposit"] = "initial deposit cannot be negative"
	}
	if req.MinimumBalance.IsNegative() {
		fields["minimum_balance"] = "minimum balance cannot be negative"
	}
	if req.InterestRate.IsNegative() {
		fields["interest_rate"] = "interest rate cannot be negative"
	}
	if len(fields) == 0 && req.InitialDeposit.LessThan(req.MinimumBalance) {
		fields["initial_deposit"] = "initial deposit must be at least the minimum balance"
	}
	if len(fields) > 0 {
		return nil, ErrBadRequest{Fields: fields}
	}

	acct := &Account{
		CustomerName:   name,
		AccountType:    typ,
		Balance:        req.InitialDeposit,
		MinimumBalance: req.MinimumBalance,
		InterestRate:   req.InterestRate,
		IsActive:       true,
		CreatedAt:      s.now(),
	}

	var (
		id  snowflake.ID
		err error
	)
	for i := 0; i < s.attempts; i++ {
		number := s.generateAccountNumber()
		_, err = s.repo.GetAccountByNumber(number)
		if err == nil {
			err = ErrDuplicateAccountNumber
			continue
		}
		if !errors.As(err, &ErrNotFound{}) {
			return nil, ErrStoreWrite{Op: "get_account_by_number", Err: err}
		}

		acct.AccountNumber = number
		id, err = s.repo.CreateAccount(acct)
		if errors.Is(err, ErrDuplicateAccountNumber) {
			continue
		}
		break
	}
	if errors.Is(err, ErrDuplicateAccountNumber) {
		return nil, fmt.Errorf("no unique account number after %d attempts: %w", s.attempts, err)
	}
	if err != nil {
		s.log.Err(err).Str("customer", name).Msg("error creating account")
		return nil, ErrStoreWrite{Op: "create_account", Err: err}
	}
	acct.AcctID = id

	if acct.Balance.IsPositive() {
		if err = s.record(id, TxnDeposit, acct.Balance, "Initial deposit", acct.Balance, nil); err != nil {
			return acct, err
		}
	}
	return acct, nil
}

func (s *serviceImpl) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	if !req.Amount.IsPositive() {
		return nil, badRequest("amount", "deposit amount must be positive")
	}
	acct, err := s.loadActive(req.AcctID, "")
	if err != nil {
		return nil, err
	}

	bal := acct.Balance.Add(req.Amount)
	if err = s.writeBalance(acct.AcctID, bal); err != nil {
		return nil, err
	}
	desc := req.Description
	if desc == "" {
		desc = fmt.Sprintf("Deposit of %s", req.Amount.StringFixed(2))
	}
	if err = s.record(acct.AcctID, TxnDeposit, req.Amount, desc, bal, nil); err != nil {
		return &bal, err
	}
	return &bal, nil
}

func (s *serviceImpl) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	if !req.Amount.IsPositive() {
		return nil, badRequest("amount", "withdrawal amount must be positive")
	}
	acct, err := s.loadActive(req.AcctID, "")
	if err != nil {
		return nil, err
	}
	if acct.IsFrozen {
		return nil, ErrFrozen{ID: acct.AcctID.Int64()}
	}
	if !acct.CanWithdraw(req.Amount) {
		return nil, ErrInsufficientFunds{
			ID:        acct.AcctID.Int64(),
			Available: acct.Available(),
			Required:  req.Amount,
		}
	}
	if err = s.checkDailyLimit(acct, req.Amount); err != nil {
		return nil, err
	}

	bal := acct.Balance.Sub(req.Amount)
	if err = s.writeBalance(acct.AcctID, bal); err != nil {
		return nil, err
	}
	desc := req.Description
	if desc == "" {
		desc = fmt.Sprintf("Withdrawal of %s", req.Amount.StringFixed(2))
	}
	if err = s.record(acct.AcctID, TxnWithdrawal, req.Amount, desc, bal, nil); err != nil {
		return &bal, err
	}
	return &bal, nil
}

// Transfer moves money as a unit: both balance writes must succeed before
// either ledger entry is written.
func (s *serviceImpl) Transfer(req TransferReq) (*TransferResult, error) {
	if !req.Amount.IsPositive() {
		return nil, badRequest("amount", "transfer amount must be positive")
	}
	if req.FromID == req.ToID {
		return nil, badRequest("to_account_id", "cannot transfer to the same account")
	}

	from, err := s.loadAccount(req.FromID, RoleSource)
	if err != nil {
		return nil, err
	}
	to, err := s.loadAccount(req.ToID, RoleDestination)
	if err != nil {
		return nil, err
	}
	if !from.IsActive {
		return nil, ErrInactive{ID: from.AcctID.Int64(), Role: RoleSource}
	}
	if !to.IsActive {
		return nil, ErrInactive{ID: to.AcctID.Int64(), Role: RoleDestination}
	}
	if s.policy.CheckFrozen && from.IsFrozen {
		return nil, ErrFrozen{ID: from.AcctID.Int64(), Role: RoleSource}
	}
	if !from.CanWithdraw(req.Amount) {
		return nil, ErrInsufficientFunds{
			ID:        from.AcctID.Int64(),
			Available: from.Available(),
			Required:  req.Amount,
		}
	}
	if s.policy.CheckDailyLimit {
		if err = s.checkDailyLimit(from, req.Amount); err != nil {
			return nil, err
		}
	}

	fromBal := from.Balance.Sub(req.Amount)
	toBal := to.Balance.Add(req.Amount)
	if err = s.writeBalance(from.AcctID, fromBal); err != nil {
		return nil, err
	}
	if err = s.repo.UpdateBalance(to.AcctID, toBal); err != nil {
		return nil, s.revert(from.AcctID, from.Balance, to.AcctID, err)
	}

	outDesc, inDesc := req.Description, req.Description
	if req.Description == "" {
		outDesc = "Transfer to account " + to.AccountNumber
		inDesc = "Transfer from account " + from.AccountNumber
	}
	errOut := s.record(from.AcctID, TxnTransferOut, req.Amount, outDesc, fromBal, &to.AcctID)
	errIn := s.record(to.AcctID, TxnTransferIn, req.Amount, inDesc, toBal, &from.AcctID)

	res := &TransferResult{FromBalance: fromBal, ToBalance: toBal}
	if errOut != nil {
		return res, errOut
	}
	return res, errIn
}

func (s *serviceImpl) FreezeAccount(req FreezeReq) error {
	acct, err := s.loadAccount(req.AcctID, "")
	if err != nil {
		return err
	}
	if acct.IsFrozen {
		return ErrAlreadyFrozen{ID: acct.AcctID.Int64()}
	}
	if !acct.IsActive {
		return ErrInactive{ID: acct.AcctID.Int64()}
	}
	if err = s.repo.SetFrozen(acct.AcctID, true); err != nil {
		s.log.Err(err).Int64("account", acct.AcctID.Int64()).Msg("error freezing account")
		return ErrStoreWrite{Op: "set_frozen", ID: acct.AcctID.Int64(), Err: err}
	}
	desc := "Account frozen"
	if req.Reason != "" {
		desc += ": " + req.Reason
	}
	return s.record(acct.AcctID, TxnFee, decimal.Zero, desc, acct.Balance, nil)
}

func (s *serviceImpl) UnfreezeAccount(req FreezeReq) error {
	acct, err := s.loadAccount(req.AcctID, "")
	if err != nil {
		return err
	}
	if !acct.IsFrozen {
		return ErrNotFrozen{ID: acct.AcctID.Int64()}
	}
	if err = s.repo.SetFrozen(acct.AcctID, false); err != nil {
		s.log.Err(err).Int64("account", acct.AcctID.Int64()).Msg("error unfreezing account")
		return ErrStoreWrite{Op: "set_frozen", ID: acct.AcctID.Int64(), Err: err}
	}
	desc := "Account unfrozen"
	if req.Reason != "" {
		desc += ": " + req.Reason
	}
	return s.record(acct.AcctID, TxnFee, decimal.Zero, desc, acct.Balance, nil)
}

func (s *serviceImpl) SetDailyWithdrawalLimit(req DailyLimitReq) error {
	if req.Limit.Valid && req.Limit.Decimal.IsNegative() {
		return badRequest("limit", "daily withdrawal limit cannot be negative")
	}
	acct, err := s.loadAccount(req.AcctID, "")
	if err != nil {
		return err
	}
	if err = s.repo.SetDailyLimit(acct.AcctID, req.Limit); err != nil {
		s.log.Err(err).Int64("account", acct.AcctID.Int64()).Msg("error setting daily limit")
		return ErrStoreWrite{Op: "set_daily_limit", ID: acct.AcctID.Int64(), Err: err}
	}
	desc := "Daily withdrawal limit set to unlimited"
	if req.Limit.Valid {
		desc = "Daily withdrawal limit set to " + req.Limit.Decimal.StringFixed(2)
	}
	return s.record(acct.AcctID, TxnFee, decimal.Zero, desc, acct.Balance, nil)
}

func (s *serviceImpl) DeactivateAccount(id snowflake.ID) error {
	acct, err := s.loadAccount(id, "")
	if err != nil {
		return err
	}
	if !acct.Balance.IsZero() {
		return badRequest("balance", "cannot deactivate account with non-zero balance")
	}
	if err = s.repo.SetActive(acct.AcctID, false); err != nil {
		s.log.Err(err).Int64("account", id.Int64()).Msg("error deactivating account")
		return ErrStoreWrite{Op: "set_active", ID: id.Int64(), Err: err}
	}
	return nil
}

func (s *serviceImpl) Account(id snowflake.ID) (*Account, error) {
	return s.loadAccount(id, "")
}

func (s *serviceImpl) Balance(id snowflake.ID) (*decimal.Decimal, error) {
	acct, err := s.loadAccount(id, "")
	if err != nil {
		return nil, err
	}
	return &acct.Balance, nil
}

func (s *serviceImpl) History(req HistoryReq) ([]Transaction, error) {
	if _, err := s.loadAccount(req.AcctID, ""); err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	txns, err := s.repo.ListTransactions(req.AcctID, limit)
	if err != nil {
		return nil, ErrStoreWrite{Op: "list_transactions", ID: req.AcctID.Int64(), Err: err}
	}
	return txns, nil
}

func (s *serviceImpl) ListAccounts() ([]Account, error) {
	accts, err := s.repo.ListAccounts()
	if err != nil {
		return nil, ErrStoreWrite{Op: "list_accounts", Err: err}
	}
	return accts, nil
}

func (s *serviceImpl) loadAccount(id snowflake.ID, role string) (*Account, error) {
	acct, err := s.repo.GetAccount(id)
	if err != nil {
		if errors.As(err, &ErrNotFound{}) {
			return nil, ErrNotFound{ID: id.Int64(), Role: role}
		}
		return nil, ErrStoreWrite{Op: "get_account", ID: id.Int64(), Err: err}
	}
	if acct == nil {
		return nil, ErrNotFound{ID: id.Int64(), Role: role}
	}
	return acct, nil
}

func (s *serviceImpl) loadActive(id snowflake.ID, role string) (*Account, error) {
	acct, err := s.loadAccount(id, role)
	if err != nil {
		return nil, err
	}
	if !acct.IsActive {
		return nil, ErrInactive{ID: id.Int64(), Role: role}
	}
	return acct, nil
}

func (s *serviceImpl) checkDailyLimit(acct *Account, amount decimal.Decimal) error {
	if !acct.DailyWithdrawalLimit.Valid {
		return nil
	}
	today, err := s.repo.SumSameDayDebits(acct.AcctID, s.now())
	if err != nil {
		return ErrStoreWrite{Op: "sum_same_day_debits", ID: acct.AcctID.Int64(), Err: err}
	}
	if !acct.WithinDailyLimit(amount, today) {
		return ErrDailyLimitExceeded{
			ID:         acct.AcctID.Int64(),
			Limit:      acct.DailyWithdrawalLimit.Decimal,
			TodayTotal: today,
			Requested:  amount,
		}
	}
	return nil
}

func (s *serviceImpl) writeBalance(id snowflake.ID, bal decimal.Decimal) error {
	if err := s.repo.UpdateBalance(id, bal); err != nil {
		s.log.Err(err).
			Int64("account", id.Int64()).
			Str("balance", bal.String()).
			Msg("error updating balance")
		return ErrStoreWrite{Op: "update_balance", ID: id.Int64(), Err: err}
	}
	return nil
}

// revert restores src to prev after the credit to dst failed. The returned
// error always describes the failed credit.
func (s *serviceImpl) revert(src snowflake.ID, prev decimal.Decimal, dst snowflake.ID, cause error) ErrStoreWrite {
	serr := ErrStoreWrite{Op: "update_balance", ID: dst.Int64(), Err: cause}
	if err := s.repo.UpdateBalance(src, prev); err != nil {
		serr.Committed = true
		serr.Inconsistent = true
		s.log.Err(err).
			Int64("source", src.Int64()).
			Int64("destination", dst.Int64()).
			Str("restore_balance", prev.String()).
			Msg("compensating write failed, balances inconsistent")
		return serr
	}
	s.log.Warn().
		Err(cause).
		Int64("source", src.Int64()).
		Int64("destination", dst.Int64()).
		Msg("credit failed, source balance restored")
	return serr
}

// record appends a ledger entry for a mutation that has already been
// persisted. A failure here cannot undo that mutation, so it is reported as a
// committed store error.
func (s *serviceImpl) record(acctID snowflake.ID, typ TransactionType, amount decimal.Decimal, desc string, balAfter decimal.Decimal, related *snowflake.ID) error {
	txn := &Transaction{
		AcctID:           acctID,
		Type:             typ,
		Amount:           amount,
		Description:      desc,
		Timestamp:        s.now(),
		BalanceAfter:     balAfter,
		RelatedAccountID: related,
	}
	if _, err := s.repo.AppendTransaction(txn); err != nil {
		s.log.Err(err).
			Int64("account", acctID.Int64()).
			Str("type", string(typ)).
			Str("amount", amount.String()).
			Str("balance_after", balAfter.String()).
			Msg("ledger entry not recorded")
		return ErrStoreWrite{Op: "append_transaction", ID: acctID.Int64(), Committed: true, Err: err}
	}
	return nil
}
