package bankxledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MySQLConfig struct {
	DSN             string        `yaml:"dsn" envconfig:"DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
	LogLevel        string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

type mysqlAccount struct {
	ID                      int64               `gorm:"primaryKey;autoIncrement:false"`
	AccountNumber           string              `gorm:"size:64;uniqueIndex;not null"`
	CustomerName            string              `gorm:"size:255;not null"`
	AccountType             string              `gorm:"size:16;not null"`
	Balance                 decimal.Decimal     `gorm:"type:decimal(30,8);not null"`
	MinimumBalance          decimal.Decimal     `gorm:"type:decimal(30,8);not null"`
	IsActive                bool                `gorm:"not null"`
	IsFrozen                bool                `gorm:"not null"`
	DailyWithdrawalLimit    decimal.NullDecimal `gorm:"type:decimal(30,8)"`
	InterestRate            decimal.Decimal     `gorm:"type:decimal(12,6);not null"`
	LastInterestCalculation *time.Time          `gorm:"type:datetime(6)"`
	CreatedAt               time.Time           `gorm:"type:datetime(6);index;not null"`
}

func (*mysqlAccount) TableName() string {
	return "accounts"
}

func (a *mysqlAccount) toAccount() Account {
	return Account{
		AcctID:                  snowflake.ParseInt64(a.ID),
		AccountNumber:           a.AccountNumber,
		CustomerName:            a.CustomerName,
		AccountType:             AccountType(a.AccountType),
		Balance:                 a.Balance,
		MinimumBalance:          a.MinimumBalance,
		IsActive:                a.IsActive,
		IsFrozen:                a.IsFrozen,
		DailyWithdrawalLimit:    a.DailyWithdrawalLimit,
		InterestRate:            a.InterestRate,
		LastInterestCalculation: a.LastInterestCalculation,
		CreatedAt:               a.CreatedAt,
	}
}

type mysqlTransaction struct {
	ID               int64           `gorm:"primaryKey;autoIncrement:false"`
	AccountID        int64           `gorm:"index:idx_txn_account_ts,priority:1;not null"`
	TransactionType  string          `gorm:"size:32;not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(30,8);not null"`
	Description      string          `gorm:"size:512"`
	Ts               time.Time       `gorm:"column:ts;type:datetime(6);index:idx_txn_account_ts,priority:2;not null"`
	BalanceAfter     decimal.Decimal `gorm:"type:decimal(30,8);not null"`
	RelatedAccountID *int64
}

func (*mysqlTransaction) TableName() string {
	return "transactions"
}

func (t *mysqlTransaction) toTransaction() Transaction {
	txn := Transaction{
		TxnID:        snowflake.ParseInt64(t.ID),
		AcctID:       snowflake.ParseInt64(t.AccountID),
		Type:         TransactionType(t.TransactionType),
		Amount:       t.Amount,
		Description:  t.Description,
		Timestamp:    t.Ts,
		BalanceAfter: t.BalanceAfter,
	}
	if t.RelatedAccountID != nil {
		r := snowflake.ParseInt64(*t.RelatedAccountID)
		txn.RelatedAccountID = &r
	}
	return txn
}

// MySQLEndpoint is the Repository backed by MySQL through gorm.
type MySQLEndpoint struct {
	db   *gorm.DB
	node *snowflake.Node
	log  *zerolog.Logger
}

var (
	_ Repository = (*MySQLEndpoint)(nil)
)

func NewMySQLEndpoint(cfg MySQLConfig, nodeID int64, log *zerolog.Logger) (*MySQLEndpoint, error) {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormLogger(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return &MySQLEndpoint{db: db, node: node, log: log}, nil
}

func gormLogger(level string) logger.Interface {
	lvl := logger.Error
	switch level {
	case "info":
		lvl = logger.Info
	case "warn":
		lvl = logger.Warn
	case "silent":
		lvl = logger.Silent
	}
	return logger.Default.LogMode(lvl)
}

// Migrate creates or updates the accounts and transactions tables.
func (my *MySQLEndpoint) Migrate() error {
	return my.db.AutoMigrate(&mysqlAccount{}, &mysqlTransaction{})
}

// DropTables removes both tables, transactions first.
func (my *MySQLEndpoint) DropTables() error {
	return my.db.Migrator().DropTable(&mysqlTransaction{}, &mysqlAccount{})
}

func (my *MySQLEndpoint) Close() error {
	sqlDB, err := my.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (my *MySQLEndpoint) CreateAccount(acct *Account) (snowflake.ID, error) {
	id := my.node.Generate()
	row := mysqlAccount{
		ID:                      id.Int64(),
		AccountNumber:           acct.AccountNumber,
		CustomerName:            acct.CustomerName,
		AccountType:             string(acct.AccountType),
		Balance:                 acct.Balance,
		MinimumBalance:          acct.MinimumBalance,
		IsActive:                acct.IsActive,
		IsFrozen:                acct.IsFrozen,
		DailyWithdrawalLimit:    acct.DailyWithdrawalLimit,
		InterestRate:            acct.InterestRate,
		LastInterestCalculation: acct.LastInterestCalculation,
		CreatedAt:               acct.CreatedAt,
	}
	if err := my.db.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateAccountNumber
		}
		return 0, err
	}
	return id, nil
}

func (my *MySQLEndpoint) first(query string, arg any) (*Account, error) {
	var row mysqlAccount
	if err := my.db.Where(query, arg).First(&row).Error; err != nil {
		return nil, err
	}
	acct := row.toAccount()
	return &acct, nil
}

func (my *MySQLEndpoint) GetAccount(id snowflake.ID) (*Account, error) {
	acct, err := my.first("id = ?", id.Int64())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound{ID: id.Int64()}
	}
	return acct, err
}

func (my *MySQLEndpoint) GetAccountByNumber(number string) (*Account, error) {
	acct, err := my.first("account_number = ?", number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound{}
	}
	return acct, err
}

func (my *MySQLEndpoint) update(id snowflake.ID, column string, value any) error {
	res := my.db.Model(&mysqlAccount{}).Where("id = ?", id.Int64()).Update(column, value)
	if res.Error != nil {
		my.log.Err(res.Error).Int64("account", id.Int64()).Str("column", column).Msg("error updating account")
		return res.Error
	}
	// MySQL reports zero affected rows when the value is unchanged, so only
	// a missing row is treated as not found.
	if res.RowsAffected == 0 {
		var n int64
		if err := my.db.Model(&mysqlAccount{}).Where("id = ?", id.Int64()).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound{ID: id.Int64()}
		}
	}
	return nil
}

func (my *MySQLEndpoint) UpdateBalance(id snowflake.ID, balance decimal.Decimal) error {
	return my.update(id, "balance", balance)
}

func (my *MySQLEndpoint) SetActive(id snowflake.ID, active bool) error {
	return my.update(id, "is_active", active)
}

func (my *MySQLEndpoint) SetFrozen(id snowflake.ID, frozen bool) error {
	return my.update(id, "is_frozen", frozen)
}

func (my *MySQLEndpoint) SetDailyLimit(id snowflake.ID, limit decimal.NullDecimal) error {
	return my.update(id, "daily_withdrawal_limit", limit)
}

func (my *MySQLEndpoint) SetInterestRate(id snowflake.ID, rate decimal.Decimal) error {
	return my.update(id, "interest_rate", rate)
}

func (my *MySQLEndpoint) SetLastInterestCalculation(id snowflake.ID, at time.Time) error {
	return my.update(id, "last_interest_calculation", at)
}

func (my *MySQLEndpoint) ListAccounts() ([]Account, error) {
	var rows []mysqlAccount
	if err := my.db.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	accts := make([]Account, 0, len(rows))
	for i := range rows {
		accts = append(accts, rows[i].toAccount())
	}
	return accts, nil
}

func (my *MySQLEndpoint) AppendTransaction(txn *Transaction) (snowflake.ID, error) {
	id := my.node.Generate()
	row := mysqlTransaction{
		ID:              id.Int64(),
		AccountID:       txn.AcctID.Int64(),
		TransactionType: string(txn.Type),
		Amount:          txn.Amount,
		Description:     txn.Description,
		Ts:              txn.Timestamp,
		BalanceAfter:    txn.BalanceAfter,
	}
	if txn.RelatedAccountID != nil {
		r := txn.RelatedAccountID.Int64()
		row.RelatedAccountID = &r
	}
	if err := my.db.Create(&row).Error; err != nil {
		my.log.Err(err).Int64("account", txn.AcctID.Int64()).Msg("error inserting transaction")
		return 0, err
	}
	return id, nil
}

func toTransactions(rows []mysqlTransaction) []Transaction {
	txns := make([]Transaction, 0, len(rows))
	for i := range rows {
		txns = append(txns, rows[i].toTransaction())
	}
	return txns
}

func (my *MySQLEndpoint) ListTransactions(acctID snowflake.ID, limit int) ([]Transaction, error) {
	var rows []mysqlTransaction
	err := my.db.
		Where("account_id = ?", acctID.Int64()).
		Order("ts DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTransactions(rows), nil
}

func (my *MySQLEndpoint) ListTransactionsInMonth(acctID snowflake.ID, month time.Time) ([]Transaction, error) {
	start, end := monthBounds(month)
	var rows []mysqlTransaction
	err := my.db.
		Where("account_id = ? AND ts >= ? AND ts < ?", acctID.Int64(), start, end).
		Order("ts ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTransactions(rows), nil
}

func (my *MySQLEndpoint) SumSameDayDebits(acctID snowflake.ID, day time.Time) (decimal.Decimal, error) {
	start, end := dayBounds(day)
	var total decimal.NullDecimal
	err := my.db.Model(&mysqlTransaction{}).
		Select("SUM(amount)").
		Where("account_id = ? AND ts >= ? AND ts < ?", acctID.Int64(), start, end).
		Where("transaction_type IN ?", []string{string(TxnWithdrawal), string(TxnTransferOut), string(TxnBulkTransferOut)}).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
