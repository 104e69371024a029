package bankxledger

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const pgUniqueViolation = "23505"

var (
	pgInsertAcctSQL = `
		INSERT INTO accounts (id, account_number, customer_name, account_type, balance,
			minimum_balance, is_active, is_frozen, daily_withdrawal_limit, interest_rate,
			last_interest_calculation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	pgSelectAcctColumns = `
		SELECT id, account_number, customer_name, account_type, balance, minimum_balance,
			is_active, is_frozen, daily_withdrawal_limit, interest_rate,
			last_interest_calculation, created_at
		FROM accounts
	`

	pgInsertTxnSQL = `
		INSERT INTO transactions (id, account_id, transaction_type, amount, description,
			ts, balance_after, related_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	pgSelectTxnColumns = `
		SELECT id, account_id, transaction_type, amount, description, ts, balance_after,
			related_account_id
		FROM transactions
	`

	pgSumDebitsSQL = `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = $1
			AND ts >= $2 AND ts < $3
			AND transaction_type IN ('withdrawal', 'transfer_out', 'bulk_transfer_out');
	`
)

type PostgresEndpoint struct {
	pool *pgxpool.Pool
	node *snowflake.Node
	log  *zerolog.Logger
}

var (
	_ Repository = (*PostgresEndpoint)(nil)
)

func NewPostgresEndpoint(connStr string, nodeID int64, log *zerolog.Logger) (*PostgresEndpoint, error) {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	endpt := &PostgresEndpoint{
		pool: pool,
		node: node,
		log:  log,
	}
	return endpt, err
}

func (pg *PostgresEndpoint) Close() {
	pg.pool.Close()
}

func (pg *PostgresEndpoint) CreateAccount(acct *Account) (snowflake.ID, error) {
	ctx := context.Background()
	id := pg.node.Generate()
	_, err := pg.pool.Exec(ctx, pgInsertAcctSQL,
		id.Int64(),
		acct.AccountNumber,
		acct.CustomerName,
		string(acct.AccountType),
		acct.Balance,
		acct.MinimumBalance,
		acct.IsActive,
		acct.IsFrozen,
		acct.DailyWithdrawalLimit,
		acct.InterestRate,
		acct.LastInterestCalculation,
		acct.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, ErrDuplicateAccountNumber
		}
		return 0, err
	}
	return id, nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	var (
		acct Account
		rid  int64
		typ  string
	)
	err := row.Scan(
		&rid,
		&acct.AccountNumber,
		&acct.CustomerName,
		&typ,
		&acct.Balance,
		&acct.MinimumBalance,
		&acct.IsActive,
		&acct.IsFrozen,
		&acct.DailyWithdrawalLimit,
		&acct.InterestRate,
		&acct.LastInterestCalculation,
		&acct.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	acct.AcctID = snowflake.ParseInt64(rid)
	acct.AccountType = AccountType(typ)
	return &acct, nil
}

func (pg *PostgresEndpoint) GetAccount(id snowflake.ID) (*Account, error) {
	row := pg.pool.QueryRow(context.Background(), pgSelectAcctColumns+` WHERE id = $1;`, id.Int64())
	acct, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound{ID: id.Int64()}
	}
	return acct, err
}

func (pg *PostgresEndpoint) GetAccountByNumber(number string) (*Account, error) {
	row := pg.pool.QueryRow(context.Background(), pgSelectAcctColumns+` WHERE account_number = $1;`, number)
	acct, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound{}
	}
	return acct, err
}

func (pg *PostgresEndpoint) exec(id snowflake.ID, sql string, args ...any) error {
	tag, err := pg.pool.Exec(context.Background(), sql, append([]any{id.Int64()}, args...)...)
	if err != nil {
		pg.log.Err(err).Int64("account", id.Int64()).Msg("error executing account update")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound{ID: id.Int64()}
	}
	return nil
}

func (pg *PostgresEndpoint) UpdateBalance(id snowflake.ID, balance decimal.Decimal) error {
	return pg.exec(id, `UPDATE accounts SET balance = $2 WHERE id = $1;`, balance)
}

func (pg *PostgresEndpoint) SetActive(id snowflake.ID, active bool) error {
	return pg.exec(id, `UPDATE accounts SET is_active = $2 WHERE id = $1;`, active)
}

func (pg *PostgresEndpoint) SetFrozen(id snowflake.ID, frozen bool) error {
	return pg.exec(id, `UPDATE accounts SET is_frozen = $2 WHERE id = $1;`, frozen)
}

func (pg *PostgresEndpoint) SetDailyLimit(id snowflake.ID, limit decimal.NullDecimal) error {
	return pg.exec(id, `UPDATE accounts SET daily_withdrawal_limit = $2 WHERE id = $1;`, limit)
}

func (pg *PostgresEndpoint) SetInterestRate(id snowflake.ID, rate decimal.Decimal) error {
	return pg.exec(id, `UPDATE accounts SET interest_rate = $2 WHERE id = $1;`, rate)
}

func (pg *PostgresEndpoint) SetLastInterestCalculation(id snowflake.ID, at time.Time) error {
	return pg.exec(id, `UPDATE accounts SET last_interest_calculation = $2 WHERE id = $1;`, at)
}

func (pg *PostgresEndpoint) ListAccounts() ([]Account, error) {
	rows, err := pg.pool.Query(context.Background(), pgSelectAcctColumns+` ORDER BY created_at DESC, id DESC;`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Account, error) {
		acct, err := scanAccount(row)
		if err != nil {
			return Account{}, err
		}
		return *acct, nil
	})
}

func (pg *PostgresEndpoint) AppendTransaction(txn *Transaction) (snowflake.ID, error) {
	id := pg.node.Generate()
	var related *int64
	if txn.RelatedAccountID != nil {
		r := txn.RelatedAccountID.Int64()
		related = &r
	}
	_, err := pg.pool.Exec(context.Background(), pgInsertTxnSQL,
		id.Int64(),
		txn.AcctID.Int64(),
		string(txn.Type),
		txn.Amount,
		txn.Description,
		txn.Timestamp,
		txn.BalanceAfter,
		related,
	)
	if err != nil {
		pg.log.Err(err).Int64("account", txn.AcctID.Int64()).Msg("error inserting transaction")
		return 0, err
	}
	return id, nil
}

func scanTransaction(row pgx.CollectableRow) (Transaction, error) {
	var (
		txn      Transaction
		tid, aid int64
		typ      string
		related  *int64
	)
	err := row.Scan(&tid, &aid, &typ, &txn.Amount, &txn.Description, &txn.Timestamp, &txn.BalanceAfter, &related)
	if err != nil {
		return txn, err
	}
	txn.TxnID = snowflake.ParseInt64(tid)
	txn.AcctID = snowflake.ParseInt64(aid)
	txn.Type = TransactionType(typ)
	if related != nil {
		r := snowflake.ParseInt64(*related)
		txn.RelatedAccountID = &r
	}
	return txn, nil
}

func (pg *PostgresEndpoint) ListTransactions(acctID snowflake.ID, limit int) ([]Transaction, error) {
	rows, err := pg.pool.Query(context.Background(),
		pgSelectTxnColumns+` WHERE account_id = $1 ORDER BY ts DESC, id DESC LIMIT $2;`,
		acctID.Int64(), limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanTransaction)
}

func (pg *PostgresEndpoint) ListTransactionsInMonth(acctID snowflake.ID, month time.Time) ([]Transaction, error) {
	start, end := monthBounds(month)
	rows, err := pg.pool.Query(context.Background(),
		pgSelectTxnColumns+` WHERE account_id = $1 AND ts >= $2 AND ts < $3 ORDER BY ts ASC, id ASC;`,
		acctID.Int64(), start, end)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanTransaction)
}

func (pg *PostgresEndpoint) SumSameDayDebits(acctID snowflake.ID, day time.Time) (decimal.Decimal, error) {
	start, end := dayBounds(day)
	var total decimal.Decimal
	row := pg.pool.QueryRow(context.Background(), pgSumDebitsSQL, acctID.Int64(), start, end)
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func monthBounds(month time.Time) (time.Time, time.Time) {
	y, m, _ := month.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, month.Location())
	return start, start.AddDate(0, 1, 0)
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
