// Package storage implements the record store on SQLite. Every entity row
// carries its owning user id; the repository enforces ownership on the
// operations that address records by id, and the transaction-posting path
// commits the balance update and the transaction insert as one unit.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateAccount inserts a new account owned by a.UserID and returns it with
// its assigned id and creation time.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	a.ID = uuid.NewString()
	a.CreatedAt = nowMillis()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, name, type, balance_cents, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Name, string(a.Type), a.Balance.Cents, a.Currency, toMillis(a.CreatedAt))
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", a.ID,
		"user_id", a.UserID,
		"type", string(a.Type))

	return a, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, balance_cents, currency, created_at
		 FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, balance_cents, currency, created_at
		 FROM accounts WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []core.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// PostTransaction applies a transaction against its account: the balance
// read-modify-write and the transaction insert commit together or not at
// all. t.UserID is the caller; the account must exist and belong to them.
func (r *SQLiteRepository) PostTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin posting: %w", err)
	}
	defer dbtx.Rollback()

	var ownerID string
	var balance int64
	err = dbtx.QueryRowContext(ctx,
		`SELECT user_id, balance_cents FROM accounts WHERE id = ?`, t.AccountID).
		Scan(&ownerID, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("read account balance: %w", err)
	}
	if ownerID != t.UserID {
		return core.Transaction{}, core.ErrNotAuthorized
	}

	newBalance := balance + t.Signed().Cents
	if _, err := dbtx.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = ? WHERE id = ?`,
		newBalance, t.AccountID); err != nil {
		return core.Transaction{}, fmt.Errorf("update balance: %w", err)
	}

	t.ID = uuid.NewString()
	t.CreatedAt = nowMillis()
	if _, err := dbtx.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, account_id, description, amount_cents, type, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.AccountID, t.Description, t.Amount.Cents,
		string(t.Type), t.Category, toMillis(t.CreatedAt)); err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	if err := dbtx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit posting: %w", err)
	}

	slog.InfoContext(ctx, "Transaction posted",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"user_id", t.UserID,
		"transaction_type", string(t.Type),
		"amount_cents", t.Amount.Cents,
		"balance_cents", newBalance)

	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT id, user_id, account_id, description, amount_cents, type, category, created_at
		 FROM transactions WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

// RecentTransactions returns the caller's newest transactions, capped at limit.
func (r *SQLiteRepository) RecentTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT id, user_id, account_id, description, amount_cents, type, category, created_at
		 FROM transactions WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		var t core.Transaction
		var typ string
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Description,
			&t.Amount.Cents, &typ, &t.Category, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ)
		t.CreatedAt = fromMillis(createdAt)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.ID = uuid.NewString()
	g.CreatedAt = nowMillis()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, target_cents, current_cents, deadline, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		toMillis(g.Deadline), toMillis(g.CreatedAt))
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, target_cents, current_cents, deadline, created_at
		 FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_cents, current_cents, deadline, created_at
		 FROM goals WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := []core.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoalProgress overwrites a goal's current amount. Last writer wins;
// concurrent updates clobber each other without error, which is the
// documented behavior for goal progress.
func (r *SQLiteRepository) UpdateGoalProgress(ctx context.Context, goalID, callerID string, current core.Money) error {
	var ownerID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM goals WHERE id = ?`, goalID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read goal owner: %w", err)
	}
	if ownerID != callerID {
		return core.ErrNotAuthorized
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = ? WHERE id = ?`,
		current.Cents, goalID); err != nil {
		return fmt.Errorf("update goal progress: %w", err)
	}

	slog.InfoContext(ctx, "Goal progress updated",
		"goal_id", goalID,
		"user_id", callerID,
		"amount_cents", current.Cents)
	return nil
}

func (r *SQLiteRepository) CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	s.ID = uuid.NewString()
	s.CreatedAt = nowMillis()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, user_id, name, amount_cents, frequency, category, next_charge, last_charge, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Name, s.Amount.Cents, string(s.Frequency), s.Category,
		toMillis(s.NextCharge), toMillis(s.LastCharge), toMillis(s.CreatedAt))
	if err != nil {
		return core.Subscription{}, fmt.Errorf("insert subscription: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context, userID string) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount_cents, frequency, category, next_charge, last_charge, created_at
		 FROM subscriptions WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []core.Subscription{}
	for rows.Next() {
		var s core.Subscription
		var freq string
		var next, last, createdAt int64
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Amount.Cents, &freq,
			&s.Category, &next, &last, &createdAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		s.Frequency = core.Frequency(freq)
		s.NextCharge = fromMillis(next)
		s.LastCharge = fromMillis(last)
		s.CreatedAt = fromMillis(createdAt)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var a core.Account
	var typ string
	var createdAt int64
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &typ, &a.Balance.Cents,
		&a.Currency, &createdAt); err != nil {
		return core.Account{}, err
	}
	a.Type = core.AccountType(typ)
	a.CreatedAt = fromMillis(createdAt)
	return a, nil
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var g core.Goal
	var deadline, createdAt int64
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount.Cents,
		&g.CurrentAmount.Cents, &deadline, &createdAt); err != nil {
		return core.Goal{}, err
	}
	g.Deadline = fromMillis(deadline)
	g.CreatedAt = fromMillis(createdAt)
	return g, nil
}

// Timestamps are stored as Unix milliseconds; nowMillis keeps in-memory
// values at the same precision so a returned entity equals its stored row.
func nowMillis() time.Time {
	return fromMillis(time.Now().UnixMilli())
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
