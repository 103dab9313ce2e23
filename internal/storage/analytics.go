package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"
)

type trendPointRow struct {
	Date   int64 `json:"date"`
	Amount int64 `json:"amount"`
}

// SaveOverviewSnapshot upserts a user's materialized overview. The snapshot
// table is maintained by the worker; the live overview endpoint always
// recomputes from transactions and never reads from here.
func (r *SQLiteRepository) SaveOverviewSnapshot(ctx context.Context, userID string, ov core.Overview, computedAt time.Time) error {
	points := make([]trendPointRow, len(ov.SpendingTrend))
	for i, p := range ov.SpendingTrend {
		points[i] = trendPointRow{Date: p.Date.UnixMilli(), Amount: p.Amount.Cents}
	}
	trend, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("marshal spending trend: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO analytics_snapshots (user_id, monthly_income_cents, monthly_expense_cents, spending_trend, computed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   monthly_income_cents = excluded.monthly_income_cents,
		   monthly_expense_cents = excluded.monthly_expense_cents,
		   spending_trend = excluded.spending_trend,
		   computed_at = excluded.computed_at`,
		userID, ov.MonthlyIncome.Cents, ov.MonthlyExpenses.Cents, string(trend), computedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert analytics snapshot: %w", err)
	}
	return nil
}

// GetOverviewSnapshot returns a user's materialized overview and when it
// was computed.
func (r *SQLiteRepository) GetOverviewSnapshot(ctx context.Context, userID string) (core.Overview, time.Time, error) {
	var incomeCents, expenseCents, computedAt int64
	var trend string
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_income_cents, monthly_expense_cents, spending_trend, computed_at
		 FROM analytics_snapshots WHERE user_id = ?`, userID).
		Scan(&incomeCents, &expenseCents, &trend, &computedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Overview{}, time.Time{}, core.ErrNotFound
	}
	if err != nil {
		return core.Overview{}, time.Time{}, fmt.Errorf("get analytics snapshot: %w", err)
	}

	var points []trendPointRow
	if err := json.Unmarshal([]byte(trend), &points); err != nil {
		return core.Overview{}, time.Time{}, fmt.Errorf("unmarshal spending trend: %w", err)
	}

	ov := core.Overview{
		MonthlyIncome:   core.Money{Cents: incomeCents},
		MonthlyExpenses: core.Money{Cents: expenseCents},
		SpendingTrend:   make([]core.TrendPoint, len(points)),
	}
	for i, p := range points {
		ov.SpendingTrend[i] = core.TrendPoint{Date: fromMillis(p.Date), Amount: core.Money{Cents: p.Amount}}
	}
	return ov, fromMillis(computedAt), nil
}

// ListActiveUsers returns the distinct owners of recorded transactions,
// used by the worker's periodic snapshot refresh.
func (r *SQLiteRepository) ListActiveUsers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
