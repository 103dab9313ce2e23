// Package worker maintains per-user analytics snapshots. It reacts to
// transaction-posted events and periodically refreshes every active user,
// so snapshots converge even when events are lost.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type AnalyticsWorker struct {
	storage *storage.SQLiteRepository
	now     func() time.Time
}

func NewAnalyticsWorker(storage *storage.SQLiteRepository) *AnalyticsWorker {
	return &AnalyticsWorker{
		storage: storage,
		now:     time.Now,
	}
}

// HandleTransactionPosted recomputes the snapshot of the user whose
// transaction was posted. Returning an error requeues the message.
func (w *AnalyticsWorker) HandleTransactionPosted(ctx context.Context, msg *amqp.TransactionPostedMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"transaction_id", msg.TransactionID,
		"user_id", msg.UserID)

	if err := w.RefreshUser(ctx, msg.UserID); err != nil {
		return fmt.Errorf("refresh snapshot for user %s: %w", msg.UserID, err)
	}
	return nil
}

// RefreshUser recomputes and stores one user's overview snapshot.
func (w *AnalyticsWorker) RefreshUser(ctx context.Context, userID string) error {
	transactions, err := w.storage.ListTransactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	now := w.now()
	overview := core.ComputeOverview(transactions, now)

	if err := w.storage.SaveOverviewSnapshot(ctx, userID, overview, now); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot refreshed",
		"user_id", userID,
		"transaction_count", len(transactions),
		"monthly_expenses_cents", overview.MonthlyExpenses.Cents)

	return nil
}

// RefreshAll recomputes snapshots for every user with recorded
// transactions. One failing user does not stop the sweep.
func (w *AnalyticsWorker) RefreshAll(ctx context.Context) error {
	users, err := w.storage.ListActiveUsers(ctx)
	if err != nil {
		return fmt.Errorf("list active users: %w", err)
	}

	var failed int
	for _, userID := range users {
		if err := w.RefreshUser(ctx, userID); err != nil {
			slog.ErrorContext(ctx, "Snapshot refresh failed", "user_id", userID, "error", err)
			failed++
		}
	}

	slog.InfoContext(ctx, "Snapshot sweep completed",
		"users", len(users), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("snapshot sweep: %d of %d users failed", failed, len(users))
	}
	return nil
}

// RunPeriodicRefresh sweeps all users at the given interval until the
// context is cancelled. An immediate sweep runs on startup to recover
// from missed events.
func (w *AnalyticsWorker) RunPeriodicRefresh(ctx context.Context, interval time.Duration) error {
	if err := w.RefreshAll(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup snapshot sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.RefreshAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic snapshot sweep failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
