// Package services orchestrates the finance operations: identity and
// ownership rules, validation, the atomic posting unit, and the overview
// computation. Handlers stay thin; everything stateful goes through here.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/classifier"
	"fintrack/internal/core"
)

// Store is the record-store surface the service depends on, implemented by
// storage.SQLiteRepository.
type Store interface {
	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]core.Account, error)

	PostTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	RecentTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error)

	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	UpdateGoalProgress(ctx context.Context, goalID, callerID string, current core.Money) error

	CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error)
	ListSubscriptions(ctx context.Context, userID string) ([]core.Subscription, error)
}

// EventPublisher announces committed postings. A nil publisher disables
// events; a failing publisher never fails the request.
type EventPublisher interface {
	PublishTransactionPosted(ctx context.Context, transactionID, userID, accountID string) error
}

const recentLimit = 10

type FinanceService struct {
	store      Store
	events     EventPublisher
	classifier classifier.Classifier
	now        func() time.Time
}

type Option func(*FinanceService)

// WithEventPublisher wires transaction-posted event publication.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *FinanceService) { s.events = p }
}

// WithClassifier wires the category suggestion backend.
func WithClassifier(c classifier.Classifier) Option {
	return func(s *FinanceService) { s.classifier = c }
}

// WithClock overrides the reference clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *FinanceService) { s.now = now }
}

func NewFinanceService(store Store, opts ...Option) *FinanceService {
	s := &FinanceService{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccount records a new account owned by the caller.
func (s *FinanceService) CreateAccount(ctx context.Context, callerID string, a core.Account) (core.Account, error) {
	if callerID == "" {
		return core.Account{}, core.ErrNotAuthenticated
	}
	a.UserID = callerID
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	created, err := s.store.CreateAccount(ctx, a)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

// ListAccounts returns the caller's accounts; anonymous callers get an
// empty list, not an error.
func (s *FinanceService) ListAccounts(ctx context.Context, callerID string) ([]core.Account, error) {
	if callerID == "" {
		return []core.Account{}, nil
	}
	accounts, err := s.store.ListAccounts(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// PostTransaction applies a transaction to the caller's account. The
// balance adjustment and the transaction record commit atomically in the
// store; afterwards a posted event goes out best-effort.
func (s *FinanceService) PostTransaction(ctx context.Context, callerID string, t core.Transaction) (core.Transaction, error) {
	if callerID == "" {
		return core.Transaction{}, core.ErrNotAuthenticated
	}
	t.UserID = callerID
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	posted, err := s.store.PostTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	if s.events != nil {
		if err := s.events.PublishTransactionPosted(ctx, posted.ID, posted.UserID, posted.AccountID); err != nil {
			// The posting is committed; a lost event only delays the
			// snapshot refresh.
			slog.ErrorContext(ctx, "Failed to publish transaction event",
				"transaction_id", posted.ID, "error", err)
		}
	}

	return posted, nil
}

func (s *FinanceService) ListTransactions(ctx context.Context, callerID string) ([]core.Transaction, error) {
	if callerID == "" {
		return []core.Transaction{}, nil
	}
	txs, err := s.store.ListTransactions(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *FinanceService) RecentTransactions(ctx context.Context, callerID string) ([]core.Transaction, error) {
	if callerID == "" {
		return []core.Transaction{}, nil
	}
	txs, err := s.store.RecentTransactions(ctx, callerID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return txs, nil
}

func (s *FinanceService) CreateGoal(ctx context.Context, callerID string, g core.Goal) (core.Goal, error) {
	if callerID == "" {
		return core.Goal{}, core.ErrNotAuthenticated
	}
	g.UserID = callerID
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return created, nil
}

func (s *FinanceService) ListGoals(ctx context.Context, callerID string) ([]core.Goal, error) {
	if callerID == "" {
		return []core.Goal{}, nil
	}
	goals, err := s.store.ListGoals(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// UpdateGoalProgress overwrites the goal's current amount. Only the
// goal's owner may update it; concurrent writers clobber each other
// without error.
func (s *FinanceService) UpdateGoalProgress(ctx context.Context, callerID, goalID string, current core.Money) error {
	if callerID == "" {
		return core.ErrNotAuthenticated
	}
	if current.Cents < 0 {
		return core.ErrInvalidAmount
	}
	return s.store.UpdateGoalProgress(ctx, goalID, callerID, current)
}

func (s *FinanceService) CreateSubscription(ctx context.Context, callerID string, sub core.Subscription) (core.Subscription, error) {
	if callerID == "" {
		return core.Subscription{}, core.ErrNotAuthenticated
	}
	sub.UserID = callerID
	if err := sub.Validate(); err != nil {
		return core.Subscription{}, err
	}

	created, err := s.store.CreateSubscription(ctx, sub)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	return created, nil
}

func (s *FinanceService) ListSubscriptions(ctx context.Context, callerID string) ([]core.Subscription, error) {
	if callerID == "" {
		return []core.Subscription{}, nil
	}
	subs, err := s.store.ListSubscriptions(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// Overview aggregates the caller's full transaction list at the current
// instant. Anonymous callers get the zero overview.
func (s *FinanceService) Overview(ctx context.Context, callerID string) (core.Overview, error) {
	now := s.now()
	if callerID == "" {
		return core.ComputeOverview(nil, now), nil
	}

	txs, err := s.store.ListTransactions(ctx, callerID)
	if err != nil {
		return core.Overview{}, fmt.Errorf("load transactions for overview: %w", err)
	}
	return core.ComputeOverview(txs, now), nil
}

// SuggestCategory asks the classifier for a category label. It requires an
// authenticated caller and a configured classifier.
func (s *FinanceService) SuggestCategory(ctx context.Context, callerID, description string) (string, error) {
	if callerID == "" {
		return "", core.ErrNotAuthenticated
	}
	if s.classifier == nil {
		return "", ErrClassifierUnavailable
	}
	if strings.TrimSpace(description) == "" {
		return "", core.ErrEmptyDescription
	}

	category, err := s.classifier.Classify(ctx, description)
	if err != nil {
		return "", fmt.Errorf("classify description: %w", err)
	}
	return category, nil
}
