package core

import (
	"errors"
	"strings"
	"time"
)

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
)

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

const (
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
	Weekly  Frequency = "weekly"
)

type (
	AccountType     string
	TransactionType string
	Frequency       string

	Money struct {
		Cents int64
	}

	// Account holds a user's balance for one real-world account.
	// Balance is mutated only through transaction posting.
	Account struct {
		ID        string
		UserID    string
		Name      string
		Type      AccountType
		Balance   Money
		Currency  string
		CreatedAt time.Time
	}

	// Transaction is append-only. Amount is always non-negative; the sign
	// of its contribution to the account balance is carried by Type.
	Transaction struct {
		ID          string
		UserID      string
		AccountID   string
		Description string
		Amount      Money
		Type        TransactionType
		Category    string
		CreatedAt   time.Time
	}

	Goal struct {
		ID            string
		UserID        string
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		Deadline      time.Time
		CreatedAt     time.Time
	}

	// Subscription is display-only: no job posts its charges.
	Subscription struct {
		ID         string
		UserID     string
		Name       string
		Amount     Money
		Frequency  Frequency
		Category   string
		NextCharge time.Time
		LastCharge time.Time
		CreatedAt  time.Time
	}
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrNotAuthorized    = errors.New("not authorized")

	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyName          = errors.New("empty name")
	ErrNameTooLong        = errors.New("name too long (max 200 characters)")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyCurrency      = errors.New("empty currency")
	ErrMissingAccount     = errors.New("missing account")
	ErrMissingDeadline    = errors.New("missing deadline")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidFrequency   = errors.New("invalid frequency")
)

// ValidationErrors lists every error Validate methods can return, for
// callers that map them to a common failure class.
var ValidationErrors = []error{
	ErrInvalidAmount,
	ErrEmptyName,
	ErrNameTooLong,
	ErrEmptyDescription,
	ErrDescriptionTooLong,
	ErrEmptyCurrency,
	ErrMissingAccount,
	ErrMissingDeadline,
	ErrInvalidAccountType,
	ErrInvalidType,
	ErrInvalidFrequency,
}

// Signed returns the transaction's contribution to its account balance.
func (t Transaction) Signed() Money {
	if t.Type == TypeExpense {
		return Money{Cents: -t.Amount.Cents}
	}
	return t.Amount
}

func (t AccountType) Validate() error {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountInvestment:
		return nil
	}
	return ErrInvalidAccountType
}

func (t TransactionType) Validate() error {
	switch t {
	case TypeExpense, TypeIncome:
		return nil
	}
	return ErrInvalidType
}

func (f Frequency) Validate() error {
	switch f {
	case Monthly, Yearly, Weekly:
		return nil
	}
	return ErrInvalidFrequency
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyName
	}
	if len(a.Name) > 200 {
		return ErrNameTooLong
	}
	if err := a.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(a.Currency) == "" {
		return ErrEmptyCurrency
	}
	return nil
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.AccountID == "" {
		return ErrMissingAccount
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if g.Deadline.IsZero() {
		return ErrMissingDeadline
	}
	return nil
}

func (s Subscription) Validate() error {
	if len(strings.TrimSpace(s.Name)) == 0 {
		return ErrEmptyName
	}
	if s.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if err := s.Frequency.Validate(); err != nil {
		return err
	}
	return nil
}
