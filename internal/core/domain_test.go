package core

import (
	"testing"
	"time"
)

func TestTransactionSigned(t *testing.T) {
	exp := Transaction{Amount: Money{Cents: 150}, Type: TypeExpense}
	if got := exp.Signed().Cents; got != -150 {
		t.Fatalf("expense signed = %d, want -150", got)
	}
	inc := Transaction{Amount: Money{Cents: 150}, Type: TypeIncome}
	if got := inc.Signed().Cents; got != 150 {
		t.Fatalf("income signed = %d, want 150", got)
	}
}

func TestAccountValidate(t *testing.T) {
	good := Account{Name: "Main", Type: AccountChecking, Currency: "EUR"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Account{
		{Name: "", Type: AccountChecking, Currency: "EUR"},
		{Name: "Main", Type: "slush fund", Currency: "EUR"},
		{Name: "Main", Type: AccountSavings, Currency: ""},
	}
	for i, a := range bads {
		if err := a.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Description: "groceries",
		Amount:      Money{Cents: 1234},
		Type:        TypeExpense,
		AccountID:   "acc-1",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Description: "", Amount: Money{Cents: 1}, Type: TypeExpense, AccountID: "a"},
		{Description: "x", Amount: Money{Cents: -1}, Type: TypeExpense, AccountID: "a"},
		{Description: "x", Amount: Money{Cents: 1}, Type: "transfer", AccountID: "a"},
		{Description: "x", Amount: Money{Cents: 1}, Type: TypeIncome, AccountID: ""},
	}
	for i, x := range bads {
		if err := x.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	deadline := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	good := Goal{Name: "Holiday", TargetAmount: Money{Cents: 100000}, Deadline: deadline}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Goal{
		{Name: "", TargetAmount: Money{Cents: 1}, Deadline: deadline},
		{Name: "x", TargetAmount: Money{Cents: 0}, Deadline: deadline},
		{Name: "x", TargetAmount: Money{Cents: 1}, CurrentAmount: Money{Cents: -5}, Deadline: deadline},
		{Name: "x", TargetAmount: Money{Cents: 1}},
	}
	for i, g := range bads {
		if err := g.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSubscriptionValidate(t *testing.T) {
	good := Subscription{Name: "Streaming", Amount: Money{Cents: 999}, Frequency: Monthly}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Subscription{Name: "x", Amount: Money{Cents: 1}, Frequency: "daily"}).Validate(); err == nil {
		t.Fatalf("expected error for unknown frequency")
	}
}
