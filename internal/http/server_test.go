package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

const testSecret = "test-secret-0123456789abcdef"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	svc := services.NewFinanceService(repo)
	srv := NewServer(ServerConfig{
		Addr:             ":0",
		JWTSecret:        testSecret,
		OverviewCacheTTL: time.Minute,
	}, svc)
	t.Cleanup(srv.rateLimiter.Stop)
	return srv
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	r := httptest.NewRequest(method, path, &buf)
	r.RemoteAddr = "127.0.0.1:49152"
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, r)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func createAccount(t *testing.T, srv *Server, token string) accountJSON {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/accounts", token, map[string]any{
		"name":     "Checking",
		"type":     "checking",
		"balance":  "1000.00",
		"currency": "EUR",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: status %d body %s", rec.Code, rec.Body.String())
	}
	return decodeBody[accountJSON](t, rec)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, srv, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
	}
}

func TestCreateAccountRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/accounts", "", map[string]any{
		"name": "Checking", "type": "checking", "currency": "EUR",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestListAccountsAnonymousReturnsEmpty(t *testing.T) {
	srv := newTestServer(t)
	createAccount(t, srv, tokenFor(t, "alice"))

	rec := doJSON(t, srv, http.MethodGet, "/api/accounts", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeBody[[]accountJSON](t, rec); len(got) != 0 {
		t.Fatalf("expected empty list, got %d accounts", len(got))
	}
}

func TestAccountLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, "alice")

	created := createAccount(t, srv, token)
	if created.ID == "" || created.Name != "Checking" {
		t.Fatalf("unexpected account %+v", created)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/accounts", token, nil)
	accounts := decodeBody[[]accountJSON](t, rec)
	if len(accounts) != 1 || accounts[0].ID != created.ID {
		t.Fatalf("expected the created account, got %+v", accounts)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/accounts", tokenFor(t, "alice"), map[string]any{
		"name": "Checking", "type": "piggy-bank", "currency": "EUR",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
	}
}

func TestPostTransactionAdjustsBalance(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, "alice")
	account := createAccount(t, srv, token)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", token, map[string]any{
		"accountId":   account.ID,
		"description": "Groceries",
		"amount":      "150.00",
		"type":        "expense",
		"category":    "Food",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("post transaction: status %d body %s", rec.Code, rec.Body.String())
	}

	accounts := decodeBody[[]accountJSON](t, doJSON(t, srv, http.MethodGet, "/api/accounts", token, nil))
	if got := accounts[0].Balance.Cents; got != 85000 {
		t.Fatalf("balance = %d cents, want 85000", got)
	}
}

func TestPostTransactionForeignAccount(t *testing.T) {
	srv := newTestServer(t)
	account := createAccount(t, srv, tokenFor(t, "alice"))

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", tokenFor(t, "mallory"), map[string]any{
		"accountId":   account.ID,
		"description": "Theft",
		"amount":      "1.00",
		"type":        "expense",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/transactions", tokenFor(t, "alice"), map[string]any{
		"accountId":   "does-not-exist",
		"description": "Ghost",
		"amount":      "1.00",
		"type":        "expense",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGoalProgressFlow(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, "alice")

	rec := doJSON(t, srv, http.MethodPost, "/api/goals", token, map[string]any{
		"name":         "Vacation",
		"targetAmount": "1000.00",
		"deadline":     time.Now().AddDate(0, 6, 0).UnixMilli(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal: status %d body %s", rec.Code, rec.Body.String())
	}
	goal := decodeBody[goalJSON](t, rec)

	rec = doJSON(t, srv, http.MethodPatch, "/api/goals/"+goal.ID+"/progress", token, map[string]any{
		"currentAmount": "250.00",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update progress: status %d body %s", rec.Code, rec.Body.String())
	}

	goals := decodeBody[[]goalJSON](t, doJSON(t, srv, http.MethodGet, "/api/goals", token, nil))
	if len(goals) != 1 || goals[0].CurrentAmount.Cents != 25000 {
		t.Fatalf("unexpected goals %+v", goals)
	}

	rec = doJSON(t, srv, http.MethodPatch, "/api/goals/"+goal.ID+"/progress", tokenFor(t, "mallory"), map[string]any{
		"currentAmount": "999.00",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("intruder update: status %d, want 403", rec.Code)
	}
}

func TestSubscriptionRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, "alice")

	rec := doJSON(t, srv, http.MethodPost, "/api/subscriptions", token, map[string]any{
		"name":       "Streaming",
		"amount":     "9.99",
		"frequency":  "monthly",
		"category":   "Entertainment",
		"nextCharge": time.Now().AddDate(0, 1, 0).UnixMilli(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create subscription: status %d body %s", rec.Code, rec.Body.String())
	}

	subs := decodeBody[[]subscriptionJSON](t, doJSON(t, srv, http.MethodGet, "/api/subscriptions", token, nil))
	if len(subs) != 1 || subs[0].Amount.Cents != 999 {
		t.Fatalf("unexpected subscriptions %+v", subs)
	}
}

func TestOverviewEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, "alice")
	account := createAccount(t, srv, token)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", token, map[string]any{
		"accountId":   account.ID,
		"description": "Groceries",
		"amount":      "40.00",
		"type":        "expense",
		"category":    "Food",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("post transaction: status %d", rec.Code)
	}

	ov := decodeBody[overviewJSON](t, doJSON(t, srv, http.MethodGet, "/api/overview", token, nil))
	if ov.MonthlyExpenses.Cents != 4000 {
		t.Fatalf("monthly expenses = %d, want 4000", ov.MonthlyExpenses.Cents)
	}
	if len(ov.SpendingTrend) != 30 {
		t.Fatalf("trend length = %d, want 30", len(ov.SpendingTrend))
	}
	if last := ov.SpendingTrend[29]; last.Amount.Cents != 4000 {
		t.Fatalf("today's trend amount = %d, want 4000", last.Amount.Cents)
	}
}

func TestOverviewCacheInvalidatedByPosting(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, "alice")
	account := createAccount(t, srv, token)

	// Warm the cache with an empty overview.
	first := decodeBody[overviewJSON](t, doJSON(t, srv, http.MethodGet, "/api/overview", token, nil))
	if first.MonthlyExpenses.Cents != 0 {
		t.Fatalf("expected empty overview, got %+v", first)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", token, map[string]any{
		"accountId":   account.ID,
		"description": "Coffee",
		"amount":      "3.50",
		"type":        "expense",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("post transaction: status %d", rec.Code)
	}

	second := decodeBody[overviewJSON](t, doJSON(t, srv, http.MethodGet, "/api/overview", token, nil))
	if second.MonthlyExpenses.Cents != 350 {
		t.Fatalf("expected fresh overview after posting, got %d cents", second.MonthlyExpenses.Cents)
	}
}

func TestOverviewAnonymous(t *testing.T) {
	srv := newTestServer(t)

	ov := decodeBody[overviewJSON](t, doJSON(t, srv, http.MethodGet, "/api/overview", "", nil))
	if ov.MonthlyIncome.Cents != 0 || ov.MonthlyExpenses.Cents != 0 || len(ov.SpendingTrend) != 30 {
		t.Fatalf("unexpected anonymous overview %+v", ov)
	}
}

func TestCategorizeWithoutClassifier(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/categorize", tokenFor(t, "alice"), map[string]any{
		"description": "Lunch at the deli",
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestMalformedBody(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, "alice")

	r := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewBufferString("{not json"))
	r.RemoteAddr = "127.0.0.1:49152"
	r.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSecurityHeadersPresent(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", "", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
}
