// file: router/router_test.go

package router_test

import (
	"database/sql"
	"encoding/json"
	"go-ledger-api/app"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// memoryRepository is an in-memory ITransactionRepository used to drive the
// real router without a database. Rows keep insertion order, which matches
// the created_at ordering the SQL repository imposes.
type memoryRepository struct {
	mu           sync.Mutex
	transactions []*model.Transaction
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{}
}

func (r *memoryRepository) CreateTransaction(transaction *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	transaction.CreatedAt = time.Now()
	stored := *transaction
	r.transactions = append(r.transactions, &stored)
	return nil
}

func (r *memoryRepository) GetTransactionsBySessionID(sessionID string) ([]*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*model.Transaction
	for _, t := range r.transactions {
		if t.SessionID == sessionID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *memoryRepository) GetTransactionByID(id, sessionID string) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.transactions {
		if t.ID == id && t.SessionID == sessionID {
			return t, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryRepository) GetSummaryBySessionID(sessionID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, t := range r.transactions {
		if t.SessionID == sessionID {
			sum += t.Amount
		}
	}
	return sum, nil
}

// --- Test Helper Functions ---

func newTestApp() (*app.TestApp, *memoryRepository) {
	repo := newMemoryRepository()
	return app.NewTestApp(repo, nil), repo
}

func createTransaction(t *testing.T, testApp *app.TestApp, body string, sessionCookie *http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionCookie != nil {
		req.AddCookie(sessionCookie)
	}
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	return rr
}

func sessionCookieFrom(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == "sessionId" {
			return c
		}
	}
	t.Fatal("response carries no sessionId cookie")
	return nil
}

func listTransactions(t *testing.T, testApp *app.TestApp, sessionCookie *http.Cookie) []model.Transaction {
	req, _ := http.NewRequest("GET", "/transactions", nil)
	req.AddCookie(sessionCookie)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	return response.Transactions
}

// --- Test Suites ---

func TestHealthCheck(t *testing.T) {
	testApp, _ := newTestApp()

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"API is healthy and running"}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	testApp, _ := newTestApp()

	req, _ := http.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateTransaction(t *testing.T) {
	testApp, _ := newTestApp()

	rr := createTransaction(t, testApp, `{"title":"new Transaction","amount":5000,"type":"credit"}`, nil)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"message":"Transaction created with success"}`, rr.Body.String())

	cookie := sessionCookieFrom(t, rr)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 604800, cookie.MaxAge)
}

func TestCreateTransaction_Validation(t *testing.T) {
	testApp, repo := newTestApp()

	tests := []struct {
		name string
		body string
	}{
		{"type outside enum", `{"title":"t","amount":100,"type":"transfer"}`},
		{"missing title", `{"amount":100,"type":"credit"}`},
		{"missing amount", `{"title":"t","type":"credit"}`},
		{"wrong amount type", `{"title":"t","amount":"100","type":"credit"}`},
		{"not json", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := createTransaction(t, testApp, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	// Nothing may reach storage on a validation failure.
	assert.Empty(t, repo.transactions)
}

func TestCreationRoundTrip(t *testing.T) {
	testApp, _ := newTestApp()

	created := createTransaction(t, testApp, `{"title":"new Transaction","amount":5000,"type":"credit"}`, nil)
	cookie := sessionCookieFrom(t, created)

	transactions := listTransactions(t, testApp, cookie)

	assert.Len(t, transactions, 1)
	assert.Equal(t, "new Transaction", transactions[0].Title)
	assert.Equal(t, 5000.0, transactions[0].Amount)
}

func TestSignConvention(t *testing.T) {
	testApp, _ := newTestApp()

	created := createTransaction(t, testApp, `{"title":"Credit Transaction","amount":5000,"type":"credit"}`, nil)
	cookie := sessionCookieFrom(t, created)
	createTransaction(t, testApp, `{"title":"Debit Transaction","amount":2000,"type":"debit"}`, cookie)

	transactions := listTransactions(t, testApp, cookie)

	assert.Len(t, transactions, 2)
	assert.Equal(t, 5000.0, transactions[0].Amount)
	assert.Equal(t, -2000.0, transactions[1].Amount)
}

func TestListTransactions_RequiresSession(t *testing.T) {
	testApp, _ := newTestApp()

	for _, path := range []string{"/transactions", "/transactions/summary", "/transactions/8f14e45f-ceea-4672-a106-6df9a1f1cd2a"} {
		t.Run(path, func(t *testing.T) {
			req, _ := http.NewRequest("GET", path, nil)
			rr := httptest.NewRecorder()
			testApp.Router.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestGetTransactionByID(t *testing.T) {
	testApp, _ := newTestApp()

	created := createTransaction(t, testApp, `{"title":"new Transaction","amount":5000,"type":"credit"}`, nil)
	cookie := sessionCookieFrom(t, created)
	transactionID := listTransactions(t, testApp, cookie)[0].ID

	t.Run("success", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/transactions/"+transactionID, nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var response struct {
			Transactions model.Transaction `json:"transactions"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, "new Transaction", response.Transactions.Title)
		assert.Equal(t, 5000.0, response.Transactions.Amount)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/transactions/0c7f2a2d-98f3-4b41-9d1a-6d2b1f0b22bb", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id is rejected", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/transactions/not-a-uuid", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSessionIsolation(t *testing.T) {
	testApp, _ := newTestApp()

	createdA := createTransaction(t, testApp, `{"title":"session A entry","amount":5000,"type":"credit"}`, nil)
	cookieA := sessionCookieFrom(t, createdA)
	transactionID := listTransactions(t, testApp, cookieA)[0].ID

	createdB := createTransaction(t, testApp, `{"title":"session B entry","amount":10,"type":"credit"}`, nil)
	cookieB := sessionCookieFrom(t, createdB)
	assert.NotEqual(t, cookieA.Value, cookieB.Value)

	t.Run("list is scoped", func(t *testing.T) {
		transactions := listTransactions(t, testApp, cookieB)
		assert.Len(t, transactions, 1)
		assert.Equal(t, "session B entry", transactions[0].Title)
	})

	t.Run("detail lookup with another session's id is not found", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/transactions/"+transactionID, nil)
		req.AddCookie(cookieB)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("summary is scoped", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/transactions/summary", nil)
		req.AddCookie(cookieB)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"summary":{"amount":10}}`, rr.Body.String())
	})
}

func TestSummary(t *testing.T) {
	testApp, _ := newTestApp()

	created := createTransaction(t, testApp, `{"title":"Credit Transaction","amount":5000,"type":"credit"}`, nil)
	cookie := sessionCookieFrom(t, created)
	createTransaction(t, testApp, `{"title":"Debit Transaction","amount":2000,"type":"debit"}`, cookie)

	req, _ := http.NewRequest("GET", "/transactions/summary", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"summary":{"amount":3000}}`, rr.Body.String())
}

func TestSummary_EmptySession(t *testing.T) {
	testApp, _ := newTestApp()

	// Any cookie value scopes the read; an unknown session simply has no rows.
	cookie := &http.Cookie{Name: "sessionId", Value: "b1e2d3c4-0000-4111-8222-333344445555"}
	req, _ := http.NewRequest("GET", "/transactions/summary", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"summary":{"amount":0}}`, rr.Body.String())
}

func TestListTransactions_EmptySessionIsAnArray(t *testing.T) {
	testApp, _ := newTestApp()

	cookie := &http.Cookie{Name: "sessionId", Value: "b1e2d3c4-0000-4111-8222-333344445555"}
	req, _ := http.NewRequest("GET", "/transactions", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"transactions":[]}`, rr.Body.String())
}

func TestCookieIssuance(t *testing.T) {
	testApp, _ := newTestApp()

	t.Run("independent cookieless requests mint distinct sessions", func(t *testing.T) {
		first := createTransaction(t, testApp, `{"title":"first","amount":1,"type":"credit"}`, nil)
		second := createTransaction(t, testApp, `{"title":"second","amount":1,"type":"credit"}`, nil)

		assert.NotEqual(t, sessionCookieFrom(t, first).Value, sessionCookieFrom(t, second).Value)
	})

	t.Run("resent cookie reuses the session", func(t *testing.T) {
		first := createTransaction(t, testApp, `{"title":"first","amount":1,"type":"credit"}`, nil)
		cookie := sessionCookieFrom(t, first)

		second := createTransaction(t, testApp, `{"title":"second","amount":2,"type":"credit"}`, cookie)
		assert.Equal(t, http.StatusCreated, second.Code)
		// No new cookie is set when one was supplied.
		for _, c := range second.Result().Cookies() {
			assert.NotEqual(t, "sessionId", c.Name)
		}

		transactions := listTransactions(t, testApp, cookie)
		assert.Len(t, transactions, 2)
	})
}
