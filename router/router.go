package router

import (
	"go-ledger-api/handler"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter binds the transaction routes to the mux. Creation runs without
// the session guard because it is the route that mints sessions; every other
// transaction route requires an existing cookie. metrics may be nil to
// disable instrumentation.
func NewRouter(transactionHandler *handler.TransactionHandler, metrics *handler.MetricsMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("POST /transactions", metrics.Wrap("/transactions",
		handler.ErrorHandlingMiddleware(transactionHandler.CreateTransaction)))

	mux.Handle("GET /transactions", metrics.Wrap("/transactions",
		handler.SessionMiddleware(handler.ErrorHandlingMiddleware(transactionHandler.ListTransactions))))

	// The literal /summary pattern must be registered alongside the {id}
	// wildcard; ServeMux prefers the more specific route.
	mux.Handle("GET /transactions/summary", metrics.Wrap("/transactions/summary",
		handler.SessionMiddleware(handler.ErrorHandlingMiddleware(transactionHandler.GetSummary))))

	mux.Handle("GET /transactions/{id}", metrics.Wrap("/transactions/{id}",
		handler.SessionMiddleware(handler.ErrorHandlingMiddleware(transactionHandler.GetTransactionByID))))

	return mux
}
