package handler

import (
	"encoding/json"
	"go-ledger-api/common"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/service"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	service *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// CreateTransaction godoc
// @Summary      Record a new transaction
// @Description  Records a credit or debit entry. Debits are stored negated. Mints a session cookie when the request carries none.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        transaction body model.CreateTransactionRequest true "The transaction to record"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Malformed body or validation failure"
// @Failure      500  {object}  common.AppError "Internal server error while persisting the transaction"
// @Router       /transactions [post]
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateTransactionRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	// This is the one route that may run without a session: a client with no
	// cookie gets a fresh session minted here, attached to the response, and
	// owning the new row. A resent cookie is reused unchanged.
	var sessionID string
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		sessionID = cookie.Value
	} else {
		sessionID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:   SessionCookieName,
			Value:  sessionID,
			Path:   "/",
			MaxAge: SessionCookieMaxAge,
		})
	}

	log := logger.Log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"type":       req.Type,
	})
	log.Info("Create transaction request received")

	if _, err := h.service.CreateTransaction(r.Context(), sessionID, req); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create transaction", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Transaction created with success"})
	return nil
}

// ListTransactions godoc
// @Summary      List the session's transactions
// @Description  Retrieves every transaction recorded under the caller's session, oldest first.
// @Tags         transactions
// @Produce      json
// @Success      200  {object}  map[string][]model.Transaction
// @Failure      401  {object}  common.AppError "Missing session cookie"
// @Failure      500  {object}  common.AppError "Internal server error while retrieving transactions"
// @Router       /transactions [get]
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	sessionID, ok := r.Context().Value(SessionIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid session in request context", nil)
	}

	transactions, err := h.service.ListTransactions(r.Context(), sessionID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transactions", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"transactions": transactions})
	return nil
}

// GetTransactionByID godoc
// @Summary      Get a single transaction
// @Description  Retrieves one transaction by id, scoped to the caller's session. Ids owned by other sessions read as not found.
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction UUID"
// @Success      200  {object}  map[string]model.Transaction
// @Failure      400  {object}  common.AppError "Malformed UUID in URL path"
// @Failure      401  {object}  common.AppError "Missing session cookie"
// @Failure      404  {object}  common.AppError "No such transaction in the caller's session"
// @Failure      500  {object}  common.AppError "Internal server error while retrieving the transaction"
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(w http.ResponseWriter, r *http.Request) *common.AppError {
	sessionID, ok := r.Context().Value(SessionIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid session in request context", nil)
	}

	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid transaction ID in URL path", err)
	}

	transaction, err := h.service.GetTransaction(r.Context(), sessionID, id)
	if err != nil {
		switch err {
		case service.ErrTransactionNotFound:
			return common.NewAppError(http.StatusNotFound, "Transaction not found", err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transaction", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"transactions": transaction})
	return nil
}

// GetSummary godoc
// @Summary      Get the session balance
// @Description  Returns the arithmetic sum of every transaction amount in the caller's session. An empty session sums to 0.
// @Tags         transactions
// @Produce      json
// @Success      200  {object}  map[string]model.Summary
// @Failure      401  {object}  common.AppError "Missing session cookie"
// @Failure      500  {object}  common.AppError "Internal server error while computing the summary"
// @Router       /transactions/summary [get]
func (h *TransactionHandler) GetSummary(w http.ResponseWriter, r *http.Request) *common.AppError {
	sessionID, ok := r.Context().Value(SessionIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid session in request context", nil)
	}

	summary, err := h.service.GetSummary(r.Context(), sessionID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve summary", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"summary": summary})
	return nil
}
