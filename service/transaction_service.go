package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

const summaryCacheTTL = 10 * time.Minute

// TransactionService implements the ledger rules: the credit/debit sign
// convention, server-side id minting, and session-scoped reads with a
// cache-aside summary.
type TransactionService struct {
	repo  repository.ITransactionRepository
	cache *summaryCache
}

// NewTransactionService creates a new TransactionService. cacheClient may be
// nil, in which case summary caching is disabled and every read hits the
// database.
func NewTransactionService(repo repository.ITransactionRepository, cacheClient ICacheClient) *TransactionService {
	return &TransactionService{
		repo:  repo,
		cache: newSummaryCache(cacheClient),
	}
}

// CreateTransaction records a new ledger entry for the given session. The
// stored amount is the request amount negated for debits and kept as-is for
// credits; no other transformation is applied.
func (s *TransactionService) CreateTransaction(ctx context.Context, sessionID string, req model.CreateTransactionRequest) (*model.Transaction, error) {
	amount := *req.Amount
	if req.Type == model.TypeDebit {
		amount = -amount
	}

	transaction := &model.Transaction{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Amount:    amount,
		SessionID: sessionID,
	}

	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"session_id":     sessionID,
		"type":           req.Type,
	})
	log.Info("Creating transaction")

	if err := s.repo.CreateTransaction(transaction); err != nil {
		return nil, fmt.Errorf("could not create transaction record: %w", err)
	}

	// The stored summary for this session is now stale.
	if s.cache != nil {
		if err := s.cache.del(ctx, summaryCacheKey(sessionID)); err != nil {
			log.WithError(err).Warn("Failed to invalidate summary cache")
		}
	}

	log.Info("Transaction created successfully")
	return transaction, nil
}

// ListTransactions retrieves every transaction belonging to the session in
// creation order. The result is never nil so callers always serialize a JSON
// array.
func (s *TransactionService) ListTransactions(ctx context.Context, sessionID string) ([]*model.Transaction, error) {
	transactions, err := s.repo.GetTransactionsBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*model.Transaction{}
	}
	return transactions, nil
}

// GetTransaction retrieves a single transaction scoped to the session. A row
// owned by another session is indistinguishable from a missing one; both map
// to ErrTransactionNotFound.
func (s *TransactionService) GetTransaction(ctx context.Context, sessionID, id string) (*model.Transaction, error) {
	transaction, err := s.repo.GetTransactionByID(id, sessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetSummary returns the session balance, utilizing a cache-aside strategy.
// Cache failures are logged and fall through to the database; caching never
// changes the result, only its latency.
func (s *TransactionService) GetSummary(ctx context.Context, sessionID string) (*model.Summary, error) {
	cacheKey := summaryCacheKey(sessionID)

	if s.cache != nil {
		cached, err := s.cache.get(ctx, cacheKey)
		if err == nil {
			var summary model.Summary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	amount, err := s.repo.GetSummaryBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	summary := &model.Summary{Amount: amount}

	if s.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.cache.set(ctx, cacheKey, data, summaryCacheTTL); err != nil {
				logger.Log.WithError(err).Warn("Failed to store summary in cache")
			}
		}
	}

	return summary, nil
}

func summaryCacheKey(sessionID string) string {
	return fmt.Sprintf("summary:%s", sessionID)
}
