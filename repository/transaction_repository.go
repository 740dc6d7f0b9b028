package repository

import (
	"database/sql"
	"go-ledger-api/logger"
	"go-ledger-api/model"

	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for transaction database operations.
type ITransactionRepository interface {
	CreateTransaction(transaction *model.Transaction) error
	GetTransactionsBySessionID(sessionID string) ([]*model.Transaction, error)
	GetTransactionByID(id, sessionID string) (*model.Transaction, error)
	GetSummaryBySessionID(sessionID string) (float64, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// CreateTransaction inserts a new ledger row. The id and session_id are
// generated by the caller; created_at is assigned by the database.
func (r *TransactionRepository) CreateTransaction(transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"session_id":     transaction.SessionID,
		"amount":         transaction.Amount,
	})
	log.Info("Executing query to create a new transaction")

	query := `INSERT INTO transactions (id, title, amount, session_id) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := r.DB.QueryRow(query, transaction.ID, transaction.Title, transaction.Amount, transaction.SessionID).Scan(&transaction.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

// GetTransactionsBySessionID retrieves all transactions belonging to a
// session, oldest first. The id tiebreaker keeps the order stable when rows
// share a timestamp.
func (r *TransactionRepository) GetTransactionsBySessionID(sessionID string) ([]*model.Transaction, error) {
	log := logger.Log.WithField("session_id", sessionID)
	log.Info("Executing query to get transactions by session ID")

	query := `
		SELECT id, title, amount, session_id, created_at
		FROM transactions
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.Query(query, sessionID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transactions by session ID")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.Title, &t.Amount, &t.SessionID, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}

// GetTransactionByID retrieves a single transaction. The lookup is compound
// on (id, session_id) so a valid id owned by another session behaves exactly
// like a missing row. Returns sql.ErrNoRows when there is no match.
func (r *TransactionRepository) GetTransactionByID(id, sessionID string) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": id,
		"session_id":     sessionID,
	})
	log.Info("Executing query to get transaction by ID")

	transaction := &model.Transaction{}
	query := `SELECT id, title, amount, session_id, created_at FROM transactions WHERE id = $1 AND session_id = $2`
	err := r.DB.QueryRow(query, id, sessionID).Scan(&transaction.ID, &transaction.Title, &transaction.Amount, &transaction.SessionID, &transaction.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Transaction not found for session")
		} else {
			log.WithError(err).Error("Failed to execute get transaction by ID query")
		}
		return nil, err
	}
	return transaction, nil
}

// GetSummaryBySessionID returns the sum of all amounts recorded under a
// session. COALESCE pins the empty-session result to 0 instead of NULL.
func (r *TransactionRepository) GetSummaryBySessionID(sessionID string) (float64, error) {
	log := logger.Log.WithField("session_id", sessionID)
	log.Info("Executing query to get summary by session ID")

	var amount float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE session_id = $1`
	err := r.DB.QueryRow(query, sessionID).Scan(&amount)
	if err != nil {
		log.WithError(err).Error("Failed to execute summary query")
		return 0, err
	}
	return amount, nil
}
