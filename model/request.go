// file: model/request.go

package model

// Transaction types accepted by the creation endpoint.
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// CreateTransactionRequest defines the payload for recording a new ledger
// entry. It includes validation tags to ensure data integrity at the entry
// point. Amount is a pointer so that an explicit zero passes the required
// check while a missing field does not; the API applies a sign, it does not
// enforce a magnitude.
type CreateTransactionRequest struct {
	Title  string   `json:"title" validate:"required"`
	Amount *float64 `json:"amount" validate:"required"`
	Type   string   `json:"type" validate:"required,oneof=credit debit"`
}
