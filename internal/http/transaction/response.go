package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

type transactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Category    string          `json:"category,omitempty"`
	Kind        category.Kind   `json:"kind,omitempty"`
	Account     string          `json:"account"`
	CreatedAt   time.Time       `json:"created_at"`
}

type summaryResponse struct {
	Start     string          `json:"start,omitempty"`
	End       string          `json:"end,omitempty"`
	Spent     decimal.Decimal `json:"spent"`
	Count     int64           `json:"count"`
	Budget    decimal.Decimal `json:"budget"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   decimal.Decimal `json:"percent"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.Format(time.DateOnly),
		Description: tx.Description,
		Amount:      tx.Amount,
		CategoryID:  tx.CategoryID,
		Category:    tx.CategoryName,
		Kind:        tx.CategoryKind,
		Account:     tx.Account,
		CreatedAt:   tx.CreatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func dateString(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.DateOnly)
}
