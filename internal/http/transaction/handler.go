package transaction

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

type Handler struct {
	svc    *transaction.Service
	budget decimal.Decimal
	now    func() time.Time
}

// NewHandler serves transactions. budget is the monthly budget summaries compare against.
func NewHandler(svc *transaction.Service, budget decimal.Decimal) *Handler {
	return &Handler{svc: svc, budget: budget, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
}

type createTransactionRequest struct {
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Account     string          `json:"account"`
	// Either CategoryID or Category (optionally narrowed by Kind).
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Category   string     `json:"category,omitempty" validate:"excluded_with=CategoryID"`
	Kind       string     `json:"kind,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		respond.Error(w, r, fmt.Errorf("%w: date %q is not a YYYY-MM-DD date", respond.ErrBadRequest, req.Date))
		return
	}

	params := transaction.CreateParams{
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount,
		Account:     req.Account,
	}

	var tx *transaction.Transaction

	if req.CategoryID != nil {
		params.CategoryID = req.CategoryID
		tx, err = h.svc.AddWithCategoryID(r.Context(), params)
	} else {
		params.CategoryName = req.Category
		params.CategoryKind = category.Kind(req.Kind)
		tx, err = h.svc.AddByName(r.Context(), params)
	}

	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := respond.Filter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

// Summary reports spending against the monthly budget. Without start and
// end it covers the current month.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := respond.Filter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.Start == nil && filter.End == nil {
		first, last := transaction.MonthRange(h.now())
		filter.Start, filter.End = &first, &last
	}

	sum, err := h.svc.Summary(r.Context(), filter, h.budget)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, summaryResponse{
		Start:     dateString(filter.Start),
		End:       dateString(filter.End),
		Spent:     sum.Spent,
		Count:     sum.Count,
		Budget:    sum.Budget,
		Remaining: sum.Remaining,
		Percent:   sum.Percent,
	})
}
