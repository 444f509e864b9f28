package category

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.listByKind)
	r.Get("/all", h.listAll)
	r.Post("/", h.create)
}

type categoryResponse struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Kind      category.Kind `json:"kind"`
	Label     string        `json:"label"`
	CreatedAt time.Time     `json:"created_at"`
}

func (h *Handler) listByKind(w http.ResponseWriter, r *http.Request) {
	kind, err := category.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	names, err := h.svc.ListByKind(r.Context(), kind)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, names)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListAll(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]categoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = categoryResponse{
			ID:        c.ID,
			Name:      c.Name,
			Kind:      c.Kind,
			Label:     c.Label(),
			CreatedAt: c.CreatedAt,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Kind string `json:"kind" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	kind, err := category.ParseKind(req.Kind)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Create(r.Context(), req.Name, kind); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
