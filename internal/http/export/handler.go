package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocketbook/internal/export"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export.csv", h.download(export.FormatCSV))
	r.Get("/export.xlsx", h.download(export.FormatXLSX))
}

// download buffers the file so a failed listing still gets a proper error status.
func (h *Handler) download(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := respond.Filter(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := h.svc.Export(r.Context(), filter, format, &buf); err != nil {
			respond.Error(w, r, err)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", format.Filename(h.now())))

		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("failed to write export", "format", format, "error", err)
		}
	}
}
