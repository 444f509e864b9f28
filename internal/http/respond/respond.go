// Package respond writes JSON bodies and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/account"
	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

// ErrBadRequest marks malformed request input.
var ErrBadRequest = errors.New("bad request")

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status returns the HTTP status for err.
func Status(err error) int {
	var unsupported *importer.UnsupportedFormatError

	switch {
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, importer.ErrMissingRequiredColumns),
		errors.Is(err, importer.ErrUnknownColumn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, category.ErrInvalidKind),
		errors.Is(err, category.ErrInvalidName),
		errors.Is(err, account.ErrInvalidName),
		errors.Is(err, transaction.ErrNegativeAmount),
		errors.Is(err, transaction.ErrMissingDate):
		return http.StatusBadRequest
	case database.IsStorageError(err):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// Error writes err as plain text with the status Status picks. Storage and
// unexpected failures are logged and hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}

	http.Error(w, msg, status)
}

// Filter reads start, end, category_id (repeatable) and limit from the query.
func Filter(r *http.Request) (transaction.Filter, error) {
	q := r.URL.Query()

	var filter transaction.Filter

	if s := q.Get("start"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("%w: start %q is not a YYYY-MM-DD date", ErrBadRequest, s)
		}

		filter.Start = new(t)
	}

	if s := q.Get("end"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("%w: end %q is not a YYYY-MM-DD date", ErrBadRequest, s)
		}

		filter.End = new(t)
	}

	for _, s := range q["category_id"] {
		id, err := uuid.Parse(s)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid category_id %q", ErrBadRequest, s)
		}

		filter.CategoryIDs = append(filter.CategoryIDs, id)
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("%w: invalid limit %q", ErrBadRequest, s)
		}

		filter.Limit = n
	}

	return filter.Normalize(), nil
}
