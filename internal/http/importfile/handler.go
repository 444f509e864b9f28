package importfile

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
)

// previewRows caps the records returned by the preview endpoint.
const previewRows = 20

// Defaults seed the import options a request does not set.
type Defaults struct {
	MaxUploadBytes          int64
	DateFormat              string
	CreateMissingCategories bool
	DefaultKind             category.Kind
}

type Handler struct {
	svc      *importer.Service
	defaults Defaults
}

func NewHandler(svc *importer.Service, defaults Defaults) *Handler {
	return &Handler{svc: svc, defaults: defaults}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
	r.Post("/preview", h.preview)
}

type recordResponse struct {
	Line        int           `json:"line"`
	Date        string        `json:"date,omitempty"`
	Description string        `json:"description"`
	Amount      string        `json:"amount,omitempty"`
	Category    string        `json:"category"`
	Account     string        `json:"account"`
	Kind        category.Kind `json:"kind"`
}

type previewResponse struct {
	Columns  []string                  `json:"columns"`
	Mapping  map[importer.Field]string `json:"mapping"`
	Total    int                       `json:"total"`
	Records  []recordResponse          `json:"records"`
	Warnings []importer.Issue          `json:"warnings"`
}

type skipResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type importResponse struct {
	Presented int              `json:"presented"`
	Imported  int              `json:"imported"`
	Skipped   []skipResponse   `json:"skipped"`
	Warnings  []importer.Issue `json:"warnings"`
	Error     string           `json:"error,omitempty"`
}

// upload is a parsed multipart import request.
type upload struct {
	table   *importer.Table
	mapping importer.Mapping
	opts    importer.Options
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	up, err := h.parse(w, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.Preview(up.table, up.mapping, up.opts, previewRows)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := previewResponse{
		Columns:  p.Columns,
		Mapping:  p.Mapping,
		Total:    p.Total,
		Records:  make([]recordResponse, len(p.Records)),
		Warnings: nonNil(p.Warnings),
	}

	for i, rec := range p.Records {
		resp.Records[i] = toRecordResponse(rec)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	up, err := h.parse(w, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.svc.Import(r.Context(), up.table, up.mapping, up.opts)
	if res == nil {
		respond.Error(w, r, err)
		return
	}

	resp := importResponse{
		Presented: res.Presented,
		Imported:  res.Imported,
		Skipped:   make([]skipResponse, len(res.Skipped)),
		Warnings:  nonNil(res.Warnings),
	}

	for i, s := range res.Skipped {
		resp.Skipped[i] = skipResponse{Line: s.Line, Reason: s.Reason}
	}

	status := http.StatusOK
	if err != nil {
		// Rows before the failure stay imported; report them with the error.
		status = respond.Status(err)
		resp.Error = http.StatusText(status)
	}

	respond.JSON(w, status, resp)
}

// parse reads the uploaded file and the mapping and option form fields.
func (h *Handler) parse(w http.ResponseWriter, r *http.Request) (*upload, error) {
	maxMemory := int64(32 << 20)
	if h.defaults.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.defaults.MaxUploadBytes)
		maxMemory = h.defaults.MaxUploadBytes
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: file exceeds %d bytes", respond.ErrBadRequest, tooLarge.Limit)
		}

		return nil, fmt.Errorf("%w: %w", respond.ErrBadRequest, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: missing file field: %w", respond.ErrBadRequest, err)
	}
	defer file.Close()

	table, err := importer.Parse(header.Filename, file)
	if err != nil {
		return nil, err
	}

	mapping := importer.InferMapping(table.Columns)

	for key, values := range r.MultipartForm.Value {
		name, ok := strings.CutPrefix(key, "map_")
		if !ok || len(values) == 0 {
			continue
		}

		field, ok := importer.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", respond.ErrBadRequest, name)
		}

		mapping.Set(field, values[0])
	}

	opts, err := h.options(r)
	if err != nil {
		return nil, err
	}

	return &upload{table: table, mapping: mapping, opts: opts}, nil
}

func (h *Handler) options(r *http.Request) (importer.Options, error) {
	opts := importer.Options{
		DateFormat:              h.defaults.DateFormat,
		CreateMissingCategories: h.defaults.CreateMissingCategories,
		DefaultKind:             h.defaults.DefaultKind,
	}

	if _, ok := r.MultipartForm.Value["date_format"]; ok {
		opts.DateFormat = strings.TrimSpace(r.FormValue("date_format"))
	}

	if s := r.FormValue("default_kind"); s != "" {
		kind, err := category.ParseKind(s)
		if err != nil {
			return opts, err
		}

		opts.DefaultKind = kind
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"create_missing", &opts.CreateMissingCategories},
		{"invert_amount", &opts.InvertAmount},
		{"european_numbers", &opts.EuropeanNumbers},
	}

	for _, f := range flags {
		s := r.FormValue(f.name)
		if s == "" {
			continue
		}

		v, err := strconv.ParseBool(s)
		if err != nil {
			return opts, fmt.Errorf("%w: %s must be a boolean", respond.ErrBadRequest, f.name)
		}

		*f.dst = v
	}

	return opts, nil
}

func toRecordResponse(rec importer.Record) recordResponse {
	resp := recordResponse{
		Line:        rec.Line,
		Description: rec.Description,
		Category:    rec.Category,
		Account:     rec.Account,
		Kind:        rec.Kind,
	}

	if rec.Date != nil {
		resp.Date = rec.Date.Format(time.DateOnly)
	}

	if rec.Amount != nil {
		resp.Amount = rec.Amount.String()
	}

	return resp
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
