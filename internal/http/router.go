package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/account"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/export"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/importfile"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/transaction"
)

// Options configure the middleware stack.
type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(
	categoriesV1 *category.Handler,
	transactionsV1 *transaction.Handler,
	accountsV1 *account.Handler,
	exportV1 *export.Handler,
	importV1 *importfile.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categoriesV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			accountsV1.Routes(r)
		})

		r.Get("/summary", transactionsV1.Summary)

		r.Group(exportV1.Routes)

		r.Route("/import", func(r chi.Router) {
			r.Use(middleware.AllowContentType("multipart/form-data"))
			importV1.Routes(r)
		})
	})

	return router
}
