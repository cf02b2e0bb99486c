package httpapi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-listing-cache/schema"
)

// RouterDependencies holds everything the router needs.
type RouterDependencies struct {
	Lister   FormLister
	Store    FormStore
	Registry *schema.Registry
	Logger   zerolog.Logger
	// BaseURL, when set, is used to build absolute links instead of the
	// request host.
	BaseURL string
	// LegacyPagingStatus answers malformed paging with 501.
	LegacyPagingStatus bool
}

// NewRouter creates the HTTP router.
func NewRouter(deps RouterDependencies) (http.Handler, error) {
	h := &handler{
		lister:       deps.Lister,
		store:        deps.Store,
		registry:     deps.Registry,
		legacyPaging: deps.LegacyPagingStatus,
	}
	if h.registry == nil {
		h.registry = schema.NewRegistry()
	}
	if deps.BaseURL != "" {
		u, err := url.Parse(deps.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		h.baseURL = u
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.AllowAll().Handler)
	r.Use(NoStore)

	r.Get("/health", health)
	r.Get("/error", fault)

	r.Route("/api", func(r chi.Router) {
		r.Get("/schema", h.listKinds)
		r.Get("/schema/{kind}", h.describeSchema)

		r.Route("/forms", func(r chi.Router) {
			r.Get("/", h.listForms)
			r.Post("/", h.createForm)
			r.Put("/", h.updateForm)
			r.Delete("/", h.deleteForm)
			r.Get("/{id}", h.getForm)
			r.Delete("/{id}", h.deleteForm)
		})
	})

	return r, nil
}
