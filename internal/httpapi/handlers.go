package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-listing-cache/envelope"
	"github.com/goliatone/go-listing-cache/internal/forms"
	"github.com/goliatone/go-listing-cache/listing"
	"github.com/goliatone/go-listing-cache/schema"
)

// FormLister serves list requests for forms.
type FormLister interface {
	List(ctx context.Context, q listing.Query, self envelope.LinkBuilder) (envelope.Page[forms.Form], error)
}

// FormStore is the persistence behind the single record endpoints.
type FormStore interface {
	Get(ctx context.Context, id int) (forms.Form, error)
	Create(ctx context.Context, in forms.Input) (forms.Form, error)
	Update(ctx context.Context, p forms.Patch) (forms.Form, error)
	Delete(ctx context.Context, id int) (forms.Form, error)
}

type handler struct {
	lister       FormLister
	store        FormStore
	registry     *schema.Registry
	baseURL      *url.URL
	legacyPaging bool
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *handler) listForms(w http.ResponseWriter, r *http.Request) {
	q := listing.QueryFromValues(r.URL.Query())

	page, err := h.lister.List(r.Context(), q, envelope.URLLink(h.absolute(r, r.URL.Path, r.URL.RawQuery)))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handler) getForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.formID(w, r)
	if !ok {
		return
	}
	f, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope.Single(f, h.formHref(r, f.ID), envelope.MethodGet))
}

func (h *handler) createForm(w http.ResponseWriter, r *http.Request) {
	var in forms.Input
	if !decode(w, r, &in) {
		return
	}
	f, err := h.store.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	href := h.formHref(r, f.ID)
	w.Header().Set("Location", href)
	writeJSON(w, http.StatusCreated, envelope.Single(f, href, envelope.MethodGet))
}

func (h *handler) updateForm(w http.ResponseWriter, r *http.Request) {
	var p forms.Patch
	if !decode(w, r, &p) {
		return
	}
	f, err := h.store.Update(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope.Single(f, h.formHref(r, f.ID), http.MethodPut))
}

func (h *handler) deleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.formID(w, r)
	if !ok {
		return
	}
	f, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope.Single(f, h.formHref(r, f.ID), http.MethodDelete))
}

type schemaResponse struct {
	Kind        string   `json:"kind"`
	SortColumns []string `json:"sortColumns"`
	SortOrders  []string `json:"sortOrders"`
}

func (h *handler) describeSchema(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	fields, ok := h.registry.Fields(kind)
	if !ok {
		writeProblem(w, r, Problem{
			Type:   TypeNotFound,
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: fmt.Sprintf("unknown kind %q", kind),
		})
		return
	}
	writeJSON(w, http.StatusOK, schemaResponse{
		Kind:        kind,
		SortColumns: fields.Names(),
		SortOrders:  listing.SortOrders,
	})
}

func (h *handler) listKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"kinds": h.registry.Kinds()})
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fault answers with the generic internal error problem.
func fault(w http.ResponseWriter, r *http.Request) {
	writeProblem(w, r, internalProblem(TraceID(r.Context())))
}

// formID reads the id from the path, or from the query for DELETE /api/forms?id=.
func (h *handler) formID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		raw = r.URL.Query().Get("id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		writeProblem(w, r, Problem{
			Type:   TypeInvalidPayload,
			Title:  "One or more validation errors occurred.",
			Status: http.StatusBadRequest,
			Errors: map[string]string{"id": "must be a positive integer"},
		})
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, r, Problem{
			Type:   TypeInvalidPayload,
			Title:  "The request body could not be parsed.",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		})
		return false
	}
	return true
}

func (h *handler) formHref(r *http.Request, id int) string {
	return h.absolute(r, "/api/forms/"+strconv.Itoa(id), "").String()
}

// absolute resolves path against the configured base URL, or against the
// scheme and host the request arrived on.
func (h *handler) absolute(r *http.Request, path, rawQuery string) *url.URL {
	if h.baseURL != nil {
		u := h.baseURL.JoinPath(path)
		u.RawQuery = rawQuery
		return u
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return &url.URL{Scheme: scheme, Host: r.Host, Path: path, RawQuery: rawQuery}
}
