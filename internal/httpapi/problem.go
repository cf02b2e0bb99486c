package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-listing-cache/internal/forms"
	"github.com/goliatone/go-listing-cache/listing"
)

const contentTypeProblem = "application/problem+json"

// Problem types. Relative references resolve against the API base URL.
const (
	TypeInvalidPaging     = "/problems/invalid-paging"
	TypeInvalidSortColumn = "/problems/invalid-sort-column"
	TypeInvalidSortOrder  = "/problems/invalid-sort-order"
	TypeInvalidPayload    = "/problems/invalid-payload"
	TypeNotFound          = "/problems/not-found"
	TypeNotImplemented    = "https://tools.ietf.org/html/rfc7231#section-6.6.2"
	TypeInternal          = "https://tools.ietf.org/html/rfc7231#section-6.6.1"
)

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type    string              `json:"type"`
	Title   string              `json:"title"`
	Status  int                 `json:"status"`
	Detail  string              `json:"detail,omitempty"`
	TraceID string              `json:"traceId"`
	Errors  map[string]string   `json:"errors,omitempty"`
	Allowed map[string][]string `json:"allowed,omitempty"`
}

var kindTypes = map[listing.Kind]string{
	listing.KindPaging:     TypeInvalidPaging,
	listing.KindSortColumn: TypeInvalidSortColumn,
	listing.KindSortOrder:  TypeInvalidSortOrder,
}

// TraceID returns the request id assigned by the RequestID middleware, or a
// fresh uuid when the request carries none.
func TraceID(ctx context.Context) string {
	if id := chimw.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func writeProblem(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.TraceID == "" {
		p.TraceID = TraceID(r.Context())
	}
	w.Header().Set("Content-Type", contentTypeProblem)
	w.WriteHeader(p.Status)
	json.NewEncoder(w).Encode(p)
}

func listProblem(verr *listing.ValidationError, legacyPaging bool) Problem {
	p := Problem{
		Type:    kindTypes[verr.Kind],
		Title:   "One or more validation errors occurred.",
		Status:  http.StatusBadRequest,
		Detail:  verr.Error(),
		Errors:  verr.Fields,
		Allowed: verr.Allowed,
	}
	if verr.Kind == listing.KindPaging && legacyPaging {
		p.Type = TypeNotImplemented
		p.Title = "Not Implemented"
		p.Status = http.StatusNotImplemented
	}
	return p
}

// writeError maps err to a problem response. Unknown errors are logged and
// answered with a generic 500.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr   *listing.ValidationError
		fields validation.Errors
	)
	switch {
	case errors.As(err, &verr):
		writeProblem(w, r, listProblem(verr, h.legacyPaging))
	case errors.As(err, &fields):
		writeProblem(w, r, Problem{
			Type:   TypeInvalidPayload,
			Title:  "One or more validation errors occurred.",
			Status: http.StatusBadRequest,
			Errors: fieldMessages(fields),
		})
	case errors.Is(err, forms.ErrNotFound):
		writeProblem(w, r, Problem{
			Type:   TypeNotFound,
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: err.Error(),
		})
	case errors.Is(err, context.Canceled):
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("request abandoned by client")
	default:
		traceID := TraceID(r.Context())
		zerolog.Ctx(r.Context()).Error().Err(err).Str("trace_id", traceID).Msg("request failed")
		writeProblem(w, r, internalProblem(traceID))
	}
}

func internalProblem(traceID string) Problem {
	return Problem{
		Type:    TypeInternal,
		Title:   "An error occurred while processing your request.",
		Status:  http.StatusInternalServerError,
		TraceID: traceID,
	}
}

func fieldMessages(errs validation.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, err := range errs {
		out[field] = err.Error()
	}
	return out
}
