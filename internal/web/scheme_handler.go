package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/scheme-discovery/internal/application"
)

type matcherService interface {
	Match(ctx context.Context, query application.EligibilityQuery) []application.SchemeRecord
	Search(ctx context.Context, term string) []application.SchemeRecord
	FilterBySector(ctx context.Context, sector string) []application.SchemeRecord
	Schemes() []application.SchemeRecord
	SchemeByID(id string) (application.SchemeRecord, error)
}

type SchemeHandler struct {
	service   matcherService
	responder responder
	logger    *slog.Logger
}

func NewSchemeHandler(service matcherService, logger *slog.Logger) *SchemeHandler {
	base := defaultLogger(logger)
	return &SchemeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SchemeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SchemeHandler", operation, attrs...)
}

// Match evaluates the intake form against the catalog and returns the
// matching records in catalog order.
func (h *SchemeHandler) Match(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var query application.EligibilityQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		h.log(r.Context(), "Match", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode eligibility query", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	matched := h.service.Match(r.Context(), query)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, matchResponse{
		Schemes: matched,
		Count:   len(matched),
	})
}

// List returns catalog records. The `q` parameter performs a keyword search;
// otherwise `sector` narrows to one sector. With neither, the full catalog is
// returned.
func (h *SchemeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params := r.URL.Query()
	var records []application.SchemeRecord
	switch {
	case strings.TrimSpace(params.Get("q")) != "":
		records = h.service.Search(r.Context(), params.Get("q"))
	case params.Get("sector") != "":
		records = h.service.FilterBySector(r.Context(), params.Get("sector"))
	default:
		records = h.service.Schemes()
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, matchResponse{
		Schemes: records,
		Count:   len(records),
	})
}

// Detail returns a single catalog record by id.
func (h *SchemeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := SchemeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSchemeID)
		return
	}

	record, err := h.service.SchemeByID(id)
	if err != nil {
		h.log(r.Context(), "Detail", "scheme_id", id).ErrorContext(r.Context(), "scheme lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, record)
}

type matchResponse struct {
	Schemes []application.SchemeRecord `json:"schemes"`
	Count   int                        `json:"count"`
}
