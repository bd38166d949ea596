package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/five82/weekplan/internal/dates"
	"github.com/five82/weekplan/internal/httpserver"
	"github.com/five82/weekplan/internal/items"
)

const (
	msgListFailed  = "Failed to fetch items"
	msgInvalidBody = "Invalid request body"
	maxRequestBody = 1 << 20
)

// Forwarder is the upstream as seen by the handlers.
type Forwarder interface {
	Do(ctx context.Context, method, path string, payload any) (Response, error)
}

type itemsHandler struct {
	upstream Forwarder
	tracer   trace.Tracer
	log      *slog.Logger
}

func (h *itemsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "proxy.listItems")
	defer span.End()

	resp, err := h.upstream.Do(ctx, http.MethodGet, "/api/items", nil)
	if err != nil {
		recordError(span, err)
		h.log.ErrorContext(ctx, "error fetching items", slog.Any("error", err))
		httpserver.WriteError(w, http.StatusInternalServerError, msgListFailed)
		return
	}
	httpserver.WriteRaw(w, http.StatusOK, resp.Body)
}

func (h *itemsHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := h.tracer.Start(r.Context(), "proxy.getItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	resp, err := h.upstream.Do(ctx, http.MethodGet, itemPath(id), nil)
	if err != nil {
		recordError(span, err)
		h.log.ErrorContext(ctx, "error fetching item", slog.String("id", id), slog.Any("error", err))
		writeUpstreamError(w, err)
		return
	}
	httpserver.WriteRaw(w, http.StatusOK, resp.Body)
}

func (h *itemsHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "proxy.createItem")
	defer span.End()

	payload, ok := h.readPayload(w, r)
	if !ok {
		return
	}
	resp, err := h.upstream.Do(ctx, http.MethodPost, "/api/items", payload)
	if err != nil {
		recordError(span, err)
		h.log.ErrorContext(ctx, "error creating item", slog.Any("error", err))
		writeUpstreamError(w, err)
		return
	}
	httpserver.WriteRaw(w, http.StatusCreated, resp.Body)
}

func (h *itemsHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := h.tracer.Start(r.Context(), "proxy.updateItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	payload, ok := h.readPayload(w, r)
	if !ok {
		return
	}
	resp, err := h.upstream.Do(ctx, http.MethodPut, itemPath(id), payload)
	if err != nil {
		recordError(span, err)
		h.log.ErrorContext(ctx, "error updating item", slog.String("id", id), slog.Any("error", err))
		writeUpstreamError(w, err)
		return
	}
	httpserver.WriteRaw(w, http.StatusOK, resp.Body)
}

func (h *itemsHandler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := h.tracer.Start(r.Context(), "proxy.deleteItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	resp, err := h.upstream.Do(ctx, http.MethodDelete, itemPath(id), nil)
	if err != nil {
		recordError(span, err)
		h.log.ErrorContext(ctx, "error deleting item", slog.String("id", id), slog.Any("error", err))
		writeUpstreamError(w, err)
		return
	}
	writeEcho(w, resp.Body)
}

func (h *itemsHandler) version(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "proxy.version")
	defer span.End()

	resp, err := h.upstream.Do(ctx, http.MethodGet, "/api/version", nil)
	if err != nil {
		recordError(span, err)
		h.log.ErrorContext(ctx, "error fetching version", slog.Any("error", err))
		writeUpstreamError(w, err)
		return
	}
	httpserver.WriteRaw(w, http.StatusOK, resp.Body)
}

// readPayload decodes a JSON or form body and checks its date. On failure
// the response has been written.
func (h *itemsHandler) readPayload(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	payload := map[string]any{}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			httpserver.WriteError(w, http.StatusBadRequest, msgInvalidBody)
			return nil, false
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				payload[key] = values[0]
			}
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			h.log.WarnContext(r.Context(), "rejecting request body", slog.Any("error", err))
			httpserver.WriteError(w, http.StatusBadRequest, msgInvalidBody)
			return nil, false
		}
	}

	date, _ := payload["date"].(string)
	if !dates.Valid(date) {
		httpserver.WriteError(w, http.StatusBadRequest, items.InvalidDateMessage)
		return nil, false
	}
	return payload, true
}

// writeUpstreamError mirrors an upstream failure: its status (or 500 when
// there was no response) and an error body naming the failure.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		httpserver.WriteError(w, statusErr.Status, statusErr.Error())
		return
	}
	httpserver.WriteError(w, http.StatusInternalServerError, err.Error())
}

// writeEcho returns the upstream body unchanged, or null when it was empty.
func writeEcho(w http.ResponseWriter, body []byte) {
	if len(body) == 0 {
		body = []byte("null")
	}
	httpserver.WriteRaw(w, http.StatusOK, body)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func itemPath(id string) string {
	return fmt.Sprintf("/api/items/%s", url.PathEscape(id))
}
