package backend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/five82/weekplan/internal/httpserver"
	"github.com/five82/weekplan/internal/items"
)

const msgNotFound = "Item not found"

// Repository is the storage the handlers need. *Store implements it.
type Repository interface {
	List(ctx context.Context) ([]items.Item, error)
	Get(ctx context.Context, id int64) (items.Item, error)
	Create(ctx context.Context, draft items.Draft) (items.Item, error)
	Update(ctx context.Context, id int64, draft items.Draft) (items.Item, error)
	Delete(ctx context.Context, id int64) (items.Item, error)
}

var _ Repository = (*Store)(nil)

type handler struct {
	repo    Repository
	version string
	log     *slog.Logger
}

// NewHandler returns the item service API over repo.
func NewHandler(repo Repository, version string, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &handler{repo: repo, version: version, log: log}

	r := chi.NewRouter()
	r.Use(httpserver.RequestID)
	r.Use(httpserver.AccessLog(log))
	r.Use(httpserver.Recover(log))

	r.Get("/health", httpserver.Health)
	r.Get("/api/version", h.getVersion)
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
	return r
}

func (h *handler) getVersion(w http.ResponseWriter, _ *http.Request) {
	httpserver.WriteJSON(w, http.StatusOK, items.VersionInfo{Version: h.version})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, list)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	it, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, it)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	it, err := h.repo.Create(r.Context(), draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusCreated, it)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	it, err := h.repo.Update(r.Context(), id, draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, it)
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	it, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, it)
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpserver.WriteError(w, http.StatusNotFound, msgNotFound)
		return
	}
	h.log.ErrorContext(r.Context(), "item storage failed", slog.Any("error", err))
	httpserver.WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// pathID parses {id}. Ids that cannot exist answer 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpserver.WriteError(w, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (items.Draft, bool) {
	var draft items.Draft
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&draft); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return items.Draft{}, false
	}
	if err := draft.Validate(); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, items.InvalidDateMessage)
		return items.Draft{}, false
	}
	return draft, true
}
