package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/ledger-service/internal/middleware"
	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/Dan9191/ledger-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes registers the ledger endpoints. auth guards everything but /healthz.
func (h *Handler) Routes(r *mux.Router, auth mux.MiddlewareFunc) {
	r.HandleFunc("/healthz", h.Health).Methods("GET")

	api := r.PathPrefix("/").Subrouter()
	api.Use(auth)
	api.HandleFunc("/ledger", h.GetLedger).Methods("GET")
	api.HandleFunc("/entries", h.CreateEntry).Methods("POST")
	api.HandleFunc("/entries/{id}/complete", h.Complete).Methods("POST")
	api.HandleFunc("/entries/{id}/pending", h.SetPending).Methods("POST")
	api.HandleFunc("/entries/{id}/overdue", h.SetOverdue).Methods("POST")
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetLedger returns the reconciled ledger view for the query scope
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	q := r.URL.Query()
	scope := service.Scope{
		ClientID: q.Get("client_id"),
		Type:     models.EntryType(q.Get("type")),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Order:    service.Order(q.Get("order")),
	}

	view, err := h.svc.GetLedgerView(r.Context(), userID, scope)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreateEntry records a new transaction
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var in service.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.CreateEntry(r.Context(), userID, in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Complete marks an entry as received
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.svc.Complete)
}

// SetPending marks an entry as pending
func (h *Handler) SetPending(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.svc.SetPending)
}

// SetOverdue marks an entry as overdue
func (h *Handler) SetOverdue(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.svc.SetOverdue)
}

type commandFunc func(ctx context.Context, userID, id string) (*service.CommandResult, error)

func (h *Handler) command(w http.ResponseWriter, r *http.Request, run commandFunc) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	res, err := run(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// fail maps service errors to HTTP statuses
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInFlight), errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidMaterialization):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrFetchFailure), errors.Is(err, service.ErrWriteFailure):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.log.Errorf("Unhandled error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
