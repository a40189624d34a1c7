package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/users-service/internal/models"
	"github.com/Dan9191/users-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	msgUserAdded   = "User added successfully"
	msgUserUpdated = "User updated successfully"
	msgUserDeleted = "User deleted successfully"
)

// UserService is the behaviour the HTTP layer depends on
type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) error
	UpdateUser(ctx context.Context, id int64, in models.UserInput) error
	DeleteUser(ctx context.Context, id int64) error
	Health(ctx context.Context) error
}

type Handler struct {
	svc UserService
	log logrus.FieldLogger
}

func NewHandler(svc UserService, log logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register wires the user routes onto r
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{id:[0-9]+}", h.UpdateUser).Methods(http.MethodPut)
	r.HandleFunc("/users/{id:[0-9]+}", h.DeleteUser).Methods(http.MethodDelete)
	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.svc.CreateUser(r.Context(), in); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, msgUserAdded)
}

// UpdateUser handles PUT /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var in models.UserInput
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.svc.UpdateUser(r.Context(), id, in); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, msgUserUpdated)
}

// DeleteUser handles DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, msgUserDeleted)
}

// Healthz reports database reachability
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Health(r.Context()); err != nil {
		h.log.WithError(err).Warn("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrMissingField) {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}
