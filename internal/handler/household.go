package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"choreboard/internal/model"
	"choreboard/internal/store"
	"choreboard/internal/websocket"
)

type HouseholdHandler struct {
	store  *store.HouseholdStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewHouseholdHandler(s *store.HouseholdStore, hub *websocket.Hub, logger *slog.Logger) *HouseholdHandler {
	return &HouseholdHandler{store: s, hub: hub, logger: logger}
}

func (h *HouseholdHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type householdRequest struct {
	Name     string `json:"household_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PIN      *int   `json:"pin"`
}

// Register creates a new household account. The email must be unique
// across all households; duplicates come back as 409.
func (h *HouseholdHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req householdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.PIN == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "household_name, email, password, and pin are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register household"})
		return
	}

	household, err := h.store.Create(req.Name, req.Email, string(hash), *req.PIN)
	if errors.Is(err, store.ErrDuplicateEmail) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email already exists"})
		return
	}
	if err != nil {
		h.logger.Error("create household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register household"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      household.ID,
		"message": "Household registered successfully",
	})
}

func (h *HouseholdHandler) List(w http.ResponseWriter, r *http.Request) {
	households, err := h.store.List()
	if err != nil {
		h.logger.Error("list households", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list households"})
		return
	}
	if households == nil {
		households = []model.Household{}
	}
	writeJSON(w, http.StatusOK, households)
}

func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	household, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get household"})
		return
	}
	if household == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "household not found"})
		return
	}
	writeJSON(w, http.StatusOK, household)
}

func (h *HouseholdHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req householdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.PIN == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "household_name, email, password, and pin are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update household"})
		return
	}

	_, err = h.store.Update(id, req.Name, req.Email, string(hash), *req.PIN)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "household not found"})
		return
	}
	if errors.Is(err, store.ErrDuplicateEmail) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email already exists"})
		return
	}
	if err != nil {
		h.logger.Error("update household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update household"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Household updated successfully"})
}

// Delete removes a household. Children, chores, assignments, and
// prizes go with it via foreign-key cascade.
func (h *HouseholdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	err = h.store.Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "household not found"})
		return
	}
	if err != nil {
		h.logger.Error("delete household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete household"})
		return
	}

	h.broadcast(websocket.NewMessage("household", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Household deleted successfully"})
}
