package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"choreboard/internal/model"
	"choreboard/internal/store"
	"choreboard/internal/websocket"
)

type ChildHandler struct {
	children   *store.ChildStore
	households *store.HouseholdStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewChildHandler(cs *store.ChildStore, hs *store.HouseholdStore, hub *websocket.Hub, logger *slog.Logger) *ChildHandler {
	return &ChildHandler{children: cs, households: hs, hub: hub, logger: logger}
}

func (h *ChildHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type childRequest struct {
	FirstName   string `json:"first_name"`
	BirthDate   string `json:"birth_date"`
	HouseholdID int64  `json:"household_id"`
}

func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	if req.FirstName == "" || req.BirthDate == "" || req.HouseholdID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "first_name, birth_date, and household_id are required"})
		return
	}

	household, err := h.households.GetByID(req.HouseholdID)
	if err != nil {
		h.logger.Error("check household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check household"})
		return
	}
	if household == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "household not found"})
		return
	}

	child, err := h.children.Create(req.HouseholdID, req.FirstName, req.BirthDate)
	if err != nil {
		h.logger.Error("create child", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add child"})
		return
	}

	h.broadcast(websocket.NewMessage("child", "created", child.ID, nil))

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      child.ID,
		"message": "Child added successfully",
	})
}

func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID, err := householdIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "household_id is required"})
		return
	}

	children, err := h.children.ListByHousehold(householdID)
	if err != nil {
		h.logger.Error("list children", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list children"})
		return
	}
	if children == nil {
		children = []model.Child{}
	}
	writeJSON(w, http.StatusOK, children)
}

func (h *ChildHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	child, err := h.children.GetByID(id)
	if err != nil {
		h.logger.Error("get child", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get child"})
		return
	}
	if child == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return
	}
	writeJSON(w, http.StatusOK, child)
}

func (h *ChildHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	if req.FirstName == "" || req.BirthDate == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "first_name and birth_date are required"})
		return
	}

	_, err = h.children.Update(id, req.FirstName, req.BirthDate)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return
	}
	if err != nil {
		h.logger.Error("update child", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update child"})
		return
	}

	h.broadcast(websocket.NewMessage("child", "updated", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Child updated successfully"})
}

// Delete removes a child; only that child's assignments cascade away.
func (h *ChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	err = h.children.Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return
	}
	if err != nil {
		h.logger.Error("delete child", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete child"})
		return
	}

	h.broadcast(websocket.NewMessage("child", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Child deleted successfully"})
}
