package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"choreboard/internal/model"
	"choreboard/internal/store"
	"choreboard/internal/websocket"
)

type PrizeHandler struct {
	prizes *store.PrizeStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewPrizeHandler(ps *store.PrizeStore, hub *websocket.Hub, logger *slog.Logger) *PrizeHandler {
	return &PrizeHandler{prizes: ps, hub: hub, logger: logger}
}

func (h *PrizeHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type prizeRequest struct {
	Name           string  `json:"name"`
	PointsRequired *int    `json:"points_required"`
	HouseholdID    int64   `json:"household_id"`
	ChildID        *int64  `json:"child_id"`
	DateAwarded    *string `json:"date_awarded"`
}

// Create adds a prize. A nil child_id makes it household-wide: every
// completed assignment in the household counts toward it.
func (h *PrizeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req prizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.PointsRequired == nil || req.HouseholdID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, points_required, and household_id are required"})
		return
	}

	prize, err := h.prizes.Create(req.HouseholdID, req.ChildID, req.Name, *req.PointsRequired)
	if err != nil {
		h.logger.Error("create prize", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add prize"})
		return
	}

	h.broadcast(websocket.NewMessage("prize", "created", prize.ID, nil))

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      prize.ID,
		"message": "Prize added successfully",
	})
}

func (h *PrizeHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID, err := householdIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "household_id is required"})
		return
	}

	var childID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("child_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid child_id"})
			return
		}
		childID = &id
	}

	prizes, err := h.prizes.ListByHousehold(householdID, childID)
	if err != nil {
		h.logger.Error("list prizes", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list prizes"})
		return
	}
	if prizes == nil {
		prizes = []model.Prize{}
	}
	writeJSON(w, http.StatusOK, prizes)
}

func (h *PrizeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	prize, err := h.prizes.GetByID(id)
	if err != nil {
		h.logger.Error("get prize", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get prize"})
		return
	}
	if prize == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "prize not found"})
		return
	}
	writeJSON(w, http.StatusOK, prize)
}

func (h *PrizeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req prizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.PointsRequired == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and points_required are required"})
		return
	}

	_, err = h.prizes.Update(id, req.Name, *req.PointsRequired, req.ChildID, req.DateAwarded)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "prize not found"})
		return
	}
	if err != nil {
		h.logger.Error("update prize", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update prize"})
		return
	}

	h.broadcast(websocket.NewMessage("prize", "updated", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Prize updated successfully"})
}

func (h *PrizeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	err = h.prizes.Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "prize not found"})
		return
	}
	if err != nil {
		h.logger.Error("delete prize", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete prize"})
		return
	}

	h.broadcast(websocket.NewMessage("prize", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Prize deleted successfully"})
}
