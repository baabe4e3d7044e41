package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"choreboard/internal/model"
	"choreboard/internal/recurrence"
	"choreboard/internal/store"
	"choreboard/internal/websocket"
)

type ChoreHandler struct {
	chores *store.ChoreStore
	hub    *websocket.Hub
	logger *slog.Logger
	now    func() time.Time

	// rng drives the random child draw during schedule expansion.
	// rand.Rand is not safe for concurrent use, so expansion holds mu.
	mu  sync.Mutex
	rng *rand.Rand
}

func NewChoreHandler(cs *store.ChoreStore, hub *websocket.Hub, logger *slog.Logger, now func() time.Time, rng *rand.Rand) *ChoreHandler {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ChoreHandler{chores: cs, hub: hub, logger: logger, now: now, rng: rng}
}

func (h *ChoreHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type choreRequest struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Points           *int            `json:"points"`
	HouseholdID      int64           `json:"household_id"`
	Recurring        bool            `json:"recurring"`
	Frequency        string          `json:"frequency"`
	RecurringDetails json.RawMessage `json:"recurring_details"`
	EndDate          *string         `json:"end_date"`
}

// Create adds a chore. For a recurring chore the schedule payload is
// validated first, expanded into dated assignments, and everything is
// committed in one transaction — a bad payload means no chore row at
// all, never a recurring chore with no schedule.
func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Points == nil || req.HouseholdID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, points, and household_id are required"})
		return
	}

	if !req.Recurring {
		chore, err := h.chores.Create(req.HouseholdID, req.Name, req.Description, *req.Points, req.EndDate)
		if err != nil {
			h.logger.Error("create chore", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create chore"})
			return
		}

		h.broadcast(websocket.NewMessage("chore", "created", chore.ID, nil))

		writeJSON(w, http.StatusCreated, map[string]any{
			"id":      chore.ID,
			"message": "Chore added successfully",
		})
		return
	}

	if len(req.RecurringDetails) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "recurring_details is required for a recurring chore"})
		return
	}

	rule, err := recurrence.ParseRule(req.RecurringDetails)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		t, err := time.Parse(recurrence.DateLayout, *req.EndDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		endDate = &t
	}

	h.mu.Lock()
	schedule := recurrence.Expand(rule, endDate, h.now(), h.rng)
	h.mu.Unlock()

	// Store the rule re-serialized in canonical form rather than the
	// raw client payload.
	details, err := json.Marshal(rule)
	if err != nil {
		h.logger.Error("marshal rule", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create chore"})
		return
	}

	chore, err := h.chores.CreateRecurring(
		req.HouseholdID, req.Name, req.Description, *req.Points,
		rule.Frequency.String(), details, req.EndDate, schedule,
	)
	if err != nil {
		h.logger.Error("create recurring chore", "error", err, "assignments", len(schedule))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate recurring assignments"})
		return
	}

	h.logger.Info("recurring chore created", "chore_id", chore.ID, "frequency", rule.Frequency.String(), "assignments", len(schedule))
	h.broadcast(websocket.NewMessage("chore", "created", chore.ID, map[string]any{"assignments": len(schedule)}))

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      chore.ID,
		"message": "Chore added successfully",
	})
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID, err := householdIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "household_id is required"})
		return
	}

	chores, err := h.chores.ListByHousehold(householdID)
	if err != nil {
		h.logger.Error("list chores", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list chores"})
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	chore, err := h.chores.GetByID(id)
	if err != nil {
		h.logger.Error("get chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get chore"})
		return
	}
	if chore == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

// Update rewrites a chore's definition. Switching a chore to
// non-recurring clears its frequency and schedule payload. Existing
// assignments are left alone; the schedule is only generated at
// creation time.
func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Points == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and points are required"})
		return
	}

	var frequency *string
	var details []byte
	if req.Recurring {
		if len(req.RecurringDetails) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "recurring_details is required for a recurring chore"})
			return
		}
		rule, err := recurrence.ParseRule(req.RecurringDetails)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		f := rule.Frequency.String()
		frequency = &f
		details, err = json.Marshal(rule)
		if err != nil {
			h.logger.Error("marshal rule", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update chore"})
			return
		}
	}

	_, err = h.chores.Update(id, req.Name, req.Description, *req.Points, req.Recurring, frequency, details, req.EndDate)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}
	if err != nil {
		h.logger.Error("update chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update chore"})
		return
	}

	h.broadcast(websocket.NewMessage("chore", "updated", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chore updated successfully"})
}

// Delete removes a chore and, via cascade, its assignments.
func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	err = h.chores.Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}
	if err != nil {
		h.logger.Error("delete chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete chore"})
		return
	}

	h.broadcast(websocket.NewMessage("chore", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chore deleted successfully"})
}
