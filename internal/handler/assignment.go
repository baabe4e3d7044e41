package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"choreboard/internal/model"
	"choreboard/internal/recurrence"
	"choreboard/internal/store"
	"choreboard/internal/websocket"
)

type AssignmentHandler struct {
	assignments *store.AssignmentStore
	hub         *websocket.Hub
	logger      *slog.Logger
	now         func() time.Time
}

func NewAssignmentHandler(as *store.AssignmentStore, hub *websocket.Hub, logger *slog.Logger, now func() time.Time) *AssignmentHandler {
	if now == nil {
		now = time.Now
	}
	return &AssignmentHandler{assignments: as, hub: hub, logger: logger, now: now}
}

func (h *AssignmentHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type assignmentRequest struct {
	ChildID      int64  `json:"child_id"`
	ChoreID      int64  `json:"chore_id"`
	AssignedDate string `json:"assigned_date"`
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.ChildID == 0 || req.ChoreID == 0 || req.AssignedDate == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "child_id, chore_id, and assigned_date are required"})
		return
	}
	if _, err := time.Parse(recurrence.DateLayout, req.AssignedDate); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "assigned_date must be YYYY-MM-DD"})
		return
	}

	assignment, err := h.assignments.Create(req.ChildID, req.ChoreID, req.AssignedDate)
	if err != nil {
		h.logger.Error("create assignment", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add chore assignment"})
		return
	}

	h.broadcast(websocket.NewMessage("assignment", "created", assignment.ID, nil))

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      assignment.ID,
		"message": "Chore assignment added successfully",
	})
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID, err := householdIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "household_id is required"})
		return
	}

	details, err := h.assignments.ListByHousehold(householdID)
	if err != nil {
		h.logger.Error("list assignments", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list chore assignments"})
		return
	}
	if details == nil {
		details = []model.AssignmentDetail{}
	}
	writeJSON(w, http.StatusOK, details)
}

// Today returns the household's incomplete assignments dated today.
func (h *AssignmentHandler) Today(w http.ResponseWriter, r *http.Request) {
	householdID, err := householdIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "household_id is required"})
		return
	}

	today := h.now().Format(recurrence.DateLayout)
	chores, err := h.assignments.ListForDate(householdID, today)
	if err != nil {
		h.logger.Error("list today chores", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list today's chores"})
		return
	}
	if chores == nil {
		chores = []model.TodayChore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	assignment, err := h.assignments.GetByID(id)
	if err != nil {
		h.logger.Error("get assignment", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get chore assignment"})
		return
	}
	if assignment == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore assignment not found"})
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.ChildID == 0 || req.ChoreID == 0 || req.AssignedDate == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "child_id, chore_id, and assigned_date are required"})
		return
	}

	_, err = h.assignments.Update(id, req.ChildID, req.ChoreID, req.AssignedDate)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore assignment not found"})
		return
	}
	if err != nil {
		h.logger.Error("update assignment", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update chore assignment"})
		return
	}

	h.broadcast(websocket.NewMessage("assignment", "updated", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chore assignment updated successfully"})
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	err = h.assignments.Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore assignment not found"})
		return
	}
	if err != nil {
		h.logger.Error("delete assignment", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete chore assignment"})
		return
	}

	h.broadcast(websocket.NewMessage("assignment", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chore assignment deleted successfully"})
}

// Complete settles an assignment: marks it done and credits its
// chore's points to every qualifying prize plus the child's running
// total. Completing twice is rejected; points are never double-counted.
func (h *AssignmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	res, err := h.assignments.Complete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore assignment not found"})
		return
	}
	if errors.Is(err, store.ErrAlreadyCompleted) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "chore assignment already completed"})
		return
	}
	if err != nil {
		h.logger.Error("complete assignment", "error", err, "assignment_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete chore assignment"})
		return
	}

	h.logger.Info("assignment completed", "assignment_id", id, "child_id", res.ChildID, "points", res.Points)
	h.broadcast(websocket.NewMessage("assignment", "completed", id, map[string]any{
		"child_id": res.ChildID,
		"points":   res.Points,
	}))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chore assignment marked as completed and points added to prizes successfully"})
}
