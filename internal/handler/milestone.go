package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"teamawesome_t4/internal/httputil"
	"teamawesome_t4/internal/model"
	"teamawesome_t4/internal/service"
	"teamawesome_t4/internal/transport/http/middleware"
)

type MilestoneHandler struct {
	milestoneService *service.MilestoneService
}

func NewMilestoneHandler(milestoneService *service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{
		milestoneService: milestoneService,
	}
}

func milestoneIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "milestoneId"), 10, 64)
}

// writeMilestoneError maps the shared milestone error set to a response.
func writeMilestoneError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrAccessDenied):
		httputil.WriteForbidden(w, err.Error())
	case errors.Is(err, model.ErrMilestoneNotFound):
		httputil.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrMilestoneNameMissing),
		errors.Is(err, model.ErrMilestoneNameTooLong),
		errors.Is(err, model.ErrDueDateInPast),
		errors.Is(err, model.ErrInvalidReorder),
		errors.Is(err, model.ErrEmptyReorder):
		httputil.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrAlreadyCompleted), errors.Is(err, model.ErrNotCompleted):
		httputil.WriteConflict(w, err.Error())
	default:
		log.Printf("[ERROR] %s handler: %v", op, err)
		httputil.WriteInternalError(w, "Milestone operation failed")
	}
}

func (h *MilestoneHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, err := projectIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid project ID")
		return
	}

	milestones, err := h.milestoneService.GetMilestones(r.Context(), projectID, userID)
	if err != nil {
		writeMilestoneError(w, "ListMilestones", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, milestones)
}

func (h *MilestoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, err := projectIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid project ID")
		return
	}

	var req model.CreateMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	milestone, err := h.milestoneService.AddMilestone(r.Context(), projectID, userID, req)
	if err != nil {
		writeMilestoneError(w, "CreateMilestone", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, milestone)
}

func (h *MilestoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, err := projectIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid project ID")
		return
	}

	milestoneID, err := milestoneIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid milestone ID")
		return
	}

	var patch model.MilestonePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	milestone, err := h.milestoneService.UpdateMilestone(r.Context(), projectID, milestoneID, userID, patch)
	if err != nil {
		writeMilestoneError(w, "UpdateMilestone", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, milestone)
}

func (h *MilestoneHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, err := projectIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid project ID")
		return
	}

	milestoneID, err := milestoneIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid milestone ID")
		return
	}

	milestone, err := h.milestoneService.CompleteMilestone(r.Context(), projectID, milestoneID, userID)
	if err != nil {
		writeMilestoneError(w, "CompleteMilestone", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, milestone)
}

func (h *MilestoneHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, err := projectIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid project ID")
		return
	}

	milestoneID, err := milestoneIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid milestone ID")
		return
	}

	milestone, err := h.milestoneService.UncompleteMilestone(r.Context(), projectID, milestoneID, userID)
	if err != nil {
		writeMilestoneError(w, "UncompleteMilestone", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, milestone)
}

func (h *MilestoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, err := projectIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid project ID")
		return
	}

	milestoneID, err := milestoneIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid milestone ID")
		return
	}

	if err := h.milestoneService.DeleteMilestone(r.Context(), projectID, milestoneID, userID); err != nil {
		writeMilestoneError(w, "DeleteMilestone", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Milestone deleted",
	})
}

func (h *MilestoneHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, err := projectIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid project ID")
		return
	}

	var body struct {
		Milestones []model.MilestoneOrder `json:"milestones"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	milestones, err := h.milestoneService.ReorderMilestones(r.Context(), projectID, userID, body.Milestones)
	if err != nil {
		writeMilestoneError(w, "ReorderMilestones", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, milestones)
}
