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

type CollaborationHandler struct {
	collabService *service.CollaborationService
}

func NewCollaborationHandler(collabService *service.CollaborationService) *CollaborationHandler {
	return &CollaborationHandler{
		collabService: collabService,
	}
}

// projectIDParam parses the {projectId} URL parameter.
func projectIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "projectId"), 10, 64)
}

func (h *CollaborationHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := middleware.GetUserIDFromContext(r.Context())
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
		UserID int64  `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	collaborator, err := h.collabService.AddCollaborator(r.Context(), projectID, actingUserID, body.UserID, body.Role)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidRole):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrAccessDenied):
			httputil.WriteForbidden(w, err.Error())
		case errors.Is(err, model.ErrNotSwinburneEmail):
			httputil.WriteForbidden(w, err.Error())
		case errors.Is(err, model.ErrAlreadyCollaborator), errors.Is(err, model.ErrAlreadyInvited):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound), errors.Is(err, model.ErrProjectNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] AddCollaborator handler: %v", err)
			httputil.WriteInternalError(w, "Failed to add collaborator")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, collaborator)
}

func (h *CollaborationHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, err := projectIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid project ID")
		return
	}

	targetUserID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	collaborator, err := h.collabService.UpdateRole(r.Context(), projectID, actingUserID, targetUserID, body.Role)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidRole):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrAccessDenied):
			httputil.WriteForbidden(w, err.Error())
		case errors.Is(err, model.ErrLastLeader):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrCollaboratorNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] UpdateRole handler: %v", err)
			httputil.WriteInternalError(w, "Failed to update role")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, collaborator)
}

func (h *CollaborationHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, err := projectIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid project ID")
		return
	}

	targetUserID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	collaborator, err := h.collabService.RemoveCollaborator(r.Context(), projectID, actingUserID, targetUserID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAccessDenied):
			httputil.WriteForbidden(w, err.Error())
		case errors.Is(err, model.ErrLastLeader):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrCollaboratorNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] RemoveCollaborator handler: %v", err)
			httputil.WriteInternalError(w, "Failed to remove collaborator")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, collaborator)
}

func (h *CollaborationHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
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

	collaborator, err := h.collabService.AcceptInvite(r.Context(), projectID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInviteNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] AcceptInvite handler: %v", err)
			httputil.WriteInternalError(w, "Failed to accept invitation")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, collaborator)
}

func (h *CollaborationHandler) RejectInvite(w http.ResponseWriter, r *http.Request) {
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

	if err := h.collabService.RejectInvite(r.Context(), projectID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrInviteNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] RejectInvite handler: %v", err)
			httputil.WriteInternalError(w, "Failed to reject invitation")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Invitation rejected",
	})
}

func (h *CollaborationHandler) GetCollaborators(w http.ResponseWriter, r *http.Request) {
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

	collaborators, err := h.collabService.GetProjectCollaborators(r.Context(), projectID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAccessDenied):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] GetCollaborators handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch collaborators")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, collaborators)
}

func (h *CollaborationHandler) GetInvites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	invites, err := h.collabService.GetUserInvites(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetInvites handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch invitations")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, invites)
}
