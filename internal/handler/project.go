package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"teamawesome_t4/internal/httputil"
	"teamawesome_t4/internal/model"
	"teamawesome_t4/internal/service"
	"teamawesome_t4/internal/transport/http/middleware"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateSwinburneProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.UnitCode) == "" {
		httputil.WriteBadRequest(w, "Title and unit code are required")
		return
	}

	project, err := h.projectService.Create(r.Context(), userID, req)
	if err != nil {
		log.Printf("[ERROR] CreateProject handler: %v", err)
		httputil.WriteInternalError(w, "Failed to create project")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid project ID")
		return
	}

	project, err := h.projectService.Get(r.Context(), projectID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProjectNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] GetProject handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch project")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, project)
}
