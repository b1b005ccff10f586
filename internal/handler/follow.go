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

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{
		followService: followService,
	}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	username := chi.URLParam(r, "username")

	result, err := h.followService.Follow(r.Context(), followerID, username)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrAlreadyFollowing):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrRequestAlreadyPending):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Follow handler: %v", err)
			httputil.WriteInternalError(w, "Failed to follow user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	username := chi.URLParam(r, "username")

	result, err := h.followService.Unfollow(r.Context(), followerID, username)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFollowing):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Unfollow handler: %v", err)
			httputil.WriteInternalError(w, "Failed to unfollow user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *FollowHandler) RemoveFollower(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	username := chi.URLParam(r, "username")

	if err := h.followService.RemoveFollower(r.Context(), userID, username); err != nil {
		switch {
		case errors.Is(err, model.ErrNotFollowedBy):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] RemoveFollower handler: %v", err)
			httputil.WriteInternalError(w, "Failed to remove follower")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Follower removed",
	})
}

func (h *FollowHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	username := chi.URLParam(r, "username")

	if err := h.followService.CancelRequest(r.Context(), userID, username); err != nil {
		switch {
		case errors.Is(err, model.ErrRequestNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] CancelRequest handler: %v", err)
			httputil.WriteInternalError(w, "Failed to cancel follow request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Follow request cancelled",
	})
}

func (h *FollowHandler) RespondToRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "requestId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid request ID")
		return
	}

	var body struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.followService.RespondToRequest(r.Context(), userID, requestID, body.Action); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidRequestAction):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrRequestNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] RespondToRequest handler: %v", err)
			httputil.WriteInternalError(w, "Failed to respond to follow request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Follow request " + body.Action + "ed",
	})
}

func (h *FollowHandler) GetPendingRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	requests, err := h.followService.GetPendingRequests(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetPendingRequests handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch follow requests")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, requests)
}

func (h *FollowHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followers, err := h.followService.GetFollowers(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetFollowers handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch followers")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, followers)
}

func (h *FollowHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	following, err := h.followService.GetFollowing(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetFollowing handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch following")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, following)
}

func (h *FollowHandler) GetUserFollowers(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	followers, err := h.followService.GetUserFollowers(r.Context(), viewerID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPrivateProfile):
			httputil.WriteForbidden(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] GetUserFollowers handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch followers")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, followers)
}

func (h *FollowHandler) GetUserFollowing(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	following, err := h.followService.GetUserFollowing(r.Context(), viewerID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPrivateProfile):
			httputil.WriteForbidden(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] GetUserFollowing handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch following")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, following)
}

func (h *FollowHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	summary, err := h.followService.GetSummary(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetSummary handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch follow summary")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summary)
}
