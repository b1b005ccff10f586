package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"teamawesome_t4/internal/handler"
	"teamawesome_t4/internal/httputil"
	authmw "teamawesome_t4/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler          *handler.AuthHandler
	UserHandler          *handler.UserHandler
	FollowHandler        *handler.FollowHandler
	ProjectHandler       *handler.ProjectHandler
	CollaborationHandler *handler.CollaborationHandler
	MilestoneHandler     *handler.MilestoneHandler
	JWTSecret            string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// Public user endpoints with optional authentication
	r.Route("/users", func(r chi.Router) {
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/search", cfg.UserHandler.Search)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{username}", cfg.UserHandler.GetProfile)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/followers", cfg.FollowHandler.GetUserFollowers)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/following", cfg.FollowHandler.GetUserFollowing)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/follow-summary", cfg.FollowHandler.GetSummary)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user endpoints
		r.Get("/me", cfg.AuthHandler.Me)
		r.Patch("/me", cfg.UserHandler.UpdateProfile)
		r.Put("/me/picture", cfg.UserHandler.UploadPicture)
		r.Delete("/me/picture", cfg.UserHandler.RemovePicture)
		r.Get("/me/followers", cfg.FollowHandler.GetFollowers)
		r.Get("/me/following", cfg.FollowHandler.GetFollowing)
		r.Get("/me/invites", cfg.CollaborationHandler.GetInvites)

		// Follow graph actions
		r.Post("/users/{username}/follow", cfg.FollowHandler.Follow)
		r.Delete("/users/{username}/follow", cfg.FollowHandler.Unfollow)
		r.Delete("/users/{username}/follower", cfg.FollowHandler.RemoveFollower)
		r.Delete("/users/{username}/follow-request", cfg.FollowHandler.CancelRequest)

		// Incoming follow requests
		r.Get("/follow-requests", cfg.FollowHandler.GetPendingRequests)
		r.Post("/follow-requests/{requestId}", cfg.FollowHandler.RespondToRequest)

		// Projects
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", cfg.ProjectHandler.Create)
			r.Get("/{projectId}", cfg.ProjectHandler.Get)

			// Collaboration membership
			r.Get("/{projectId}/collaborators", cfg.CollaborationHandler.GetCollaborators)
			r.Post("/{projectId}/collaborators", cfg.CollaborationHandler.AddCollaborator)
			r.Patch("/{projectId}/collaborators/{userId}", cfg.CollaborationHandler.UpdateRole)
			r.Delete("/{projectId}/collaborators/{userId}", cfg.CollaborationHandler.RemoveCollaborator)
			r.Post("/{projectId}/invite/accept", cfg.CollaborationHandler.AcceptInvite)
			r.Post("/{projectId}/invite/reject", cfg.CollaborationHandler.RejectInvite)

			// Milestones
			r.Get("/{projectId}/milestones", cfg.MilestoneHandler.List)
			r.Post("/{projectId}/milestones", cfg.MilestoneHandler.Create)
			r.Put("/{projectId}/milestones/reorder", cfg.MilestoneHandler.Reorder)
			r.Patch("/{projectId}/milestones/{milestoneId}", cfg.MilestoneHandler.Update)
			r.Post("/{projectId}/milestones/{milestoneId}/complete", cfg.MilestoneHandler.Complete)
			r.Post("/{projectId}/milestones/{milestoneId}/uncomplete", cfg.MilestoneHandler.Uncomplete)
			r.Delete("/{projectId}/milestones/{milestoneId}", cfg.MilestoneHandler.Delete)
		})
	})

	return r
}
