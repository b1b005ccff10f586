package service

import (
	"context"
	"log"
	"mime/multipart"
	"strings"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
	"teamawesome_t4/internal/repository"
)

// UserService handles profile reads and updates.
type UserService struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	requestRepo repository.FollowRequestRepository
	summaryRepo repository.FollowSummaryRepository
	db          database.Querier
	media       *MediaService

	// defaultPictureURL is what accounts fall back to after removing their
	// picture.
	defaultPictureURL string
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	requestRepo repository.FollowRequestRepository,
	summaryRepo repository.FollowSummaryRepository,
	db database.Querier,
	media *MediaService,
	defaultPictureURL string,
) *UserService {
	return &UserService{
		userRepo:          userRepo,
		followRepo:        followRepo,
		requestRepo:       requestRepo,
		summaryRepo:       summaryRepo,
		db:                db,
		media:             media,
		defaultPictureURL: defaultPictureURL,
	}
}

// GetProfile returns a user's profile as seen by viewerID: counters plus the
// viewer's follow edge and any request status toward the user.
func (s *UserService) GetProfile(ctx context.Context, viewerID int64, username string) (*model.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	summary, err := s.summaryRepo.Get(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		User:           *user,
		FollowersCount: summary.FollowersCount,
		FollowingCount: summary.FollowingCount,
	}

	if viewerID != 0 && viewerID != user.ID {
		following, err := s.followRepo.Exists(ctx, s.db, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = following

		if !following {
			request, err := s.requestRepo.GetByPair(ctx, s.db, viewerID, user.ID)
			if err != nil {
				return nil, err
			}
			if request != nil && request.Status == model.RequestPending {
				status := request.Status
				profile.FollowRequested = &status
			}
		}
	}

	return profile, nil
}

// GetByID returns the raw account row.
func (s *UserService) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, s.db, userID)
}

// UpdateProfile applies the non-nil fields of the request to the caller's row.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error) {
	if req.Bio != nil {
		trimmed := strings.TrimSpace(*req.Bio)
		req.Bio = &trimmed
	}
	return s.userRepo.UpdateProfile(ctx, s.db, userID, req)
}

// Search finds users by username or name prefix.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.UserSummary{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.Search(ctx, s.db, query, limit)
}

// UpdatePicture uploads a new profile picture, points the account at it, and
// removes the previous object. The old object is deleted only after the row
// points at the new one; a leftover blob beats a broken picture URL.
func (s *UserService) UpdatePicture(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	user, err := s.userRepo.GetByID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.media.UploadProfilePicture(ctx, file, header)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdatePicture(ctx, s.db, userID, &result.URL, &result.Key); err != nil {
		// The row still points at the old picture; drop the orphan upload.
		if delErr := s.media.DeleteObject(ctx, result.Key); delErr != nil {
			log.Printf("[UserService] Failed to delete orphan upload: key=%s err=%v", result.Key, delErr)
		}
		return nil, err
	}

	if user.ProfilePictureKey != nil && *user.ProfilePictureKey != "" {
		if err := s.media.DeleteObject(ctx, *user.ProfilePictureKey); err != nil {
			log.Printf("[UserService] Failed to delete old picture: key=%s err=%v", *user.ProfilePictureKey, err)
		}
	}

	return result, nil
}

// RemovePicture resets the account to the default picture and deletes the
// stored object.
func (s *UserService) RemovePicture(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, s.db, userID)
	if err != nil {
		return err
	}

	var url *string
	if s.defaultPictureURL != "" {
		url = &s.defaultPictureURL
	}
	if err := s.userRepo.UpdatePicture(ctx, s.db, userID, url, nil); err != nil {
		return err
	}

	if user.ProfilePictureKey != nil && *user.ProfilePictureKey != "" {
		if err := s.media.DeleteObject(ctx, *user.ProfilePictureKey); err != nil {
			log.Printf("[UserService] Failed to delete old picture: key=%s err=%v", *user.ProfilePictureKey, err)
		}
	}
	return nil
}
