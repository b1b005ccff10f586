package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"teamawesome_t4/internal/config"
	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
	"teamawesome_t4/internal/repository"
)

// AuthService handles registration, login, and access token issuance.
type AuthService struct {
	userRepo repository.UserRepository
	db       database.Querier
	config   *config.Config
}

func NewAuthService(userRepo repository.UserRepository, db database.Querier, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		db:       db,
		config:   cfg,
	}
}

// Register creates a new account with a bcrypt-hashed password and returns
// the user with a signed access token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if username == "" || email == "" || req.Password == "" {
		return nil, "", model.ErrInvalidCredentials
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, s.db, username)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", model.ErrUsernameExists
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, s.db, email)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", model.ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:          username,
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		Email:             email,
		PasswordHashed:    string(hashed),
		IsProfilePublic:   true,
		ProfilePictureURL: s.defaultPictureURL(),
	}

	if err := s.userRepo.Create(ctx, s.db, user); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user with a signed access
// token. Wrong username and wrong password are indistinguishable to callers.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, s.db, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, "", model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, "", model.ErrInvalidCredentials
	}

	token, err := s.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GenerateAccessToken signs a short-lived HS256 token carrying the user id.
func (s *AuthService) GenerateAccessToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *AuthService) defaultPictureURL() *string {
	if s.config.DefaultPictureURL == "" {
		return nil
	}
	url := s.config.DefaultPictureURL
	return &url
}
