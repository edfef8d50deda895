package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	config "github.com/maheshrc27/foodblog-api/configs"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
	"github.com/maheshrc27/foodblog-api/pkg/utils"
)

const TokenDuration = 30 * 24 * time.Hour

type AuthService interface {
	IssueToken(user *models.User) (string, error)
	// Authenticate resolves a bearer token to the caller it was issued for.
	// The admin flag is read from the stored user, not from the token.
	Authenticate(ctx context.Context, token string) (*models.Caller, error)
}

type authService struct {
	cfg *config.Config
	u   repository.UserRepository
}

func NewAuthService(cfg *config.Config, u repository.UserRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
	}
}

func (s *authService) IssueToken(user *models.User) (string, error) {
	token, err := utils.GenerateToken(s.cfg.SecretKey, user.ID, user.IsAdmin, TokenDuration)
	if err != nil {
		return "", UpstreamError(err, "Error issuing token")
	}
	return token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.Caller, error) {
	if token == "" {
		err := errors.New("token is empty")
		slog.Info(err.Error())
		return nil, AuthRequiredError("Not authorized, no token")
	}

	claims, err := utils.ValidateToken(s.cfg.SecretKey, token)
	if err != nil {
		return nil, AuthRequiredError("Not authorized, token failed")
	}

	user, isExist, err := s.u.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, UpstreamError(err, "Error loading user")
	}
	if !isExist {
		return nil, AuthRequiredError("Not authorized, user not found")
	}

	return &models.Caller{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}, nil
}
