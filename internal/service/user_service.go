package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	config "github.com/maheshrc27/foodblog-api/configs"
	"github.com/maheshrc27/foodblog-api/internal/media"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
	"github.com/maheshrc27/foodblog-api/internal/transfer"
	"github.com/maheshrc27/foodblog-api/pkg/utils"
)

const minPasswordLength = 6

type UserService interface {
	Register(ctx context.Context, req transfer.RegisterRequest) (*transfer.AuthResponse, error)
	Login(ctx context.Context, req transfer.LoginRequest) (*transfer.LoginResponse, error)
	Count(ctx context.Context) (int64, error)

	Profile(ctx context.Context, caller *models.Caller) (*models.User, error)
	// UpdateProfile applies the non-empty fields of in. picture, when set,
	// replaces the stored profile picture.
	UpdateProfile(ctx context.Context, caller *models.Caller, in transfer.ProfileUpdate, picture *File) (*models.User, error)

	List(ctx context.Context) ([]*models.User, error)
	GetWithActivity(ctx context.Context, id string) (*transfer.UserDetail, error)
	Delete(ctx context.Context, caller *models.Caller, id string) error
	SetAdmin(ctx context.Context, caller *models.Caller, id string, isAdmin *bool) (*models.User, error)
}

type userService struct {
	cfg     *config.Config
	u       repository.UserRepository
	blogs   repository.BlogRepository
	auth    AuthService
	uploads UploadService
	cleaner MediaCleaner
}

func NewUserService(cfg *config.Config, u repository.UserRepository, blogs repository.BlogRepository, auth AuthService, uploads UploadService, cleaner MediaCleaner) UserService {
	return &userService{
		cfg:     cfg,
		u:       u,
		blogs:   blogs,
		auth:    auth,
		uploads: uploads,
		cleaner: cleaner,
	}
}

func projectUser(user *models.User) *models.User {
	user.ProfilePicture = media.Canonicalize(user.ProfilePicture)
	return user
}

func (s *userService) authResponse(user *models.User) (*transfer.AuthResponse, error) {
	token, err := s.auth.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &transfer.AuthResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		IsAdmin:        user.IsAdmin,
		ProfilePicture: media.Canonicalize(user.ProfilePicture),
		Token:          token,
	}, nil
}

func (s *userService) Register(ctx context.Context, req transfer.RegisterRequest) (*transfer.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, ValidationError("Username, email and password are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, ValidationError("Invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, ValidationError("Password must be at least %d characters", minPasswordLength)
	}

	_, isExist, err := s.u.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, UpstreamError(err, "Error registering user")
	}
	if isExist {
		return nil, ConflictError("User already exists")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, UpstreamError(err, "Error registering user")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      s.cfg.IsAdminEmail(req.Email),
	}
	if err := s.u.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ConflictError("User already exists")
		}
		return nil, UpstreamError(err, "Error registering user")
	}

	return s.authResponse(user)
}

func (s *userService) Login(ctx context.Context, req transfer.LoginRequest) (*transfer.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ValidationError("Email and password are required")
	}

	user, isExist, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, UpstreamError(err, "Error logging in")
	}
	if !isExist || !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, AuthRequiredError("Invalid email or password")
	}

	resp, err := s.authResponse(user)
	if err != nil {
		return nil, err
	}
	token := resp.Token
	resp.Token = ""
	return &transfer.LoginResponse{Token: token, User: *resp}, nil
}

func (s *userService) Count(ctx context.Context) (int64, error) {
	count, err := s.u.Count(ctx)
	if err != nil {
		return 0, UpstreamError(err, "Error counting users")
	}
	return count, nil
}

func (s *userService) get(ctx context.Context, id string) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, UpstreamError(err, "Error getting user info")
	}
	if !isExist {
		return nil, NotFoundError("User not found")
	}
	return user, nil
}

func (s *userService) Profile(ctx context.Context, caller *models.Caller) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.get(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return projectUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, caller *models.Caller, in transfer.ProfileUpdate, picture *File) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.get(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	if username := strings.TrimSpace(in.Username); username != "" {
		user.Username = username
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" && email != user.Email {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, ValidationError("Invalid email address")
		}
		user.Email = email
	}
	if in.NewPassword != "" {
		if !utils.CheckPassword(user.PasswordHash, in.CurrentPassword) {
			return nil, ValidationError("Current password is incorrect")
		}
		if len(in.NewPassword) < minPasswordLength {
			return nil, ValidationError("Password must be at least %d characters", minPasswordLength)
		}
		hash, err := utils.HashPassword(in.NewPassword)
		if err != nil {
			return nil, UpstreamError(err, "Error updating profile")
		}
		user.PasswordHash = hash
	}

	var previous, stored string
	if picture != nil {
		result, err := s.uploads.Handle(ctx, ProfileTarget, []File{*picture}, 0)
		if err != nil {
			return nil, err
		}
		if len(result.Stored) == 0 {
			return nil, StorageError(result.Failures[0].Err, "Error uploading profile picture")
		}
		previous = user.ProfilePicture
		stored = result.Stored[0].URL
		user.ProfilePicture = stored
	}

	if err := s.u.Update(ctx, user); err != nil {
		scheduleCleanup(ctx, s.cleaner, stored)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ConflictError("User already exists")
		}
		return nil, UpstreamError(err, "Error updating profile")
	}
	if previous != "" && media.Canonicalize(previous) != stored {
		scheduleCleanup(ctx, s.cleaner, media.Canonicalize(previous))
	}

	return projectUser(user), nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.u.List(ctx)
	if err != nil {
		return nil, UpstreamError(err, "Error fetching users")
	}
	for _, u := range users {
		projectUser(u)
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

func (s *userService) GetWithActivity(ctx context.Context, id string) (*transfer.UserDetail, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	blogs, err := s.blogs.List(ctx, models.BlogFilter{Author: user.Username})
	if err != nil {
		return nil, UpstreamError(err, "Error fetching user activity")
	}
	for _, b := range blogs {
		b.Project()
	}
	if blogs == nil {
		blogs = []*models.Blog{}
	}

	comments, err := s.blogs.ListCommentsByUser(ctx, user.ID)
	if err != nil {
		return nil, UpstreamError(err, "Error fetching user activity")
	}
	if comments == nil {
		comments = []models.UserComment{}
	}

	return &transfer.UserDetail{
		User:     projectUser(user),
		Activity: transfer.UserActivity{Blogs: blogs, Comments: comments},
	}, nil
}

func (s *userService) Delete(ctx context.Context, caller *models.Caller, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin && user.ID != caller.UserID {
		return ForbiddenError("Cannot delete another admin user")
	}

	if err := s.blogs.RemoveCommentsByUser(ctx, user.ID); err != nil {
		return UpstreamError(err, "Error deleting user")
	}
	removed, err := s.u.Remove(ctx, user.ID)
	if err != nil {
		return UpstreamError(err, "Error deleting user")
	}
	if !removed {
		return NotFoundError("User not found")
	}

	scheduleCleanup(ctx, s.cleaner, media.Canonicalize(user.ProfilePicture))
	return nil
}

func (s *userService) SetAdmin(ctx context.Context, caller *models.Caller, id string, isAdmin *bool) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if isAdmin == nil {
		return nil, ValidationError("isAdmin must be a boolean value")
	}
	if id == caller.UserID && !*isAdmin {
		return nil, ForbiddenError("Cannot remove your own admin status")
	}

	updated, err := s.u.SetAdmin(ctx, id, *isAdmin)
	if err != nil {
		return nil, UpstreamError(err, "Error updating user")
	}
	if !updated {
		return nil, NotFoundError("User not found")
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return projectUser(user), nil
}
