package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

var _ repository.UserRepository = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*models.User)}
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, false, nil
	}
	c := *u
	return &c, true, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.byEmail(email); u != nil {
		c := *u
		return &c, true, nil
	}
	return nil, false, nil
}

func (s *UserStore) byEmail(email string) *models.User {
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byEmail(user.Email) != nil {
		return repository.ErrDuplicate
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	c := *user
	s.users[user.ID] = &c
	return nil
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil
	}
	if other := s.byEmail(user.Email); other != nil && other.ID != user.ID {
		return repository.ErrDuplicate
	}

	user.Email = strings.ToLower(user.Email)
	user.UpdatedAt = time.Now().UTC()
	c := *user
	s.users[user.ID] = &c
	return nil
}

func (s *UserStore) SetAdmin(ctx context.Context, id string, isAdmin bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u.IsAdmin = isAdmin
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (s *UserStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		c := *u
		users = append(users, &c)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}
