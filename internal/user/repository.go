package user

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already exists")
)

// Repository persists validated users. Implementations must enforce email
// uniqueness atomically and report a violation as ErrEmailExists.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	users   []User
	byEmail map[string]int
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		users:   make([]User, 0, len(seed)),
		byEmail: make(map[string]int, len(seed)),
	}

	for _, user := range seed {
		repo.byEmail[user.Email] = len(repo.users)
		repo.users = append(repo.users, user)
	}

	return repo
}

func (r *InMemoryRepository) List() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, len(r.users))
	copy(users, r.users)
	return users
}

func (r *InMemoryRepository) GetByEmail(email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.users[i], nil
}

func (r *InMemoryRepository) Create(ctx context.Context, user User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return User{}, ErrEmailExists
	}

	r.byEmail[user.Email] = len(r.users)
	r.users = append(r.users, user)
	return user, nil
}
