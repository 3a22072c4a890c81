package memory

import (
	"context"
	"strings"

	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	store *Store
}

func (f filter) matchUser(u *entity.User) bool {
	if f.id != nil && u.Id != *f.id {
		return false
	}
	if f.email != nil && !strings.EqualFold(u.Email, *f.email) {
		return false
	}
	return f.userId == nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	stored := *user
	r.store.users[user.Id] = &stored
	return nil
}

func (r *userRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	f, err := toFilter(specs)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if f.matchUser(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *userRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	f, err := toFilter(specs)
	if err != nil {
		return 0, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, u := range r.store.users {
		if f.matchUser(u) {
			count++
		}
	}
	return count, nil
}
