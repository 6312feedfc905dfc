package modules

import (
	"context"
	"fmt"
	"sync"

	"github.com/oksasatya/go-user-api/internal/domain/entity"
	"github.com/oksasatya/go-user-api/internal/domain/repository"
)

// memRepo is an in-memory UserRepository with a unique email constraint.
type memRepo struct {
	mu    sync.Mutex
	seq   int
	order []string
	byID  map[string]entity.User
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]entity.User{}}
}

func clone(u entity.User) *entity.User {
	u.Roles = append([]string(nil), u.Roles...)
	return &u
}

func (r *memRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.byID {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *memRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(u.Email, "") {
		return repository.ErrDuplicateEmail
	}
	r.seq++
	u.ID = fmt.Sprintf("u-%d", r.seq)
	r.byID[u.ID] = *clone(*u)
	r.order = append(r.order, u.ID)
	return nil
}

func (r *memRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return repository.ErrDuplicateEmail
	}
	r.byID[u.ID] = *clone(*u)
	return nil
}

func (r *memRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.order))
	for _, id := range r.order {
		if u, ok := r.byID[id]; ok {
			out = append(out, clone(u))
		}
	}
	return out, nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRepo) Delete(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, u.ID)
	return nil
}

var _ repository.UserRepository = (*memRepo)(nil)
