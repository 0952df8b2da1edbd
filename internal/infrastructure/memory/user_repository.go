package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository usuarios en memoria. No participa en TxRunner.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) usernameTaken(username, exceptID string) bool {
	for id, u := range r.s.users {
		if u.Username == username && id != exceptID {
			return true
		}
	}
	return false
}

// Create registra el usuario; username único.
func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.usernameTaken(u.Username, "") {
		return domain.ErrUsernameTaken
	}
	r.s.users[u.ID] = *u
	return nil
}

// GetByID devuelve el usuario o nil.
func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// GetByUsername devuelve el usuario o nil.
func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// Update reemplaza el usuario; username único.
func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return domain.NotFound("user", u.ID)
	}
	if r.usernameTaken(u.Username, u.ID) {
		return domain.ErrUsernameTaken
	}
	next := *u
	next.CreatedAt = cur.CreatedAt
	r.s.users[u.ID] = next
	return nil
}

// Delete elimina el usuario.
func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.NotFound("user", id)
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) sorted(keep func(u entity.User) bool) []*entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if keep(u) {
			c := u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// List usuarios ordenados por username; limit 0 devuelve todos.
func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	out := r.sorted(func(entity.User) bool { return true })
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ListByRole usuarios con el rol dado.
func (r *UserRepository) ListByRole(_ context.Context, role string) ([]*entity.User, error) {
	return r.sorted(func(u entity.User) bool { return u.Role == role }), nil
}

// Count total de usuarios.
func (r *UserRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}
