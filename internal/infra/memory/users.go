package memory

import (
	"context"
	"sort"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainUser "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/user"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type UserRepository struct {
	s *Store
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}

	now := r.s.now()
	u.ID = r.s.nextID()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepository) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) SetRefreshTokenHash(_ context.Context, id uint, hash string) error {
	return r.update(id, func(u *models.User) { u.RefreshTokenHash = hash })
}

func (r *UserRepository) SetRole(_ context.Context, id uint, role access.Role) error {
	return r.update(id, func(u *models.User) { u.Role = string(role) })
}

func (r *UserRepository) update(id uint, fn func(*models.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r *UserRepository) List(_ context.Context, page dto.Page) ([]models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, page), int64(len(out)), nil
}

var _ domainUser.Repository = (*UserRepository)(nil)
