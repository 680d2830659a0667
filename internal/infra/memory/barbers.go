package memory

import (
	"context"
	"sort"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	domainBarber "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/barber"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type BarberRepository struct {
	s *Store
}

func (s *Store) Barbers() *BarberRepository {
	return &BarberRepository{s: s}
}

func (r *BarberRepository) Create(_ context.Context, b *models.Barber) error {
	defer r.s.begin(nil)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.barbers {
		if existing.Email == b.Email {
			return domain.ErrDuplicate
		}
	}

	now := r.s.now()
	b.ID = r.s.nextID()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.s.barbers[b.ID] = *b
	return nil
}

func (r *BarberRepository) Get(_ context.Context, id uint) (*models.Barber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.barbers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *BarberRepository) ListActive(_ context.Context, page dto.Page) ([]models.Barber, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Barber
	for _, b := range r.s.barbers {
		if b.IsActive {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, page), int64(len(out)), nil
}

func (r *BarberRepository) UpdateProfile(_ context.Context, b *models.Barber) error {
	defer r.s.begin(nil)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.barbers[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.barbers {
		if id != b.ID && existing.Email == b.Email {
			return domain.ErrDuplicate
		}
	}

	cur.Name = b.Name
	cur.Email = b.Email
	cur.Phone = b.Phone
	cur.Specialization = b.Specialization
	cur.Experience = b.Experience
	cur.BufferTime = b.BufferTime
	cur.UserID = b.UserID
	cur.UpdatedAt = r.s.now()
	r.s.barbers[b.ID] = cur
	*b = cur
	return nil
}

func (r *BarberRepository) SetAvatarURL(_ context.Context, id uint, url string) error {
	defer r.s.begin(nil)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.barbers[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.AvatarURL = url
	b.UpdatedAt = r.s.now()
	r.s.barbers[id] = b
	return nil
}

func (r *BarberRepository) Deactivate(_ context.Context, id uint) (bool, error) {
	defer r.s.begin(nil)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.barbers[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if !b.CurrentAppointment.Empty() {
		return false, nil
	}
	b.IsActive = false
	b.UpdatedAt = r.s.now()
	r.s.barbers[id] = b
	return true, nil
}

var _ domainBarber.Repository = (*BarberRepository)(nil)
