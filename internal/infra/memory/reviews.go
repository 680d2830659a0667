package memory

import (
	"context"
	"sort"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	domainReview "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/review"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type ReviewRepository struct {
	s  *Store
	tx *txLog
}

func (s *Store) Reviews() *ReviewRepository {
	return &ReviewRepository{s: s}
}

func (r *ReviewRepository) Transaction(
	ctx context.Context,
	fn func(tx domainReview.Repository) error,
) error {
	return runTx(r.s, r.tx, domainReview.Repository(r),
		func(l *txLog) domainReview.Repository { return &ReviewRepository{s: r.s, tx: l} },
		fn,
	)
}

func (r *ReviewRepository) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ap, ok := r.s.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (r *ReviewRepository) GetReview(_ context.Context, id uint) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rv, nil
}

func (r *ReviewRepository) ReviewExistsForAppointment(_ context.Context, appointmentID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.reviewForAppointmentLocked(appointmentID), nil
}

func (s *Store) reviewForAppointmentLocked(appointmentID uint) bool {
	for _, rv := range s.reviews {
		if rv.AppointmentID == appointmentID {
			return true
		}
	}
	return false
}

func (r *ReviewRepository) CreateReview(_ context.Context, rv *models.Review) error {
	defer r.s.begin(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.reviewForAppointmentLocked(rv.AppointmentID) {
		return domain.ErrDuplicate
	}

	now := r.s.now()
	rv.ID = r.s.nextID()
	rv.CreatedAt = now
	rv.UpdatedAt = now
	r.s.reviews[rv.ID] = *rv

	id := rv.ID
	r.s.record(r.tx, func() { delete(r.s.reviews, id) })
	return nil
}

func (r *ReviewRepository) UpdateReview(_ context.Context, rv *models.Review) error {
	defer r.s.begin(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.reviews[rv.ID]
	if !ok {
		return domain.ErrNotFound
	}

	rv.UpdatedAt = r.s.now()
	r.s.reviews[rv.ID] = *rv
	r.s.record(r.tx, func() { r.s.reviews[prev.ID] = prev })
	return nil
}

func (r *ReviewRepository) DeleteReview(_ context.Context, id uint) error {
	defer r.s.begin(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.reviews[id]
	if !ok {
		return domain.ErrNotFound
	}

	delete(r.s.reviews, id)
	r.s.record(r.tx, func() { r.s.reviews[id] = prev })
	return nil
}

func (r *ReviewRepository) list(match func(models.Review) bool, page dto.Page) ([]models.Review, int64) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Review
	for _, rv := range r.s.reviews {
		if match(rv) {
			out = append(out, rv)
		}
	}

	// newest first
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, page), int64(len(out))
}

func (r *ReviewRepository) ListByBarber(_ context.Context, barberID uint, page dto.Page) ([]models.Review, int64, error) {
	out, total := r.list(func(rv models.Review) bool { return rv.BarberID == barberID }, page)
	return out, total, nil
}

func (r *ReviewRepository) ListByUser(_ context.Context, userID uint, page dto.Page) ([]models.Review, int64, error) {
	out, total := r.list(func(rv models.Review) bool { return rv.UserID == userID }, page)
	return out, total, nil
}

func (r *ReviewRepository) ListRatings(_ context.Context, barberID uint) ([]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []int
	for _, rv := range r.s.reviews {
		if rv.BarberID == barberID {
			out = append(out, rv.Rating)
		}
	}
	return out, nil
}

func (r *ReviewRepository) SetBarberRating(_ context.Context, barberID uint, rating domainReview.Rating) error {
	defer r.s.begin(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.barbers[barberID]
	if !ok {
		return domain.ErrNotFound
	}

	prev := b
	b.AverageRating = rating.Average
	b.TotalReviews = rating.Total
	r.s.barbers[barberID] = b
	r.s.record(r.tx, func() { r.s.barbers[barberID] = prev })
	return nil
}

var _ domainReview.Repository = (*ReviewRepository)(nil)
