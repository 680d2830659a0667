package memory

import (
	"context"
	"time"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type AppointmentRepository struct {
	s  *Store
	tx *txLog
}

func (s *Store) Appointments() *AppointmentRepository {
	return &AppointmentRepository{s: s}
}

func (r *AppointmentRepository) Transaction(
	ctx context.Context,
	fn func(tx domainAppointment.Repository) error,
) error {
	return runTx(r.s, r.tx, domainAppointment.Repository(r),
		func(l *txLog) domainAppointment.Repository { return &AppointmentRepository{s: r.s, tx: l} },
		fn,
	)
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *AppointmentRepository) GetBarber(_ context.Context, id uint) (*models.Barber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.barbers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *AppointmentRepository) ClaimBarber(_ context.Context, barberID uint, job models.CurrentJob) (bool, error) {
	defer r.s.begin(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.barbers[barberID]
	if !ok || !b.CurrentAppointment.Empty() {
		return false, nil
	}

	prev := b
	b.CurrentAppointment = job
	b.UpdatedAt = r.s.now()
	r.s.barbers[barberID] = b
	r.s.record(r.tx, func() { r.s.barbers[barberID] = prev })
	return true, nil
}

func (r *AppointmentRepository) ReleaseBarber(_ context.Context, barberID uint, appointmentID uint) (bool, error) {
	defer r.s.begin(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.barbers[barberID]
	if !ok || b.CurrentAppointment.Empty() || *b.CurrentAppointment.AppointmentID != appointmentID {
		return false, nil
	}

	prev := b
	b.CurrentAppointment = models.CurrentJob{}
	b.UpdatedAt = r.s.now()
	r.s.barbers[barberID] = b
	r.s.record(r.tx, func() { r.s.barbers[barberID] = prev })
	return true, nil
}

func (r *AppointmentRepository) SetShopOpen(_ context.Context, barberID uint, open bool) error {
	defer r.s.begin(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.barbers[barberID]
	if !ok {
		return domain.ErrNotFound
	}

	prev := b
	b.IsOpen = open
	b.UpdatedAt = r.s.now()
	r.s.barbers[barberID] = b
	r.s.record(r.tx, func() { r.s.barbers[barberID] = prev })
	return nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentRepository) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ap, ok := r.s.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

// GetAppointmentForUpdate needs no row lock: a transaction already excludes
// every other writer.
func (r *AppointmentRepository) GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	return r.GetAppointment(ctx, id)
}

func (r *AppointmentRepository) SlotTaken(
	_ context.Context,
	barberID uint,
	date time.Time,
	slot string,
	excludeID uint,
) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.slotTakenLocked(barberID, date, slot, excludeID), nil
}

func (s *Store) slotTakenLocked(barberID uint, date time.Time, slot string, excludeID uint) bool {
	for id, ap := range s.appointments {
		if id == excludeID || !domainAppointment.Live(&ap) {
			continue
		}
		if ap.BarberID == barberID && ap.TimeSlot == slot && sameDay(ap.AppointmentDate, date) {
			return true
		}
	}
	return false
}

func (r *AppointmentRepository) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	defer r.s.begin(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.barbers[ap.BarberID]; !ok {
		return domain.ErrNotFound
	}
	if domainAppointment.Live(ap) && r.s.slotTakenLocked(ap.BarberID, ap.AppointmentDate, ap.TimeSlot, 0) {
		return domain.ErrDuplicate
	}

	now := r.s.now()
	ap.ID = r.s.nextID()
	ap.CreatedAt = now
	ap.UpdatedAt = now

	stored := *ap
	stored.Barber = nil
	r.s.appointments[ap.ID] = stored

	id := ap.ID
	r.s.record(r.tx, func() { delete(r.s.appointments, id) })
	return nil
}

func (r *AppointmentRepository) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	defer r.s.begin(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.appointments[ap.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if domainAppointment.Live(ap) && r.s.slotTakenLocked(ap.BarberID, ap.AppointmentDate, ap.TimeSlot, ap.ID) {
		return domain.ErrDuplicate
	}

	ap.UpdatedAt = r.s.now()
	stored := *ap
	stored.Barber = nil
	r.s.appointments[ap.ID] = stored
	r.s.record(r.tx, func() { r.s.appointments[prev.ID] = prev })
	return nil
}

func (r *AppointmentRepository) ListAppointments(
	_ context.Context,
	f domainAppointment.Filter,
	page dto.Page,
) ([]models.Appointment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.s.appointments {
		if f.UserID != nil && ap.UserID != *f.UserID {
			continue
		}
		if f.BarberID != nil && ap.BarberID != *f.BarberID {
			continue
		}
		if f.Date != nil && !sameDay(ap.AppointmentDate, *f.Date) {
			continue
		}
		if f.Status != nil && ap.Status != string(*f.Status) {
			continue
		}
		if b, ok := r.s.barbers[ap.BarberID]; ok {
			ap.Barber = &b
		}
		out = append(out, ap)
	}

	sortAppointments(out)
	return paginate(out, page), int64(len(out)), nil
}

func (r *AppointmentRepository) ListPending(
	ctx context.Context,
	barberID uint,
	page dto.Page,
) ([]models.Appointment, int64, error) {
	pending := domainAppointment.StatusPending
	return r.ListAppointments(ctx, domainAppointment.Filter{BarberID: &barberID, Status: &pending}, page)
}

func (r *AppointmentRepository) CountPending(ctx context.Context, barberID uint) (int64, error) {
	_, total, err := r.ListPending(ctx, barberID, dto.Page{Limit: 0})
	return total, err
}

var _ domainAppointment.Repository = (*AppointmentRepository)(nil)
