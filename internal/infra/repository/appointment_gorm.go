package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var b models.Barber
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate("get barber", err)
	}
	return &b, nil
}

func (r *AppointmentGormRepository) ClaimBarber(
	ctx context.Context,
	barberID uint,
	job models.CurrentJob,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ? AND current_appointment_id IS NULL", barberID).
		Updates(map[string]any{
			"current_appointment_id":     job.AppointmentID,
			"current_started_at":         job.StartedAt,
			"current_estimated_end_time": job.EstimatedEndTime,
			"updated_at":                 time.Now(),
		})
	if res.Error != nil {
		return false, translate("claim barber", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *AppointmentGormRepository) ReleaseBarber(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ? AND current_appointment_id = ?", barberID, appointmentID).
		Updates(map[string]any{
			"current_appointment_id":     nil,
			"current_started_at":         nil,
			"current_estimated_end_time": nil,
			"updated_at":                 time.Now(),
		})
	if res.Error != nil {
		return false, translate("release barber", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *AppointmentGormRepository) SetShopOpen(
	ctx context.Context,
	barberID uint,
	open bool,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", barberID).
		Update("is_open", open)
	if res.Error != nil {
		return translate("set shop open", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("set shop open", gorm.ErrRecordNotFound)
	}
	return nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, translate("get appointment", err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, id).Error
	if err != nil {
		return nil, translate("get appointment for update", err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) SlotTaken(
	ctx context.Context,
	barberID uint,
	date time.Time,
	slot string,
	excludeID uint,
) (bool, error) {

	// Row locks on the holder serialize against a concurrent cancel; the
	// partial unique index still decides races between two inserts.
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"barber_id = ? AND appointment_date = ? AND time_slot = ? AND status <> ? AND id <> ?",
			barberID,
			date.Format(time.DateOnly),
			slot,
			string(domain.StatusCancelled),
			excludeID,
		).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, translate("slot taken", err)
	}

	return len(ids) > 0, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return translate("create appointment", r.db.WithContext(ctx).Omit("Barber").Create(ap).Error)
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return translate("update appointment", r.db.WithContext(ctx).Omit("Barber").Save(ap).Error)
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.Filter,
	page dto.Page,
) ([]models.Appointment, int64, error) {

	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Appointment{})
		if f.UserID != nil {
			q = q.Where("user_id = ?", *f.UserID)
		}
		if f.BarberID != nil {
			q = q.Where("barber_id = ?", *f.BarberID)
		}
		if f.Date != nil {
			q = q.Where("appointment_date = ?", f.Date.Format(time.DateOnly))
		}
		if f.Status != nil {
			q = q.Where("status = ?", string(*f.Status))
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, translate("count appointments", err)
	}

	var apps []models.Appointment
	if err := filtered().
		Preload("Barber").
		Order("appointment_date ASC, time_slot ASC, id ASC").
		Limit(page.Limit).
		Offset(page.Skip).
		Find(&apps).Error; err != nil {
		return nil, 0, translate("list appointments", err)
	}

	return apps, total, nil
}

func (r *AppointmentGormRepository) ListPending(
	ctx context.Context,
	barberID uint,
	page dto.Page,
) ([]models.Appointment, int64, error) {

	pending := domain.StatusPending
	return r.ListAppointments(ctx, domain.Filter{BarberID: &barberID, Status: &pending}, page)
}

func (r *AppointmentGormRepository) CountPending(
	ctx context.Context,
	barberID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("barber_id = ? AND status = ?", barberID, string(domain.StatusPending)).
		Count(&count).Error; err != nil {
		return 0, translate("count pending", err)
	}
	return count, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
