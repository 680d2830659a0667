package appointment

import (
	"context"
	"time"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type Filter struct {
	UserID   *uint
	BarberID *uint
	Date     *time.Time
	Status   *Status
}

// Repository covers bookings and the barber queue state. Lookups return
// domain.ErrNotFound; unique violations return domain.ErrDuplicate.
type Repository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Barber --------
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)

	// ClaimBarber sets the current job only if the barber has none.
	ClaimBarber(ctx context.Context, barberID uint, job models.CurrentJob) (bool, error)

	// ReleaseBarber clears the current job only if it still points at appointmentID.
	ReleaseBarber(ctx context.Context, barberID uint, appointmentID uint) (bool, error)

	SetShopOpen(ctx context.Context, barberID uint, open bool) error

	// -------- Appointment --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	// GetAppointmentForUpdate locks the row until the surrounding transaction
	// ends. Mutators read through it before writing the row back.
	GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error)

	SlotTaken(
		ctx context.Context,
		barberID uint,
		date time.Time,
		slot string,
		excludeID uint,
	) (bool, error)

	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	ListAppointments(ctx context.Context, f Filter, page dto.Page) ([]models.Appointment, int64, error)

	// ListPending orders by appointment date, then slot, then id.
	ListPending(ctx context.Context, barberID uint, page dto.Page) ([]models.Appointment, int64, error)
	CountPending(ctx context.Context, barberID uint) (int64, error)
}
