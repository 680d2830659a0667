package barber

import (
	"context"
	"time"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/lock"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type StartServiceInput struct {
	Actor         access.Actor
	BarberID      uint
	AppointmentID uint

	// EstimatedDuration in minutes; nil means the default.
	EstimatedDuration *int
}

type StartServiceResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Barber      *models.Barber      `json:"barber"`
}

// ======================================================
// USE CASE
// ======================================================

type StartService struct {
	repo   domainAppointment.Repository
	locker lock.Locker
	audit  *audit.Dispatcher
	clock  timezone.Clock
}

func NewStartService(
	repo domainAppointment.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *StartService {
	return &StartService{
		repo:   repo,
		locker: locker,
		audit:  audit,
		clock:  clock,
	}
}

// Execute claims the barber with a compare-and-set and moves the appointment
// to In Progress in one transaction. A barber with a job already running
// yields barber_busy.
func (uc *StartService) Execute(
	ctx context.Context,
	in StartServiceInput,
) (*StartServiceResult, error) {

	if !in.Actor.Elevated() {
		return nil, errStaffOnly()
	}

	duration, err := serviceDuration(in.EstimatedDuration)
	if err != nil {
		return nil, err
	}

	release, err := uc.locker.Lock(ctx, lock.BarberKey(in.BarberID))
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		b  *models.Barber
		ap *models.Appointment
	)
	err = uc.repo.Transaction(ctx, func(tx domainAppointment.Repository) error {
		var err error
		if b, err = activeBarber(ctx, tx, in.BarberID); err != nil {
			return err
		}

		ap, err = tx.GetAppointmentForUpdate(ctx, in.AppointmentID)
		if err != nil {
			return domain.StoreError(err, "appointment")
		}
		if ap.BarberID != b.ID {
			return httperr.NotFoundErr("appointment_not_found", "appointment not found for this barber")
		}

		if err := domainAppointment.Check(domainAppointment.ActionStart, domainAppointment.Status(ap.Status)); err != nil {
			return err
		}

		now := uc.clock()
		job := domainAppointment.NewJob(ap.ID, now, duration)

		claimed, err := tx.ClaimBarber(ctx, b.ID, job)
		if err != nil {
			return err
		}
		if !claimed {
			return httperr.Conflict("barber_busy", "barber already has an appointment in progress")
		}
		b.CurrentAppointment = job

		if err := domainAppointment.Start(ap, now); err != nil {
			return err
		}
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.ID,
		Action:   "service_started",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"barber_id":          b.ID,
			"estimated_end_time": b.CurrentAppointment.EstimatedEndTime,
		},
	})

	return &StartServiceResult{Appointment: ap, Barber: b}, nil
}

func serviceDuration(minutes *int) (time.Duration, error) {
	if minutes == nil {
		return domainAppointment.DefaultServiceDuration, nil
	}
	d := time.Duration(*minutes) * time.Minute
	if d < time.Minute || d > domainAppointment.MaxServiceDuration {
		return 0, httperr.Validation("invalid_duration",
			"estimated_duration must be between 1 and %d minutes", int(domainAppointment.MaxServiceDuration.Minutes()))
	}
	return d, nil
}
