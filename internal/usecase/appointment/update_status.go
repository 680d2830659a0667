package appointment

import (
	"context"
	"errors"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/timezone"
)

// UpdateStatus is the staff override. It only refuses to move a Completed
// appointment. Leaving In Progress frees the barber if this appointment was
// the current job; entering it does not claim the barber (use StartService).
type UpdateStatus struct {
	repo  domainAppointment.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewUpdateStatus(
	repo domainAppointment.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *UpdateStatus {
	return &UpdateStatus{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	actor access.Actor,
	appointmentID uint,
	status string,
) (*models.Appointment, error) {

	if !actor.Elevated() {
		return nil, httperr.Forbidden("forbidden", "only barbers or admins can change appointment status")
	}

	to, err := domainAppointment.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var (
		ap   *models.Appointment
		from domainAppointment.Status
	)
	err = uc.repo.Transaction(ctx, func(tx domainAppointment.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return domain.StoreError(err, "appointment")
		}

		from = domainAppointment.Status(ap.Status)
		if err := domainAppointment.SetStatus(ap, to, actor, uc.clock()); err != nil {
			return err
		}

		if from == domainAppointment.StatusInProgress && to != domainAppointment.StatusInProgress {
			if _, err := tx.ReleaseBarber(ctx, ap.BarberID, ap.ID); err != nil {
				return err
			}
		}

		return tx.UpdateAppointment(ctx, ap)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// reviving a cancelled booking onto a slot someone else holds
		return nil, errSlotTaken()
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"from": from, "to": to},
	})

	return ap, nil
}
