package appointment

import (
	"context"
	"strings"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/timezone"
)

const MaxCancellationReasonLength = 255

type CancelAppointment struct {
	repo  domainAppointment.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCancelAppointment(
	repo domainAppointment.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor access.Actor,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > MaxCancellationReasonLength {
		return nil, httperr.Validation("reason_too_long",
			"cancellation reason must be at most %d characters", MaxCancellationReasonLength)
	}

	var ap *models.Appointment
	err := uc.repo.Transaction(ctx, func(tx domainAppointment.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return domain.StoreError(err, "appointment")
		}

		if !actor.CanActOn(ap.UserID) {
			return httperr.Forbidden("forbidden", "you can only cancel your own appointments")
		}

		if err := domainAppointment.Cancel(ap, actor, reason, uc.clock()); err != nil {
			return err
		}

		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reason": reason},
	})

	return ap, nil
}
