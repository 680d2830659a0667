package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/timezone"
)

// UpdateAppointmentInput is a partial edit; nil fields are left alone.
// The barber cannot be changed; cancel and rebook instead.
type UpdateAppointmentInput struct {
	Actor access.Actor
	ID    uint

	CustomerName  *string
	CustomerPhone *string
	Date          *string
	TimeSlot      *string
	Service       *string
	Notes         *string
}

type UpdateAppointment struct {
	repo  domainAppointment.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewUpdateAppointment(
	repo domainAppointment.Repository,
	audit *audit.Dispatcher,
	tz string,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
		tz:    tz,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	var ap *models.Appointment
	err := uc.repo.Transaction(ctx, func(tx domainAppointment.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForUpdate(ctx, in.ID)
		if err != nil {
			return domain.StoreError(err, "appointment")
		}
		if !in.Actor.CanActOn(ap.UserID) {
			return httperr.Forbidden("forbidden", "you can only edit your own appointments")
		}
		if err := domainAppointment.Check(domainAppointment.ActionEdit, domainAppointment.Status(ap.Status)); err != nil {
			return err
		}

		slotChanged, err := uc.apply(ap, in)
		if err != nil {
			return err
		}

		if slotChanged {
			taken, err := tx.SlotTaken(ctx, ap.BarberID, ap.AppointmentDate, ap.TimeSlot, ap.ID)
			if err != nil {
				return err
			}
			if taken {
				return errSlotTaken()
			}
		}

		return tx.UpdateAppointment(ctx, ap)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, errSlotTaken()
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.ID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

// apply copies the set fields onto ap and reports whether date or slot moved.
func (uc *UpdateAppointment) apply(ap *models.Appointment, in UpdateAppointmentInput) (bool, error) {
	if in.CustomerName != nil {
		v := strings.TrimSpace(*in.CustomerName)
		if v == "" {
			return false, httperr.Validation("missing_fields", "customer_name cannot be empty")
		}
		ap.CustomerName = v
	}

	if in.CustomerPhone != nil {
		v := strings.TrimSpace(*in.CustomerPhone)
		if v == "" {
			return false, httperr.Validation("missing_fields", "customer_phone cannot be empty")
		}
		ap.CustomerPhone = v
	}

	if in.Service != nil {
		s, err := domainAppointment.ParseService(*in.Service)
		if err != nil {
			return false, err
		}
		ap.Service = s
	}

	if in.Notes != nil {
		if err := validateNotes(*in.Notes); err != nil {
			return false, err
		}
		ap.Notes = *in.Notes
	}

	moved := false

	if in.Date != nil {
		d, err := timezone.ParseDate(*in.Date, uc.tz)
		if err != nil {
			return false, err
		}
		if !d.Equal(ap.AppointmentDate) {
			ap.AppointmentDate = d
			moved = true
		}
	}

	if in.TimeSlot != nil {
		v := strings.TrimSpace(*in.TimeSlot)
		if v == "" {
			return false, httperr.Validation("missing_fields", "time_slot cannot be empty")
		}
		if err := validateSlot(v); err != nil {
			return false, err
		}
		if v != ap.TimeSlot {
			ap.TimeSlot = v
			moved = true
		}
	}

	return moved, nil
}
