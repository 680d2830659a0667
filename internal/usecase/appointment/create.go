package appointment

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/timezone"
)

const (
	MaxNotesLength    = 500
	MaxTimeSlotLength = 20
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Actor access.Actor

	CustomerName  string
	CustomerPhone string
	BarberID      uint

	Date     string
	TimeSlot string
	Service  string
	Notes    string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domainAppointment.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewCreateAppointment(
	repo domainAppointment.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		tz:    tz,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	name := strings.TrimSpace(in.CustomerName)
	phone := strings.TrimSpace(in.CustomerPhone)
	slot := strings.TrimSpace(in.TimeSlot)

	if name == "" || phone == "" || in.BarberID == 0 || in.Date == "" || slot == "" {
		return nil, httperr.Validation("missing_fields",
			"customer_name, customer_phone, barber_id, appointment_date and time_slot are required")
	}
	if err := validateSlot(slot); err != nil {
		return nil, err
	}
	if err := validateNotes(in.Notes); err != nil {
		return nil, err
	}

	date, err := timezone.ParseDate(in.Date, uc.tz)
	if err != nil {
		return nil, err
	}

	service, err := domainAppointment.ParseService(in.Service)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		UserID:          in.Actor.ID,
		CustomerName:    name,
		CustomerPhone:   phone,
		BarberID:        in.BarberID,
		AppointmentDate: date,
		TimeSlot:        slot,
		Service:         service,
		Status:          string(domainAppointment.InitialStatus()),
		Notes:           in.Notes,
	}

	// --------------------------------------------------
	// Barber + slot, then insert
	// --------------------------------------------------
	err = uc.repo.Transaction(ctx, func(tx domainAppointment.Repository) error {
		if _, err := activeBarber(ctx, tx, in.BarberID); err != nil {
			return err
		}

		taken, err := tx.SlotTaken(ctx, ap.BarberID, ap.AppointmentDate, ap.TimeSlot, 0)
		if err != nil {
			return err
		}
		if taken {
			return errSlotTaken()
		}

		return tx.CreateAppointment(ctx, ap)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// lost the race to a concurrent booking
		return nil, errSlotTaken()
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.ID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"barber_id": ap.BarberID,
			"date":      in.Date,
			"time_slot": ap.TimeSlot,
		},
	})

	return ap, nil
}

// -------- shared checks --------

func errSlotTaken() error {
	return httperr.Conflict("slot_taken", "this time slot is already booked for the selected barber")
}

func validateSlot(slot string) error {
	if utf8.RuneCountInString(slot) > MaxTimeSlotLength {
		return httperr.Validation("invalid_time_slot", "time_slot must be at most %d characters", MaxTimeSlotLength)
	}
	return nil
}

func validateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return httperr.Validation("notes_too_long", "notes must be at most %d characters", MaxNotesLength)
	}
	return nil
}

// activeBarber treats an inactive barber as missing.
func activeBarber(ctx context.Context, repo domainAppointment.Repository, id uint) (*models.Barber, error) {
	b, err := repo.GetBarber(ctx, id)
	if err != nil {
		return nil, domain.StoreError(err, "barber")
	}
	if !b.IsActive {
		return nil, httperr.NotFoundErr("barber_not_found", "barber not found")
	}
	return b, nil
}

// loadAppointment hides other users' appointments behind a 404.
func loadAppointment(
	ctx context.Context,
	repo domainAppointment.Repository,
	actor access.Actor,
	id uint,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, domain.StoreError(err, "appointment")
	}
	if !actor.CanActOn(ap.UserID) {
		return nil, httperr.NotFoundErr("appointment_not_found", "appointment not found")
	}
	return ap, nil
}
