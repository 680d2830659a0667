package appointment

import (
	"context"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/timezone"
)

type ListAppointmentsInput struct {
	Actor    access.Actor
	BarberID *uint
	Date     string
	Status   string
	Page     dto.Page
}

type ListAppointments struct {
	repo domainAppointment.Repository
	tz   string
}

func NewListAppointments(repo domainAppointment.Repository, tz string) *ListAppointments {
	return &ListAppointments{repo: repo, tz: tz}
}

// Execute scopes plain users to their own bookings.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]models.Appointment, int64, error) {

	f := domainAppointment.Filter{BarberID: in.BarberID}

	if !in.Actor.Elevated() {
		id := in.Actor.ID
		f.UserID = &id
	}

	if in.Date != "" {
		d, err := timezone.ParseDate(in.Date, uc.tz)
		if err != nil {
			return nil, 0, err
		}
		f.Date = &d
	}

	if in.Status != "" {
		st, err := domainAppointment.ParseStatus(in.Status)
		if err != nil {
			return nil, 0, err
		}
		f.Status = &st
	}

	return uc.repo.ListAppointments(ctx, f, in.Page)
}
