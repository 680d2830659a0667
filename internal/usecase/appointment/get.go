package appointment

import (
	"context"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type GetAppointment struct {
	repo domainAppointment.Repository
}

func NewGetAppointment(repo domainAppointment.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	actor access.Actor,
	id uint,
) (*models.Appointment, error) {
	return loadAppointment(ctx, uc.repo, actor, id)
}
