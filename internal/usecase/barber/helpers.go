package barber

import (
	"context"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

func errStaffOnly() error {
	return httperr.Forbidden("forbidden", "only barbers or admins can do this")
}

func errBarberNotFound() error {
	return httperr.NotFoundErr("barber_not_found", "barber not found")
}

// activeBarber treats an inactive barber as missing.
func activeBarber(ctx context.Context, repo domainAppointment.Repository, id uint) (*models.Barber, error) {
	b, err := repo.GetBarber(ctx, id)
	if err != nil {
		return nil, domain.StoreError(err, "barber")
	}
	if !b.IsActive {
		return nil, errBarberNotFound()
	}
	return b, nil
}
