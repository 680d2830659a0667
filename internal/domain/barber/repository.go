package barber

import (
	"context"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

// Repository is the profile side of barbers. Queue state lives behind
// appointment.Repository.
type Repository interface {
	Create(ctx context.Context, b *models.Barber) error
	Get(ctx context.Context, id uint) (*models.Barber, error)
	ListActive(ctx context.Context, page dto.Page) ([]models.Barber, int64, error)

	// UpdateProfile writes profile columns only; rating and queue columns are untouched.
	UpdateProfile(ctx context.Context, b *models.Barber) error
	SetAvatarURL(ctx context.Context, id uint, url string) error

	// Deactivate clears is_active only while the barber has no current job
	// and reports whether it did.
	Deactivate(ctx context.Context, id uint) (bool, error)
}
