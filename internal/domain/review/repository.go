package review

import (
	"context"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	GetReview(ctx context.Context, id uint) (*models.Review, error)
	ReviewExistsForAppointment(ctx context.Context, appointmentID uint) (bool, error)
	CreateReview(ctx context.Context, r *models.Review) error
	UpdateReview(ctx context.Context, r *models.Review) error
	DeleteReview(ctx context.Context, id uint) error

	ListByBarber(ctx context.Context, barberID uint, page dto.Page) ([]models.Review, int64, error)
	ListByUser(ctx context.Context, userID uint, page dto.Page) ([]models.Review, int64, error)

	// -------- Aggregation --------
	ListRatings(ctx context.Context, barberID uint) ([]int, error)
	SetBarberRating(ctx context.Context, barberID uint, r Rating) error
}
