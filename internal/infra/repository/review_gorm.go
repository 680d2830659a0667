package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/review"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ReviewGormRepository{db: tx})
	})
}

func (r *ReviewGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, translate("get appointment", err)
	}
	return &ap, nil
}

// --------------------------------------------------
// Review
// --------------------------------------------------

func (r *ReviewGormRepository) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.db.WithContext(ctx).First(&rv, id).Error; err != nil {
		return nil, translate("get review", err)
	}
	return &rv, nil
}

func (r *ReviewGormRepository) ReviewExistsForAppointment(ctx context.Context, appointmentID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("appointment_id = ?", appointmentID).
		Count(&count).Error; err != nil {
		return false, translate("review exists", err)
	}
	return count > 0, nil
}

func (r *ReviewGormRepository) CreateReview(ctx context.Context, rv *models.Review) error {
	return translate("create review", r.db.WithContext(ctx).Create(rv).Error)
}

func (r *ReviewGormRepository) UpdateReview(ctx context.Context, rv *models.Review) error {
	return translate("update review", r.db.WithContext(ctx).Save(rv).Error)
}

func (r *ReviewGormRepository) DeleteReview(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return translate("delete review", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("delete review", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *ReviewGormRepository) list(
	ctx context.Context,
	column string,
	id uint,
	page dto.Page,
) ([]models.Review, int64, error) {

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where(column+" = ?", id).
		Count(&total).Error; err != nil {
		return nil, 0, translate("count reviews", err)
	}

	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where(column+" = ?", id).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Skip).
		Find(&reviews).Error; err != nil {
		return nil, 0, translate("list reviews", err)
	}

	return reviews, total, nil
}

func (r *ReviewGormRepository) ListByBarber(ctx context.Context, barberID uint, page dto.Page) ([]models.Review, int64, error) {
	return r.list(ctx, "barber_id", barberID, page)
}

func (r *ReviewGormRepository) ListByUser(ctx context.Context, userID uint, page dto.Page) ([]models.Review, int64, error) {
	return r.list(ctx, "user_id", userID, page)
}

// --------------------------------------------------
// Aggregation
// --------------------------------------------------

func (r *ReviewGormRepository) ListRatings(ctx context.Context, barberID uint) ([]int, error) {
	var ratings []int
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("barber_id = ?", barberID).
		Pluck("rating", &ratings).Error; err != nil {
		return nil, translate("list ratings", err)
	}
	return ratings, nil
}

func (r *ReviewGormRepository) SetBarberRating(ctx context.Context, barberID uint, rating domain.Rating) error {
	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", barberID).
		Updates(map[string]any{
			"average_rating": rating.Average,
			"total_reviews":  rating.Total,
		})
	if res.Error != nil {
		return translate("set barber rating", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("set barber rating", gorm.ErrRecordNotFound)
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*ReviewGormRepository)(nil)
