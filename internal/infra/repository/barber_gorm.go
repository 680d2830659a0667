package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/barber"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type BarberGormRepository struct {
	db *gorm.DB
}

func NewBarberGormRepository(db *gorm.DB) *BarberGormRepository {
	return &BarberGormRepository{db: db}
}

func (r *BarberGormRepository) Create(ctx context.Context, b *models.Barber) error {
	return translate("create barber", r.db.WithContext(ctx).Create(b).Error)
}

func (r *BarberGormRepository) Get(ctx context.Context, id uint) (*models.Barber, error) {
	var b models.Barber
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate("get barber", err)
	}
	return &b, nil
}

func (r *BarberGormRepository) ListActive(ctx context.Context, page dto.Page) ([]models.Barber, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("is_active = ?", true).
		Count(&total).Error; err != nil {
		return nil, 0, translate("count barbers", err)
	}

	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Limit(page.Limit).
		Offset(page.Skip).
		Find(&barbers).Error; err != nil {
		return nil, 0, translate("list barbers", err)
	}

	return barbers, total, nil
}

func (r *BarberGormRepository) UpdateProfile(ctx context.Context, b *models.Barber) error {
	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", b.ID).
		Select("user_id", "name", "email", "phone", "specialization", "experience", "buffer_time").
		Updates(b)
	if res.Error != nil {
		return translate("update barber", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("update barber", gorm.ErrRecordNotFound)
	}

	if err := r.db.WithContext(ctx).First(b, b.ID).Error; err != nil {
		return translate("reload barber", err)
	}
	return nil
}

func (r *BarberGormRepository) SetAvatarURL(ctx context.Context, id uint, url string) error {
	return r.updateColumn(ctx, id, "avatar_url", url)
}

func (r *BarberGormRepository) Deactivate(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ? AND current_appointment_id IS NULL", id).
		Update("is_active", false)
	if res.Error != nil {
		return false, translate("deactivate barber", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *BarberGormRepository) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return translate("update "+column, res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("update "+column, gorm.ErrRecordNotFound)
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*BarberGormRepository)(nil)
