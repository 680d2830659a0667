package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domain "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/user"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) Create(ctx context.Context, u *models.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserGormRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate("get user", err)
	}
	return &u, nil
}

func (r *UserGormRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate("get user by email", err)
	}
	return &u, nil
}

func (r *UserGormRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error; err != nil {
		return false, translate("user exists", err)
	}
	return count > 0, nil
}

func (r *UserGormRepository) SetRefreshTokenHash(ctx context.Context, id uint, hash string) error {
	return r.updateColumn(ctx, id, "refresh_token_hash", hash)
}

func (r *UserGormRepository) SetRole(ctx context.Context, id uint, role access.Role) error {
	return r.updateColumn(ctx, id, "role", string(role))
}

func (r *UserGormRepository) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
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

func (r *UserGormRepository) List(ctx context.Context, page dto.Page) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, translate("count users", err)
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(page.Limit).
		Offset(page.Skip).
		Find(&users).Error; err != nil {
		return nil, 0, translate("list users", err)
	}
	return users, total, nil
}

// Compile-time check
var _ domain.Repository = (*UserGormRepository)(nil)
