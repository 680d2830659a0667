package user

import (
	"context"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type Repository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	SetRefreshTokenHash(ctx context.Context, id uint, hash string) error
	SetRole(ctx context.Context, id uint, role access.Role) error
	List(ctx context.Context, page dto.Page) ([]models.User, int64, error)
}
