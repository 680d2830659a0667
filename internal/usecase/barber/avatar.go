package barber

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainBarber "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/barber"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/imaging"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/storage"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type UploadAvatar struct {
	repo    domainBarber.Repository
	objects storage.ObjectStore
	audit   *audit.Dispatcher
}

// NewUploadAvatar accepts a nil store; uploads then fail with 503.
func NewUploadAvatar(
	repo domainBarber.Repository,
	objects storage.ObjectStore,
	audit *audit.Dispatcher,
) *UploadAvatar {
	return &UploadAvatar{repo: repo, objects: objects, audit: audit}
}

func (uc *UploadAvatar) Execute(
	ctx context.Context,
	actor access.Actor,
	barberID uint,
	file io.Reader,
) (*models.Barber, error) {

	if !actor.Elevated() {
		return nil, errStaffOnly()
	}
	if uc.objects == nil {
		return nil, httperr.Unavailable("avatar_storage_disabled", "avatar storage is not configured")
	}

	b, err := uc.repo.Get(ctx, barberID)
	if err != nil {
		return nil, domain.StoreError(err, "barber")
	}
	if !b.IsActive {
		return nil, errBarberNotFound()
	}

	img, err := imaging.Avatar(file)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/barbers/%d/%s.webp", b.ID, uuid.NewString())
	url, err := uc.objects.Put(ctx, key, img, imaging.ContentType)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.SetAvatarURL(ctx, b.ID, url); err != nil {
		return nil, domain.StoreError(err, "barber")
	}
	b.AvatarURL = url

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "barber_avatar_uploaded",
		Entity:   "barber",
		EntityID: &b.ID,
		Metadata: map[string]any{"key": key},
	})
	return b, nil
}
