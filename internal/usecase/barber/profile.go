package barber

import (
	"context"
	"errors"
	"strings"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainBarber "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/barber"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/lock"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/validators"
)

const (
	DefaultSpecialization = "General barber"
	DefaultBufferMinutes  = 10
)

// ProfileInput is shared by create (all required fields set) and update
// (nil fields left alone).
type ProfileInput struct {
	UserID         *uint
	Name           *string
	Email          *string
	Phone          *string
	Specialization *string
	Experience     *int
	BufferTime     *int
}

type Profiles struct {
	repo   domainBarber.Repository
	locker lock.Locker
	audit  *audit.Dispatcher
}

func NewProfiles(repo domainBarber.Repository, locker lock.Locker, audit *audit.Dispatcher) *Profiles {
	return &Profiles{repo: repo, locker: locker, audit: audit}
}

// -------- Create --------

func (uc *Profiles) Create(ctx context.Context, actor access.Actor, in ProfileInput) (*models.Barber, error) {
	if !actor.Elevated() {
		return nil, errStaffOnly()
	}
	if in.Name == nil || in.Email == nil || in.Phone == nil {
		return nil, httperr.Validation("missing_fields", "name, email and phone are required")
	}

	b := &models.Barber{
		Specialization: DefaultSpecialization,
		BufferTime:     DefaultBufferMinutes,
		IsActive:       true,
		IsOpen:         true,
	}
	if err := applyProfile(b, in); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, b); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errEmailTaken()
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "barber_created",
		Entity:   "barber",
		EntityID: &b.ID,
	})
	return b, nil
}

// -------- Read --------

func (uc *Profiles) Get(ctx context.Context, id uint) (*models.Barber, error) {
	b, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, domain.StoreError(err, "barber")
	}
	if !b.IsActive {
		return nil, errBarberNotFound()
	}
	return b, nil
}

func (uc *Profiles) List(ctx context.Context, page dto.Page) ([]models.Barber, int64, error) {
	return uc.repo.ListActive(ctx, page)
}

// -------- Update --------

func (uc *Profiles) Update(ctx context.Context, actor access.Actor, id uint, in ProfileInput) (*models.Barber, error) {
	if !actor.Elevated() {
		return nil, errStaffOnly()
	}

	b, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(b, in); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateProfile(ctx, b); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errEmailTaken()
		}
		return nil, domain.StoreError(err, "barber")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "barber_updated",
		Entity:   "barber",
		EntityID: &b.ID,
	})
	return b, nil
}

// -------- Delete --------

// Deactivate is a soft delete; past appointments keep their barber. It runs
// under the barber's lock and only succeeds while nothing is in progress.
func (uc *Profiles) Deactivate(ctx context.Context, actor access.Actor, id uint) error {
	if !actor.Elevated() {
		return errStaffOnly()
	}

	release, err := uc.locker.Lock(ctx, lock.BarberKey(id))
	if err != nil {
		return err
	}
	defer release()

	b, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}

	done, err := uc.repo.Deactivate(ctx, b.ID)
	if err != nil {
		return domain.StoreError(err, "barber")
	}
	if !done {
		return httperr.Conflict("barber_busy", "finish the appointment in progress before removing this barber")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "barber_deactivated",
		Entity:   "barber",
		EntityID: &b.ID,
	})
	return nil
}

func errEmailTaken() error {
	return httperr.Conflict("barber_email_taken", "a barber with this email already exists")
}

func applyProfile(b *models.Barber, in ProfileInput) error {
	if in.UserID != nil {
		id := *in.UserID
		b.UserID = &id
	}
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return httperr.Validation("invalid_name", "name cannot be empty")
		}
		b.Name = v
	}
	if in.Email != nil {
		v := validators.NormalizeEmail(*in.Email)
		if !validators.IsEmailFormatValid(v) {
			return httperr.Validation("invalid_email", "email is not valid")
		}
		b.Email = v
	}
	if in.Phone != nil {
		v := strings.TrimSpace(*in.Phone)
		if v == "" {
			return httperr.Validation("invalid_phone", "phone cannot be empty")
		}
		b.Phone = v
	}
	if in.Specialization != nil {
		if v := strings.TrimSpace(*in.Specialization); v != "" {
			b.Specialization = v
		}
	}
	if in.Experience != nil {
		if *in.Experience < 0 {
			return httperr.Validation("invalid_experience", "experience cannot be negative")
		}
		b.Experience = *in.Experience
	}
	if in.BufferTime != nil {
		if *in.BufferTime < 0 {
			return httperr.Validation("invalid_buffer_time", "buffer_time cannot be negative")
		}
		b.BufferTime = *in.BufferTime
	}
	return nil
}
