package barber

import (
	"context"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/lock"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/timezone"
)

type FinishService struct {
	repo   domainAppointment.Repository
	locker lock.Locker
	audit  *audit.Dispatcher
	clock  timezone.Clock
}

func NewFinishService(
	repo domainAppointment.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *FinishService {
	return &FinishService{
		repo:   repo,
		locker: locker,
		audit:  audit,
		clock:  clock,
	}
}

// Execute completes the barber's current job and frees the barber. The next
// free moment is completion time plus the barber's buffer. A deactivated
// barber can still finish a job that was already running.
func (uc *FinishService) Execute(
	ctx context.Context,
	actor access.Actor,
	barberID uint,
) (*dto.FinishServiceDTO, error) {

	if !actor.Elevated() {
		return nil, errStaffOnly()
	}

	release, err := uc.locker.Lock(ctx, lock.BarberKey(barberID))
	if err != nil {
		return nil, err
	}
	defer release()

	var out dto.FinishServiceDTO
	err = uc.repo.Transaction(ctx, func(tx domainAppointment.Repository) error {
		b, err := tx.GetBarber(ctx, barberID)
		if err != nil {
			return domain.StoreError(err, "barber")
		}
		if b.CurrentAppointment.Empty() {
			return httperr.InvalidState("nothing_in_progress", "barber has no appointment in progress")
		}

		ap, err := tx.GetAppointmentForUpdate(ctx, *b.CurrentAppointment.AppointmentID)
		if err != nil {
			return domain.StoreError(err, "appointment")
		}

		now := uc.clock()
		if err := domainAppointment.Complete(ap, now); err != nil {
			return err
		}

		released, err := tx.ReleaseBarber(ctx, b.ID, ap.ID)
		if err != nil {
			return err
		}
		if !released {
			return httperr.Conflict("barber_busy", "current appointment changed, retry")
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		out = dto.FinishServiceDTO{
			AppointmentID:   ap.ID,
			CompletedAt:     now,
			NextAvailableAt: now.Add(b.Buffer()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "service_finished",
		Entity:   "appointment",
		EntityID: &out.AppointmentID,
		Metadata: map[string]any{"barber_id": barberID},
	})

	return &out, nil
}
