package barber

import (
	"context"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/timezone"
)

// ======================================================
// NEXT AVAILABLE
// ======================================================

type NextAvailable struct {
	repo  domainAppointment.Repository
	clock timezone.Clock
}

func NewNextAvailable(repo domainAppointment.Repository, clock timezone.Clock) *NextAvailable {
	return &NextAvailable{repo: repo, clock: clock}
}

func (uc *NextAvailable) Execute(ctx context.Context, barberID uint) (*dto.NextAvailableDTO, error) {
	b, err := activeBarber(ctx, uc.repo, barberID)
	if err != nil {
		return nil, err
	}

	pending, err := uc.repo.CountPending(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	av := domainAppointment.NextAvailable(b, uc.clock())
	return &dto.NextAvailableDTO{
		BarberID:        b.ID,
		IsOpen:          av.IsOpen,
		Busy:            av.Busy,
		NextAvailableAt: av.NextAvailableAt,
		PendingCount:    pending,
	}, nil
}

// ======================================================
// PENDING QUEUE
// ======================================================

type PendingQueue struct {
	repo domainAppointment.Repository
}

func NewPendingQueue(repo domainAppointment.Repository) *PendingQueue {
	return &PendingQueue{repo: repo}
}

// Execute lists Pending appointments by date, then slot, then id. Position
// is 1-based across pages.
func (uc *PendingQueue) Execute(
	ctx context.Context,
	actor access.Actor,
	barberID uint,
	page dto.Page,
) ([]dto.QueueEntryDTO, int64, error) {

	if !actor.Elevated() {
		return nil, 0, errStaffOnly()
	}

	if _, err := activeBarber(ctx, uc.repo, barberID); err != nil {
		return nil, 0, err
	}

	apps, total, err := uc.repo.ListPending(ctx, barberID, page)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.QueueEntryDTO, 0, len(apps))
	for i, ap := range apps {
		out = append(out, dto.QueueEntryDTO{
			ID:              ap.ID,
			Position:        page.Skip + i + 1,
			CustomerName:    ap.CustomerName,
			CustomerPhone:   ap.CustomerPhone,
			AppointmentDate: ap.AppointmentDate,
			TimeSlot:        ap.TimeSlot,
			Service:         ap.Service,
			Notes:           ap.Notes,
		})
	}
	return out, total, nil
}

// ======================================================
// TOGGLE SHOP
// ======================================================

type ToggleShop struct {
	repo  domainAppointment.Repository
	audit *audit.Dispatcher
}

func NewToggleShop(repo domainAppointment.Repository, audit *audit.Dispatcher) *ToggleShop {
	return &ToggleShop{repo: repo, audit: audit}
}

func (uc *ToggleShop) Execute(
	ctx context.Context,
	actor access.Actor,
	barberID uint,
	open bool,
) (*models.Barber, error) {

	if !actor.Elevated() {
		return nil, errStaffOnly()
	}

	b, err := activeBarber(ctx, uc.repo, barberID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.SetShopOpen(ctx, b.ID, open); err != nil {
		return nil, err
	}
	b.IsOpen = open

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "shop_toggled",
		Entity:   "barber",
		EntityID: &b.ID,
		Metadata: map[string]any{"is_open": open},
	})

	return b, nil
}
