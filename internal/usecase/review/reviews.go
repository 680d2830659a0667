package review

import (
	"context"
	"errors"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	domainReview "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/review"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateReviewInput struct {
	Actor         access.Actor
	AppointmentID uint
	Rating        int
	Comment       string
}

type UpdateReviewInput struct {
	Actor   access.Actor
	ID      uint
	Rating  *int
	Comment *string
}

// ======================================================
// USE CASE
// ======================================================

// Reviews writes reviews and the barber aggregate in one transaction.
type Reviews struct {
	repo  domainReview.Repository
	agg   *Aggregator
	audit *audit.Dispatcher
}

func NewReviews(repo domainReview.Repository, agg *Aggregator, audit *audit.Dispatcher) *Reviews {
	return &Reviews{repo: repo, agg: agg, audit: audit}
}

// -------- Create --------

func (uc *Reviews) Create(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	if in.AppointmentID == 0 {
		return nil, httperr.Validation("missing_fields", "appointment_id and rating are required")
	}
	if err := domainReview.ValidateRating(in.Rating); err != nil {
		return nil, err
	}
	if err := domainReview.ValidateComment(in.Comment); err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, domain.StoreError(err, "appointment")
	}
	if ap.UserID != in.Actor.ID {
		return nil, httperr.Forbidden("forbidden", "you can only review your own appointments")
	}
	if domainAppointment.Status(ap.Status) != domainAppointment.StatusCompleted {
		return nil, httperr.InvalidState("appointment_not_completed", "you can only review completed appointments")
	}

	rv := &models.Review{
		UserID:        in.Actor.ID,
		BarberID:      ap.BarberID,
		AppointmentID: ap.ID,
		Rating:        in.Rating,
		Comment:       in.Comment,
	}

	err = uc.agg.withBarber(ctx, ap.BarberID, func(tx domainReview.Repository) error {
		exists, err := tx.ReviewExistsForAppointment(ctx, ap.ID)
		if err != nil {
			return err
		}
		if exists {
			return errAlreadyReviewed()
		}
		if err := tx.CreateReview(ctx, rv); err != nil {
			return err
		}
		_, err = uc.agg.Recompute(ctx, tx, ap.BarberID)
		return err
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, errAlreadyReviewed()
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.ID,
		Action:   "review_created",
		Entity:   "review",
		EntityID: &rv.ID,
		Metadata: map[string]any{"barber_id": rv.BarberID, "rating": rv.Rating},
	})
	return rv, nil
}

// -------- Update --------

// Update is author-only, even for staff.
func (uc *Reviews) Update(ctx context.Context, in UpdateReviewInput) (*models.Review, error) {
	if in.Rating != nil {
		if err := domainReview.ValidateRating(*in.Rating); err != nil {
			return nil, err
		}
	}
	if in.Comment != nil {
		if err := domainReview.ValidateComment(*in.Comment); err != nil {
			return nil, err
		}
	}

	rv, err := uc.repo.GetReview(ctx, in.ID)
	if err != nil {
		return nil, domain.StoreError(err, "review")
	}
	if rv.UserID != in.Actor.ID {
		return nil, httperr.Forbidden("forbidden", "you can only update your own reviews")
	}

	if in.Rating != nil {
		rv.Rating = *in.Rating
	}
	if in.Comment != nil {
		rv.Comment = *in.Comment
	}

	err = uc.agg.withBarber(ctx, rv.BarberID, func(tx domainReview.Repository) error {
		if err := tx.UpdateReview(ctx, rv); err != nil {
			return domain.StoreError(err, "review")
		}
		if in.Rating == nil {
			return nil
		}
		_, err := uc.agg.Recompute(ctx, tx, rv.BarberID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.ID,
		Action:   "review_updated",
		Entity:   "review",
		EntityID: &rv.ID,
	})
	return rv, nil
}

// -------- Delete --------

func (uc *Reviews) Delete(ctx context.Context, actor access.Actor, id uint) error {
	rv, err := uc.repo.GetReview(ctx, id)
	if err != nil {
		return domain.StoreError(err, "review")
	}
	if !actor.CanActOn(rv.UserID) {
		return httperr.Forbidden("forbidden", "you can only delete your own reviews")
	}

	err = uc.agg.withBarber(ctx, rv.BarberID, func(tx domainReview.Repository) error {
		if err := tx.DeleteReview(ctx, rv.ID); err != nil {
			return domain.StoreError(err, "review")
		}
		_, err := uc.agg.Recompute(ctx, tx, rv.BarberID)
		return err
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "review_deleted",
		Entity:   "review",
		EntityID: &rv.ID,
		Metadata: map[string]any{"barber_id": rv.BarberID},
	})
	return nil
}

// -------- Recompute --------

// RecomputeRating rebuilds a barber's aggregate from the stored reviews. Staff
// use it to repair a rating after manual data fixes.
func (uc *Reviews) RecomputeRating(ctx context.Context, actor access.Actor, barberID uint) (*dto.BarberRatingDTO, error) {
	if !actor.Elevated() {
		return nil, httperr.Forbidden("forbidden", "only barbers or admins can recompute ratings")
	}

	agg, err := uc.agg.Refresh(ctx, barberID)
	if err != nil {
		return nil, domain.StoreError(err, "barber")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "barber_rating_recomputed",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: map[string]any{"average_rating": agg.Average, "total_reviews": agg.Total},
	})

	return &dto.BarberRatingDTO{
		BarberID:      barberID,
		AverageRating: agg.Average,
		TotalReviews:  agg.Total,
	}, nil
}

// -------- Lists --------

func (uc *Reviews) ListByBarber(ctx context.Context, barberID uint, page dto.Page) ([]models.Review, int64, error) {
	return uc.repo.ListByBarber(ctx, barberID, page)
}

func (uc *Reviews) ListByUser(
	ctx context.Context,
	actor access.Actor,
	userID uint,
	page dto.Page,
) ([]models.Review, int64, error) {

	if !actor.CanActOn(userID) {
		return nil, 0, httperr.Forbidden("forbidden", "you can only view your own reviews")
	}
	return uc.repo.ListByUser(ctx, userID, page)
}

func errAlreadyReviewed() error {
	return httperr.Conflict("review_exists", "you have already reviewed this appointment")
}
