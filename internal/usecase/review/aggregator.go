package review

import (
	"context"
	"fmt"

	domainReview "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/review"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/lock"
)

// Aggregator keeps barbers.average_rating / total_reviews equal to the
// mean and count of that barber's reviews.
type Aggregator struct {
	repo   domainReview.Repository
	locker lock.Locker
}

func NewAggregator(repo domainReview.Repository, locker lock.Locker) *Aggregator {
	return &Aggregator{repo: repo, locker: locker}
}

// Recompute rewrites the aggregate from the current review set. Call it with
// the transaction-bound repository that made the review change, while
// holding the barber's lock.
func (a *Aggregator) Recompute(ctx context.Context, tx domainReview.Repository, barberID uint) (domainReview.Rating, error) {
	ratings, err := tx.ListRatings(ctx, barberID)
	if err != nil {
		return domainReview.Rating{}, fmt.Errorf("list ratings: %w", err)
	}

	agg := domainReview.Aggregate(ratings)
	if err := tx.SetBarberRating(ctx, barberID, agg); err != nil {
		return domainReview.Rating{}, fmt.Errorf("store rating: %w", err)
	}
	return agg, nil
}

// Refresh is a standalone recompute: lock, transaction, recompute.
func (a *Aggregator) Refresh(ctx context.Context, barberID uint) (domainReview.Rating, error) {
	var agg domainReview.Rating
	err := a.withBarber(ctx, barberID, func(tx domainReview.Repository) error {
		var err error
		agg, err = a.Recompute(ctx, tx, barberID)
		return err
	})
	return agg, err
}

// withBarber runs fn in a transaction while holding the barber's lock.
func (a *Aggregator) withBarber(
	ctx context.Context,
	barberID uint,
	fn func(tx domainReview.Repository) error,
) error {
	release, err := a.locker.Lock(ctx, lock.BarberKey(barberID))
	if err != nil {
		return err
	}
	defer release()

	return a.repo.Transaction(ctx, fn)
}
