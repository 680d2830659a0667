package review

import (
	"math"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

// Rating is the aggregate written onto a barber.
type Rating struct {
	Average float64
	Total   int
}

// Aggregate returns the mean rounded to two decimals. An empty set is {0, 0}.
func Aggregate(ratings []int) Rating {
	if len(ratings) == 0 {
		return Rating{}
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))

	return Rating{
		Average: math.Round(avg*100) / 100,
		Total:   len(ratings),
	}
}

func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return httperr.Validation("invalid_rating", "rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

func ValidateComment(c string) error {
	if len([]rune(c)) > MaxCommentLength {
		return httperr.Validation("comment_too_long", "comment must be at most %d characters", MaxCommentLength)
	}
	return nil
}
