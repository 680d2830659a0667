package dto

type BarberRatingDTO struct {
	BarberID      uint    `json:"barber_id"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}
