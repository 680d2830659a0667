package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httpresp"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/middleware"
	ucReview "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/usecase/review"
)

type ReviewHandler struct {
	reviews *ucReview.Reviews
}

func NewReviewHandler(reviews *ucReview.Reviews) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// --------- Requests ---------

type CreateReviewRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// --------- Handlers ---------

func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	rv, err := h.reviews.Create(c.Request.Context(), ucReview.CreateReviewInput{
		Actor:         middleware.Actor(c),
		AppointmentID: req.AppointmentID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "review added", rv)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	rv, err := h.reviews.Update(c.Request.Context(), ucReview.UpdateReviewInput{
		Actor:   middleware.Actor(c),
		ID:      id,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "review updated", rv)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "review deleted", nil)
}

func (h *ReviewHandler) ListByBarber(c *gin.Context) {
	barberID, ok := idParam(c, "barberId")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	list, total, err := h.reviews.ListByBarber(c.Request.Context(), barberID, page)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list, total)
}

func (h *ReviewHandler) ListByUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	list, total, err := h.reviews.ListByUser(c.Request.Context(), middleware.Actor(c), userID, page)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list, total)
}

func (h *ReviewHandler) RecomputeRating(c *gin.Context) {
	barberID, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.reviews.RecomputeRating(c.Request.Context(), middleware.Actor(c), barberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "rating recomputed", out)
}
