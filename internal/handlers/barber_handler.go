package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httpresp"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/imaging"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/middleware"
	ucBarber "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/usecase/barber"
)

// ======================================================
// HANDLER
// ======================================================

type BarberHandler struct {
	profiles     *ucBarber.Profiles
	avatarUC     *ucBarber.UploadAvatar
	startUC      *ucBarber.StartService
	finishUC     *ucBarber.FinishService
	nextUC       *ucBarber.NextAvailable
	queueUC      *ucBarber.PendingQueue
	toggleShopUC *ucBarber.ToggleShop
}

func NewBarberHandler(
	profiles *ucBarber.Profiles,
	avatarUC *ucBarber.UploadAvatar,
	startUC *ucBarber.StartService,
	finishUC *ucBarber.FinishService,
	nextUC *ucBarber.NextAvailable,
	queueUC *ucBarber.PendingQueue,
	toggleShopUC *ucBarber.ToggleShop,
) *BarberHandler {
	return &BarberHandler{
		profiles:     profiles,
		avatarUC:     avatarUC,
		startUC:      startUC,
		finishUC:     finishUC,
		nextUC:       nextUC,
		queueUC:      queueUC,
		toggleShopUC: toggleShopUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BarberProfileRequest struct {
	UserID         *uint   `json:"user_id"`
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Specialization *string `json:"specialization"`
	Experience     *int    `json:"experience"`
	BufferTime     *int    `json:"buffer_time"`
}

func (r BarberProfileRequest) input() ucBarber.ProfileInput {
	return ucBarber.ProfileInput{
		UserID:         r.UserID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Specialization: r.Specialization,
		Experience:     r.Experience,
		BufferTime:     r.BufferTime,
	}
}

type StartServiceRequest struct {
	AppointmentID     uint `json:"appointment_id" binding:"required"`
	EstimatedDuration *int `json:"estimated_duration"`
}

// IsOpen is a pointer so that a missing field fails binding instead of
// reading as false.
type ToggleShopRequest struct {
	IsOpen *bool `json:"is_open" binding:"required"`
}

// ======================================================
// PROFILES
// ======================================================

func (h *BarberHandler) Create(c *gin.Context) {
	var req BarberProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.profiles.Create(c.Request.Context(), middleware.Actor(c), req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "barber created", b)
}

func (h *BarberHandler) List(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	list, total, err := h.profiles.List(c.Request.Context(), page)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list, total)
}

func (h *BarberHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "", b)
}

func (h *BarberHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req BarberProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.profiles.Update(c.Request.Context(), middleware.Actor(c), id, req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "barber updated", b)
}

func (h *BarberHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.profiles.Deactivate(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "barber removed", nil)
}

// UploadAvatar takes a multipart "file" field.
func (h *BarberHandler) UploadAvatar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "multipart field \"file\" is required")
		return
	}
	if fh.Size > imaging.MaxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "avatar must be 5MB or smaller")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "could not read upload")
		return
	}
	defer f.Close()

	b, err := h.avatarUC.Execute(c.Request.Context(), middleware.Actor(c), id, f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "avatar updated", b)
}

// ======================================================
// QUEUE
// ======================================================

func (h *BarberHandler) StartService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req StartServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.startUC.Execute(c.Request.Context(), ucBarber.StartServiceInput{
		Actor:             middleware.Actor(c),
		BarberID:          id,
		AppointmentID:     req.AppointmentID,
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "service started", res)
}

func (h *BarberHandler) FinishService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res, err := h.finishUC.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "service finished", res)
}

func (h *BarberHandler) NextAvailable(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res, err := h.nextUC.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "", res)
}

func (h *BarberHandler) PendingQueue(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	list, total, err := h.queueUC.Execute(c.Request.Context(), middleware.Actor(c), id, page)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list, total)
}

func (h *BarberHandler) ToggleShop(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ToggleShopRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.toggleShopUC.Execute(c.Request.Context(), middleware.Actor(c), id, *req.IsOpen)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	msg := "shop closed"
	if b.IsOpen {
		msg = "shop opened"
	}
	httpresp.OK(c, msg, b)
}
