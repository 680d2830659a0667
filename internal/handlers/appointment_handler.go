package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httpresp"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/middleware"
	ucAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC       *ucAppointment.CreateAppointment
	getUC          *ucAppointment.GetAppointment
	listUC         *ucAppointment.ListAppointments
	updateUC       *ucAppointment.UpdateAppointment
	updateStatusUC *ucAppointment.UpdateStatus
	cancelUC       *ucAppointment.CancelAppointment
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	getUC *ucAppointment.GetAppointment,
	listUC *ucAppointment.ListAppointments,
	updateUC *ucAppointment.UpdateAppointment,
	updateStatusUC *ucAppointment.UpdateStatus,
	cancelUC *ucAppointment.CancelAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:       createUC,
		getUC:          getUC,
		listUC:         listUC,
		updateUC:       updateUC,
		updateStatusUC: updateStatusUC,
		cancelUC:       cancelUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerPhone   string `json:"customer_phone" binding:"required"`
	BarberID        uint   `json:"barber_id" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	TimeSlot        string `json:"time_slot" binding:"required"`
	Service         string `json:"service"`
	Notes           string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	CustomerName    *string `json:"customer_name"`
	CustomerPhone   *string `json:"customer_phone"`
	AppointmentDate *string `json:"appointment_date"`
	TimeSlot        *string `json:"time_slot"`
	Service         *string `json:"service"`
	Notes           *string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Actor:         middleware.Actor(c),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		BarberID:      req.BarberID,
		Date:          req.AppointmentDate,
		TimeSlot:      req.TimeSlot,
		Service:       req.Service,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "appointment booked", ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	in := ucAppointment.ListAppointmentsInput{
		Actor:  middleware.Actor(c),
		Date:   c.Query("date"),
		Status: c.Query("status"),
		Page:   page,
	}
	if v := c.Query("barber_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "barber_id must be a positive integer")
			return
		}
		barberID := uint(id)
		in.BarberID = &barberID
	}

	list, total, err := h.listUC.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list, total)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.getUC.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "", ap)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		Actor:         middleware.Actor(c),
		ID:            id,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Date:          req.AppointmentDate,
		TimeSlot:      req.TimeSlot,
		Service:       req.Service,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "appointment updated", ap)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.updateStatusUC.Execute(c.Request.Context(), middleware.Actor(c), id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "status updated", ap)
}

// ======================================================
// CANCEL
// ======================================================

// Cancel accepts an optional {"reason": "..."} body.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), middleware.Actor(c), id, req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "appointment cancelled", ap)
}
