package dto

import "time"

type QueueEntryDTO struct {
	ID              uint      `json:"id"`
	Position        int       `json:"position"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	AppointmentDate time.Time `json:"appointment_date"`
	TimeSlot        string    `json:"time_slot"`
	Service         string    `json:"service"`
	Notes           string    `json:"notes"`
}

type NextAvailableDTO struct {
	BarberID        uint       `json:"barber_id"`
	IsOpen          bool       `json:"is_open"`
	Busy            bool       `json:"busy"`
	NextAvailableAt *time.Time `json:"next_available_at"`
	PendingCount    int64      `json:"pending_count"`
}

type FinishServiceDTO struct {
	AppointmentID   uint      `json:"appointment_id"`
	CompletedAt     time.Time `json:"completed_at"`
	NextAvailableAt time.Time `json:"next_available_at"`
}
