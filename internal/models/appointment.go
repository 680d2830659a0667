package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:20;not null" json:"customer_phone"`

	// (barber, date, slot) is unique among live bookings.
	BarberID        uint      `gorm:"not null;uniqueIndex:idx_appointments_live_slot,where:status <> 'Cancelled'" json:"barber_id"`
	Barber          *Barber   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"barber,omitempty"`
	AppointmentDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_appointments_live_slot,where:status <> 'Cancelled'" json:"appointment_date"`
	TimeSlot        string    `gorm:"size:20;not null;uniqueIndex:idx_appointments_live_slot,where:status <> 'Cancelled'" json:"time_slot"`

	Service string `gorm:"size:30;default:'Hair Cut';not null" json:"service"`
	Status  string `gorm:"size:20;default:'Pending';not null;index" json:"status"`
	Notes   string `gorm:"size:500" json:"notes"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *uint      `json:"cancelled_by,omitempty"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
