package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID        uint `gorm:"index;not null" json:"user_id"`
	BarberID      uint `gorm:"index;not null" json:"barber_id"`
	AppointmentID uint `gorm:"uniqueIndex;not null" json:"appointment_id"`

	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment string `gorm:"size:500" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
