package models

import "time"

// CurrentJob is the barber's single in-progress appointment. All fields are
// nil when the barber is free.
type CurrentJob struct {
	AppointmentID    *uint      `gorm:"index" json:"appointment_id,omitempty"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	EstimatedEndTime *time.Time `json:"estimated_end_time,omitempty"`
}

func (j CurrentJob) Empty() bool {
	return j.AppointmentID == nil
}

type Barber struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID *uint `gorm:"index" json:"user_id,omitempty"`

	Name           string `gorm:"size:100;not null" json:"name"`
	Email          string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone          string `gorm:"size:20;not null" json:"phone"`
	Specialization string `gorm:"size:100;default:'General barber'" json:"specialization"`
	Experience     int    `gorm:"default:0" json:"experience"`
	AvatarURL      string `gorm:"size:255" json:"avatar_url"`

	IsActive   bool `gorm:"default:true;not null" json:"is_active"`
	IsOpen     bool `gorm:"default:true;not null" json:"is_open"`
	BufferTime int  `gorm:"default:10;not null" json:"buffer_time"`

	CurrentAppointment CurrentJob `gorm:"embedded;embeddedPrefix:current_" json:"current_appointment"`

	AverageRating float64 `gorm:"default:0;not null" json:"average_rating"`
	TotalReviews  int     `gorm:"default:0;not null" json:"total_reviews"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) Buffer() time.Duration {
	return time.Duration(b.BufferTime) * time.Minute
}
