package appointment

import (
	"time"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

const (
	DefaultServiceDuration = 30 * time.Minute
	MaxServiceDuration     = 8 * time.Hour
)

type Availability struct {
	IsOpen          bool
	Busy            bool
	NextAvailableAt *time.Time
}

// NextAvailable is nil when the shop is closed, now when the barber is
// free, and estimated end plus buffer otherwise.
func NextAvailable(b *models.Barber, now time.Time) Availability {
	if !b.IsOpen {
		return Availability{IsOpen: false, Busy: !b.CurrentAppointment.Empty()}
	}

	job := b.CurrentAppointment
	if job.Empty() || job.EstimatedEndTime == nil {
		return Availability{IsOpen: true, NextAvailableAt: &now}
	}

	at := job.EstimatedEndTime.Add(b.Buffer())
	return Availability{IsOpen: true, Busy: true, NextAvailableAt: &at}
}

// NewJob builds the current-appointment projection for a freshly started service.
func NewJob(appointmentID uint, now time.Time, duration time.Duration) models.CurrentJob {
	id := appointmentID
	started := now
	end := now.Add(duration)
	return models.CurrentJob{
		AppointmentID:    &id,
		StartedAt:        &started,
		EstimatedEndTime: &end,
	}
}
