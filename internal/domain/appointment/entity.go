package appointment

import (
	"time"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, actor access.Actor, reason string, now time.Time) error {
	if err := Check(ActionCancel, Status(ap.Status)); err != nil {
		return err
	}

	by := actor.ID
	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancelledBy = &by
	ap.CancellationReason = reason
	return nil
}

func Start(ap *models.Appointment, now time.Time) error {
	if err := Check(ActionStart, Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusInProgress)
	ap.StartedAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := Check(ActionFinish, Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// SetStatus overwrites the status, refusing only to leave Completed.
// Cancellation metadata is kept only while the appointment is Cancelled.
func SetStatus(ap *models.Appointment, to Status, actor access.Actor, now time.Time) error {
	if err := Check(ActionSetStatus, Status(ap.Status)); err != nil {
		return err
	}

	switch to {
	case StatusCancelled:
		if Status(ap.Status) != StatusCancelled {
			by := actor.ID
			ap.CancelledAt = &now
			ap.CancelledBy = &by
		}
	default:
		ap.CancelledAt = nil
		ap.CancelledBy = nil
		ap.CancellationReason = ""
	}

	switch to {
	case StatusInProgress:
		if ap.StartedAt == nil {
			ap.StartedAt = &now
		}
	case StatusCompleted:
		ap.CompletedAt = &now
	}

	ap.Status = string(to)
	return nil
}

// Live reports whether the appointment still holds its slot.
func Live(ap *models.Appointment) bool {
	return Status(ap.Status) != StatusCancelled
}
