package appointment

import (
	"slices"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "Pending"
	StatusConfirmed  Status = "Confirmed"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

var allStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !slices.Contains(allStatuses, st) {
		return "", httperr.Validation("invalid_status",
			"status must be one of Pending, Confirmed, In Progress, Completed, Cancelled")
	}
	return st, nil
}

func InitialStatus() Status {
	return StatusPending
}

// IsTerminal reports Completed. Cancelled records can still be moved by the
// status endpoint.
func IsTerminal(s Status) bool {
	return s == StatusCompleted
}

// ===============================
// Transition table
// ===============================

type Action string

const (
	ActionSetStatus Action = "set_status"
	ActionCancel    Action = "cancel"
	ActionStart     Action = "start_service"
	ActionFinish    Action = "finish_service"
	ActionEdit      Action = "edit"
)

type rule struct {
	from   []Status
	reject func() error
}

var transitions = map[Action]rule{
	// Permissive on purpose: everything except leaving Completed.
	ActionSetStatus: {
		from: []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCancelled},
		reject: func() error {
			return httperr.InvalidState("invalid_state", "completed appointments cannot change status")
		},
	},
	ActionCancel: {
		from: []Status{StatusPending, StatusConfirmed},
		reject: func() error {
			return httperr.Conflict("invalid_state", "only pending or confirmed appointments can be cancelled")
		},
	},
	ActionStart: {
		from: []Status{StatusPending, StatusConfirmed},
		reject: func() error {
			return httperr.InvalidState("invalid_state", "only pending or confirmed appointments can be started")
		},
	},
	ActionFinish: {
		from: []Status{StatusInProgress},
		reject: func() error {
			return httperr.InvalidState("invalid_state", "appointment is not in progress")
		},
	},
	ActionEdit: {
		from: []Status{StatusPending, StatusConfirmed, StatusInProgress},
		reject: func() error {
			return httperr.Conflict("invalid_state", "completed or cancelled appointments cannot be edited")
		},
	},
}

// Allowed reports whether action may be applied to an appointment in status from.
func Allowed(action Action, from Status) bool {
	r, ok := transitions[action]
	return ok && slices.Contains(r.from, from)
}

// Check returns the action's rejection error when the transition is not allowed.
func Check(action Action, from Status) error {
	if Allowed(action, from) {
		return nil
	}
	if r, ok := transitions[action]; ok {
		return r.reject()
	}
	return httperr.InvalidState("invalid_state", "unknown action")
}
