package appointment

import (
	"testing"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		action Action
		from   Status
		want   bool
	}{
		{ActionSetStatus, StatusPending, true},
		{ActionSetStatus, StatusConfirmed, true},
		{ActionSetStatus, StatusInProgress, true},
		{ActionSetStatus, StatusCancelled, true},
		{ActionSetStatus, StatusCompleted, false},

		{ActionCancel, StatusPending, true},
		{ActionCancel, StatusConfirmed, true},
		{ActionCancel, StatusInProgress, false},
		{ActionCancel, StatusCompleted, false},
		{ActionCancel, StatusCancelled, false},

		{ActionStart, StatusPending, true},
		{ActionStart, StatusConfirmed, true},
		{ActionStart, StatusInProgress, false},
		{ActionStart, StatusCompleted, false},

		{ActionFinish, StatusInProgress, true},
		{ActionFinish, StatusPending, false},

		{ActionEdit, StatusPending, true},
		{ActionEdit, StatusCompleted, false},
		{ActionEdit, StatusCancelled, false},
	}

	for _, tt := range tests {
		if got := Allowed(tt.action, tt.from); got != tt.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", tt.action, tt.from, got, tt.want)
		}
	}
}

func TestCheckErrorKinds(t *testing.T) {
	if err := Check(ActionCancel, StatusCompleted); !httperr.IsKind(err, httperr.KindConflict) {
		t.Fatalf("cancel from Completed should be a conflict, got %v", err)
	}
	if err := Check(ActionSetStatus, StatusCompleted); !httperr.IsKind(err, httperr.KindInvalidState) {
		t.Fatalf("status change from Completed should be invalid state, got %v", err)
	}
	if err := Check(Action("teleport"), StatusPending); err == nil {
		t.Fatal("unknown action must be rejected")
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Pending", "Confirmed", "In Progress", "Completed", "Cancelled"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q): %v", s, err)
		}
	}
	for _, s := range []string{"", "pending", "Done"} {
		if _, err := ParseStatus(s); !httperr.IsKind(err, httperr.KindValidation) {
			t.Errorf("ParseStatus(%q) should fail validation, got %v", s, err)
		}
	}
}

func TestParseService(t *testing.T) {
	if s, err := ParseService(""); err != nil || s != ServiceHairCut {
		t.Fatalf("empty service should default to Hair Cut, got %q %v", s, err)
	}
	if _, err := ParseService("Massage"); err == nil {
		t.Fatal("expected invalid service")
	}
}
