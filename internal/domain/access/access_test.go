package access

import "testing"

func TestCanActOn(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		owner uint
		want  bool
	}{
		{"owner", Actor{ID: 7, Role: RoleUser}, 7, true},
		{"other user", Actor{ID: 8, Role: RoleUser}, 7, false},
		{"barber", Actor{ID: 2, Role: RoleBarber}, 7, true},
		{"admin", Actor{ID: 1, Role: RoleAdmin}, 7, true},
		{"anonymous", Actor{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actor.CanActOn(tt.owner); got != tt.want {
				t.Fatalf("CanActOn = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if _, ok := ParseRole("customer"); ok {
		t.Fatal("customer is not a stored role")
	}
	if r, ok := ParseRole("barber"); !ok || r != RoleBarber {
		t.Fatalf("expected barber, got %q", r)
	}
}
