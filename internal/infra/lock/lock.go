package lock

import (
	"context"
	"fmt"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
)

// Locker hands out named mutual-exclusion scopes. The returned release
// function is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

func BarberKey(barberID uint) string {
	return fmt.Sprintf("lock:barber:%d", barberID)
}

func errTimeout(key string) error {
	return httperr.Unavailable("lock_timeout", "resource is busy, try again: "+key)
}
