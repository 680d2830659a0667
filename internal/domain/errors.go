package domain

import (
	"errors"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
)

// Repositories return these so use cases can pick the client-facing error.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// StoreError turns the store sentinels into client-facing errors named after
// resource ("appointment" gives appointment_not_found / appointment_exists).
// Anything else is returned unchanged.
func StoreError(err error, resource string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httperr.NotFoundErr(resource+"_not_found", resource+" not found")
	case errors.Is(err, ErrDuplicate):
		return httperr.Conflict(resource+"_exists", resource+" already exists")
	}
	return err
}
