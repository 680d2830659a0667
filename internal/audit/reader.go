package audit

import (
	"context"
	"time"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

// Filter narrows the audit listing. Zero values match everything; To is inclusive of its day.
type Filter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
}

// Reader lists audit records, newest first.
type Reader interface {
	List(ctx context.Context, f Filter, page dto.Page) ([]models.AuditLog, int64, error)
}

func (f Filter) Match(l models.AuditLog) bool {
	if f.Action != "" && l.Action != f.Action {
		return false
	}
	if f.Entity != "" && l.Entity != f.Entity {
		return false
	}
	if f.From != nil && l.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !l.CreatedAt.Before(f.To.Add(24*time.Hour)) {
		return false
	}
	return true
}
