package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

// Logger writes audit events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}

	return l.db.WithContext(ctx).Create(&log).Error
}

func (l *Logger) List(ctx context.Context, f Filter, page dto.Page) ([]models.AuditLog, int64, error) {
	filtered := func() *gorm.DB {
		q := l.db.WithContext(ctx).Model(&models.AuditLog{})
		if f.Action != "" {
			q = q.Where("action = ?", f.Action)
		}
		if f.Entity != "" {
			q = q.Where("entity = ?", f.Entity)
		}
		if f.From != nil {
			q = q.Where("created_at >= ?", *f.From)
		}
		if f.To != nil {
			q = q.Where("created_at < ?", f.To.Add(24*time.Hour))
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	var logs []models.AuditLog
	if err := filtered().
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Skip).
		Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}

	return logs, total, nil
}

var _ Reader = (*Logger)(nil)
