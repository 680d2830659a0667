// Package memory is an in-process store with the same contracts as the
// gorm repositories: not-found and unique violations surface as
// domain.ErrNotFound / domain.ErrDuplicate, the live-slot rule is global,
// and ClaimBarber is a compare-and-set. Selected with DB_DRIVER=memory.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

type Store struct {
	mu sync.Mutex

	// txMu is held for the whole of a transaction and around every write
	// made outside one, so a transaction never interleaves with another
	// writer and its undo steps only ever restore its own changes.
	txMu sync.Mutex

	seq          uint
	users        map[uint]models.User
	barbers      map[uint]models.Barber
	appointments map[uint]models.Appointment
	reviews      map[uint]models.Review
	auditLogs    []models.AuditLog

	now func() time.Time
}

// SetClock replaces the timestamp source. Call before use.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func New() *Store {
	return &Store{
		users:        make(map[uint]models.User),
		barbers:      make(map[uint]models.Barber),
		appointments: make(map[uint]models.Appointment),
		reviews:      make(map[uint]models.Review),
		now:          time.Now,
	}
}

// txLog collects undo steps for a transaction; nil outside one.
type txLog struct {
	undo []func()
}

func (s *Store) nextID() uint {
	s.seq++
	return s.seq
}

// record must be called with s.mu held.
func (s *Store) record(tx *txLog, undo func()) {
	if tx != nil {
		tx.undo = append(tx.undo, undo)
	}
}

func (s *Store) rollback(tx *txLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
}

// begin serializes a write with open transactions. Inside a transaction the
// lock is already held and begin is a no-op.
func (s *Store) begin(tx *txLog) (end func()) {
	if tx != nil {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

func runTx[R any](s *Store, tx *txLog, self R, bind func(*txLog) R, fn func(R) error) error {
	if tx != nil {
		return fn(self)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &txLog{}
	if err := fn(bind(log)); err != nil {
		s.rollback(log)
		return err
	}
	return nil
}

// -------- helpers --------

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func paginate[T any](items []T, page dto.Page) []T {
	if page.Skip >= len(items) {
		return []T{}
	}
	end := page.Skip + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Skip:end]
}

func sortAppointments(list []models.Appointment) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.AppointmentDate.Equal(b.AppointmentDate) {
			return a.AppointmentDate.Before(b.AppointmentDate)
		}
		if a.TimeSlot != b.TimeSlot {
			return a.TimeSlot < b.TimeSlot
		}
		return a.ID < b.ID
	})
}

// -------- audit sink --------

func (s *Store) Log(_ context.Context, ev audit.Event) error {
	var meta string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			meta = string(b)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogs = append(s.auditLogs, models.AuditLog{
		ID:        s.nextID(),
		UserID:    ev.UserID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  meta,
		CreatedAt: s.now(),
	})
	return nil
}

func (s *Store) List(_ context.Context, f audit.Filter, page dto.Page) ([]models.AuditLog, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.AuditLog
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		if f.Match(s.auditLogs[i]) {
			out = append(out, s.auditLogs[i])
		}
	}
	return paginate(out, page), int64(len(out)), nil
}

// AuditLogs returns every recorded event in insertion order.
func (s *Store) AuditLogs() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AuditLog, len(s.auditLogs))
	copy(out, s.auditLogs)
	return out
}

var (
	_ audit.Sink   = (*Store)(nil)
	_ audit.Reader = (*Store)(nil)
)
