package barber

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	domainBarber "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/barber"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/lock"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/memory"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
)

var (
	staff    = access.Actor{ID: 9, Role: access.RoleBarber}
	customer = access.Actor{ID: 1, Role: access.RoleUser}

	t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
)

// testClock is a movable clock.
type testClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

type fixture struct {
	store  *memory.Store
	repo   domainAppointment.Repository
	barber *models.Barber
	clock  *testClock
	locker lock.Locker

	start  *StartService
	finish *FinishService
	next   *NextAvailable
	queue  *PendingQueue
	toggle *ToggleShop
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.New()
	b := &models.Barber{Name: "Rafa", Email: "rafa@shop.com", Phone: "555", IsActive: true, IsOpen: true, BufferTime: 10}
	if err := s.Barbers().Create(context.Background(), b); err != nil {
		t.Fatalf("seed barber: %v", err)
	}

	repo := s.Appointments()
	locker := lock.NewLocal(time.Second)
	clock := &testClock{at: t0}

	return &fixture{
		store:  s,
		repo:   repo,
		barber: b,
		clock:  clock,
		locker: locker,
		start:  NewStartService(repo, locker, nil, clock.now),
		finish: NewFinishService(repo, locker, nil, clock.now),
		next:   NewNextAvailable(repo, clock.now),
		queue:  NewPendingQueue(repo),
		toggle: NewToggleShop(repo, nil),
	}
}

func (f *fixture) book(t *testing.T, slot string, date time.Time) *models.Appointment {
	t.Helper()
	ap := &models.Appointment{
		UserID:          customer.ID,
		CustomerName:    "Ana",
		CustomerPhone:   "555",
		BarberID:        f.barber.ID,
		AppointmentDate: date,
		TimeSlot:        slot,
		Service:         domainAppointment.ServiceHairCut,
		Status:          string(domainAppointment.StatusPending),
	}
	if err := f.repo.CreateAppointment(context.Background(), ap); err != nil {
		t.Fatalf("book %s: %v", slot, err)
	}
	return ap
}

func minutes(n int) *int { return &n }

func day(d int) time.Time { return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC) }

// Start at T with 30 min and buffer 10: next available is T+40.
// Finish at T+25: next available is T+35.
func TestStartFinishTimeline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "09:00", day(4))

	res, err := f.start.Execute(ctx, StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: ap.ID, EstimatedDuration: minutes(30)})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if res.Appointment.Status != string(domainAppointment.StatusInProgress) || !res.Appointment.StartedAt.Equal(t0) {
		t.Fatalf("appointment not started: %+v", res.Appointment)
	}
	if !res.Barber.CurrentAppointment.EstimatedEndTime.Equal(t0.Add(30 * time.Minute)) {
		t.Fatalf("estimated end: %v", res.Barber.CurrentAppointment.EstimatedEndTime)
	}

	f.clock.advance(5 * time.Minute)
	av, err := f.next.Execute(ctx, f.barber.ID)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !av.Busy || !av.NextAvailableAt.Equal(t0.Add(40*time.Minute)) {
		t.Fatalf("expected T+40, got %+v", av)
	}

	f.clock.advance(20 * time.Minute)
	done, err := f.finish.Execute(ctx, staff, f.barber.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.AppointmentID != ap.ID || !done.NextAvailableAt.Equal(t0.Add(35*time.Minute)) {
		t.Fatalf("expected T+35, got %+v", done)
	}

	stored, _ := f.repo.GetAppointment(ctx, ap.ID)
	if stored.Status != string(domainAppointment.StatusCompleted) || !stored.CompletedAt.Equal(t0.Add(25*time.Minute)) {
		t.Fatalf("appointment not completed: %+v", stored)
	}

	av, _ = f.next.Execute(ctx, f.barber.ID)
	if av.Busy || !av.NextAvailableAt.Equal(f.clock.now()) {
		t.Fatalf("free barber should be available now, got %+v", av)
	}

	if _, err := f.finish.Execute(ctx, staff, f.barber.ID); !httperr.IsBusiness(err, "nothing_in_progress") {
		t.Fatalf("second finish: expected nothing_in_progress, got %v", err)
	}
}

func TestStart_SecondJobIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, "09:00", day(4))
	b := f.book(t, "09:30", day(4))

	if _, err := f.start.Execute(ctx, StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: a.ID}); err != nil {
		t.Fatalf("start a: %v", err)
	}
	if _, err := f.start.Execute(ctx, StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: b.ID}); !httperr.IsBusiness(err, "barber_busy") {
		t.Fatalf("start b: expected barber_busy, got %v", err)
	}

	stored, _ := f.repo.GetAppointment(ctx, b.ID)
	if stored.Status != string(domainAppointment.StatusPending) {
		t.Fatalf("rejected start changed status to %s", stored.Status)
	}
}

func TestStart_ConcurrentStartsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 10
	apps := make([]*models.Appointment, n)
	for i := range apps {
		apps[i] = f.book(t, time.Duration(i).String(), day(4))
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		wins  int
		busy  int
		other []error
	)
	for _, ap := range apps {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := f.start.Execute(ctx, StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: id})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case httperr.IsBusiness(err, "barber_busy"):
				busy++
			default:
				other = append(other, err)
			}
		}(ap.ID)
	}
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	if wins != 1 || busy != n-1 {
		t.Fatalf("expected 1 winner and %d busy, got %d / %d", n-1, wins, busy)
	}

	inProgress := domainAppointment.StatusInProgress
	_, total, _ := f.repo.ListAppointments(ctx, domainAppointment.Filter{Status: &inProgress}, dto.NewPage(0, 0))
	if total != 1 {
		t.Fatalf("expected exactly one appointment in progress, got %d", total)
	}
}

func TestStart_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "09:00", day(4))

	other := &models.Barber{Name: "Other", Email: "other@shop.com", Phone: "1", IsActive: true, IsOpen: true}
	if err := f.store.Barbers().Create(ctx, other); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name string
		in   StartServiceInput
		kind httperr.Kind
	}{
		{"customer", StartServiceInput{Actor: customer, BarberID: f.barber.ID, AppointmentID: ap.ID}, httperr.KindForbidden},
		{"zero duration", StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: ap.ID, EstimatedDuration: minutes(0)}, httperr.KindValidation},
		{"too long", StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: ap.ID, EstimatedDuration: minutes(481)}, httperr.KindValidation},
		{"unknown barber", StartServiceInput{Actor: staff, BarberID: 999, AppointmentID: ap.ID}, httperr.KindNotFound},
		{"unknown appointment", StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: 999}, httperr.KindNotFound},
		{"another barber's appointment", StartServiceInput{Actor: staff, BarberID: other.ID, AppointmentID: ap.ID}, httperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.start.Execute(ctx, tt.in); !httperr.IsKind(err, tt.kind) {
				t.Fatalf("expected kind %d, got %v", tt.kind, err)
			}
		})
	}

	ap.Status = string(domainAppointment.StatusCancelled)
	if err := f.repo.UpdateAppointment(ctx, ap); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.start.Execute(ctx, StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: ap.ID}); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("cancelled: expected invalid_state, got %v", err)
	}
}

func TestStart_LockTimeout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "09:00", day(4))

	locker := lock.NewLocal(20 * time.Millisecond)
	release, err := locker.Lock(ctx, lock.BarberKey(f.barber.ID))
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer release()

	uc := NewStartService(f.repo, locker, nil, f.clock.now)
	if _, err := uc.Execute(ctx, StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: ap.ID}); !httperr.IsKind(err, httperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestNextAvailable_ClosedShop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, "09:00", day(4))

	if _, err := f.toggle.Execute(ctx, customer, f.barber.ID, false); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("customer toggle: expected forbidden, got %v", err)
	}
	if _, err := f.toggle.Execute(ctx, staff, f.barber.ID, false); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	av, err := f.next.Execute(ctx, f.barber.ID)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if av.IsOpen || av.NextAvailableAt != nil || av.PendingCount != 1 {
		t.Fatalf("closed shop: %+v", av)
	}
}

func TestPendingQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tomorrow := f.book(t, "08:00", day(5))
	late := f.book(t, "15:00", day(4))
	early := f.book(t, "10:00", day(4))
	started := f.book(t, "09:00", day(4))
	if _, err := f.start.Execute(ctx, StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: started.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}

	entries, total, err := f.queue.Execute(ctx, staff, f.barber.ID, dto.NewPage(2, 1))
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 pending, got %d", total)
	}
	if len(entries) != 2 || entries[0].ID != late.ID || entries[1].ID != tomorrow.ID {
		t.Fatalf("unexpected order: %+v", entries)
	}
	if entries[0].Position != 2 || entries[1].Position != 3 {
		t.Fatalf("positions: %d, %d", entries[0].Position, entries[1].Position)
	}

	head, _, _ := f.queue.Execute(ctx, staff, f.barber.ID, dto.NewPage(1, 0))
	if len(head) != 1 || head[0].ID != early.ID || head[0].Position != 1 {
		t.Fatalf("queue head: %+v", head)
	}

	if _, _, err := f.queue.Execute(ctx, customer, f.barber.ID, dto.NewPage(0, 0)); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("customer queue: expected forbidden, got %v", err)
	}
}

// -------- profiles --------

func TestProfiles(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	uc := NewProfiles(s.Barbers(), lock.NewLocal(time.Second), nil)

	name, email, phone := "Rafa", " Rafa@Shop.com ", "555"
	b, err := uc.Create(ctx, staff, ProfileInput{Name: &name, Email: &email, Phone: &phone})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Email != "rafa@shop.com" || b.BufferTime != DefaultBufferMinutes || b.Specialization != DefaultSpecialization || !b.IsActive {
		t.Fatalf("defaults not applied: %+v", b)
	}

	if _, err := uc.Create(ctx, staff, ProfileInput{Name: &name, Email: &email, Phone: &phone}); !httperr.IsBusiness(err, "barber_email_taken") {
		t.Fatalf("duplicate: expected barber_email_taken, got %v", err)
	}
	if _, err := uc.Create(ctx, customer, ProfileInput{Name: &name, Email: &email, Phone: &phone}); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("customer create: expected forbidden, got %v", err)
	}

	buffer := -1
	if _, err := uc.Update(ctx, staff, b.ID, ProfileInput{BufferTime: &buffer}); !httperr.IsKind(err, httperr.KindValidation) {
		t.Fatalf("negative buffer: expected validation, got %v", err)
	}
	buffer = 15
	updated, err := uc.Update(ctx, staff, b.ID, ProfileInput{BufferTime: &buffer})
	if err != nil || updated.BufferTime != 15 || updated.Name != "Rafa" {
		t.Fatalf("update: %+v %v", updated, err)
	}

	if err := uc.Deactivate(ctx, staff, b.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := uc.Get(ctx, b.ID); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("inactive get: expected not found, got %v", err)
	}
	if _, total, _ := uc.List(ctx, dto.NewPage(0, 0)); total != 0 {
		t.Fatalf("inactive barber listed")
	}
}

func TestDeactivate_BusyBarber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "09:00", day(4))
	if _, err := f.start.Execute(ctx, StartServiceInput{Actor: staff, BarberID: f.barber.ID, AppointmentID: ap.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}

	uc := NewProfiles(f.store.Barbers(), f.locker, nil)
	if err := uc.Deactivate(ctx, staff, f.barber.ID); !httperr.IsBusiness(err, "barber_busy") {
		t.Fatalf("expected barber_busy, got %v", err)
	}
}

// claimAfterGet reads the barber, then lets a job start before returning the
// now stale copy.
type claimAfterGet struct {
	domainBarber.Repository
	claim func()
}

func (r *claimAfterGet) Get(ctx context.Context, id uint) (*models.Barber, error) {
	b, err := r.Repository.Get(ctx, id)
	if err == nil && r.claim != nil {
		r.claim()
		r.claim = nil
	}
	return b, err
}

func TestDeactivate_JobStartedAfterRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "09:00", day(4))

	repo := &claimAfterGet{
		Repository: f.store.Barbers(),
		claim: func() {
			job := domainAppointment.NewJob(ap.ID, t0, domainAppointment.DefaultServiceDuration)
			if ok, err := f.repo.ClaimBarber(ctx, f.barber.ID, job); !ok || err != nil {
				t.Errorf("claim: %v %v", ok, err)
			}
		},
	}

	uc := NewProfiles(repo, f.locker, nil)
	if err := uc.Deactivate(ctx, staff, f.barber.ID); !httperr.IsBusiness(err, "barber_busy") {
		t.Fatalf("expected barber_busy, got %v", err)
	}

	stored, _ := f.store.Barbers().Get(ctx, f.barber.ID)
	if !stored.IsActive || stored.CurrentAppointment.Empty() {
		t.Fatalf("busy barber was deactivated: %+v", stored)
	}
}

func TestDeactivate_WaitsForBarberLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	locker := lock.NewLocal(20 * time.Millisecond)
	release, err := locker.Lock(ctx, lock.BarberKey(f.barber.ID))
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer release()

	uc := NewProfiles(f.store.Barbers(), locker, nil)
	if err := uc.Deactivate(ctx, staff, f.barber.ID); !httperr.IsKind(err, httperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	stored, _ := f.store.Barbers().Get(ctx, f.barber.ID)
	if !stored.IsActive {
		t.Fatalf("barber deactivated without the lock")
	}
}

func TestFinish_InactiveBarber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gone := &models.Barber{Name: "Gone", Email: "gone@shop.com", Phone: "2", IsActive: false, IsOpen: true}
	if err := f.store.Barbers().Create(ctx, gone); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ap := &models.Appointment{
		UserID:          customer.ID,
		CustomerName:    "Ana",
		CustomerPhone:   "555",
		BarberID:        gone.ID,
		AppointmentDate: day(4),
		TimeSlot:        "09:00",
		Service:         domainAppointment.ServiceHairCut,
		Status:          string(domainAppointment.StatusInProgress),
		StartedAt:       &t0,
	}
	if err := f.repo.CreateAppointment(ctx, ap); err != nil {
		t.Fatalf("book: %v", err)
	}
	job := domainAppointment.NewJob(ap.ID, t0, domainAppointment.DefaultServiceDuration)
	if ok, err := f.repo.ClaimBarber(ctx, gone.ID, job); !ok || err != nil {
		t.Fatalf("claim: %v %v", ok, err)
	}

	f.clock.advance(20 * time.Minute)
	done, err := f.finish.Execute(ctx, staff, gone.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.AppointmentID != ap.ID {
		t.Fatalf("finished %d, want %d", done.AppointmentID, ap.ID)
	}

	stored, _ := f.repo.GetAppointment(ctx, ap.ID)
	if stored.Status != string(domainAppointment.StatusCompleted) {
		t.Fatalf("appointment stuck in %s", stored.Status)
	}
	b, _ := f.store.Barbers().Get(ctx, gone.ID)
	if !b.CurrentAppointment.Empty() {
		t.Fatalf("barber still holds a job: %+v", b.CurrentAppointment)
	}

	if _, err := f.finish.Execute(ctx, staff, 999); !httperr.IsBusiness(err, "barber_not_found") {
		t.Fatalf("unknown barber: expected barber_not_found, got %v", err)
	}
}

// -------- avatar --------

type memObjects struct {
	keys []string
	fail bool
}

func (m *memObjects) Put(_ context.Context, key string, body []byte, contentType string) (string, error) {
	if m.fail {
		return "", errors.New("bucket unavailable")
	}
	if contentType != "image/webp" || len(body) == 0 {
		return "", errors.New("unexpected payload")
	}
	m.keys = append(m.keys, key)
	return "https://cdn.test/" + key, nil
}

func pngBytes(t *testing.T) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 300, 200))); err != nil {
		t.Fatalf("png: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestUploadAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	disabled := NewUploadAvatar(f.store.Barbers(), nil, nil)
	if _, err := disabled.Execute(ctx, staff, f.barber.ID, pngBytes(t)); !httperr.IsBusiness(err, "avatar_storage_disabled") {
		t.Fatalf("expected avatar_storage_disabled, got %v", err)
	}

	objects := &memObjects{}
	uc := NewUploadAvatar(f.store.Barbers(), objects, nil)

	if _, err := uc.Execute(ctx, staff, f.barber.ID, bytes.NewReader([]byte("nope"))); !httperr.IsBusiness(err, "invalid_image") {
		t.Fatalf("expected invalid_image, got %v", err)
	}

	b, err := uc.Execute(ctx, staff, f.barber.ID, pngBytes(t))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(objects.keys) != 1 || b.AvatarURL != "https://cdn.test/"+objects.keys[0] {
		t.Fatalf("avatar url not stored: %q", b.AvatarURL)
	}

	stored, _ := f.store.Barbers().Get(ctx, f.barber.ID)
	if stored.AvatarURL != b.AvatarURL {
		t.Fatalf("stored url %q", stored.AvatarURL)
	}
}
