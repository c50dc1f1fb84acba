package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chayapol-b/jobfair-booking/internal/booking"
	"github.com/chayapol-b/jobfair-booking/internal/model"
)

var testWindow = booking.Window{
	Start: time.Date(2022, 5, 10, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2022, 5, 13, 23, 59, 59, 0, time.UTC),
}

// stubTx buffers creates until Commit so the store only observes a
// submission that actually committed, like a real transaction would.
type stubTx struct {
	store      *stubStore
	pending    []*model.Booking
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *stubTx) Commit() error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.store.apply(t.pending)
	t.committed = true
	return nil
}

func (t *stubTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type stubStore struct {
	mu     sync.Mutex
	counts map[uint64]int
	nextID uint64

	beginErr  error
	countErr  error
	createErr error
	commitErr error

	lastTx *stubTx
}

func newStubStore() *stubStore {
	return &stubStore{counts: map[uint64]int{}}
}

func (s *stubStore) Begin(ctx context.Context) (booking.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	tx := &stubTx{store: s, commitErr: s.commitErr}
	s.mu.Lock()
	s.lastTx = tx
	s.mu.Unlock()
	return tx, nil
}

func (s *stubStore) CountByUser(ctx context.Context, tx booking.Tx, userID uint64) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[userID], nil
}

func (s *stubStore) Create(ctx context.Context, tx booking.Tx, b *model.Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	s.nextID++
	b.ID = s.nextID
	s.mu.Unlock()
	st := tx.(*stubTx)
	st.pending = append(st.pending, b)
	return nil
}

func (s *stubStore) apply(pending []*model.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range pending {
		s.counts[b.UserID]++
	}
}

func (s *stubStore) totalFor(userID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[userID]
}

// resolverFor resolves exactly one parent id and reports everything else
// as missing.
func resolverFor(id uint64, name string) booking.ParentResolver {
	return booking.ParentResolverFunc(func(ctx context.Context, got uint64) (*model.ParentSummary, error) {
		if got != id {
			return nil, booking.ErrParentNotFound
		}
		return &model.ParentSummary{ID: id, Name: name}, nil
	})
}

func newTestEngine(store *stubStore, limit int) *booking.Engine {
	return booking.NewEngine("appointment", resolverFor(1, "Globex"), store, testWindow, limit)
}

func TestSubmitAdmitsWindowBounds(t *testing.T) {
	cases := []struct {
		name string
		date time.Time
	}{
		{"exact start bound", testWindow.Start},
		{"exact end bound", testWindow.End},
		{"middle of window", time.Date(2022, 5, 11, 14, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubStore()
			eng := newTestEngine(store, 3)

			b, parent, err := eng.Submit(context.Background(), booking.Identity{ID: 7, Role: model.RoleUser}, 1, tc.date)
			if err != nil {
				t.Fatalf("Submit(%s) failed: %v", tc.date, err)
			}
			if b.UserID != 7 || b.ParentID != 1 {
				t.Errorf("booking = user %d parent %d, want user 7 parent 1", b.UserID, b.ParentID)
			}
			if !b.Date.Equal(tc.date) {
				t.Errorf("booking date = %s, want %s", b.Date, tc.date)
			}
			if parent == nil || parent.Name != "Globex" {
				t.Errorf("parent summary = %+v, want Globex", parent)
			}
			if store.totalFor(7) != 1 {
				t.Errorf("stored count = %d, want 1", store.totalFor(7))
			}
		})
	}
}

func TestSubmitRejectsOutsideWindow(t *testing.T) {
	cases := []struct {
		name string
		date time.Time
	}{
		{"one second before start", testWindow.Start.Add(-time.Second)},
		{"one second after end", testWindow.End.Add(time.Second)},
		{"different year", time.Date(2023, 5, 11, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubStore()
			eng := newTestEngine(store, 3)

			_, _, err := eng.Submit(context.Background(), booking.Identity{ID: 7, Role: model.RoleUser}, 1, tc.date)
			var oow *booking.OutOfWindowError
			if !errors.As(err, &oow) {
				t.Fatalf("Submit(%s) error = %v, want OutOfWindowError", tc.date, err)
			}
			if store.totalFor(7) != 0 {
				t.Errorf("rejected submission was persisted, count = %d", store.totalFor(7))
			}
		})
	}
}

func TestSubmitQuota(t *testing.T) {
	store := newStubStore()
	eng := newTestEngine(store, 3)
	user := booking.Identity{ID: 7, Role: model.RoleUser}
	date := time.Date(2022, 5, 11, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, _, err := eng.Submit(context.Background(), user, 1, date); err != nil {
			t.Fatalf("submission %d failed: %v", i+1, err)
		}
	}

	_, _, err := eng.Submit(context.Background(), user, 1, date)
	var quota *booking.QuotaExceededError
	if !errors.As(err, &quota) {
		t.Fatalf("fourth submission error = %v, want QuotaExceededError", err)
	}
	if quota.Count != 3 || quota.Limit != 3 || quota.UserID != 7 {
		t.Errorf("quota error = %+v, want count 3 limit 3 user 7", quota)
	}
	if store.totalFor(7) != 3 {
		t.Errorf("stored count = %d, want 3", store.totalFor(7))
	}
}

func TestSubmitQuotaIsPerUser(t *testing.T) {
	store := newStubStore()
	eng := newTestEngine(store, 3)
	date := time.Date(2022, 5, 11, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, _, err := eng.Submit(context.Background(), booking.Identity{ID: 7, Role: model.RoleUser}, 1, date); err != nil {
			t.Fatalf("user 7 submission %d failed: %v", i+1, err)
		}
	}
	// A different user at the same parent still has a fresh allowance.
	if _, _, err := eng.Submit(context.Background(), booking.Identity{ID: 8, Role: model.RoleUser}, 1, date); err != nil {
		t.Fatalf("user 8 submission failed: %v", err)
	}
}

func TestSubmitAllowsDuplicateSlot(t *testing.T) {
	// No uniqueness rule exists on (user, parent, date); booking the
	// same slot twice is admitted as long as the quota allows it.
	store := newStubStore()
	eng := newTestEngine(store, 3)
	user := booking.Identity{ID: 7, Role: model.RoleUser}
	date := time.Date(2022, 5, 11, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if _, _, err := eng.Submit(context.Background(), user, 1, date); err != nil {
			t.Fatalf("duplicate slot submission %d rejected: %v", i+1, err)
		}
	}
	if store.totalFor(7) != 2 {
		t.Errorf("stored count = %d, want 2", store.totalFor(7))
	}
}

func TestSubmitAdminHasNoQuota(t *testing.T) {
	store := newStubStore()
	eng := newTestEngine(store, 3)
	admin := booking.Identity{ID: 1, Role: model.RoleAdmin}
	date := time.Date(2022, 5, 12, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		if _, _, err := eng.Submit(context.Background(), admin, 1, date); err != nil {
			t.Fatalf("admin submission %d failed: %v", i+1, err)
		}
	}
	if store.totalFor(1) != 10 {
		t.Errorf("stored count = %d, want 10", store.totalFor(1))
	}
}

func TestSubmitParentNotFound(t *testing.T) {
	store := newStubStore()
	eng := newTestEngine(store, 3)

	_, _, err := eng.Submit(context.Background(), booking.Identity{ID: 7, Role: model.RoleUser}, 999, testWindow.Start)
	if !errors.Is(err, booking.ErrParentNotFound) {
		t.Fatalf("Submit error = %v, want ErrParentNotFound", err)
	}
	if store.lastTx != nil {
		t.Error("transaction opened for a submission that failed parent resolution")
	}
}

func TestSubmitRollsBackOnCreateFailure(t *testing.T) {
	store := newStubStore()
	store.createErr = errors.New("insert failed")
	eng := newTestEngine(store, 3)

	_, _, err := eng.Submit(context.Background(), booking.Identity{ID: 7, Role: model.RoleUser}, 1, testWindow.Start)
	if err == nil {
		t.Fatal("Submit succeeded despite create failure")
	}
	if store.lastTx == nil || !store.lastTx.rolledBack {
		t.Error("failed submission did not roll back its transaction")
	}
	if store.totalFor(7) != 0 {
		t.Errorf("stored count = %d after failed create, want 0", store.totalFor(7))
	}
}

func TestSubmitRollsBackOnQuotaRejection(t *testing.T) {
	store := newStubStore()
	store.counts[7] = 3
	eng := newTestEngine(store, 3)

	_, _, err := eng.Submit(context.Background(), booking.Identity{ID: 7, Role: model.RoleUser}, 1, testWindow.Start)
	var quota *booking.QuotaExceededError
	if !errors.As(err, &quota) {
		t.Fatalf("Submit error = %v, want QuotaExceededError", err)
	}
	if store.lastTx == nil || !store.lastTx.rolledBack {
		t.Error("quota rejection left its transaction open")
	}
}

func TestSubmitConcurrentQuota(t *testing.T) {
	store := newStubStore()
	eng := newTestEngine(store, 3)
	user := booking.Identity{ID: 7, Role: model.RoleUser}
	date := time.Date(2022, 5, 11, 10, 0, 0, 0, time.UTC)

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := eng.Submit(context.Background(), user, 1, date); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 3 {
		t.Errorf("admitted %d concurrent submissions, want exactly 3", admitted)
	}
	if store.totalFor(7) != 3 {
		t.Errorf("stored count = %d, want 3", store.totalFor(7))
	}
}

func TestValidateDate(t *testing.T) {
	eng := newTestEngine(newStubStore(), 3)

	if err := eng.ValidateDate(testWindow.End); err != nil {
		t.Errorf("ValidateDate(end bound) = %v, want nil", err)
	}
	err := eng.ValidateDate(testWindow.End.Add(time.Second))
	var oow *booking.OutOfWindowError
	if !errors.As(err, &oow) {
		t.Errorf("ValidateDate(past end) = %v, want OutOfWindowError", err)
	}
}

func TestWindowMessageNamesBounds(t *testing.T) {
	err := &booking.OutOfWindowError{Kind: "appointment", Window: testWindow}
	want := "appointment date must be within May 10, 2022 00:00:00 UTC to May 13, 2022 23:59:59 UTC"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}
