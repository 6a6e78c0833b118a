package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sport-venue-booking/internal/matchcode"
	"github.com/iliyamo/sport-venue-booking/internal/model"
	"github.com/iliyamo/sport-venue-booking/internal/repository"
)

// The lifecycle owns its transactions through *sql.DB, so the tests
// register a trivial driver whose transactions commit and roll back as
// no-ops.  All state lives in memWorld; the *sql.Tx handed to the
// stores is just the unit-of-work token the real repositories expect.

type noopDriver struct{}

func (noopDriver) Open(string) (driver.Conn, error) { return noopConn{}, nil }

type noopConn struct{}

func (noopConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (noopConn) Close() error                        { return nil }
func (noopConn) Begin() (driver.Tx, error)           { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

func init() { sql.Register("lifecycle-noop", noopDriver{}) }

// memWorld is an in-memory rendition of the schema, satisfying every
// store interface the service consumes.  Methods ignore the tx: the
// tests exercise lifecycle decisions, not SQL atomicity.
type memWorld struct {
	venues   map[uint64]*model.Venue
	windows  []model.OperatingWindow
	slots    map[uint64]*model.Slot
	bookings map[uint64]*model.Booking
	matches  map[uint64]*model.Match
	players  map[uint64][]model.MatchPlayer
	credits  map[uint64]int64
	jobs     map[uint64]time.Time
	nextID   uint64
}

func newMemWorld() *memWorld {
	return &memWorld{
		venues:   map[uint64]*model.Venue{},
		slots:    map[uint64]*model.Slot{},
		bookings: map[uint64]*model.Booking{},
		matches:  map[uint64]*model.Match{},
		players:  map[uint64][]model.MatchPlayer{},
		credits:  map[uint64]int64{},
		jobs:     map[uint64]time.Time{},
	}
}

func (w *memWorld) id() uint64 {
	w.nextID++
	return w.nextID
}

// VenueStore

func (w *memWorld) GetActive(_ context.Context, venueID uint64) (*model.Venue, error) {
	v, ok := w.venues[venueID]
	if !ok || !v.IsActive {
		return nil, sql.ErrNoRows
	}
	cp := *v
	return &cp, nil
}

func (w *memWorld) HoursForWeekdayTx(_ context.Context, _ *sql.Tx, _, _ uint64, weekday int) ([]model.OperatingWindow, error) {
	var out []model.OperatingWindow
	for _, win := range w.windows {
		if win.Weekday == weekday {
			out = append(out, win)
		}
	}
	return out, nil
}

// SlotStore

func (w *memWorld) LockVenueTx(_ context.Context, _ *sql.Tx, venueID uint64) error {
	if _, ok := w.venues[venueID]; !ok {
		return sql.ErrNoRows
	}
	return nil
}

func (w *memWorld) FindActiveOverlappingTx(_ context.Context, _ *sql.Tx, venueID uint64, start, end time.Time, excludeSlotID uint64) ([]model.Slot, error) {
	var out []model.Slot
	for _, s := range w.slots {
		if s.VenueID != venueID || s.ID == excludeSlotID {
			continue
		}
		if !Overlaps(start, end, s.StartsAt, s.EndsAt) {
			continue
		}
		if s.EventType == model.SlotEventBooking {
			b, ok := w.bookings[s.EventID]
			if !ok || (b.Status != model.BookingPending && b.Status != model.BookingConfirmed) {
				continue
			}
		}
		out = append(out, *s)
	}
	return out, nil
}

func (w *memWorld) CreateTx(_ context.Context, _ *sql.Tx, s *model.Slot) error {
	s.ID = w.id()
	cp := *s
	w.slots[s.ID] = &cp
	return nil
}

func (w *memWorld) DeleteByEventTx(_ context.Context, _ *sql.Tx, eventType model.SlotEventType, eventID uint64) error {
	for id, s := range w.slots {
		if s.EventType == eventType && s.EventID == eventID {
			delete(w.slots, id)
		}
	}
	return nil
}

func (w *memWorld) FindByEventTx(_ context.Context, _ *sql.Tx, eventType model.SlotEventType, eventID uint64) (*model.Slot, error) {
	for _, s := range w.slots {
		if s.EventType == eventType && s.EventID == eventID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// bookingStore wraps memWorld so its CreateTx does not collide with
// the slot variant; the service consumes them as separate interfaces.
type bookingStore struct{ w *memWorld }

func (s bookingStore) CreateTx(_ context.Context, _ *sql.Tx, b *model.Booking) error {
	b.ID = s.w.id()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	s.w.bookings[b.ID] = &cp
	return nil
}

func (s bookingStore) GetTx(_ context.Context, _ *sql.Tx, id uint64) (*model.Booking, error) {
	return s.Get(context.Background(), id)
}

func (s bookingStore) Get(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := s.w.bookings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (s bookingStore) UpdateStatusTx(_ context.Context, _ *sql.Tx, id uint64, from, to model.BookingStatus) error {
	b, ok := s.w.bookings[id]
	if !ok || b.Status != from {
		return sql.ErrNoRows
	}
	b.Status = to
	return nil
}

type matchStore struct{ w *memWorld }

func (s matchStore) CreateTx(_ context.Context, _ *sql.Tx, m *model.Match) error {
	for _, other := range s.w.matches {
		if other.MatchCode == m.MatchCode {
			return repository.ErrDuplicateCode
		}
	}
	m.ID = s.w.id()
	cp := *m
	s.w.matches[m.ID] = &cp
	return nil
}

func (s matchStore) GetByBookingTx(_ context.Context, _ *sql.Tx, bookingID uint64) (*model.Match, error) {
	for _, m := range s.w.matches {
		if m.BookingID == bookingID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s matchStore) GetTx(_ context.Context, _ *sql.Tx, id uint64) (*model.Match, error) {
	m, ok := s.w.matches[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *m
	return &cp, nil
}

func (s matchStore) GetByCodeTx(_ context.Context, _ *sql.Tx, code string) (*model.Match, error) {
	for _, m := range s.w.matches {
		if m.MatchCode == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s matchStore) CodeExists(_ context.Context, code string) (bool, error) {
	for _, m := range s.w.matches {
		if m.MatchCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s matchStore) UpdateStatusTx(_ context.Context, _ *sql.Tx, id uint64, to model.MatchStatus) error {
	m, ok := s.w.matches[id]
	if !ok {
		return sql.ErrNoRows
	}
	m.Status = to
	return nil
}

func (s matchStore) UpdateCodeTx(_ context.Context, _ *sql.Tx, id uint64, code string) error {
	m, ok := s.w.matches[id]
	if !ok {
		return sql.ErrNoRows
	}
	m.MatchCode = code
	return nil
}

func (s matchStore) AddPlayerTx(_ context.Context, _ *sql.Tx, p *model.MatchPlayer) error {
	p.ID = s.w.id()
	s.w.players[p.MatchID] = append(s.w.players[p.MatchID], *p)
	return nil
}

func (s matchStore) RemovePlayerTx(_ context.Context, _ *sql.Tx, matchID, userID uint64) (bool, error) {
	list := s.w.players[matchID]
	for i, p := range list {
		if p.UserID == userID {
			s.w.players[matchID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s matchStore) PlayersTx(_ context.Context, _ *sql.Tx, matchID uint64) ([]model.MatchPlayer, error) {
	return append([]model.MatchPlayer(nil), s.w.players[matchID]...), nil
}

func (s matchStore) CountPlayersTx(_ context.Context, _ *sql.Tx, matchID uint64) (uint32, error) {
	return uint32(len(s.w.players[matchID])), nil
}

func (s matchStore) HasPlayerTx(_ context.Context, _ *sql.Tx, matchID, userID uint64) (bool, error) {
	for _, p := range s.w.players[matchID] {
		if p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type profileStore struct{ w *memWorld }

func (s profileStore) AdjustCreditsTx(_ context.Context, _ *sql.Tx, userID uint64, delta int64) error {
	bal, ok := s.w.credits[userID]
	if !ok {
		return sql.ErrNoRows
	}
	if bal+delta < 0 {
		return repository.ErrInsufficientCredits
	}
	s.w.credits[userID] = bal + delta
	return nil
}

type jobStore struct{ w *memWorld }

func (s jobStore) ScheduleTx(_ context.Context, _ *sql.Tx, bookingID uint64, dueAt time.Time) error {
	s.w.jobs[bookingID] = dueAt
	return nil
}

func (s jobStore) DisarmTx(_ context.Context, _ *sql.Tx, bookingID uint64) error {
	delete(s.w.jobs, bookingID)
	return nil
}

// recordingSink captures lifecycle fan-out.
type recordingSink struct {
	confirmed []uint64
	cancelled map[uint64]string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{cancelled: map[uint64]string{}}
}

func (r *recordingSink) BookingConfirmed(_ context.Context, b *model.Booking, _ *model.Match) {
	r.confirmed = append(r.confirmed, b.ID)
}

func (r *recordingSink) BookingCancelled(_ context.Context, b *model.Booking, _ *model.Match, reason string) {
	r.cancelled[b.ID] = reason
}

const (
	testVenueID = uint64(1)
	creatorID   = uint64(10)
	joinerID    = uint64(11)
	thirdID     = uint64(12)
)

func newTestService(t *testing.T) (*Service, *memWorld, *recordingSink) {
	t.Helper()
	db, err := sql.Open("lifecycle-noop", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	w := newMemWorld()
	w.nextID = 100
	w.venues[testVenueID] = &model.Venue{
		ID: testVenueID, FacilityID: 1, SportID: 1, Name: "court one",
		BasePrice: 100, Capacity: 10, Timezone: "UTC", IsActive: true,
	}
	for d := 0; d < 7; d++ {
		w.windows = append(w.windows, model.OperatingWindow{Weekday: d, OpenMin: 0, CloseMin: 1440})
	}
	w.credits[creatorID] = 100
	w.credits[joinerID] = 100
	w.credits[thirdID] = 100

	sink := newRecordingSink()
	svc := NewService(db, w, w, bookingStore{w}, matchStore{w}, profileStore{w}, jobStore{w}, sink)
	return svc, w, sink
}

// futureSlot returns a one-hour interval comfortably in the future and
// clear of any midnight boundary.
func futureSlot() (time.Time, time.Time) {
	day := time.Now().UTC().AddDate(0, 0, 2)
	start := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}

func createInput(start, end time.Time) CreateBookingInput {
	return CreateBookingInput{
		RequesterID: creatorID,
		VenueID:     testVenueID,
		SportID:     1,
		StartsAt:    start,
		EndsAt:      end,
		Title:       "friendly",
		PlayerLimit: 4,
		MatchType:   model.MatchPublic,
		SplitType:   model.SplitEvenly,
	}
}

func TestCreateBookingChargesEscrowAndArmsTimer(t *testing.T) {
	svc, w, _ := newTestService(t)
	start, end := futureSlot()

	b, m, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)

	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, model.MatchOpen, m.Status)
	assert.Len(t, m.MatchCode, matchcode.Length)
	assert.Equal(t, int64(75), w.credits[creatorID], "creator pays the even split share of 100/4")

	slot, err := w.FindByEventTx(context.Background(), nil, model.SlotEventBooking, b.ID)
	require.NoError(t, err)
	assert.Equal(t, start, slot.StartsAt)

	due, armed := w.jobs[b.ID]
	require.True(t, armed, "public match arms the auto-cancel timer")
	assert.Equal(t, b.CreatedAt.Add(AutoCancelAfter), due)

	players := w.players[m.ID]
	require.Len(t, players, 1)
	assert.Equal(t, creatorID, players[0].UserID)
}

func TestCreateBookingPrivateDoesNotArmTimer(t *testing.T) {
	svc, w, _ := newTestService(t)
	start, end := futureSlot()
	in := createInput(start, end)
	in.MatchType = model.MatchPrivate
	in.SplitType = model.SplitCreatorPaysAll

	b, _, err := svc.CreateBooking(context.Background(), in)
	require.NoError(t, err)

	_, armed := w.jobs[b.ID]
	assert.False(t, armed)
	assert.Equal(t, int64(0), w.credits[creatorID], "creator pays the full base price")
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	svc, w, _ := newTestService(t)
	start, end := futureSlot()

	_, _, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)
	balance := w.credits[creatorID]

	in := createInput(start.Add(30*time.Minute), end.Add(30*time.Minute))
	_, _, err = svc.CreateBooking(context.Background(), in)

	var conflict *SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, testVenueID, conflict.VenueID)
	assert.Equal(t, balance, w.credits[creatorID], "a rejected creation charges nothing")
}

func TestCreateBookingInsufficientCredits(t *testing.T) {
	svc, w, _ := newTestService(t)
	w.credits[creatorID] = 10
	start, end := futureSlot()

	_, _, err := svc.CreateBooking(context.Background(), createInput(start, end))
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Equal(t, int64(10), w.credits[creatorID])
}

func TestCancelConservesCreditsAcrossPlayers(t *testing.T) {
	svc, w, sink := newTestService(t)
	start, end := futureSlot()

	b, m, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)
	_, err = svc.JoinMatchByCode(context.Background(), joinerID, m.MatchCode)
	require.NoError(t, err)
	assert.Equal(t, int64(75), w.credits[joinerID])

	_, err = svc.Cancel(context.Background(), creatorID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(100), w.credits[creatorID], "creator made whole")
	assert.Equal(t, int64(100), w.credits[joinerID], "joiner made whole")
	assert.Equal(t, model.BookingCancelled, w.bookings[b.ID].Status)
	assert.Equal(t, model.MatchCancelled, w.matches[m.ID].Status)
	_, err = w.FindByEventTx(context.Background(), nil, model.SlotEventBooking, b.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows, "slot freed")
	_, armed := w.jobs[b.ID]
	assert.False(t, armed, "timer disarmed")
	assert.Equal(t, "cancelled by owner", sink.cancelled[b.ID])
}

func TestCancelOwnerWindow(t *testing.T) {
	svc, w, _ := newTestService(t)
	start, end := futureSlot()

	b, _, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)
	w.bookings[b.ID].CreatedAt = time.Now().UTC().Add(-3 * time.Hour)

	_, err = svc.Cancel(context.Background(), creatorID, b.ID)
	assert.ErrorIs(t, err, ErrBookingTooOldToCancel)
	assert.Equal(t, model.BookingPending, w.bookings[b.ID].Status)

	// A confirmed booking has no window.
	_, err = svc.Confirm(context.Background(), creatorID, b.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), creatorID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), w.credits[creatorID])
}

func TestCancelNonOwnerForbidden(t *testing.T) {
	svc, _, _ := newTestService(t)
	start, end := futureSlot()

	b, _, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), joinerID, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAutoCancelIsIdempotent(t *testing.T) {
	svc, w, sink := newTestService(t)
	start, end := futureSlot()

	b, _, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)
	require.Equal(t, int64(75), w.credits[creatorID])

	require.NoError(t, svc.AutoCancel(context.Background(), b.ID))
	assert.Equal(t, model.BookingCancelled, w.bookings[b.ID].Status)
	assert.Equal(t, int64(100), w.credits[creatorID])
	assert.Contains(t, sink.cancelled[b.ID], "did not fill")

	// Second fire finds a non-pending booking and refunds nothing.
	require.NoError(t, svc.AutoCancel(context.Background(), b.ID))
	assert.Equal(t, int64(100), w.credits[creatorID])
}

func TestAutoCancelSparesFullMatch(t *testing.T) {
	svc, w, _ := newTestService(t)
	start, end := futureSlot()
	in := createInput(start, end)
	in.PlayerLimit = 2

	b, m, err := svc.CreateBooking(context.Background(), in)
	require.NoError(t, err)
	_, err = svc.JoinMatchByCode(context.Background(), joinerID, m.MatchCode)
	require.NoError(t, err)
	require.Equal(t, model.MatchFull, w.matches[m.ID].Status)

	require.NoError(t, svc.AutoCancel(context.Background(), b.ID))

	assert.Equal(t, model.BookingPending, w.bookings[b.ID].Status, "a full match keeps its booking")
	_, armed := w.jobs[b.ID]
	assert.False(t, armed, "timer forgotten")
	assert.Equal(t, int64(50), w.credits[creatorID], "no refunds issued")
}

func TestJoinFlipsFullAndLeaveReverts(t *testing.T) {
	svc, w, _ := newTestService(t)
	start, end := futureSlot()
	in := createInput(start, end)
	in.PlayerLimit = 2

	_, m, err := svc.CreateBooking(context.Background(), in)
	require.NoError(t, err)

	got, err := svc.JoinMatchByCode(context.Background(), joinerID, m.MatchCode)
	require.NoError(t, err)
	assert.Equal(t, model.MatchFull, got.Status)

	_, err = svc.JoinMatchByCode(context.Background(), thirdID, m.MatchCode)
	assert.ErrorIs(t, err, ErrMatchNotOpen)

	require.NoError(t, svc.LeaveMatch(context.Background(), joinerID, m.ID))
	assert.Equal(t, model.MatchOpen, w.matches[m.ID].Status)
	assert.Equal(t, int64(100), w.credits[joinerID], "share refunded on leave")
}

func TestJoinTwiceRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	start, end := futureSlot()

	_, m, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)

	_, err = svc.JoinMatchByCode(context.Background(), joinerID, m.MatchCode)
	require.NoError(t, err)
	_, err = svc.JoinMatchByCode(context.Background(), joinerID, m.MatchCode)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestLeaveAfterCancellationDoesNotRefundTwice(t *testing.T) {
	svc, w, _ := newTestService(t)
	start, end := futureSlot()

	b, m, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)
	_, err = svc.JoinMatchByCode(context.Background(), joinerID, m.MatchCode)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), creatorID, b.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), w.credits[joinerID], "cancellation already refunded the joiner")

	err = svc.LeaveMatch(context.Background(), joinerID, m.ID)
	assert.ErrorIs(t, err, ErrMatchNotOpen)
	assert.Equal(t, int64(100), w.credits[joinerID], "no second refund")
	require.Len(t, w.players[m.ID], 2, "membership rows untouched")
}

func TestLeaveAfterCompletionRejected(t *testing.T) {
	svc, w, _ := newTestService(t)
	start, end := futureSlot()

	b, m, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)
	_, err = svc.JoinMatchByCode(context.Background(), joinerID, m.MatchCode)
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), creatorID, b.ID)
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), b.ID)
	require.NoError(t, err)

	balance := w.credits[joinerID]
	err = svc.LeaveMatch(context.Background(), joinerID, m.ID)
	assert.ErrorIs(t, err, ErrMatchNotOpen)
	assert.Equal(t, balance, w.credits[joinerID], "completion settled the credits")
}

func TestConfirmRequiresOwnerAndPending(t *testing.T) {
	svc, _, _ := newTestService(t)
	start, end := futureSlot()

	b, _, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), joinerID, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Confirm(context.Background(), creatorID, b.ID)
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), creatorID, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// seedPendingBooking plants a pending booking with its slot, match and
// charged creator directly in the world, the way rows predating the
// venue lock could exist.
func seedPendingBooking(w *memWorld, owner uint64, start, end time.Time, charge int64) (bookingID, matchID uint64) {
	bookingID = w.id()
	w.bookings[bookingID] = &model.Booking{
		ID: bookingID, VenueID: testVenueID, SportID: 1, BookedBy: owner,
		Status: model.BookingPending, TotalCredits: 100, CreatedAt: time.Now().UTC(),
	}
	slotID := w.id()
	w.slots[slotID] = &model.Slot{
		ID: slotID, VenueID: testVenueID, EventType: model.SlotEventBooking,
		EventID: bookingID, StartsAt: start, EndsAt: end,
	}
	matchID = w.id()
	w.matches[matchID] = &model.Match{
		ID: matchID, BookingID: bookingID, MatchType: model.MatchPublic,
		SplitType: model.SplitEvenly, PlayerLimit: 4, Status: model.MatchOpen,
		MatchCode: fmt.Sprintf("SEED%02d", matchID%100),
	}
	w.players[matchID] = []model.MatchPlayer{{ID: w.id(), MatchID: matchID, UserID: owner}}
	w.credits[owner] -= charge
	return bookingID, matchID
}

func TestConfirmCancelsOverlappingPending(t *testing.T) {
	svc, w, sink := newTestService(t)
	start, end := futureSlot()

	winnerID, _ := seedPendingBooking(w, creatorID, start, end, 25)
	loserID, _ := seedPendingBooking(w, joinerID, start.Add(30*time.Minute), end.Add(30*time.Minute), 25)

	_, err := svc.Confirm(context.Background(), creatorID, winnerID)
	require.NoError(t, err)

	assert.Equal(t, model.BookingConfirmed, w.bookings[winnerID].Status)
	assert.Equal(t, model.BookingCancelled, w.bookings[loserID].Status, "losing pending booking cancelled")
	assert.Equal(t, int64(100), w.credits[joinerID], "losing creator refunded")
	_, err = w.FindByEventTx(context.Background(), nil, model.SlotEventBooking, loserID)
	assert.ErrorIs(t, err, sql.ErrNoRows, "losing slot freed")
	assert.Contains(t, sink.cancelled[loserID], "conflicting")
	assert.Equal(t, []uint64{winnerID}, sink.confirmed)
}

func TestRegenerateMatchCodeOwnerOnly(t *testing.T) {
	svc, w, _ := newTestService(t)
	start, end := futureSlot()

	_, m, err := svc.CreateBooking(context.Background(), createInput(start, end))
	require.NoError(t, err)
	old := m.MatchCode

	_, err = svc.RegenerateMatchCode(context.Background(), joinerID, m.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	code, err := svc.RegenerateMatchCode(context.Background(), creatorID, m.ID)
	require.NoError(t, err)
	assert.NotEqual(t, old, code)
	assert.Equal(t, code, w.matches[m.ID].MatchCode)

	_, err = svc.JoinMatchByCode(context.Background(), joinerID, old)
	assert.ErrorIs(t, err, ErrMatchNotFound, "old code no longer resolves")
}
