package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/sport-venue-booking/internal/matchcode"
	"github.com/iliyamo/sport-venue-booking/internal/model"
	"github.com/iliyamo/sport-venue-booking/internal/monitoring"
	"github.com/iliyamo/sport-venue-booking/internal/repository"
)

// AutoCancelAfter is the deadline for a public match to fill before
// the system reclaims its booking.  Computed once at creation; partial
// fills do not renew it.
const AutoCancelAfter = 2 * time.Hour

// OwnerCancelWindow is how long after creation the owner may cancel a
// pending booking.  It keeps "change of mind" separate from
// abandonment; system-initiated cancellation paths ignore it.
const OwnerCancelWindow = 2 * time.Hour

// codeRetries bounds the match-code uniqueness loop.
const codeRetries = 10

// EventSink receives lifecycle notifications after a transition has
// committed.  Failures are the sink's problem and never unwind a
// committed transition.
type EventSink interface {
	BookingConfirmed(ctx context.Context, b *model.Booking, m *model.Match)
	BookingCancelled(ctx context.Context, b *model.Booking, m *model.Match, reason string)
}

// Service orchestrates the booking/match lifecycle.  Every transition
// runs as one transaction: credit movement, booking/match/slot rows
// and timer arming either all commit or none do.  Calendar-mutating
// transitions take the venue row lock first so the conflict check and
// the write serialize per venue.
type Service struct {
	db       *sql.DB
	venues   VenueStore
	slots    SlotStore
	bookings BookingStore
	matches  MatchStore
	profiles ProfileStore
	jobs     JobStore
	checker  *ConflictChecker
	events   EventSink
}

// NewService wires the lifecycle over its stores.  events may be nil
// when no fan-out is configured.
func NewService(db *sql.DB, venues VenueStore, slots SlotStore,
	bookings BookingStore, matches MatchStore,
	profiles ProfileStore, jobs JobStore, events EventSink) *Service {
	return &Service{
		db:       db,
		venues:   venues,
		slots:    slots,
		bookings: bookings,
		matches:  matches,
		profiles: profiles,
		jobs:     jobs,
		checker:  NewConflictChecker(venues, slots),
		events:   events,
	}
}

// CreateBookingInput carries everything needed to open a booking with
// its slot and match.
type CreateBookingInput struct {
	RequesterID uint64
	VenueID     uint64
	SportID     uint64
	StartsAt    time.Time
	EndsAt      time.Time
	Title       string
	PlayerLimit uint32
	MatchType   model.MatchType
	SplitType   model.PaymentSplitType
	SkillLevel  *string
	AgeGroup    *string
	Gender      *string
	OrgID       *uint64
	Team        *string
}

// CreateBooking validates the slot, charges the creator's escrow share
// and atomically persists booking, slot, match and the creator's
// player row.  Public matches additionally arm a durable
// auto-cancellation timer at createdAt+AutoCancelAfter.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, *model.Match, error) {
	venue, err := s.venues.GetActive(ctx, in.VenueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrVenueNotFound
		}
		return nil, nil, err
	}
	if in.PlayerLimit > venue.Capacity {
		return nil, nil, ErrCapacityExceeded
	}
	charge, err := PerPlayerCharge(in.MatchType, in.SplitType, venue.BasePrice, in.PlayerLimit, true)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.slots.LockVenueTx(ctx, tx, venue.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrVenueNotFound
		}
		return nil, nil, err
	}
	if err := s.checker.ValidateTx(ctx, tx, venue, in.StartsAt, in.EndsAt, 0); err != nil {
		return nil, nil, err
	}
	if err := s.profiles.AdjustCreditsTx(ctx, tx, in.RequesterID, -int64(charge)); err != nil {
		if errors.Is(err, repository.ErrInsufficientCredits) {
			return nil, nil, ErrInsufficientCredits
		}
		return nil, nil, err
	}

	b := &model.Booking{
		VenueID:      venue.ID,
		SportID:      in.SportID,
		BookedBy:     in.RequesterID,
		Status:       model.BookingPending,
		TotalCredits: venue.BasePrice,
	}
	if err := s.bookings.CreateTx(ctx, tx, b); err != nil {
		return nil, nil, err
	}
	slot := &model.Slot{
		VenueID:   venue.ID,
		EventType: model.SlotEventBooking,
		EventID:   b.ID,
		StartsAt:  in.StartsAt,
		EndsAt:    in.EndsAt,
	}
	if err := s.slots.CreateTx(ctx, tx, slot); err != nil {
		return nil, nil, err
	}

	m := &model.Match{
		BookingID:   b.ID,
		Title:       in.Title,
		MatchType:   in.MatchType,
		SplitType:   in.SplitType,
		PlayerLimit: in.PlayerLimit,
		Status:      model.MatchOpen,
		SkillLevel:  in.SkillLevel,
		AgeGroup:    in.AgeGroup,
		Gender:      in.Gender,
		OrgID:       in.OrgID,
	}
	if err := s.createMatchWithUniqueCode(ctx, tx, m); err != nil {
		return nil, nil, err
	}
	if err := s.matches.AddPlayerTx(ctx, tx, &model.MatchPlayer{MatchID: m.ID, UserID: in.RequesterID, Team: in.Team}); err != nil {
		return nil, nil, err
	}
	if in.MatchType == model.MatchPublic {
		if err := s.jobs.ScheduleTx(ctx, tx, b.ID, b.CreatedAt.Add(AutoCancelAfter)); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	committed = true
	monitoring.BookingCreated(string(m.MatchType))
	monitoring.CreditsCharged(charge)
	return b, m, nil
}

// createMatchWithUniqueCode inserts the match, retrying with fresh
// invite codes until the unique key accepts one or the retry budget
// runs out.
func (s *Service) createMatchWithUniqueCode(ctx context.Context, tx *sql.Tx, m *model.Match) error {
	for i := 0; i < codeRetries; i++ {
		code, err := matchcode.Generate()
		if err != nil {
			return err
		}
		exists, err := s.matches.CodeExists(ctx, code)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		m.MatchCode = code
		err = s.matches.CreateTx(ctx, tx, m)
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		return err
	}
	return ErrCodeGenerationExhausted
}

// Confirm moves a pending booking to confirmed on behalf of its owner,
// then cancels any other pending booking whose slot overlaps the
// confirmed one (first confirmed wins).  Confirmation itself moves no
// credits.
func (s *Service) Confirm(ctx context.Context, requesterID, bookingID uint64) (*model.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.bookings.GetTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.BookedBy != requesterID {
		return nil, ErrForbidden
	}
	if b.Status != model.BookingPending {
		return nil, ErrInvalidTransition
	}
	if err := s.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingPending, model.BookingConfirmed); err != nil {
		return nil, err
	}
	m, err := s.matches.GetByBookingTx(ctx, tx, b.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	b.Status = model.BookingConfirmed

	s.resolveConflicts(ctx, b)
	if s.events != nil {
		s.events.BookingConfirmed(ctx, b, m)
	}
	return b, nil
}

// Cancel cancels a booking on behalf of its owner.  Pending bookings
// may be cancelled only within OwnerCancelWindow of creation;
// confirmed ones have no window.
func (s *Service) Cancel(ctx context.Context, requesterID, bookingID uint64) (*model.Booking, error) {
	return s.cancel(ctx, bookingID, &requesterID, "cancelled by owner")
}

// CancelBySystem cancels a booking without ownership or window checks.
// Internal collaborators (admin and review flows) use it for confirmed
// bookings.
func (s *Service) CancelBySystem(ctx context.Context, bookingID uint64, reason string) (*model.Booking, error) {
	return s.cancel(ctx, bookingID, nil, reason)
}

func (s *Service) cancel(ctx context.Context, bookingID uint64, requesterID *uint64, reason string) (*model.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.bookings.GetTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if requesterID != nil && b.BookedBy != *requesterID {
		return nil, ErrForbidden
	}
	if !b.CanTransition(model.BookingCancelled) {
		return nil, ErrInvalidTransition
	}
	if requesterID != nil && b.Status == model.BookingPending &&
		time.Now().UTC().After(b.CreatedAt.Add(OwnerCancelWindow)) {
		return nil, ErrBookingTooOldToCancel
	}

	m, refunded, err := s.cancelLockedTx(ctx, tx, b)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	b.Status = model.BookingCancelled
	monitoring.CreditsRefunded(refunded)

	if s.events != nil {
		s.events.BookingCancelled(ctx, b, m, reason)
	}
	return b, nil
}

// cancelLockedTx applies the shared cancellation effects to an already
// locked, cancellable booking: refund every charged party, cancel the
// booking and match, delete the slot and disarm the timer.  Returns
// the match and the total credits refunded.
func (s *Service) cancelLockedTx(ctx context.Context, tx *sql.Tx, b *model.Booking) (*model.Match, uint32, error) {
	m, err := s.matches.GetByBookingTx(ctx, tx, b.ID)
	if err != nil {
		return nil, 0, err
	}
	players, err := s.matches.PlayersTx(ctx, tx, m.ID)
	if err != nil {
		return nil, 0, err
	}
	var refunded uint32
	for _, p := range players {
		refund, err := PerPlayerCharge(m.MatchType, m.SplitType, b.TotalCredits, m.PlayerLimit, p.UserID == b.BookedBy)
		if err != nil {
			return nil, 0, err
		}
		if err := s.profiles.AdjustCreditsTx(ctx, tx, p.UserID, int64(refund)); err != nil {
			return nil, 0, err
		}
		refunded += refund
	}
	if err := s.bookings.UpdateStatusTx(ctx, tx, b.ID, b.Status, model.BookingCancelled); err != nil {
		return nil, 0, err
	}
	if err := s.matches.UpdateStatusTx(ctx, tx, m.ID, model.MatchCancelled); err != nil {
		return nil, 0, err
	}
	if err := s.slots.DeleteByEventTx(ctx, tx, model.SlotEventBooking, b.ID); err != nil {
		return nil, 0, err
	}
	if err := s.jobs.DisarmTx(ctx, tx, b.ID); err != nil {
		return nil, 0, err
	}
	m.Status = model.MatchCancelled
	return m, refunded, nil
}

// AutoCancel is the timer handler for abandoned public bookings.  It
// is idempotent: the booking's status and the match's fill level are
// revalidated inside the transaction, so a timer firing just after a
// manual cancellation, or firing twice, finds nothing to do.
func (s *Service) AutoCancel(ctx context.Context, bookingID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.bookings.GetTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if b.Status != model.BookingPending {
		return nil
	}
	m, err := s.matches.GetByBookingTx(ctx, tx, b.ID)
	if err != nil {
		return err
	}
	if m.Status == model.MatchFull {
		// Enough players joined in time; just forget the timer.
		if err := s.jobs.DisarmTx(ctx, tx, b.ID); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		committed = true
		return nil
	}

	m, refunded, err := s.cancelLockedTx(ctx, tx, b)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	b.Status = model.BookingCancelled
	monitoring.CreditsRefunded(refunded)

	if s.events != nil {
		s.events.BookingCancelled(ctx, b, m, "auto-cancelled: match did not fill")
	}
	return nil
}

// Complete moves a confirmed booking to completed.  Invoked by the
// check-in subsystem once all required players have checked in; no
// credits move here.
func (s *Service) Complete(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.bookings.GetTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !b.CanTransition(model.BookingCompleted) {
		return nil, ErrInvalidTransition
	}
	if err := s.bookings.UpdateStatusTx(ctx, tx, b.ID, b.Status, model.BookingCompleted); err != nil {
		return nil, err
	}
	m, err := s.matches.GetByBookingTx(ctx, tx, b.ID)
	if err != nil {
		return nil, err
	}
	if err := s.matches.UpdateStatusTx(ctx, tx, m.ID, model.MatchCompleted); err != nil {
		return nil, err
	}
	if err := s.jobs.DisarmTx(ctx, tx, b.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	b.Status = model.BookingCompleted
	return b, nil
}

// RegenerateMatchCode replaces a match's invite code on behalf of the
// booking owner, invalidating any previously shared code.
func (s *Service) RegenerateMatchCode(ctx context.Context, requesterID, matchID uint64) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	m, err := s.matches.GetTx(ctx, tx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMatchNotFound
		}
		return "", err
	}
	b, err := s.bookings.GetTx(ctx, tx, m.BookingID)
	if err != nil {
		return "", err
	}
	if b.BookedBy != requesterID {
		return "", ErrForbidden
	}

	for i := 0; i < codeRetries; i++ {
		code, err := matchcode.Generate()
		if err != nil {
			return "", err
		}
		exists, err := s.matches.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}
		if err := s.matches.UpdateCodeTx(ctx, tx, m.ID, code); err != nil {
			if errors.Is(err, repository.ErrDuplicateCode) {
				continue
			}
			return "", err
		}
		if err := tx.Commit(); err != nil {
			return "", err
		}
		committed = true
		return code, nil
	}
	return "", ErrCodeGenerationExhausted
}

// JoinMatchByCode admits the requester to the match behind an invite
// code, charging their per-player share.  The match flips to FULL when
// the player count reaches the limit.
func (s *Service) JoinMatchByCode(ctx context.Context, requesterID uint64, rawCode string) (*model.Match, error) {
	code := matchcode.Clean(rawCode)
	if !matchcode.IsValid(code) {
		return nil, ErrMatchNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	m, err := s.matches.GetByCodeTx(ctx, tx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	b, err := s.bookings.GetTx(ctx, tx, m.BookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingPending && b.Status != model.BookingConfirmed {
		return nil, ErrMatchNotOpen
	}
	if m.Status != model.MatchOpen {
		return nil, ErrMatchNotOpen
	}
	joined, err := s.matches.HasPlayerTx(ctx, tx, m.ID, requesterID)
	if err != nil {
		return nil, err
	}
	if joined {
		return nil, ErrAlreadyJoined
	}

	charge, err := PerPlayerCharge(m.MatchType, m.SplitType, b.TotalCredits, m.PlayerLimit, false)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.AdjustCreditsTx(ctx, tx, requesterID, -int64(charge)); err != nil {
		if errors.Is(err, repository.ErrInsufficientCredits) {
			return nil, ErrInsufficientCredits
		}
		return nil, err
	}
	if err := s.matches.AddPlayerTx(ctx, tx, &model.MatchPlayer{MatchID: m.ID, UserID: requesterID}); err != nil {
		return nil, err
	}
	count, err := s.matches.CountPlayersTx(ctx, tx, m.ID)
	if err != nil {
		return nil, err
	}
	if count >= m.PlayerLimit {
		if err := s.matches.UpdateStatusTx(ctx, tx, m.ID, model.MatchFull); err != nil {
			return nil, err
		}
		m.Status = model.MatchFull
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	monitoring.CreditsCharged(charge)
	return m, nil
}

// LeaveMatch removes the requester from a match, refunding their
// per-player share.  A FULL match reverts to OPEN when the count drops
// below the limit; the creator cannot leave their own match.  Only a
// live match can be left: cancellation already refunded every player,
// and completion settled the credits for good, so leaving after either
// would move credits twice.
func (s *Service) LeaveMatch(ctx context.Context, requesterID, matchID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	m, err := s.matches.GetTx(ctx, tx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return err
	}
	if m.Status != model.MatchOpen && m.Status != model.MatchFull {
		return ErrMatchNotOpen
	}
	b, err := s.bookings.GetTx(ctx, tx, m.BookingID)
	if err != nil {
		return err
	}
	if b.BookedBy == requesterID {
		return ErrCreatorCannotLeave
	}
	removed, err := s.matches.RemovePlayerTx(ctx, tx, m.ID, requesterID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotAPlayer
	}

	refund, err := PerPlayerCharge(m.MatchType, m.SplitType, b.TotalCredits, m.PlayerLimit, false)
	if err != nil {
		return err
	}
	if err := s.profiles.AdjustCreditsTx(ctx, tx, requesterID, int64(refund)); err != nil {
		return err
	}
	if m.Status == model.MatchFull {
		count, err := s.matches.CountPlayersTx(ctx, tx, m.ID)
		if err != nil {
			return err
		}
		if count < m.PlayerLimit {
			if err := s.matches.UpdateStatusTx(ctx, tx, m.ID, model.MatchOpen); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	monitoring.CreditsRefunded(refund)
	return nil
}
