package model

import "time"

// MatchType distinguishes open public matches from invite-only ones.
type MatchType string

const (
	MatchPublic  MatchType = "PUBLIC"
	MatchPrivate MatchType = "PRIVATE"
)

// PaymentSplitType selects how a booking's total credits are divided
// among the match participants.
type PaymentSplitType string

const (
	SplitCreatorPaysAll PaymentSplitType = "CREATOR_PAYS_ALL"
	SplitEvenly         PaymentSplitType = "SPLIT_EVENLY"
)

// MatchStatus enumerates the match lifecycle.  A match becomes FULL
// exactly when its player count reaches PlayerLimit and reverts to OPEN
// when a player leaves below that threshold.
type MatchStatus string

const (
	MatchOpen      MatchStatus = "OPEN"
	MatchFull      MatchStatus = "FULL"
	MatchCancelled MatchStatus = "CANCELLED"
	MatchCompleted MatchStatus = "COMPLETED"
)

// Match is the player-facing grouping tied 1:1 to a booking.  The
// invite code is generated for every match but only shared for private
// ones.  Preference filters are advisory and not enforced by this
// core.  This struct corresponds to a row in the `matches` table.
//
// Fields:
//  ID          – primary key identifier.
//  BookingID   – owning booking.
//  Title       – display title.
//  MatchType   – PUBLIC or PRIVATE.
//  SplitType   – payment split policy.
//  PlayerLimit – maximum number of players.
//  Status      – current match state.
//  MatchCode   – unique 6-character invite code.
//  SkillLevel  – preferred skill level (nullable).
//  AgeGroup    – preferred age group (nullable).
//  Gender      – preferred gender mix (nullable).
//  OrgID       – restricting organization (nullable).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Match struct {
	ID          uint64           // matches.id
	BookingID   uint64           // matches.booking_id
	Title       string           // matches.title
	MatchType   MatchType        // matches.match_type
	SplitType   PaymentSplitType // matches.split_type
	PlayerLimit uint32           // matches.player_limit
	Status      MatchStatus      // matches.status
	MatchCode   string           // matches.match_code
	SkillLevel  *string          // matches.skill_level (nullable)
	AgeGroup    *string          // matches.age_group (nullable)
	Gender      *string          // matches.gender (nullable)
	OrgID       *uint64          // matches.org_id (nullable)
	CreatedAt   time.Time        // matches.created_at
	UpdatedAt   time.Time        // matches.updated_at
}

// MatchPlayer is a membership row linking a user to a match.  The
// creator's row is inserted with the booking; other rows appear on
// join and disappear on leave or kick.  This struct corresponds to a
// row in the `match_players` table.
//
// Fields:
//  ID       – primary key identifier.
//  MatchID  – match joined.
//  UserID   – joining user.
//  Team     – team assignment (nullable, free-form).
//  JoinedAt – when the user joined.
type MatchPlayer struct {
	ID       uint64    // match_players.id
	MatchID  uint64    // match_players.match_id
	UserID   uint64    // match_players.user_id
	Team     *string   // match_players.team (nullable)
	JoinedAt time.Time // match_players.joined_at
}
