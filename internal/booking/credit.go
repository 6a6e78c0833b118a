package booking

import "github.com/iliyamo/sport-venue-booking/internal/model"

// PerPlayerCharge computes the credits a single player owes (or is
// owed back) for a booking.  Refund paths call the same function with
// the same arguments as the original charge, so a create→cancel round
// trip conserves credits per player by construction.
//
// Public matches always split evenly regardless of the split policy a
// private match would carry.  The even split rounds half away from
// zero; when playerLimit does not divide totalCredits the remainders
// across players may not sum to totalCredits.  That drift is bounded
// by playerLimit-1 credits and is deliberately left unreconciled.
//
// The matchType × splitType pairs form a closed set; anything outside
// it returns ErrInvalidPaymentConfig.
func PerPlayerCharge(matchType model.MatchType, splitType model.PaymentSplitType, totalCredits, playerLimit uint32, isCreator bool) (uint32, error) {
	switch matchType {
	case model.MatchPublic, model.MatchPrivate:
	default:
		return 0, ErrInvalidPaymentConfig
	}

	if matchType == model.MatchPublic || splitType == model.SplitEvenly {
		if playerLimit == 0 {
			return 0, nil
		}
		return (totalCredits + playerLimit/2) / playerLimit, nil
	}

	switch splitType {
	case model.SplitCreatorPaysAll:
		if isCreator {
			return totalCredits, nil
		}
		return 0, nil
	default:
		return 0, ErrInvalidPaymentConfig
	}
}
