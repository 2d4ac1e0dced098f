package rating

import (
	"math"
	"time"
)

// DecayWindowDays is the linear decay horizon for net rating:
// 365*4 + 1 leap day. Contributions reach zero exactly at this age.
const DecayWindowDays = 1461

// NetContribution returns the decayed weight of a single rating delta as of
// the given instant. Events in the future relative to asOf, and events at or
// beyond the decay window, contribute nothing. This is the only decay
// definition in the codebase; net rating is never stored.
func NetContribution(rawDelta float64, eventDate, asOf time.Time) float64 {
	daysDiff := int(math.Floor(asOf.Sub(eventDate).Hours() / 24))
	if daysDiff < 0 {
		return 0
	}
	if daysDiff >= DecayWindowDays {
		return 0
	}

	return rawDelta * float64(DecayWindowDays-daysDiff) / float64(DecayWindowDays)
}

// NetSum folds NetContribution over a set of (delta, date) pairs.
func NetSum(asOf time.Time, deltas []WeightedDelta) float64 {
	total := 0.0
	for _, d := range deltas {
		total += NetContribution(d.Delta, d.Date, asOf)
	}

	return total
}

// WeightedDelta is one rating-affecting event for decay purposes.
type WeightedDelta struct {
	Delta float64
	Date  time.Time
}

// Age derives a player's age from date of birth using calendar subtraction:
// year difference, minus one when the birthday has not yet occurred this year.
func Age(dateOfBirth, asOf time.Time) int {
	years := asOf.Year() - dateOfBirth.Year()
	if asOf.Month() < dateOfBirth.Month() ||
		(asOf.Month() == dateOfBirth.Month() && asOf.Day() < dateOfBirth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}

	return years
}
