package rating

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidOdds  = errors.New("invalid odds")
	ErrInvalidScore = errors.New("invalid score")
)

const (
	oddsSumMin = 0.9
	oddsSumMax = 1.1
)

// Odds are pre-match outcome probabilities. A bookmaker margin is tolerated,
// so the sum only has to fall inside [0.9, 1.1].
type Odds struct {
	HomeWin float64 `json:"homeWin"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"awayWin"`
}

func (o Odds) Validate() error {
	if o.HomeWin < 0 || o.Draw < 0 || o.AwayWin < 0 {
		return fmt.Errorf("%w: probabilities must be non-negative", ErrInvalidOdds)
	}

	sum := o.HomeWin + o.Draw + o.AwayWin
	if sum < oddsSumMin || sum > oddsSumMax {
		return fmt.Errorf("%w: probabilities sum to %.3f, expected between %.1f and %.1f", ErrInvalidOdds, sum, oddsSumMin, oddsSumMax)
	}

	return nil
}

// Outcome carries the per-side rating change of a finished match.
type Outcome struct {
	HomeChange float64
	AwayChange float64
}

// EvaluateOutcome converts a result into rating changes. Each side earns
// actual points (3 win, 1 draw, 0 loss) minus expected points
// (3*winProb + 1*drawProb), rounded to two decimals.
func EvaluateOutcome(odds Odds, homeScore, awayScore int) (Outcome, error) {
	if homeScore < 0 || awayScore < 0 {
		return Outcome{}, fmt.Errorf("%w: scores must be non-negative", ErrInvalidScore)
	}
	if err := odds.Validate(); err != nil {
		return Outcome{}, err
	}

	expectedHome := 3*odds.HomeWin + odds.Draw
	expectedAway := 3*odds.AwayWin + odds.Draw

	var actualHome, actualAway float64
	switch {
	case homeScore > awayScore:
		actualHome = 3
	case homeScore < awayScore:
		actualAway = 3
	default:
		actualHome, actualAway = 1, 1
	}

	return Outcome{
		HomeChange: round2(actualHome - expectedHome),
		AwayChange: round2(actualAway - expectedAway),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
