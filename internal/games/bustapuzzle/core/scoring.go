package core

import "time"

// maxDropExponent keeps drop points within int range on any board size.
const maxDropExponent = 62

// Scoring holds the score rules for a session.
type Scoring struct {
	TimeBonusPar  time.Duration // Clearing faster than this earns a bonus
	TimeBonusRate int           // Points per second under par
}

// DefaultScoring returns the standard score rules.
func DefaultScoring() Scoring {
	return Scoring{
		TimeBonusPar:  120 * time.Second,
		TimeBonusRate: 10,
	}
}

// PopPoints returns the points for popping n bubbles: one each.
func PopPoints(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// DropPoints returns the points for dropping n bubbles: 2^n, so large drops
// are worth far more than pops.
func DropPoints(n int) int {
	if n <= 0 {
		return 0
	}
	if n > maxDropExponent {
		n = maxDropExponent
	}
	return 1 << n
}

// TimeBonus returns the bonus for clearing a stage after elapsed time.
// Whole seconds under par are paid at the configured rate.
func (s Scoring) TimeBonus(elapsed time.Duration) int {
	left := s.TimeBonusPar - elapsed
	if left <= 0 {
		return 0
	}
	return int(left/time.Second) * s.TimeBonusRate
}
