package dice

import (
	"math/rand/v2"

	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
)

// randomRoller implements Roller on the process-wide random source
type randomRoller struct{}

// NewRandomRoller creates a new random dice roller
func NewRandomRoller() Roller {
	return &randomRoller{}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, vtterr.InvalidArgumentf("invalid dice count %d", count)
	}
	if sides < 1 {
		return nil, vtterr.InvalidArgumentf("invalid dice size %d", sides)
	}

	rolls := make([]int, count)
	raw := 0
	for i := range rolls {
		rolls[i] = rand.IntN(sides) + 1
		raw += rolls[i]
	}

	return &RollResult{
		Total:    raw + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: raw,
	}, nil
}
