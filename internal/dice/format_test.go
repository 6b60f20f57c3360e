package dice_test

import (
	"testing"

	"github.com/KirkDiggler/symbaroum-vtt/internal/dice"
	"github.com/KirkDiggler/symbaroum-vtt/internal/dice/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		formula string
		rolls   []int
		want    string
	}{
		{"2d20kl1+3", []int{17, 4}, "2d20kl1+3: [~~17~~ 4] +3 = **7**"},
		{"1d8-1d4", []int{6, 3}, "1d8-1d4: [6] - [3] = **3**"},
		{"-1d4", []int{2}, "-1d4: -[2] = **-2**"},
		{"3d6", []int{1, 2, 3}, "3d6: [1 2 3] = **6**"},
		{"4", nil, "4: 4 = **4**"},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.rolls)

			result, err := dice.Roll(tt.formula, roller)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dice.Format(result))
		})
	}

	assert.Empty(t, dice.Format(nil))
}
