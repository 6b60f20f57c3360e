package dice_test

import (
	"strings"
	"testing"

	"github.com/KirkDiggler/symbaroum-vtt/internal/dice"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		formula   string
		canonical string
		terms     []dice.Term
	}{
		{
			formula:   "1d20",
			canonical: "1d20",
			terms:     []dice.Term{{Sign: 1, Count: 1, Sides: 20}},
		},
		{
			formula:   "d20",
			canonical: "1d20",
			terms:     []dice.Term{{Sign: 1, Count: 1, Sides: 20}},
		},
		{
			formula:   "2d20kl1+3",
			canonical: "2d20kl1+3",
			terms: []dice.Term{
				{Sign: 1, Count: 2, Sides: 20, Keep: dice.KeepLowest, KeepCount: 1},
				{Sign: 1, Literal: 3},
			},
		},
		{
			formula:   " 4D6 KH 3 - 2 ",
			canonical: "4d6kh3-2",
			terms: []dice.Term{
				{Sign: 1, Count: 4, Sides: 6, Keep: dice.KeepHighest, KeepCount: 3},
				{Sign: -1, Literal: 2},
			},
		},
		{
			formula:   "2d20kh",
			canonical: "2d20kh1",
			terms:     []dice.Term{{Sign: 1, Count: 2, Sides: 20, Keep: dice.KeepHighest, KeepCount: 1}},
		},
		{
			formula:   "1d8-1d4",
			canonical: "1d8-1d4",
			terms: []dice.Term{
				{Sign: 1, Count: 1, Sides: 8},
				{Sign: -1, Count: 1, Sides: 4},
			},
		},
		{
			formula:   "-3+1d6",
			canonical: "-3+1d6",
			terms: []dice.Term{
				{Sign: -1, Literal: 3},
				{Sign: 1, Count: 1, Sides: 6},
			},
		},
		{
			formula:   "7",
			canonical: "7",
			terms:     []dice.Term{{Sign: 1, Literal: 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			f, err := dice.Parse(tt.formula)
			require.NoError(t, err)
			assert.Equal(t, tt.canonical, f.Raw)
			assert.Equal(t, tt.terms, f.Terms)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	formulas := []string{
		"",
		"   ",
		"bad",
		"0d6",
		"1d0",
		"2d",
		"d",
		"1d20+",
		"1d20++2",
		"2d20kl3",
		"2d20kh0",
		"1d20k1",
		"1d20*2",
		"3d4x",
		"101d6",
		"1d1001",
		"1234567",
		"1 2",
		"3d6 2",
		"2d20kl 1 1",
		strings.Repeat("1+", 25) + "1",
		strings.Repeat("1", 201),
	}

	for _, formula := range formulas {
		t.Run(formula, func(t *testing.T) {
			f, err := dice.Parse(formula)
			assert.Nil(t, f)
			require.Error(t, err)
			assert.True(t, vtterr.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestMustParse_PanicsOnBadFormula(t *testing.T) {
	assert.NotPanics(t, func() { dice.MustParse("1d20") })
	assert.Panics(t, func() { dice.MustParse("nope") })
}
