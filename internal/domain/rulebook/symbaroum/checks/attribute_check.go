package checks

import (
	"fmt"

	"github.com/KirkDiggler/symbaroum-vtt/internal/dice"
)

// Formulas for the single d20 of an attribute test. Lower is better in a
// roll-under system, so advantage keeps the lowest die.
var (
	straightFormula     = dice.MustParse("1d20")
	advantageFormula    = dice.MustParse("2d20kl1")
	disadvantageFormula = dice.MustParse("2d20kh1")
)

// AttributeTestInput describes a single roll-under attribute test
type AttributeTestInput struct {
	Label            string `json:"label,omitempty"`
	AttributeValue   int    `json:"attribute_value"`
	Modifier         int    `json:"modifier"`
	WithAdvantage    bool   `json:"with_advantage"`
	WithDisadvantage bool   `json:"with_disadvantage"`
}

// AttributeTestResult is the outcome of an attribute test
type AttributeTestResult struct {
	Label     string         `json:"label,omitempty"`
	Target    int            `json:"target"`
	TotalRoll int            `json:"total_roll"`
	Rolls     []int          `json:"rolls"`
	Success   bool           `json:"success"`
	Critical  bool           `json:"critical"`
	Fumble    bool           `json:"fumble"`
	Roll      *dice.DiceRoll `json:"roll"`
}

// RollAttributeTest rolls a d20 under attribute value plus modifier.
// The target never drops below 1. When both advantage and disadvantage are
// requested, disadvantage wins.
func RollAttributeTest(input *AttributeTestInput, roller dice.Roller) (*AttributeTestResult, error) {
	if input == nil {
		input = &AttributeTestInput{}
	}

	formula := straightFormula
	switch {
	case input.WithDisadvantage:
		formula = disadvantageFormula
	case input.WithAdvantage:
		formula = advantageFormula
	}

	roll, err := dice.Evaluate(formula, roller)
	if err != nil {
		return nil, fmt.Errorf("failed to roll attribute test: %w", err)
	}

	target := max(input.AttributeValue+input.Modifier, 1)

	success := roll.Total <= target

	return &AttributeTestResult{
		Label:     input.Label,
		Target:    target,
		TotalRoll: roll.Total,
		Rolls:     roll.Values(),
		Success:   success,
		Critical:  roll.Total == 1,
		// a natural 20 only counts as a fumble when it also misses the target
		Fumble: roll.Total == 20 && !success,
		Roll:   roll,
	}, nil
}

// FormatAttributeTest renders a test result for chat
func FormatAttributeTest(r *AttributeTestResult) string {
	if r == nil {
		return ""
	}

	label := r.Label
	if label == "" {
		label = "Test"
	}

	outcome := "Failure"
	if r.Success {
		outcome = "Success"
	}
	switch {
	case r.Critical:
		outcome = "Critical success"
	case r.Fumble:
		outcome = "Critical failure"
	}

	return fmt.Sprintf("%s (target %d): %s → **%s**", label, r.Target, dice.Format(r.Roll), outcome)
}
