package checks

import (
	"fmt"

	"github.com/KirkDiggler/symbaroum-vtt/internal/dice"
)

// DamageInput describes one hit: the attacker's damage formula against the
// defender's armor. ProtectionPenalty lowers protection (corrosion, armor piercing).
type DamageInput struct {
	DamageFormula     string `json:"damage_formula"`
	ProtectionFormula string `json:"protection_formula,omitempty"`
	ProtectionPenalty int    `json:"protection_penalty,omitempty"`
	PainThreshold     int    `json:"pain_threshold,omitempty"`
}

// DamageResult is the outcome of a hit after armor
type DamageResult struct {
	Damage     *dice.DiceRoll `json:"damage"`
	Protection *dice.DiceRoll `json:"protection,omitempty"`
	Absorbed   int            `json:"absorbed"`
	Dealt      int            `json:"dealt"`
	Painful    bool           `json:"painful"`
}

// ResolveDamage rolls damage and protection. Protection and dealt damage are
// clamped to zero here; the dice totals themselves are left as rolled.
func ResolveDamage(input *DamageInput, roller dice.Roller) (*DamageResult, error) {
	if input == nil {
		return nil, fmt.Errorf("damage input cannot be nil")
	}

	damage, err := dice.Roll(input.DamageFormula, roller)
	if err != nil {
		return nil, fmt.Errorf("failed to roll damage: %w", err)
	}

	result := &DamageResult{Damage: damage}
	if input.ProtectionFormula != "" {
		protection, perr := dice.Roll(input.ProtectionFormula, roller)
		if perr != nil {
			return nil, fmt.Errorf("failed to roll protection: %w", perr)
		}
		result.Protection = protection
		result.Absorbed = max(protection.Total-input.ProtectionPenalty, 0)
	}

	result.Dealt = max(damage.Total-result.Absorbed, 0)
	result.Painful = input.PainThreshold > 0 && result.Dealt >= input.PainThreshold

	return result, nil
}

// FormatDamage renders a damage result for chat
func FormatDamage(r *DamageResult) string {
	if r == nil {
		return ""
	}
	msg := fmt.Sprintf("Damage %s", dice.Format(r.Damage))
	if r.Protection != nil {
		msg += fmt.Sprintf(", armor %s absorbs %d", dice.Format(r.Protection), r.Absorbed)
	}
	msg += fmt.Sprintf(" → **%d** dealt", r.Dealt)
	if r.Painful {
		msg += " (pain threshold reached)"
	}
	return msg
}
