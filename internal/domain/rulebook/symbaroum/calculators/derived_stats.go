package calculators

import (
	"math"

	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
)

const (
	// minMaxToughness is the toughness floor for characters with a low Strong
	minMaxToughness = 10
	// shieldDefenseBonus is granted by each equipped shield
	shieldDefenseBonus = 1
)

// SymbaroumCalculator derives secondary values following Symbaroum rules
type SymbaroumCalculator struct{}

// NewSymbaroumCalculator creates a new Symbaroum derived stats calculator
func NewSymbaroumCalculator() *SymbaroumCalculator {
	return &SymbaroumCalculator{}
}

// Calculate computes derived stats. It never fails: missing or invalid
// fields count as zero so a half-edited sheet still renders.
func (c *SymbaroumCalculator) Calculate(data *character.SheetData) *character.DerivedStats {
	if data == nil {
		data = &character.SheetData{}
	}

	mods := collectModifiers(data)

	derived := &character.DerivedStats{
		Attributes: make(map[shared.Attribute]int, len(shared.Attributes)),
	}
	for _, a := range shared.Attributes {
		derived.Attributes[a] = nonNegative(nonNegative(data.Attributes[a]) + mods[shared.AttributeStat(a)])
	}

	strong := derived.Attributes[shared.AttributeStrong]
	resolute := derived.Attributes[shared.AttributeResolute]

	// toughness and pain
	derived.MaxToughness = max(strong, minMaxToughness) + mods[shared.StatToughness]
	if derived.MaxToughness < 1 {
		derived.MaxToughness = 1
	}
	derived.PainThreshold = nonNegative(halfUp(strong) + mods[shared.StatPainThreshold])
	derived.Bloodied = nonNegative(data.Toughness)*2 < derived.MaxToughness

	// load
	derived.Capacity = nonNegative(strong + mods[shared.StatCapacity])
	derived.CarriedWeight = carriedWeight(data.Equipment)
	derived.Encumbrance = EncumbranceTier(derived.CarriedWeight, derived.Capacity)
	if over := derived.CarriedWeight - float64(derived.Capacity); over > 0 {
		derived.LoadPenalty = int(math.Ceil(over))
	}

	// defense
	derived.DefenseAttribute = data.DefenseAttribute
	if !derived.DefenseAttribute.Valid() {
		derived.DefenseAttribute = shared.AttributeQuick
	}
	shields := 0
	for _, item := range data.Equipment {
		if !item.Equipped {
			continue
		}
		switch item.Kind {
		case shared.ItemKindArmor:
			derived.Impeding += nonNegative(item.Impeding)
		case shared.ItemKindShield:
			shields++
		}
	}
	derived.Defense = nonNegative(derived.Attributes[derived.DefenseAttribute] -
		derived.Impeding +
		shields*shieldDefenseBonus +
		mods[shared.StatDefense] -
		derived.LoadPenalty)

	// corruption
	derived.CorruptionThreshold = nonNegative(halfUp(resolute) + mods[shared.StatCorruptionThreshold])
	derived.AbominationLimit = resolute
	permanent := nonNegative(data.Corruption.Permanent)
	derived.TotalCorruption = permanent + nonNegative(data.Corruption.Temporary)
	// a zero threshold alone never marks a clean sheet corrupted
	derived.Corrupted = derived.TotalCorruption > 0 && derived.TotalCorruption >= derived.CorruptionThreshold
	derived.Abomination = derived.AbominationLimit > 0 && permanent >= derived.AbominationLimit

	derived.UnspentExperience = nonNegative(nonNegative(data.Experience.Total) - nonNegative(data.Experience.Spent))

	return derived
}

// EncumbranceTier classifies weight against capacity. Light up to capacity,
// medium up to one and a half times, heavy up to double, overloaded beyond.
func EncumbranceTier(weight float64, capacity int) shared.EncumbranceTier {
	limit := float64(nonNegative(capacity))
	switch {
	case weight <= limit:
		return shared.EncumbranceLight
	case weight*2 <= limit*3:
		return shared.EncumbranceMedium
	case weight <= limit*2:
		return shared.EncumbranceHeavy
	default:
		return shared.EncumbranceOverloaded
	}
}

// collectModifiers sums trait modifiers and the modifiers of equipped items
func collectModifiers(data *character.SheetData) map[shared.Stat]int {
	mods := make(map[shared.Stat]int)
	for _, trait := range data.Traits {
		for _, m := range trait.Modifiers {
			mods[m.Stat] += m.Value
		}
	}
	for _, item := range data.Equipment {
		if !item.Equipped {
			continue
		}
		for _, m := range item.Modifiers {
			mods[m.Stat] += m.Value
		}
	}
	return mods
}

// carriedWeight sums items that are carried or equipped, in sheet order
func carriedWeight(items []character.Item) float64 {
	total := 0.0
	for _, item := range items {
		if !item.Carried && !item.Equipped {
			continue
		}
		w := item.Weight
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			w = 0
		}
		total += w * float64(max(item.Quantity, 1))
	}
	return total
}

func halfUp(n int) int {
	return (n + 1) / 2
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
