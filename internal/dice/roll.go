package dice

import (
	"log"
	"sort"

	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
)

// DieGroup holds every die rolled for one dice term, in generation order.
// Kept is parallel to Values; dropped dice stay in Values for display.
type DieGroup struct {
	Sign      int      `json:"sign"`
	Count     int      `json:"count"`
	Sides     int      `json:"sides"`
	Keep      KeepMode `json:"keep,omitempty"`
	KeepCount int      `json:"keep_count,omitempty"`
	Values    []int    `json:"values"`
	Kept      []bool   `json:"kept"`
	Subtotal  int      `json:"subtotal"`
}

// DiceRoll is the immutable result of evaluating a formula
type DiceRoll struct {
	Formula  string     `json:"formula"`
	Total    int        `json:"total"`
	Modifier int        `json:"modifier"`
	Groups   []DieGroup `json:"groups"`
}

// Values returns every die rolled, dropped ones included, in formula order
func (r *DiceRoll) Values() []int {
	var out []int
	for _, g := range r.Groups {
		out = append(out, g.Values...)
	}
	return out
}

// KeptValues returns only the dice that counted toward the total
func (r *DiceRoll) KeptValues() []int {
	var out []int
	for _, g := range r.Groups {
		for i, v := range g.Values {
			if g.Kept[i] {
				out = append(out, v)
			}
		}
	}
	return out
}

// Evaluate rolls a parsed formula. The total may be negative; callers clamp
// where a game rule calls for it.
func Evaluate(f *Formula, roller Roller) (*DiceRoll, error) {
	if f == nil {
		return nil, vtterr.InvalidArgument("formula cannot be nil")
	}
	if roller == nil {
		return nil, vtterr.InvalidArgument("roller cannot be nil")
	}

	result := &DiceRoll{Formula: f.Raw}
	for _, term := range f.Terms {
		if !term.IsDice() {
			result.Modifier += term.Sign * term.Literal
			continue
		}

		batch, err := roller.Roll(term.Count, term.Sides, 0)
		if err != nil {
			return nil, vtterr.Wrapf(err, "failed to roll %s", term)
		}
		if len(batch.Rolls) != term.Count {
			return nil, vtterr.Internalf("roller returned %d dice for %s", len(batch.Rolls), term)
		}

		group := newDieGroup(term, batch.Rolls)
		result.Groups = append(result.Groups, group)
		result.Total += group.Subtotal
	}
	result.Total += result.Modifier

	return result, nil
}

// Roll parses and evaluates formula in one call
func Roll(formula string, roller Roller) (*DiceRoll, error) {
	f, err := Parse(formula)
	if err != nil {
		return nil, err
	}
	return Evaluate(f, roller)
}

// ParseDiceRoll rolls formula and returns nil when it cannot be parsed or
// rolled. Callers treat nil as "nothing happened" and show a validation
// message; there is never a partial result.
func ParseDiceRoll(formula string, roller Roller) *DiceRoll {
	result, err := Roll(formula, roller)
	if err != nil {
		log.Printf("dice: rejected formula %q: %v", formula, err)
		return nil
	}
	return result
}

func newDieGroup(term Term, rolled []int) DieGroup {
	values := make([]int, len(rolled))
	copy(values, rolled)

	kept := make([]bool, len(values))
	if term.Keep == KeepAll {
		for i := range kept {
			kept[i] = true
		}
	} else {
		// ties keep whichever die came first; equal values are indistinguishable
		order := make([]int, len(values))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			if term.Keep == KeepHighest {
				return values[order[a]] > values[order[b]]
			}
			return values[order[a]] < values[order[b]]
		})
		for _, idx := range order[:term.KeepCount] {
			kept[idx] = true
		}
	}

	sum := 0
	for i, v := range values {
		if kept[i] {
			sum += v
		}
	}

	return DieGroup{
		Sign:      term.Sign,
		Count:     term.Count,
		Sides:     term.Sides,
		Keep:      term.Keep,
		KeepCount: term.KeepCount,
		Values:    values,
		Kept:      kept,
		Subtotal:  term.Sign * sum,
	}
}
