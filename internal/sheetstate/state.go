// Package sheetstate holds a character sheet together with its derived
// values and save flags. Every change goes through Reduce, which never
// mutates the previous state and recomputes derived values from scratch.
package sheetstate

import (
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
)

// State is a snapshot of one sheet being edited. Data and Derived are never
// modified after the snapshot is built, so snapshots may be shared freely.
type State struct {
	Data      *character.SheetData    `json:"data"`
	Derived   *character.DerivedStats `json:"derived"`
	Dirty     bool                    `json:"dirty"`
	Saving    bool                    `json:"saving"`
	Version   int                     `json:"version"`
	LastError string                  `json:"last_error,omitempty"`
}

// NewState builds the initial, clean state for data
func NewState(data *character.SheetData, calc character.DerivedStatsCalculator) State {
	if data == nil {
		data = character.NewDefaultSheet()
	} else {
		data = data.Clone()
	}
	return State{
		Data:    data,
		Derived: calc.Calculate(data),
	}
}

// Reduce applies one action and returns the next state. On error the
// returned state is the input state, unchanged.
func Reduce(state State, action Action, calc character.DerivedStatsCalculator) (State, error) {
	switch a := action.(type) {
	case MarkSaving:
		state.Saving = true
		return state, nil
	case MarkSaved:
		state.Saving = false
		if a.Err != nil {
			state.LastError = a.Err.Error()
			return state, nil
		}
		state.LastError = ""
		if a.Version == state.Version {
			state.Dirty = false
		}
		return state, nil
	case SheetAction:
		next := state.Data.Clone()
		if next == nil {
			next = character.NewDefaultSheet()
		}
		if err := a.Apply(next); err != nil {
			return state, err
		}
		state.Data = next
		state.Derived = calc.Calculate(next)
		state.Dirty = true
		state.Version++
		return state, nil
	default:
		return state, unknownAction(action)
	}
}
