package character

import (
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
)

// DerivedStats is computed from SheetData and never persisted
type DerivedStats struct {
	Attributes map[shared.Attribute]int `json:"attributes"`

	Defense          int              `json:"defense"`
	DefenseAttribute shared.Attribute `json:"defense_attribute"`
	Impeding         int              `json:"impeding"`

	MaxToughness  int  `json:"max_toughness"`
	PainThreshold int  `json:"pain_threshold"`
	Bloodied      bool `json:"bloodied"`

	CarriedWeight float64                `json:"carried_weight"`
	Capacity      int                    `json:"capacity"`
	Encumbrance   shared.EncumbranceTier `json:"encumbrance"`
	LoadPenalty   int                    `json:"load_penalty"`

	CorruptionThreshold int  `json:"corruption_threshold"`
	AbominationLimit    int  `json:"abomination_limit"`
	TotalCorruption     int  `json:"total_corruption"`
	Corrupted           bool `json:"corrupted"`
	Abomination         bool `json:"abomination"`

	UnspentExperience int `json:"unspent_experience"`
}

// Attribute returns the effective value of a, zero when unknown
func (d *DerivedStats) Attribute(a shared.Attribute) int {
	if d == nil {
		return 0
	}
	return d.Attributes[a]
}
