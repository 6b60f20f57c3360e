package shared

// EncumbranceTier classifies carried weight against capacity.
// Tiers are ordered: a heavier load never yields a lower tier.
type EncumbranceTier int

const (
	EncumbranceLight EncumbranceTier = iota
	EncumbranceMedium
	EncumbranceHeavy
	EncumbranceOverloaded
)

func (t EncumbranceTier) String() string {
	switch t {
	case EncumbranceLight:
		return "light"
	case EncumbranceMedium:
		return "medium"
	case EncumbranceHeavy:
		return "heavy"
	case EncumbranceOverloaded:
		return "overloaded"
	default:
		return "unknown"
	}
}

// MarshalText lets the tier serialize by name in JSON
func (t EncumbranceTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
