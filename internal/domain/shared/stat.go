package shared

// Stat is anything a trait or item modifier can adjust: an attribute or
// one of the secondary values below.
type Stat string

const (
	StatDefense             Stat = "defense"
	StatToughness           Stat = "toughness"
	StatPainThreshold       Stat = "pain_threshold"
	StatCorruptionThreshold Stat = "corruption_threshold"
	StatCapacity            Stat = "capacity"
)

// AttributeStat converts an attribute into the stat key modifiers use
func AttributeStat(a Attribute) Stat {
	return Stat(a)
}

// Attribute returns the attribute this stat refers to, if any
func (s Stat) Attribute() (Attribute, bool) {
	a := Attribute(s)
	return a, a.Valid()
}
