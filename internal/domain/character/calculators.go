package character

// DerivedStatsCalculator turns authored sheet data into derived values.
// Implementations must be pure: equal input, equal output, no retained state.
type DerivedStatsCalculator interface {
	Calculate(data *SheetData) *DerivedStats
}
