// Package clock lets repositories stamp records with a time that tests can pin.
package clock

import "time"

//go:generate mockgen -destination=mocks/mock_clock.go -package=mocks -source=clock.go

// TimeProvider returns the current time
type TimeProvider interface {
	Now() time.Time
}

type systemClock struct{}

// System returns a TimeProvider backed by time.Now in UTC
func System() TimeProvider {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
