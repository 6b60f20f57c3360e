// Package uuid hides ID generation behind an interface so services can be
// tested with fixed IDs.
package uuid

import (
	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/mock_generator.go -package=mocks -source=uuid.go

// Generator produces new entity IDs
type Generator interface {
	New() string
}

// GoogleUUIDGenerator generates random (v4) UUID strings
type GoogleUUIDGenerator struct{}

// New generates a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.NewString()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// Valid reports whether id parses as a UUID. Handlers use it to reject
// garbage path parameters before they reach a repository.
func Valid(id string) bool {
	return uuid.Validate(id) == nil
}
