package crypto

import (
	"fmt"

	"github.com/google/uuid"
)

type IDGenerator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random v4 identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() (string, error) {
	return uuid.NewString(), nil
}

// OrderedIDGenerator issues v7 identifiers, which sort by creation time.
type OrderedIDGenerator struct{}

func (OrderedIDGenerator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate v7 id: %w", err)
	}
	return id.String(), nil
}

func ValidID(s string) bool {
	if s == "" {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
