package nationalteam

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingCountry = errors.New("national team country is required")
	ErrInvalidType    = errors.New("invalid national team type")
)

// Known squad levels. The A side plus the standard youth brackets.
var KnownTypes = []string{"A", "U-23", "U-21", "U-19", "U-17"}

type Team struct {
	ID      string
	Country string
	Type    string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Country) == "" {
		return ErrMissingCountry
	}
	if !IsKnownType(t.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}

	return nil
}

// DisplayName is the human-facing team label, e.g. "Norway U-21".
func (t Team) DisplayName() string {
	return strings.TrimSpace(t.Country + " " + t.Type)
}

func IsKnownType(v string) bool {
	for _, known := range KnownTypes {
		if strings.EqualFold(strings.TrimSpace(v), known) {
			return true
		}
	}

	return false
}
