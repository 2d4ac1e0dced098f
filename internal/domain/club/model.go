package club

import (
	"errors"
	"strings"
)

var ErrMissingName = errors.New("club name is required")

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

type Club struct {
	ID     string
	Name   string
	Status Status
}

func (c Club) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}

	return nil
}

func (c Club) IsActive() bool {
	return c.Status == StatusActive
}
