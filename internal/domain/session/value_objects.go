package session

import (
	"errors"
	"strings"
)

var (
	ErrEmptyPlate   = errors.New("plate number cannot be empty")
	ErrPlateTooLong = errors.New("plate number too long")
)

const maxPlateLength = 16

// PlateNumber is a normalized license plate. Normalization strips
// whitespace and hyphens and upper-cases latin letters so that the same
// physical plate always maps to the same session key, whichever camera
// captured it.
type PlateNumber struct {
	value string
}

func NewPlateNumber(raw string) (PlateNumber, error) {
	var b strings.Builder
	for _, r := range raw {
		switch r {
		case ' ', '\t', '-':
			continue
		}
		b.WriteRune(r)
	}
	normalized := strings.ToUpper(b.String())

	if normalized == "" {
		return PlateNumber{}, ErrEmptyPlate
	}
	if len([]rune(normalized)) > maxPlateLength {
		return PlateNumber{}, ErrPlateTooLong
	}

	return PlateNumber{value: normalized}, nil
}

func (p PlateNumber) String() string {
	return p.value
}

func (p PlateNumber) IsZero() bool {
	return p.value == ""
}
