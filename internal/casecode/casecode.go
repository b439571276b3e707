package casecode

import (
	"errors"
	"fmt"

	"radicado/internal/model"
)

// Package casecode formats canonical case codes. Formatting is pure and
// deterministic; the only failure modes are malformed input.

var (
	ErrUnknownDirection = errors.New("unknown direction")
	ErrInvalidSequence  = errors.New("sequence must be positive")
	ErrEmptyPrefix      = errors.New("project prefix is required")
	ErrUnknownSeries    = errors.New("unknown series")
)

// DirectionCode maps a direction to its short code used inside case codes.
func DirectionCode(d model.Direction) (string, error) {
	switch d {
	case model.DirectionInbound:
		return "IN", nil
	case model.DirectionOutbound:
		return "OUT", nil
	case model.DirectionInternal:
		return "INT", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, d)
}

// Format builds the canonical case code:
//
//	{prefix}-{series}-{directionCode}-{year}-{sequence:05d}
//
// e.g. PTE01-TEC-IN-2023-00101. Sequences above 99999 widen naturally.
func Format(prefix string, series model.Series, direction model.Direction, year int, sequence int64) (string, error) {
	if prefix == "" {
		return "", ErrEmptyPrefix
	}
	if !model.ValidSeries(series) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeries, series)
	}
	if sequence <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidSequence, sequence)
	}
	dir, err := DirectionCode(direction)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s-%d-%05d", prefix, series, dir, year, sequence), nil
}
