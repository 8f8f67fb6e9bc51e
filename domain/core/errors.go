package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrSourceUnavailable = errors.New("data source unavailable")
	ErrMalformedRecord   = errors.New("malformed record")

	// Reshape errors
	ErrDuplicateKey = errors.New("duplicate entity/measure pair")

	// Correlation errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrIncompleteMatrix = errors.New("matrix has missing cells")
)

// Error constructors with context
func NewSourceError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, source, err)
}

func NewMalformedRecordError(line int, reason string) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedRecord, line, reason)
}

func NewDuplicateKeyError(entityID, measure string) error {
	return fmt.Errorf("%w: (%s, %s)", ErrDuplicateKey, entityID, measure)
}

func NewInsufficientDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}

// Error checking helpers
func IsSourceError(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

func IsRecoverable(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
