package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Fatal pipeline errors
	ErrUnreadableWorkbook     = errors.New("unreadable workbook")
	ErrAmbiguousHeaderMapping = errors.New("ambiguous header mapping")
	ErrUnbalancedSectionTags  = errors.New("unbalanced section tags")

	// Configuration errors
	ErrInvalidDictionary = errors.New("invalid synonym dictionary")
)

// Error constructors with context
func NewUnreadableWorkbookError(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnreadableWorkbook, path, cause)
}

func NewAmbiguousHeaderError(header string, fieldA, fieldB string) error {
	return fmt.Errorf("%w: header %q claimed by both %q and %q", ErrAmbiguousHeaderMapping, header, fieldA, fieldB)
}

func NewUnbalancedSectionError(tag string, offset int) error {
	return fmt.Errorf("%w: %s at offset %d", ErrUnbalancedSectionTags, tag, offset)
}

// Error checking helpers
func IsUnreadableWorkbook(err error) bool {
	return errors.Is(err, ErrUnreadableWorkbook)
}

func IsAmbiguousHeaderMapping(err error) bool {
	return errors.Is(err, ErrAmbiguousHeaderMapping)
}

func IsUnbalancedSectionTags(err error) bool {
	return errors.Is(err, ErrUnbalancedSectionTags)
}
