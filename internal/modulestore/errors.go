package modulestore

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic checks via errors.Is.
var (
	ErrDuplicateModule = errors.New("duplicate module")
	ErrUnknownModule   = errors.New("unknown module")
	ErrInvalidModule   = errors.New("invalid module")
)

// DuplicateModuleError is returned when a module identifier is registered twice.
type DuplicateModuleError struct {
	ID string
	// File is the declaring file of the rejected descriptor, when known.
	File string
}

func (e *DuplicateModuleError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: module '%s' (declared again in %s)", ErrDuplicateModule, e.ID, e.File)
	}
	return fmt.Sprintf("%s: module '%s'", ErrDuplicateModule, e.ID)
}

func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }

// UnknownModuleError is returned when a lookup names a module that was never
// registered.
type UnknownModuleError struct {
	ID string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("%s: '%s'", ErrUnknownModule, e.ID)
}

func (e *UnknownModuleError) Unwrap() error { return ErrUnknownModule }

// InvalidModuleError is returned for a descriptor that cannot be registered
// at all (empty identifier, entry point without behavior).
type InvalidModuleError struct {
	ID  string
	Msg string
}

func (e *InvalidModuleError) Error() string {
	return fmt.Sprintf("%s '%s': %s", ErrInvalidModule, e.ID, e.Msg)
}

func (e *InvalidModuleError) Unwrap() error { return ErrInvalidModule }
