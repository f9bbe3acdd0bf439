package domain

import (
	"errors"
	"fmt"
)

var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// MissingAccountError is returned when no ranking account is configured for
// the current store.
type MissingAccountError struct {
	StoreCode string
}

func (e *MissingAccountError) Error() string {
	return fmt.Sprintf("no ranking account configured for store %q", e.StoreCode)
}

func IsMissingAccountError(err error) bool {
	var target *MissingAccountError
	return errors.As(err, &target)
}

// MissingTokenError is returned when the configured account lacks the
// capability required for the merchandising protocol.
type MissingTokenError struct {
	StoreCode  string
	Capability string
}

func (e *MissingTokenError) Error() string {
	return fmt.Sprintf("account for store %q lacks capability %q", e.StoreCode, e.Capability)
}

func IsMissingTokenError(err error) bool {
	var target *MissingTokenError
	return errors.As(err, &target)
}

// SessionCreationError is returned when a new tracking identity cannot be
// minted by the session collaborator.
type SessionCreationError struct {
	StoreCode string
	Err       error
}

func (e *SessionCreationError) Error() string {
	return fmt.Sprintf("create session for store %q: %v", e.StoreCode, e.Err)
}

func (e *SessionCreationError) Unwrap() error {
	return e.Err
}

func IsSessionCreationError(err error) bool {
	var target *SessionCreationError
	return errors.As(err, &target)
}

// FacetValueError is returned when an active filter value cannot be coerced
// into the list-of-strings shape the ranking protocol expects.
type FacetValueError struct {
	StoreCode string
	Field     string
	Value     any
}

func (e *FacetValueError) Error() string {
	return fmt.Sprintf("store %q: cannot build facet value for field %q from %T", e.StoreCode, e.Field, e.Value)
}

func IsFacetValueError(err error) bool {
	var target *FacetValueError
	return errors.As(err, &target)
}
