package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	ErrMsgAccountNotFound    = "account not found"
	ErrMsgProfileNotFound    = "profile not found"
	ErrMsgCatalogUnavailable = "quest catalog unavailable"
	ErrMsgRevisionConflict   = "profile revision conflict"
	ErrMsgUnknownCommand     = "unknown command"
	ErrMsgItemNotFound       = "item not found"
	ErrMsgSettingsTooLarge   = "settings file exceeds size limit"
	ErrMsgInvalidInput       = "invalid input"
)

// Common domain errors.
// Wrap these with fmt.Errorf("%w: %s", domain.ErrXxx, details) for context.
var (
	ErrAccountNotFound    = errors.New(ErrMsgAccountNotFound)
	ErrProfileNotFound    = errors.New(ErrMsgProfileNotFound)
	ErrCatalogUnavailable = errors.New(ErrMsgCatalogUnavailable)
	ErrRevisionConflict   = errors.New(ErrMsgRevisionConflict)
	ErrUnknownCommand     = errors.New(ErrMsgUnknownCommand)
	ErrItemNotFound       = errors.New(ErrMsgItemNotFound)
	ErrSettingsTooLarge   = errors.New(ErrMsgSettingsTooLarge)
	ErrInvalidInput       = errors.New(ErrMsgInvalidInput)
)
