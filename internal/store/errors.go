package store

import "errors"

// Validation failures surfaced to the desk UI. None of these leave
// partial state behind: every operation checks its preconditions
// before mutating anything.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomExists          = errors.New("room number already registered")
	ErrStayNotFound        = errors.New("stay not found")
	ErrStayNotActive       = errors.New("stay is not active")
	ErrAlreadyCheckedOut   = errors.New("stay already checked out")
	ErrInvalidDateRange    = errors.New("check-out must be after check-in")
	ErrInsufficientPoints  = errors.New("insufficient loyalty points")
	ErrInvalidChargeAmount = errors.New("charge amount must be positive")
	ErrClientNotFound      = errors.New("client not found")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrRequestNotFound     = errors.New("service request not found")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrDocumentTaken       = errors.New("document already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
