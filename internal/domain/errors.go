package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")

	// Savings box taxonomy. Pure signals with no payload; callers match
	// them with errors.Is.
	ErrNoMorePayments     = errors.New("no more payments")
	ErrPaymentsUpToDate   = errors.New("payments up to date")
	ErrUserNotRegistered  = errors.New("user not registered")
	ErrWithdrawalTooLarge = errors.New("withdrawal too large")
)
