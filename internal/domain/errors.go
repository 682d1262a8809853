package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
