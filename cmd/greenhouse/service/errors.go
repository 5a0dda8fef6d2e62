package service

import (
	"errors"

	"github.com/sproutly/greenhouse/cmd/greenhouse/repository"
)

var (
	// ErrNotAuthenticated means no active session exists where one is required
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidCredentials means the email/password pair did not match
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken means an account already exists for the email
	ErrEmailTaken = errors.New("email already registered")

	// ErrNotFound means the referenced row does not exist or is not owned
	// by the caller
	ErrNotFound = repository.ErrNotFound

	// ErrEmptyMessage means a chat request arrived without a user question
	ErrEmptyMessage = errors.New("message is empty")

	// ErrInvalidInput means a request value failed domain validation
	ErrInvalidInput = errors.New("invalid input")
)
