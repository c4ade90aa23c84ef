package service

import (
	"errors"
	"fmt"

	"vocabtest-backend/internal/repository"
)

// ValidationError reports a missing or invalid input field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// ConflictError reports a uniqueness or reference conflict.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// EmptySelectionError is returned when a word selection matches nothing.
type EmptySelectionError struct{}

func (e *EmptySelectionError) Error() string {
	return "No words found for the specified selection criteria"
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// mapRepoErr translates repository sentinels into the service taxonomy.
func mapRepoErr(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case repository.IsNotFound(err):
		return &NotFoundError{Entity: entity}
	case errors.Is(err, repository.ErrInUse):
		return &ConflictError{Message: entity + " is used by an existing test"}
	}
	return err
}
