package service

import (
	"errors"
	"fmt"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ValidationError: malformed input or a missing referenced entity.
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string { return e.Msg }

func newValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError is returned when a sale or adjustment would take an
// item below zero.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	ItemName  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for item %s. Available: %s, requested: %s",
		e.ItemName, e.Available.String(), e.Requested.String())
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

type AuthenticationError struct{ Msg string }

func (e *AuthenticationError) Error() string { return e.Msg }

type AuthorizationError struct{ Msg string }

func (e *AuthorizationError) Error() string { return e.Msg }

// PersistenceError wraps a storage failure. Its message is never shown to clients.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// persistence logs a storage failure and wraps it.
func persistence(op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("storage failure")
	return &PersistenceError{Op: op, Err: err}
}

// lookupErr maps a repository lookup error: missing rows become NotFoundError,
// anything else a PersistenceError.
func lookupErr(op, entity string, id uuid.UUID, err error) error {
	if repository.IsNotFound(err) {
		return &NotFoundError{Entity: entity, ID: id.String()}
	}
	return persistence(op, err)
}

// deleteErr is lookupErr plus FK violations, which mean the row is still referenced.
func deleteErr(op, entity string, id uuid.UUID, err error) error {
	if repository.IsForeignKeyViolation(err) {
		return newValidation("%s is still referenced by other records and cannot be deleted", entity)
	}
	return lookupErr(op, entity, id, err)
}

// passThrough reports whether err is already a typed service error that must
// reach the caller unchanged.
func passThrough(err error) bool {
	var (
		v  *ValidationError
		s  *InsufficientStockError
		nf *NotFoundError
		p  *PersistenceError
	)
	return errors.As(err, &v) || errors.As(err, &s) || errors.As(err, &nf) || errors.As(err, &p)
}

func isPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
