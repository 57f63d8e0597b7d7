package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrForbidden       = errors.New("role is not allowed to perform this action")

	// ErrStateConflict dibungkus oleh semua error transisi status.
	ErrStateConflict    = errors.New("invoice status conflict")
	ErrCannotEdit       = stateError("cannot edit submitted invoice")
	ErrAlreadySubmitted = stateError("invoice already submitted")
	ErrNotSubmitted     = stateError("invoice is not in submitted status")
	ErrCannotDelete     = stateError("cannot delete submitted invoice")

	// Dikembalikan store saat status di database sudah bukan status yang diharapkan.
	ErrStatusChanged          = errors.New("invoice status changed")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
)

type stateErr struct{ msg string }

func (e *stateErr) Error() string        { return e.msg }
func (e *stateErr) Is(target error) bool { return target == ErrStateConflict }

func stateError(msg string) error { return &stateErr{msg: msg} }

// ValidationError berisi pesan per field (path json) dari input yang ditolak.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
