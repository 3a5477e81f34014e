/*
errors.go - Centralized error types for the workforce ledger

PURPOSE:
  All error types in one place for consistency and discoverability.
  Every failure is local to a single operation and returned synchronously;
  there are no transient failures and therefore no retryable errors.

ERROR CATEGORIES:
  1. Lookup errors - Referenced labourer/contractor/work order is missing
  2. Validation errors - Non-positive payment, unknown status tag
  3. Population errors - Seed data that breaks a store invariant

NOTE:
  An inverted payout range (from after to) is NOT an error. It yields an
  empty statement.

USAGE:
  if errors.Is(err, workforce.ErrNotFound) {
      // 404
  }
*/
package workforce

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced labourer, contractor or
	// work order does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount is returned when a payment release amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidStatus is returned for an attendance or work order status
	// outside the known set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPopulation is returned when seed data violates a store invariant.
	ErrInvalidPopulation = errors.New("invalid population")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // "labourer", "contractor", "work order"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidAmountError carries the rejected amount.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %s: must be positive", e.Amount)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// InvalidStatusError carries the rejected status tag.
type InvalidStatusError struct {
	Kind   string // "attendance", "work order"
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid %s status %q", e.Kind, e.Status)
}

func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// PopulationError describes why seed data was rejected.
type PopulationError struct {
	Reason string
}

func (e *PopulationError) Error() string {
	return "invalid population: " + e.Reason
}

func (e *PopulationError) Unwrap() error { return ErrInvalidPopulation }

func populationErrorf(format string, args ...any) error {
	return &PopulationError{Reason: fmt.Sprintf(format, args...)}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidPopulation)
}
