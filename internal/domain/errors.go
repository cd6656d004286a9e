package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTimeout marks a call that exceeded its deadline. It is kept apart
	// from connectivity failures so callers can report it distinctly.
	ErrTimeout = errors.New("request timed out")

	// ErrMaxSteps is returned when an agent turn hits its step ceiling
	ErrMaxSteps = errors.New("agent step limit reached")

	// ErrNoRecords is returned when there is nothing to summarize
	ErrNoRecords = &SummaryError{Kind: SummaryNoRecords}
)

// SearchError is a non-success response from the job search API
type SearchError struct {
	StatusCode int
	Body       string
}

func (e *SearchError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("job search failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("job search failed with status %d: %s", e.StatusCode, e.Body)
}

// StoreError wraps a job store failure
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("job store %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }

type SummaryKind int

const (
	SummaryNoRecords SummaryKind = iota + 1
	SummaryModelFailure
)

// SummaryError describes why a summary could not be produced
type SummaryError struct {
	Kind  SummaryKind
	Cause error
}

func (e *SummaryError) Error() string {
	switch e.Kind {
	case SummaryNoRecords:
		return "no records to summarize"
	default:
		return fmt.Sprintf("summary model failure: %v", e.Cause)
	}
}

func (e *SummaryError) Unwrap() error { return e.Cause }

// Is matches any SummaryError of the same kind, so errors.Is(err, ErrNoRecords) works
func (e *SummaryError) Is(target error) bool {
	t, ok := target.(*SummaryError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// MailError wraps an email delivery failure
type MailError struct {
	Cause error
}

func (e *MailError) Error() string {
	return fmt.Sprintf("email delivery failed: %v", e.Cause)
}

func (e *MailError) Unwrap() error { return e.Cause }

// ConfigError lists required settings that were not provided
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Missing, ", "))
}

type timeout interface {
	Timeout() bool
}

// IsTimeout reports whether err stems from an expired deadline
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t timeout
	return errors.As(err, &t) && t.Timeout()
}

// WrapTimeout tags deadline failures with ErrTimeout and returns other errors unchanged
func WrapTimeout(err error) error {
	if err == nil || errors.Is(err, ErrTimeout) || !IsTimeout(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTimeout, err)
}
