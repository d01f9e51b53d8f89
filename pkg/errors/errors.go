// Package errors provides structured error handling for the insight analytics
// engine. Every operator and trainer reports failures through the typed errors
// defined here, so callers can distinguish bad configuration from bad data and
// display a precise message instead of a generic failure.
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// InsufficientDataError indicates that too few valid rows remained after
// null-filtering to train the requested model.
type InsufficientDataError struct {
	Op       string // the operation that was attempted, e.g. "linear.Train"
	Required int    // minimum viable row count
	Got      int    // rows actually available
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insight: %s: insufficient data: need at least %d valid rows, got %d", e.Op, e.Required, e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("required", e.Required).
		Int("got", e.Got).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError creates an InsufficientDataError with a stack trace.
func NewInsufficientDataError(op string, required, got int) error {
	err := &InsufficientDataError{Op: op, Required: required, Got: got}
	return errors.WithStack(err)
}

// JoinError indicates that the join key is absent from one side of a join.
type JoinError struct {
	Key  string // the join key column
	Side string // "left" or "right"
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("insight: join: key column %q not found in %s dataset", e.Key, e.Side)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *JoinError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("key", e.Key).
		Str("side", e.Side).
		Str("type", "JoinError")
}

// NewJoinError creates a JoinError with a stack trace.
func NewJoinError(key, side string) error {
	err := &JoinError{Key: key, Side: side}
	return errors.WithStack(err)
}

// InvalidColumnError indicates that a referenced column is absent from the
// dataset it was looked up in.
type InvalidColumnError struct {
	Op      string
	Column  string
	Dataset string
}

func (e *InvalidColumnError) Error() string {
	if e.Dataset != "" {
		return fmt.Sprintf("insight: %s: column %q not found in dataset %q", e.Op, e.Column, e.Dataset)
	}
	return fmt.Sprintf("insight: %s: column %q not found", e.Op, e.Column)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *InvalidColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("dataset", e.Dataset).
		Str("type", "InvalidColumnError")
}

// NewInvalidColumnError creates an InvalidColumnError with a stack trace.
func NewInvalidColumnError(op, column, dataset string) error {
	err := &InvalidColumnError{Op: op, Column: column, Dataset: dataset}
	return errors.WithStack(err)
}

// ConfigurationError indicates an invalid hyperparameter or operator setting,
// e.g. k < 1 for clustering or numTrees < 1 for a forest.
type ConfigurationError struct {
	Param  string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("insight: invalid configuration for %q: %s (got: %v)", e.Param, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError creates a ConfigurationError with a stack trace.
func NewConfigurationError(param, reason string, value interface{}) error {
	err := &ConfigurationError{Param: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// NotFittedError indicates that Predict was called on a model value that was
// not produced by a trainer.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("insight: %s: model is not fitted; obtain it from a trainer before calling %s()", e.ModelName, e.Method)
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ValueError indicates an argument value that is malformed or out of range
// for reasons other than hyperparameter configuration.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("insight: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// MissingColumnsError reports every column a multi-source preparation step
// could not resolve, so the caller can list them all at once.
type MissingColumnsError struct {
	Op      string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("insight: %s: columns not found in any source: %s", e.Op, strings.Join(e.Columns, ", "))
}

// NewMissingColumnsError creates a MissingColumnsError with a stack trace.
func NewMissingColumnsError(op string, columns []string) error {
	err := &MissingColumnsError{Op: op, Columns: columns}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error variables
//
// ===========================================================================

var (
	// ErrEmptyDataset is returned when an operation reads a dataset with no rows.
	ErrEmptyDataset = New("empty dataset")

	// ErrSingularMatrix is returned when the normal equations cannot be solved.
	ErrSingularMatrix = New("singular matrix")
)
