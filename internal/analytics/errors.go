package analytics

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the structural conditions a forecast can end in.
type ErrorCode string

const (
	CodeDataSourceUnavailable    ErrorCode = "DATA_SOURCE_UNAVAILABLE"
	CodeInsufficientHistory      ErrorCode = "INSUFFICIENT_HISTORY"
	CodeCombinedInsufficientData ErrorCode = "COMBINED_INSUFFICIENT_DATA"
	CodeMisalignedForecasts      ErrorCode = "MISALIGNED_FORECASTS"
)

// Error is the typed result variant returned instead of a forecast.
type Error struct {
	Code    ErrorCode
	Message string
	// Series names the input series for INSUFFICIENT_HISTORY, or every failed side
	// for COMBINED_INSUFFICIENT_DATA.
	Series []string
	// Months is the number of buckets that were available.
	Months int
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err is an *Error carrying code.
func IsCode(err error, code ErrorCode) bool {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Code == code
	}
	return false
}

// IsNotEnoughData reports whether err means the business has too little history yet.
func IsNotEnoughData(err error) bool {
	return IsCode(err, CodeInsufficientHistory) || IsCode(err, CodeCombinedInsufficientData)
}

// DataSourceUnavailable wraps a failed read of the event store.
func DataSourceUnavailable(operation string, cause error) *Error {
	return &Error{
		Code:    CodeDataSourceUnavailable,
		Message: fmt.Sprintf("failed to %s", operation),
		Cause:   cause,
	}
}

// InsufficientHistory reports that a series has fewer buckets than required.
func InsufficientHistory(series string, have, need int) *Error {
	return &Error{
		Code:    CodeInsufficientHistory,
		Message: fmt.Sprintf("%s needs at least %d months of history, found %d", series, need, have),
		Series:  []string{series},
		Months:  have,
	}
}
