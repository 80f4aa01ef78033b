package helpers

import (
	"errors"
	"fmt"
	"sync/atomic"

	"price-ticker/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type TickerError struct {
	Message string
	Cause   error
}

func (e *TickerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TickerError) Unwrap() error {
	return e.Cause
}

// Sentinels returned by the stream controller and adapter.
var (
	ErrEmptySymbols     = errors.New("at least one symbol is required")
	ErrRunActive        = errors.New("a ticker run is already active")
	ErrControllerClosed = errors.New("stream controller is closed")
	ErrSinkAttached     = errors.New("stream adapter already has a sink")
)

// ListenerFaultError wraps a panic raised by a price listener.
type ListenerFaultError struct {
	TickerError
	RunID  string
	Symbol string
	Value  interface{}
}

// NewListenerFaultError builds the error for a recovered panic value
func NewListenerFaultError(runID, symbol string, recovered interface{}) *ListenerFaultError {
	var cause error
	if err, ok := recovered.(error); ok {
		cause = err
	}
	return &ListenerFaultError{
		TickerError: TickerError{
			Message: fmt.Sprintf("listener panicked on %s: %v", symbol, recovered),
			Cause:   cause,
		},
		RunID:  runID,
		Symbol: symbol,
		Value:  recovered,
	}
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

// ErrorHandler logs non-fatal errors and keeps a running count.
type ErrorHandler struct {
	Logger     *logger.Logger
	errorCount atomic.Uint64
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	if log == nil {
		log = logger.NewLogger(nil, "ErrorHandler")
	}
	return &ErrorHandler{Logger: log}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) Handle(err error, context string) {
	if err == nil {
		return
	}
	e.errorCount.Add(1)
	e.Logger.Error("Error in %s: %v", context, err)
}

// -----------------------------------------------------------------------------

// Count returns how many errors were handled
func (e *ErrorHandler) Count() uint64 {
	return e.errorCount.Load()
}
