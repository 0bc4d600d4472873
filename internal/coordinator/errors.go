// Package coordinator implements the relay network coordinator: node
// lifecycle management, relay routing, and the periodic heartbeat, reward,
// slashing and metrics tasks over the shared node store and hub registry.
package coordinator

import (
	"errors"
	"fmt"
)

// Error codes surfaced by coordinator operations
const (
	CodeInvalidStake          = "INVALID_STAKE"
	CodeUnknownCity           = "UNKNOWN_CITY"
	CodeCityAtCapacity        = "CITY_AT_CAPACITY"
	CodeNotFound              = "NOT_FOUND"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeSourceNodeUnavailable = "SOURCE_NODE_UNAVAILABLE"
	CodeLedgerFailure         = "LEDGER_FAILURE"
)

// Error represents a coordinator operation error
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a new coordinator Error
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// AsError unwraps a coordinator *Error from err
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func errInvalidStake(min, got float64) *Error {
	return &Error{
		Code:    CodeInvalidStake,
		Message: fmt.Sprintf("stake amount %.2f is below the minimum of %.2f", got, min),
	}
}

func errUnknownCity(cityID string) *Error {
	return &Error{
		Code:    CodeUnknownCity,
		Message: fmt.Sprintf("unknown city hub: %s", cityID),
	}
}

func errCityAtCapacity(cityID string, capacity int) *Error {
	return &Error{
		Code:    CodeCityAtCapacity,
		Message: fmt.Sprintf("city hub %s is at capacity (%d nodes)", cityID, capacity),
	}
}

func errNodeNotFound(nodeID string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("node not found: %s", nodeID),
	}
}

func errUnauthorized(nodeID string) *Error {
	return &Error{
		Code:    CodeUnauthorized,
		Message: fmt.Sprintf("operator does not own node %s", nodeID),
	}
}

func errSourceNodeUnavailable(nodeID string) *Error {
	return &Error{
		Code:    CodeSourceNodeUnavailable,
		Message: fmt.Sprintf("source node %s is not active", nodeID),
	}
}

func errLedgerFailure(err error) *Error {
	return &Error{
		Code:    CodeLedgerFailure,
		Message: fmt.Sprintf("ledger operation failed: %v", err),
	}
}
