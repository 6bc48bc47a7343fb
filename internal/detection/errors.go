// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches every *InvalidInputError via errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPolicy is returned when a Policy fails validation.
	ErrInvalidPolicy = errors.New("invalid analysis policy")
)

// InvalidInputError reports input that cannot be interpreted as the
// declared schema. No partial result accompanies it.
type InvalidInputError struct {
	// Op is the entry point that rejected the input, e.g. "analyze_traffic".
	Op string
	// Field is the JSON path of the offending field, if known.
	Field string
	// Index is the batch position of the offending element, or -1.
	Index  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	switch {
	case e.Index >= 0 && e.Field != "":
		return fmt.Sprintf("%s: invalid input at [%d].%s: %s", e.Op, e.Index, e.Field, e.Reason)
	case e.Index >= 0:
		return fmt.Sprintf("%s: invalid input at [%d]: %s", e.Op, e.Index, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("%s: invalid input %s: %s", e.Op, e.Field, e.Reason)
	default:
		return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Reason)
	}
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Details returns the structured location of the error for API payloads.
func (e *InvalidInputError) Details() map[string]interface{} {
	details := map[string]interface{}{"op": e.Op}
	if e.Field != "" {
		details["field"] = e.Field
	}
	if e.Index >= 0 {
		details["index"] = e.Index
	}
	return details
}

func invalidInput(op, field, reason string) *InvalidInputError {
	return &InvalidInputError{Op: op, Field: field, Index: -1, Reason: reason}
}

// AsInvalidInput unwraps err into an *InvalidInputError.
func AsInvalidInput(err error) (*InvalidInputError, bool) {
	var ie *InvalidInputError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
