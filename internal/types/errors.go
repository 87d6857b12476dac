package types

import "errors"

// Sentinel errors for wizard operations.
var (
	// ErrMalformedDocument indicates stored visibility-rule text is not valid JSON.
	ErrMalformedDocument = errors.New("visibility rules are not valid JSON")

	// ErrMalformedQuestionKey indicates a composite question key that does not
	// follow the REF / REF::col::KEY / REF::sbs::group::SLUG::row::KEY grammar.
	ErrMalformedQuestionKey = errors.New("malformed question key")

	// ErrMissingTargetField indicates the builder was opened without a
	// resolvable rules field.
	ErrMissingTargetField = errors.New("visibility rules field not found")

	// ErrUnknownQuestionRef indicates a condition references a question absent
	// from the catalog.
	ErrUnknownQuestionRef = errors.New("unknown question reference")

	// ErrInvalidOperator indicates an operator outside the closed set.
	ErrInvalidOperator = errors.New("invalid operator")

	// ErrSessionClosed indicates an edit on a builder session that is not open.
	ErrSessionClosed = errors.New("builder session is not open")

	// ErrRowOutOfRange indicates a row index past the session's row list.
	ErrRowOutOfRange = errors.New("condition row index out of range")
)
