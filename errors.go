// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cborpath

import "fmt"

// ErrorKind names a compile-time failure. The Compiler is the only part
// of the engine that can fail (spec §4.6, §7); evaluation never errors.
type ErrorKind uint8

const (
	ErrUnexpectedRoot ErrorKind = iota
	ErrEmptyPath
	ErrBadSegment
	ErrBadSelector
	ErrBadBoolOp
	ErrBadComparable
	ErrBadComparison
	ErrNonSingularPath
	ErrBadFunctionArity
	ErrUnknownFunction
	ErrBadSliceStep
	ErrBadRegex
)

// String names the error kind, matching the taxonomy reconciled in
// SPEC_FULL.md §9.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedRoot:
		return "UnexpectedRoot"
	case ErrEmptyPath:
		return "EmptyPath"
	case ErrBadSegment:
		return "BadSegment"
	case ErrBadSelector:
		return "BadSelector"
	case ErrBadBoolOp:
		return "BadBoolOp"
	case ErrBadComparable:
		return "BadComparable"
	case ErrBadComparison:
		return "BadComparison"
	case ErrNonSingularPath:
		return "NonSingularPath"
	case ErrBadFunctionArity:
		return "BadFunctionArity"
	case ErrUnknownFunction:
		return "UnknownFunction"
	case ErrBadSliceStep:
		return "BadSliceStep"
	case ErrBadRegex:
		return "BadRegex"
	default:
		return "Unknown"
	}
}

// CompileError is the single error type the Compiler raises. It names the
// violated rule, a human-readable message, and the offending
// sub-expression, letting a caller pinpoint exactly which part of the
// CBOR path value was rejected (spec §7).
type CompileError struct {
	Kind      ErrorKind
	Message   string
	Offending *Value
}

func (e *CompileError) Error() string {
	if e.Offending == nil {
		return fmt.Sprintf("cborpath: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("cborpath: %s: %s (at %s)", e.Kind, e.Message, e.Offending.String())
}

func compileErr(kind ErrorKind, offending *Value, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Offending: offending}
}
