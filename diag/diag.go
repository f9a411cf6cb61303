// Package diag defines the diagnostic type reported by the semantic passes.
// A Diagnostic identifies the kind of violation, a stable machine-readable
// code, a human-readable message, and the source span of the offending node
// when one is known.
package diag

import (
	"fmt"

	"github.com/ferrite-lang/ferrite/ast"
)

// Kind classifies a diagnostic by the pass that produced it.
type Kind int

const (
	// Ownership is a borrow-checker violation.
	Ownership Kind = iota
	// Pattern is a match exhaustiveness or reachability violation.
	Pattern
	// Bounds is a trait-bound violation at an instantiation site.
	Bounds
	// Internal is an invariant violation inside the compiler itself, such as
	// a macro surviving to the semantic passes.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Ownership:
		return "ownership"
	case Pattern:
		return "pattern"
	case Bounds:
		return "bounds"
	case Internal:
		return "internal"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Stable diagnostic codes. These identifiers are part of the public surface;
// downstream tooling (LSP, CLI) matches on them.
const (
	CodeUseOfMoved            = "use-of-moved"
	CodeUseOfUninitialized    = "use-of-uninitialized"
	CodeBorrowConflict        = "borrow-conflict"
	CodeCannotBorrowTemporary = "cannot-borrow-temporary"
	CodeCannotAssignTemporary = "cannot-assign-temporary"
	CodeNonExhaustive         = "non-exhaustive"
	CodeUnreachable           = "unreachable"
	CodeUnknownVariant        = "unknown-variant"
	CodeTypeMismatch          = "type-mismatch"
	CodeUnimplementedTrait    = "unimplemented-trait"
	CodeMacroNotExpanded      = "macro-not-expanded"
	CodeReturnOwnership       = "return-ownership"
)

// Diagnostic describes one semantic violation. It implements error.
type Diagnostic struct {
	Kind    Kind
	Code    string
	Message string
	// Span is the source location of the offending node. Valid is false when
	// the node carried no span.
	Span ast.Span
}

// New creates a diagnostic for the given kind, code and formatted message.
func New(kind Kind, code string, span ast.Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	loc := "unknown location"
	if d.Span.Valid() {
		loc = d.Span.String()
	}
	return fmt.Sprintf("%s: %s error [%s]: %s", loc, d.Kind, d.Code, d.Message)
}
