// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cborpath

import "regexp"

// Path is a compiled CBORPath expression: a root kind followed by an
// ordered list of Segments. Immutable after construction by the Compiler
// or the Builder. A Path is safe for concurrent use by multiple
// goroutines evaluating distinct arguments, since Evaluate never mutates
// it (spec §5).
type Path struct {
	Root     RootKind
	Segments []*Segment
}

// RootKind distinguishes an absolute path ($, evaluated against the
// original argument) from a relative path (@, valid only inside a filter
// expression, evaluated against the filter's current node).
type RootKind uint8

const (
	RootAbsolute RootKind = iota
	RootRelative
)

// SegmentKind distinguishes a child segment (applies its selectors to the
// node's direct children only) from a descendant segment (applies them at
// the node itself and at every descendant, pre-order).
type SegmentKind uint8

const (
	SegmentChild SegmentKind = iota
	SegmentDescendant
)

// Segment is one step of a Path: a non-empty, ordered list of Selectors
// applied either to a node's direct children (SegmentChild) or to the
// node and all its descendants (SegmentDescendant).
type Segment struct {
	Kind      SegmentKind
	Selectors []*Selector
}

// SelectorKind distinguishes the five selector forms of spec §3.
type SelectorKind uint8

const (
	SelectorKey SelectorKind = iota
	SelectorWildcard
	SelectorIndex
	SelectorSlice
	SelectorFilter
)

// Selector picks zero or more children of a single node. Exactly one of
// Key / Index / Slice / Filter is meaningful, selected by Kind.
type Selector struct {
	Kind SelectorKind

	Key   *Value // SelectorKey: the scalar key to look up in a Map
	Index int64  // SelectorIndex: may be negative (counts from the end)
	Slice SliceParams
	Filter *BoolExpr // SelectorFilter
}

// SliceParams holds a slice selector's start:end:step, each possibly
// absent (Start/End nil means "use the step-dependent default").
type SliceParams struct {
	Start *int64
	End   *int64
	Step  int64
}

// BoolOp distinguishes the filter boolean-expression forms of spec §4.3.
type BoolOp uint8

const (
	BoolAnd BoolOp = iota
	BoolOr
	BoolNot
	BoolCompare
	BoolTest
	BoolMatch
	BoolSearch
)

// CompareOp is one of the six comparison operators.
type CompareOp uint8

const (
	CompareLt CompareOp = iota
	CompareLe
	CompareEq
	CompareNe
	CompareGt
	CompareGe
)

// BoolExpr is a filter boolean expression: And/Or (>=2 operands), Not (one
// operand), a Comparison between two Comparables, a Test (existence check
// on a Path), or a regex FnMatch/FnSearch applied to a Comparable.
type BoolExpr struct {
	Kind BoolOp

	Operands []*BoolExpr // BoolAnd / BoolOr (len >= 2), BoolNot (len == 1)

	CompareOp   CompareOp // BoolCompare
	Left, Right *Comparable

	TestPath *Path // BoolTest

	// BoolMatch / BoolSearch.
	MatchValue *Comparable
	RegexSrc   string
	Regex      *regexp.Regexp // anchored for Match, unanchored for Search
}

// ComparableKind distinguishes the four Comparable forms of spec §4.3.
type ComparableKind uint8

const (
	ComparableLiteral ComparableKind = iota
	ComparableSingularPath
	ComparableFuncLength
	ComparableFuncCount
)

// Comparable is one operand of a Comparison, or the argument of length()/
// count(). A SingularPath's segments are restricted by the compiler to
// Key and Index selectors only (§4.1, "NonSingularPath").
type Comparable struct {
	Kind ComparableKind

	Literal *Value
	Path    *Path       // ComparableSingularPath (singular) or ComparableFuncCount (any path)
	Inner   *Comparable // ComparableFuncLength
}
