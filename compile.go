// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cborpath

import "regexp"

// Compile decodes pathDoc as a CBOR value and compiles it into a Path, per
// spec §4.1. It is the top-level half of the external interface named in
// spec §6.
func Compile(pathDoc []byte) (*Path, error) {
	v, err := Decode(pathDoc)
	if err != nil {
		return nil, err
	}
	return CompileValue(v)
}

// MustCompile is Compile, panicking on error. Mirrors the teacher's
// Must*-prefixed convenience wrappers.
func MustCompile(pathDoc []byte) *Path {
	p, err := Compile(pathDoc)
	if err != nil {
		panic(err)
	}
	return p
}

// CompileValue compiles an already-decoded CBOR Value into a Path. It is
// the function the Builder's equivalents must agree with (spec §6's
// round-trip property).
func CompileValue(v *Value) (*Path, error) {
	if v.Kind != KindArray {
		return nil, compileErr(ErrBadSegment, v, "a path must be encoded as a CBOR array")
	}
	if len(v.Array) == 0 {
		return nil, compileErr(ErrEmptyPath, v, "a path array must not be empty")
	}

	root := v.Array[0]
	var rootKind RootKind
	switch {
	case isText(root, "$"):
		rootKind = RootAbsolute
	case isText(root, "@"):
		rootKind = RootRelative
	default:
		return nil, compileErr(ErrUnexpectedRoot, root, `a path must start with "$" or "@"`)
	}

	segments := make([]*Segment, 0, len(v.Array)-1)
	for _, enc := range v.Array[1:] {
		seg, err := compileSegment(enc)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return &Path{Root: rootKind, Segments: segments}, nil
}

// compileSegment compiles one segment encoding: a child-segment array, a
// descendant-segment map ({"..": ...}), or a bare selector encoding taken
// as a one-selector child segment shorthand.
func compileSegment(v *Value) (*Segment, error) {
	if v.Kind == KindArray {
		if len(v.Array) == 0 {
			return nil, compileErr(ErrBadSegment, v, "a child segment array must not be empty")
		}
		sels := make([]*Selector, 0, len(v.Array))
		for _, s := range v.Array {
			sel, err := compileSelector(s)
			if err != nil {
				return nil, err
			}
			sels = append(sels, sel)
		}
		return &Segment{Kind: SegmentChild, Selectors: sels}, nil
	}

	if v.Kind == KindMap && v.Map.Len() == 1 {
		entry := v.Map.Entries()[0]
		if isText(entry.Key, "..") {
			sels, err := compileSelectorList(entry.Value)
			if err != nil {
				return nil, err
			}
			if len(sels) == 0 {
				return nil, compileErr(ErrBadSegment, v, "a descendant segment must not be empty")
			}
			return &Segment{Kind: SegmentDescendant, Selectors: sels}, nil
		}
	}

	// Shorthand: a bare selector encoding is a one-selector child segment.
	sel, err := compileSelector(v)
	if err != nil {
		return nil, compileErr(ErrBadSegment, v, "not a valid segment or selector encoding")
	}
	return &Segment{Kind: SegmentChild, Selectors: []*Selector{sel}}, nil
}

// compileSelectorList compiles the value of a descendant-segment map
// entry, which is either an Array of selector encodings or a single
// selector encoding (spec §4.1).
func compileSelectorList(v *Value) ([]*Selector, error) {
	if v.Kind == KindArray {
		sels := make([]*Selector, 0, len(v.Array))
		for _, s := range v.Array {
			sel, err := compileSelector(s)
			if err != nil {
				return nil, err
			}
			sels = append(sels, sel)
		}
		return sels, nil
	}
	sel, err := compileSelector(v)
	if err != nil {
		return nil, err
	}
	return []*Selector{sel}, nil
}

// compileSelector compiles one selector encoding per the table in
// spec §4.1.
func compileSelector(v *Value) (*Selector, error) {
	switch v.Kind {
	case KindText:
		switch v.Text {
		case "*":
			return &Selector{Kind: SelectorWildcard}, nil
		case "$", "@":
			return nil, compileErr(ErrBadSelector, v, "%q cannot be used as a selector", v.Text)
		default:
			return &Selector{Kind: SelectorKey, Key: v}, nil
		}

	case KindMap:
		if v.Map.Len() != 1 {
			return nil, compileErr(ErrBadSelector, v, "a selector map must have exactly one key")
		}
		entry := v.Map.Entries()[0]
		if entry.Key.Kind != KindText {
			return nil, compileErr(ErrBadSelector, v, "a selector map key must be text")
		}
		switch entry.Key.Text {
		case "*":
			return &Selector{Kind: SelectorWildcard}, nil

		case "#":
			idx, err := compileSelectorIndex(entry.Value)
			if err != nil {
				return nil, err
			}
			return &Selector{Kind: SelectorIndex, Index: idx}, nil

		case ":":
			params, err := compileSlice(entry.Value)
			if err != nil {
				return nil, err
			}
			return &Selector{Kind: SelectorSlice, Slice: params}, nil

		case "?":
			expr, err := compileBoolExpr(entry.Value)
			if err != nil {
				return nil, err
			}
			return &Selector{Kind: SelectorFilter, Filter: expr}, nil

		default:
			return nil, compileErr(ErrBadSelector, v, "unrecognized selector key %q", entry.Key.Text)
		}

	case KindInt, KindFloat, KindBytes, KindBool, KindNull:
		return &Selector{Kind: SelectorKey, Key: v}, nil

	default:
		return nil, compileErr(ErrBadSelector, v, "not a valid selector encoding")
	}
}

func compileSelectorIndex(v *Value) (int64, error) {
	if v.Kind != KindInt || v.BigInt != nil {
		return 0, compileErr(ErrBadSelector, v, "an index selector value must be a small signed integer")
	}
	return v.Int, nil
}

// compileSlice compiles {":": [start, end, step]}'s value array.
func compileSlice(v *Value) (SliceParams, error) {
	if v.Kind != KindArray || len(v.Array) < 2 || len(v.Array) > 3 {
		return SliceParams{}, compileErr(ErrBadSelector, v, "a slice value must be [start, end] or [start, end, step]")
	}

	step := int64(1)
	if len(v.Array) == 3 {
		s := v.Array[2]
		if s.Kind != KindInt || s.BigInt != nil {
			return SliceParams{}, compileErr(ErrBadSliceStep, v, "slice step must be an integer")
		}
		step = s.Int
	}
	if step == 0 {
		return SliceParams{}, compileErr(ErrBadSliceStep, v, "slice step must not be zero")
	}

	start, err := compileOptionalIndex(v.Array[0])
	if err != nil {
		return SliceParams{}, err
	}
	end, err := compileOptionalIndex(v.Array[1])
	if err != nil {
		return SliceParams{}, err
	}
	return SliceParams{Start: start, End: end, Step: step}, nil
}

func compileOptionalIndex(v *Value) (*int64, error) {
	if v.Kind == KindNull {
		return nil, nil
	}
	if v.Kind != KindInt || v.BigInt != nil {
		return nil, compileErr(ErrBadSelector, v, "a slice bound must be an integer or null")
	}
	i := v.Int
	return &i, nil
}

// compileBoolExpr compiles a filter expression: a single-key operator map,
// or a bare path array (a Test).
func compileBoolExpr(v *Value) (*BoolExpr, error) {
	if v.Kind == KindArray {
		if len(v.Array) > 0 && (isText(v.Array[0], "$") || isText(v.Array[0], "@")) {
			p, err := CompileValue(v)
			if err != nil {
				return nil, err
			}
			return &BoolExpr{Kind: BoolTest, TestPath: p}, nil
		}
		return nil, compileErr(ErrBadBoolOp, v, "a bare array filter operand must be a path starting with \"$\" or \"@\"")
	}

	if v.Kind != KindMap || v.Map.Len() != 1 {
		return nil, compileErr(ErrBadBoolOp, v, "a filter expression must be a single-key map or a path array")
	}
	entry := v.Map.Entries()[0]
	if entry.Key.Kind != KindText {
		return nil, compileErr(ErrBadBoolOp, v, "a filter operator key must be text")
	}

	switch entry.Key.Text {
	case "&&":
		return compileLogical(BoolAnd, entry.Value)
	case "||":
		return compileLogical(BoolOr, entry.Value)
	case "!":
		operand, err := compileBoolExpr(entry.Value)
		if err != nil {
			return nil, err
		}
		return &BoolExpr{Kind: BoolNot, Operands: []*BoolExpr{operand}}, nil

	case "<", "<=", "==", "!=", ">", ">=":
		return compileComparison(entry.Key.Text, entry.Value)

	case "match", "search":
		return compileRegexOp(entry.Key.Text, entry.Value)

	default:
		return nil, compileErr(ErrBadBoolOp, v, "unrecognized filter operator %q", entry.Key.Text)
	}
}

func compileLogical(op BoolOp, v *Value) (*BoolExpr, error) {
	if v.Kind != KindArray || len(v.Array) < 2 {
		return nil, compileErr(ErrBadBoolOp, v, "a logical operator needs an array of at least 2 operands")
	}
	operands := make([]*BoolExpr, 0, len(v.Array))
	for _, e := range v.Array {
		be, err := compileBoolExpr(e)
		if err != nil {
			return nil, err
		}
		operands = append(operands, be)
	}
	return &BoolExpr{Kind: op, Operands: operands}, nil
}

var compareOps = map[string]CompareOp{
	"<":  CompareLt,
	"<=": CompareLe,
	"==": CompareEq,
	"!=": CompareNe,
	">":  CompareGt,
	">=": CompareGe,
}

func compileComparison(op string, v *Value) (*BoolExpr, error) {
	if v.Kind != KindArray || len(v.Array) != 2 {
		return nil, compileErr(ErrBadComparison, v, "a comparison needs exactly 2 operands")
	}
	left, err := compileComparable(v.Array[0])
	if err != nil {
		return nil, err
	}
	right, err := compileComparable(v.Array[1])
	if err != nil {
		return nil, err
	}
	return &BoolExpr{Kind: BoolCompare, CompareOp: compareOps[op], Left: left, Right: right}, nil
}

func compileRegexOp(op string, v *Value) (*BoolExpr, error) {
	if v.Kind != KindArray || len(v.Array) != 2 {
		return nil, compileErr(ErrBadFunctionArity, v, "%s() needs exactly 2 arguments", op)
	}
	operand, err := compileComparable(v.Array[0])
	if err != nil {
		return nil, err
	}
	pattern := v.Array[1]
	if pattern.Kind != KindText {
		return nil, compileErr(ErrBadRegex, pattern, "a regex pattern must be text")
	}

	src := pattern.Text
	anchored := "^(?:" + src + ")$"
	reSrc := src
	if op == "match" {
		reSrc = anchored
	}
	re, err := regexp.Compile(reSrc)
	if err != nil {
		return nil, compileErr(ErrBadRegex, pattern, "invalid regular expression: %v", err)
	}

	kind := BoolSearch
	if op == "match" {
		kind = BoolMatch
	}
	return &BoolExpr{Kind: kind, MatchValue: operand, RegexSrc: src, Regex: re}, nil
}

// compileComparable compiles a Comparable: a literal, a SingularPath, or a
// length()/count() function call.
func compileComparable(v *Value) (*Comparable, error) {
	if v.Kind == KindArray {
		if len(v.Array) > 0 && (isText(v.Array[0], "$") || isText(v.Array[0], "@")) {
			p, err := CompileValue(v)
			if err != nil {
				return nil, err
			}
			if err := ensureSingular(p, v); err != nil {
				return nil, err
			}
			return &Comparable{Kind: ComparableSingularPath, Path: p}, nil
		}
		return nil, compileErr(ErrBadComparable, v, "an array comparable must be a path starting with \"$\" or \"@\"")
	}

	if v.Kind == KindMap && v.Map.Len() == 1 {
		entry := v.Map.Entries()[0]
		if entry.Key.Kind == KindText {
			switch entry.Key.Text {
			case "length":
				inner, err := compileComparable(entry.Value)
				if err != nil {
					return nil, err
				}
				return &Comparable{Kind: ComparableFuncLength, Inner: inner}, nil
			case "count":
				p, err := CompileValue(entry.Value)
				if err != nil {
					return nil, err
				}
				return &Comparable{Kind: ComparableFuncCount, Path: p}, nil
			}
		}
		return nil, compileErr(ErrUnknownFunction, v, "unrecognized function in comparable map")
	}

	switch v.Kind {
	case KindText, KindBytes, KindInt, KindFloat, KindBool, KindNull:
		return &Comparable{Kind: ComparableLiteral, Literal: v}, nil
	default:
		return nil, compileErr(ErrBadComparable, v, "not a valid comparable encoding")
	}
}

// ensureSingular enforces spec §4.1's SingularPath restriction: every
// segment must be a child segment with exactly one Key or Index selector.
func ensureSingular(p *Path, offending *Value) error {
	for _, seg := range p.Segments {
		if seg.Kind != SegmentChild || len(seg.Selectors) != 1 {
			return compileErr(ErrNonSingularPath, offending, "a singular path may only use single-selector child segments")
		}
		switch seg.Selectors[0].Kind {
		case SelectorKey, SelectorIndex:
		default:
			return compileErr(ErrNonSingularPath, offending, "a singular path may only use Key and Index selectors")
		}
	}
	return nil
}

func isText(v *Value, s string) bool {
	return v != nil && v.Kind == KindText && v.Text == s
}
