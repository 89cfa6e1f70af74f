// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cborpath

// NewAbsolutePath starts a Path builder rooted at the overall argument
// ($), the programmatic equivalent of compiling ["$"] plus segments.
func NewAbsolutePath() *Path {
	return &Path{Root: RootAbsolute}
}

// NewRelativePath starts a Path builder rooted at a filter's current node
// (@); only valid as a SingularPath or the operand of a Test/Comparable
// inside a filter expression.
func NewRelativePath() *Path {
	return &Path{Root: RootRelative}
}

// Child appends a child segment selecting sels from each input node's
// direct children.
func (p *Path) Child(sels ...*Selector) *Path {
	p.Segments = append(p.Segments, &Segment{Kind: SegmentChild, Selectors: sels})
	return p
}

// Descendant appends a descendant segment selecting sels from each input
// node and every one of its descendants, pre-order.
func (p *Path) Descendant(sels ...*Selector) *Path {
	p.Segments = append(p.Segments, &Segment{Kind: SegmentDescendant, Selectors: sels})
	return p
}

// Encode renders p back to its CBOR Array encoding, round-tripping
// through CompileValue up to map-key order (spec §6).
func (p *Path) Encode() ([]byte, error) {
	return p.toValue().Encode()
}

func (p *Path) toValue() *Value {
	elems := make([]*Value, 0, len(p.Segments)+1)
	if p.Root == RootAbsolute {
		elems = append(elems, NewText("$"))
	} else {
		elems = append(elems, NewText("@"))
	}
	for _, seg := range p.Segments {
		elems = append(elems, seg.toValue())
	}
	return NewArray(elems...)
}

func (seg *Segment) toValue() *Value {
	sels := make([]*Value, len(seg.Selectors))
	for i, s := range seg.Selectors {
		sels[i] = s.toValue()
	}
	if seg.Kind == SegmentChild {
		return NewArray(sels...)
	}
	var body *Value
	if len(sels) == 1 {
		body = sels[0]
	} else {
		body = NewArray(sels...)
	}
	return NewMapEntries(MapEntry{Key: NewText(".."), Value: body})
}

func (s *Selector) toValue() *Value {
	switch s.Kind {
	case SelectorKey:
		return s.Key
	case SelectorWildcard:
		return NewText("*")
	case SelectorIndex:
		return NewMapEntries(MapEntry{Key: NewText("#"), Value: NewInt(s.Index)})
	case SelectorSlice:
		start := NewNull()
		if s.Slice.Start != nil {
			start = NewInt(*s.Slice.Start)
		}
		end := NewNull()
		if s.Slice.End != nil {
			end = NewInt(*s.Slice.End)
		}
		return NewMapEntries(MapEntry{Key: NewText(":"), Value: NewArray(start, end, NewInt(s.Slice.Step))})
	case SelectorFilter:
		return NewMapEntries(MapEntry{Key: NewText("?"), Value: s.Filter.toValue()})
	default:
		return NewNull()
	}
}

func (e *BoolExpr) toValue() *Value {
	switch e.Kind {
	case BoolAnd:
		return NewMapEntries(MapEntry{Key: NewText("&&"), Value: exprArray(e.Operands)})
	case BoolOr:
		return NewMapEntries(MapEntry{Key: NewText("||"), Value: exprArray(e.Operands)})
	case BoolNot:
		return NewMapEntries(MapEntry{Key: NewText("!"), Value: e.Operands[0].toValue()})
	case BoolTest:
		return e.TestPath.toValue()
	case BoolCompare:
		return NewMapEntries(MapEntry{
			Key:   NewText(compareOpText[e.CompareOp]),
			Value: NewArray(e.Left.toValue(), e.Right.toValue()),
		})
	case BoolMatch:
		return NewMapEntries(MapEntry{Key: NewText("match"), Value: NewArray(e.MatchValue.toValue(), NewText(e.RegexSrc))})
	case BoolSearch:
		return NewMapEntries(MapEntry{Key: NewText("search"), Value: NewArray(e.MatchValue.toValue(), NewText(e.RegexSrc))})
	default:
		return NewNull()
	}
}

var compareOpText = map[CompareOp]string{
	CompareLt: "<",
	CompareLe: "<=",
	CompareEq: "==",
	CompareNe: "!=",
	CompareGt: ">",
	CompareGe: ">=",
}

func exprArray(exprs []*BoolExpr) *Value {
	vs := make([]*Value, len(exprs))
	for i, e := range exprs {
		vs[i] = e.toValue()
	}
	return NewArray(vs...)
}

func (c *Comparable) toValue() *Value {
	switch c.Kind {
	case ComparableLiteral:
		return c.Literal
	case ComparableSingularPath:
		return c.Path.toValue()
	case ComparableFuncLength:
		return NewMapEntries(MapEntry{Key: NewText("length"), Value: c.Inner.toValue()})
	case ComparableFuncCount:
		return NewMapEntries(MapEntry{Key: NewText("count"), Value: c.Path.toValue()})
	default:
		return NewNull()
	}
}

// Selector constructors.

// Key builds a Key selector matching k in a Map.
func Key(k *Value) *Selector { return &Selector{Kind: SelectorKey, Key: k} }

// Wildcard builds a Wildcard selector.
func Wildcard() *Selector { return &Selector{Kind: SelectorWildcard} }

// Index builds an Index selector; negative i counts from the end.
func Index(i int64) *Selector { return &Selector{Kind: SelectorIndex, Index: i} }

// Slice builds a Slice selector. A nil start or end uses the step-
// dependent default; step must be non-zero.
func Slice(start, end *int64, step int64) *Selector {
	return &Selector{Kind: SelectorSlice, Slice: SliceParams{Start: start, End: end, Step: step}}
}

// FilterSelector builds a Filter selector from a boolean expression.
func FilterSelector(expr *BoolExpr) *Selector {
	return &Selector{Kind: SelectorFilter, Filter: expr}
}

// Filter-expression constructors.

func And(operands ...*BoolExpr) *BoolExpr { return &BoolExpr{Kind: BoolAnd, Operands: operands} }
func Or(operands ...*BoolExpr) *BoolExpr  { return &BoolExpr{Kind: BoolOr, Operands: operands} }
func Not(operand *BoolExpr) *BoolExpr     { return &BoolExpr{Kind: BoolNot, Operands: []*BoolExpr{operand}} }

func Lt(l, r *Comparable) *BoolExpr { return compareExpr(CompareLt, l, r) }
func Le(l, r *Comparable) *BoolExpr { return compareExpr(CompareLe, l, r) }
func Eq(l, r *Comparable) *BoolExpr { return compareExpr(CompareEq, l, r) }
func Ne(l, r *Comparable) *BoolExpr { return compareExpr(CompareNe, l, r) }
func Gt(l, r *Comparable) *BoolExpr { return compareExpr(CompareGt, l, r) }
func Ge(l, r *Comparable) *BoolExpr { return compareExpr(CompareGe, l, r) }

func compareExpr(op CompareOp, l, r *Comparable) *BoolExpr {
	return &BoolExpr{Kind: BoolCompare, CompareOp: op, Left: l, Right: r}
}

// Test builds a Test expression: true when evaluating p yields at least
// one node.
func Test(p *Path) *BoolExpr { return &BoolExpr{Kind: BoolTest, TestPath: p} }

// Match builds an anchored regex match expression (the whole value must
// match pattern, an I-Regexp-flavored RE2 expression).
func Match(operand *Comparable, pattern string) (*BoolExpr, error) {
	return compileRegexOp("match", NewArray(operand.toValue(), NewText(pattern)))
}

// Search builds an unanchored regex search expression (pattern may match
// anywhere in the value).
func Search(operand *Comparable, pattern string) (*BoolExpr, error) {
	return compileRegexOp("search", NewArray(operand.toValue(), NewText(pattern)))
}

// Comparable constructors.

// Literal wraps a scalar Value as a Comparable.
func Literal(v *Value) *Comparable { return &Comparable{Kind: ComparableLiteral, Literal: v} }

// Length builds a length() Comparable over inner.
func Length(inner *Comparable) *Comparable {
	return &Comparable{Kind: ComparableFuncLength, Inner: inner}
}

// Count builds a count() Comparable over p.
func Count(p *Path) *Comparable { return &Comparable{Kind: ComparableFuncCount, Path: p} }

// SingularRelativePath builds a relative SingularPath Comparable (spec
// §6's sing_rel_path), walking sels as successive single-selector child
// segments restricted to Key/Index.
func SingularRelativePath(sels ...*Selector) *Comparable {
	p := NewRelativePath()
	for _, s := range sels {
		p.Child(s)
	}
	return &Comparable{Kind: ComparableSingularPath, Path: p}
}

// RelativePath builds a relative Path (spec §6's rel_path) from segs, for
// use with Count or Test; it is not restricted to singular selectors.
func RelativePath(segs ...*Segment) *Path {
	p := NewRelativePath()
	p.Segments = append(p.Segments, segs...)
	return p
}
