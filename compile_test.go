// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cborpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileTopLevelRoot(t *testing.T) {
	assert := assert.New(t)

	p, err := CompileValue(NewArray(NewText("$")))
	assert.NoError(err)
	assert.Equal(RootAbsolute, p.Root)
	assert.Empty(p.Segments)

	p, err = CompileValue(NewArray(NewText("@")))
	assert.NoError(err)
	assert.Equal(RootRelative, p.Root)
}

func TestCompileRejectsNonArrayOrEmpty(t *testing.T) {
	assert := assert.New(t)

	_, err := CompileValue(NewText("$"))
	assert.Error(err)
	var ce *CompileError
	assert.ErrorAs(err, &ce)
	assert.Equal(ErrBadSegment, ce.Kind)

	_, err = CompileValue(NewArray())
	assert.ErrorAs(err, &ce)
	assert.Equal(ErrEmptyPath, ce.Kind)

	_, err = CompileValue(NewArray(NewText("oops")))
	assert.ErrorAs(err, &ce)
	assert.Equal(ErrUnexpectedRoot, ce.Kind)
}

func TestCompileShorthandKeySegment(t *testing.T) {
	assert := assert.New(t)
	p, err := CompileValue(NewArray(NewText("$"), NewText("store")))
	assert.NoError(err)
	assert.Len(p.Segments, 1)
	seg := p.Segments[0]
	assert.Equal(SegmentChild, seg.Kind)
	assert.Len(seg.Selectors, 1)
	assert.Equal(SelectorKey, seg.Selectors[0].Kind)
	assert.Equal("store", seg.Selectors[0].Key.Text)
}

func TestCompileChildSegmentMultipleSelectors(t *testing.T) {
	assert := assert.New(t)
	p, err := CompileValue(NewArray(
		NewText("$"),
		NewArray(NewText("a"), NewText("b")),
	))
	assert.NoError(err)
	assert.Len(p.Segments[0].Selectors, 2)
}

func TestCompileDescendantSegment(t *testing.T) {
	assert := assert.New(t)
	p, err := CompileValue(NewArray(
		NewText("$"),
		NewMapEntries(MapEntry{Key: NewText(".."), Value: NewText("author")}),
	))
	assert.NoError(err)
	seg := p.Segments[0]
	assert.Equal(SegmentDescendant, seg.Kind)
	assert.Len(seg.Selectors, 1)
	assert.Equal("author", seg.Selectors[0].Key.Text)
}

func TestCompileDescendantMultiSelectorComposesOneSegment(t *testing.T) {
	assert := assert.New(t)
	p, err := CompileValue(NewArray(
		NewText("$"),
		NewMapEntries(MapEntry{Key: NewText(".."), Value: NewArray(NewText("a"), NewText("b"))}),
	))
	assert.NoError(err)
	assert.Len(p.Segments, 1, "multi-selector descendant composes into ONE segment, not several")
	assert.Len(p.Segments[0].Selectors, 2)
}

func TestCompileWildcardBothEncodings(t *testing.T) {
	assert := assert.New(t)

	p1, err := CompileValue(NewArray(NewText("$"), NewText("*")))
	assert.NoError(err)
	assert.Equal(SelectorWildcard, p1.Segments[0].Selectors[0].Kind)

	p2, err := CompileValue(NewArray(NewText("$"),
		NewMapEntries(MapEntry{Key: NewText("*"), Value: NewInt(1)})))
	assert.NoError(err)
	assert.Equal(SelectorWildcard, p2.Segments[0].Selectors[0].Kind)
}

func TestCompileIndexSelector(t *testing.T) {
	assert := assert.New(t)
	p, err := CompileValue(NewArray(NewText("$"),
		NewMapEntries(MapEntry{Key: NewText("#"), Value: NewInt(-1)})))
	assert.NoError(err)
	sel := p.Segments[0].Selectors[0]
	assert.Equal(SelectorIndex, sel.Kind)
	assert.Equal(int64(-1), sel.Index)
}

func TestCompileSliceSelector(t *testing.T) {
	assert := assert.New(t)
	p, err := CompileValue(NewArray(NewText("$"),
		NewMapEntries(MapEntry{Key: NewText(":"), Value: NewArray(NewInt(1), NewInt(3))})))
	assert.NoError(err)
	sel := p.Segments[0].Selectors[0]
	assert.Equal(SelectorSlice, sel.Kind)
	assert.Equal(int64(1), *sel.Slice.Start)
	assert.Equal(int64(3), *sel.Slice.End)
	assert.Equal(int64(1), sel.Slice.Step, "step defaults to 1")
}

func TestCompileSliceNullBoundsAndBadStep(t *testing.T) {
	assert := assert.New(t)
	p, err := CompileValue(NewArray(NewText("$"),
		NewMapEntries(MapEntry{Key: NewText(":"), Value: NewArray(NewNull(), NewNull(), NewInt(-1))})))
	assert.NoError(err)
	sel := p.Segments[0].Selectors[0]
	assert.Nil(sel.Slice.Start)
	assert.Nil(sel.Slice.End)
	assert.Equal(int64(-1), sel.Slice.Step)

	_, err = CompileValue(NewArray(NewText("$"),
		NewMapEntries(MapEntry{Key: NewText(":"), Value: NewArray(NewInt(0), NewInt(1), NewInt(0))})))
	var ce *CompileError
	assert.ErrorAs(err, &ce)
	assert.Equal(ErrBadSliceStep, ce.Kind)
}

func TestCompileFilterSelectorAndComparison(t *testing.T) {
	assert := assert.New(t)
	filterExpr := NewMapEntries(MapEntry{
		Key: NewText("<"),
		Value: NewArray(
			NewArray(NewText("@"), NewText("price")),
			NewFloat(10.0),
		),
	})
	p, err := CompileValue(NewArray(NewText("$"),
		NewMapEntries(MapEntry{Key: NewText("?"), Value: filterExpr})))
	assert.NoError(err)
	sel := p.Segments[0].Selectors[0]
	assert.Equal(SelectorFilter, sel.Kind)
	assert.Equal(BoolCompare, sel.Filter.Kind)
	assert.Equal(CompareLt, sel.Filter.CompareOp)
	assert.Equal(ComparableSingularPath, sel.Filter.Left.Kind)
	assert.Equal(ComparableLiteral, sel.Filter.Right.Kind)
}

func TestCompileLogicalAndNot(t *testing.T) {
	assert := assert.New(t)
	isbn := NewArray(NewText("@"), NewText("isbn"))
	expr := NewMapEntries(MapEntry{
		Key: NewText("&&"),
		Value: NewArray(
			isbn,
			NewMapEntries(MapEntry{Key: NewText("!"), Value: isbn}),
		),
	})
	be, err := compileBoolExpr(expr)
	assert.NoError(err)
	assert.Equal(BoolAnd, be.Kind)
	assert.Len(be.Operands, 2)
	assert.Equal(BoolTest, be.Operands[0].Kind)
	assert.Equal(BoolNot, be.Operands[1].Kind)
}

func TestCompileMatchAndSearch(t *testing.T) {
	assert := assert.New(t)
	expr := NewMapEntries(MapEntry{
		Key:   NewText("match"),
		Value: NewArray(NewArray(NewText("@"), NewText("name")), NewText("J.*")),
	})
	be, err := compileBoolExpr(expr)
	assert.NoError(err)
	assert.Equal(BoolMatch, be.Kind)
	assert.True(be.Regex.MatchString("James"))
	assert.False(be.Regex.MatchString("xJames"), "match is anchored, search is not")

	searchExpr := NewMapEntries(MapEntry{
		Key:   NewText("search"),
		Value: NewArray(NewArray(NewText("@"), NewText("name")), NewText("J.*")),
	})
	be2, err := compileBoolExpr(searchExpr)
	assert.NoError(err)
	assert.True(be2.Regex.MatchString("xJames"))
}

func TestCompileBadRegex(t *testing.T) {
	assert := assert.New(t)
	expr := NewMapEntries(MapEntry{
		Key:   NewText("match"),
		Value: NewArray(NewArray(NewText("@"), NewText("name")), NewText("[")),
	})
	_, err := compileBoolExpr(expr)
	var ce *CompileError
	assert.ErrorAs(err, &ce)
	assert.Equal(ErrBadRegex, ce.Kind)
}

func TestCompileLengthAndCount(t *testing.T) {
	assert := assert.New(t)

	lengthExpr := NewMapEntries(MapEntry{Key: NewText("length"), Value: NewArray(NewText("@"), NewText("name"))})
	c, err := compileComparable(lengthExpr)
	assert.NoError(err)
	assert.Equal(ComparableFuncLength, c.Kind)
	assert.Equal(ComparableSingularPath, c.Inner.Kind)

	countExpr := NewMapEntries(MapEntry{Key: NewText("count"), Value: NewArray(NewText("$"), NewText("store"), NewText("*"))})
	c2, err := compileComparable(countExpr)
	assert.NoError(err)
	assert.Equal(ComparableFuncCount, c2.Kind)
	assert.Equal(RootAbsolute, c2.Path.Root)
}

func TestCompileNonSingularPathRejected(t *testing.T) {
	assert := assert.New(t)
	badPath := NewArray(NewText("@"), NewText("*"))
	_, err := compileComparable(badPath)
	var ce *CompileError
	assert.ErrorAs(err, &ce)
	assert.Equal(ErrNonSingularPath, ce.Kind)
}

func TestCompileBadComparisonArity(t *testing.T) {
	assert := assert.New(t)
	expr := NewMapEntries(MapEntry{Key: NewText("=="), Value: NewArray(NewInt(1))})
	_, err := compileBoolExpr(expr)
	var ce *CompileError
	assert.ErrorAs(err, &ce)
	assert.Equal(ErrBadComparison, ce.Kind)
}

func TestCompileUnknownFunctionInComparable(t *testing.T) {
	assert := assert.New(t)
	expr := NewMapEntries(MapEntry{Key: NewText("sum"), Value: NewInt(1)})
	_, err := compileComparable(expr)
	var ce *CompileError
	assert.ErrorAs(err, &ce)
	assert.Equal(ErrUnknownFunction, ce.Kind)
}

func TestCompileBadFunctionArity(t *testing.T) {
	assert := assert.New(t)
	expr := NewMapEntries(MapEntry{
		Key:   NewText("match"),
		Value: NewArray(NewArray(NewText("@"))),
	})
	_, err := compileBoolExpr(expr)
	var ce *CompileError
	assert.ErrorAs(err, &ce)
	assert.Equal(ErrBadFunctionArity, ce.Kind)
}
