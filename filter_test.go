// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cborpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuncLength(t *testing.T) {
	assert := assert.New(t)

	v, ok := funcLength(NewText("héllo"))
	assert.True(ok)
	assert.Equal(int64(5), v.Int)

	v, ok = funcLength(NewBytes([]byte{1, 2, 3}))
	assert.True(ok)
	assert.Equal(int64(3), v.Int)

	v, ok = funcLength(NewArray(NewInt(1), NewInt(2)))
	assert.True(ok)
	assert.Equal(int64(2), v.Int)

	v, ok = funcLength(NewMapEntries(MapEntry{Key: NewText("a"), Value: NewInt(1)}))
	assert.True(ok)
	assert.Equal(int64(1), v.Int)

	_, ok = funcLength(NewNull())
	assert.False(ok, "length of Null is Nothing")
}

func TestFuncCountOfNonExistentPathIsZero(t *testing.T) {
	assert := assert.New(t)
	doc := NewMapEntries(MapEntry{Key: NewText("a"), Value: NewInt(1)})
	c := Count(NewAbsolutePath().Child(Key(NewText("missing"))))
	v, ok := evalComparable(c, doc, doc)
	assert.True(ok)
	assert.Equal(int64(0), v.Int)
}

func TestComparisonIntFloatEquality(t *testing.T) {
	assert := assert.New(t)
	doc := NewNull()
	ok := evalFilterBool(Eq(Literal(NewInt(1)), Literal(NewFloat(1.0))), doc, doc)
	assert.True(ok)
}

func TestComparisonTextLessThanInteger(t *testing.T) {
	assert := assert.New(t)
	doc := NewNull()
	ok := evalFilterBool(Lt(Literal(NewText("1")), Literal(NewInt(1))), doc, doc)
	assert.False(ok)
}

func TestComparisonWithNothing(t *testing.T) {
	assert := assert.New(t)
	doc := NewNull()
	lengthOfNull := Length(Literal(NewNull()))

	eqNothing := evalFilterBool(Eq(lengthOfNull, Literal(NewInt(0))), doc, doc)
	assert.False(eqNothing)

	neNothing := evalFilterBool(Ne(lengthOfNull, Literal(NewInt(0))), doc, doc)
	assert.True(neNothing)

	ltNothing := evalFilterBool(Lt(lengthOfNull, Literal(NewInt(0))), doc, doc)
	assert.False(ltNothing)

	bothNothing := evalFilterBool(Eq(lengthOfNull, lengthOfNull), doc, doc)
	assert.True(bothNothing, "Nothing == Nothing is true")
}

func TestMatchRequiresFullMatch(t *testing.T) {
	assert := assert.New(t)
	expr, err := Match(Literal(NewText("hello")), "hel+o")
	assert.NoError(err)
	doc := NewNull()
	assert.True(evalFilterBool(expr, doc, doc))

	expr2, err := Match(Literal(NewText("xhello")), "hel+o")
	assert.NoError(err)
	assert.False(evalFilterBool(expr2, doc, doc))
}

func TestSearchAllowsSubstring(t *testing.T) {
	assert := assert.New(t)
	expr, err := Search(Literal(NewText("xhellox")), "hel+o")
	assert.NoError(err)
	doc := NewNull()
	assert.True(evalFilterBool(expr, doc, doc))
}

func TestMatchOnBytesIsUnspecifiedTreatedFalse(t *testing.T) {
	assert := assert.New(t)
	expr, err := Match(Literal(NewBytes([]byte("hello"))), "hello")
	assert.NoError(err)
	doc := NewNull()
	assert.False(evalFilterBool(expr, doc, doc))
}

func TestNestedAbsoluteInsideRelativeTestSeesGlobalRoot(t *testing.T) {
	assert := assert.New(t)

	// doc = {"flag": true, "items": [{"ok": false}]}. The outer filter's
	// current node is the one item; the Test's own relative sub-path
	// filters that item's entries by an absolute comparison ($.flag ==
	// true). That nested absolute lookup must resolve against the real
	// top-level document, not against the outer filter's current item.
	doc := NewMapEntries(
		MapEntry{Key: NewText("flag"), Value: NewBool(true)},
		MapEntry{Key: NewText("items"), Value: NewArray(
			NewMapEntries(MapEntry{Key: NewText("ok"), Value: NewBool(false)}),
		)},
	)

	flagIsTrue := Eq(
		&Comparable{Kind: ComparableSingularPath, Path: NewAbsolutePath().Child(Key(NewText("flag")))},
		Literal(NewBool(true)),
	)
	innerFilterOnItem := FilterSelector(flagIsTrue)
	nestedTest := Test(&Path{
		Root: RootRelative,
		Segments: []*Segment{
			{Kind: SegmentChild, Selectors: []*Selector{innerFilterOnItem}},
		},
	})

	outer := NewAbsolutePath().Child(Key(NewText("items"))).Child(FilterSelector(nestedTest))
	nodes := Evaluate(outer, doc)
	assert.Len(nodes, 1, "the item must pass: $.flag is true in the real document root")
}

func TestNestedAbsoluteCountInsideRelativePathSeesGlobalRoot(t *testing.T) {
	assert := assert.New(t)

	// doc = {"total": 2, "items": [{"n":1}, {"n":2}]}. Filtering items by
	// count($.items.*) == 2 must resolve $ against the whole document, not
	// the single item under test.
	doc := NewMapEntries(
		MapEntry{Key: NewText("total"), Value: NewInt(2)},
		MapEntry{Key: NewText("items"), Value: NewArray(
			NewMapEntries(MapEntry{Key: NewText("n"), Value: NewInt(1)}),
			NewMapEntries(MapEntry{Key: NewText("n"), Value: NewInt(2)}),
		)},
	)

	countMatches := Eq(
		Count(NewAbsolutePath().Child(Key(NewText("items"))).Child(Wildcard())),
		Literal(NewInt(2)),
	)

	p := NewAbsolutePath().Child(Key(NewText("items"))).Child(FilterSelector(countMatches))
	nodes := Evaluate(p, doc)
	assert.Len(nodes, 2, "both items must pass: count($.items.*) is 2 regardless of which item is current")
}

func TestAndOrShortCircuitSemantics(t *testing.T) {
	assert := assert.New(t)
	doc := NewNull()
	trueExpr := Eq(Literal(NewInt(1)), Literal(NewInt(1)))
	falseExpr := Eq(Literal(NewInt(1)), Literal(NewInt(2)))

	assert.True(evalFilterBool(And(trueExpr, trueExpr), doc, doc))
	assert.False(evalFilterBool(And(trueExpr, falseExpr), doc, doc))
	assert.True(evalFilterBool(Or(falseExpr, trueExpr), doc, doc))
	assert.False(evalFilterBool(Or(falseExpr, falseExpr), doc, doc))
	assert.True(evalFilterBool(Not(falseExpr), doc, doc))
}
