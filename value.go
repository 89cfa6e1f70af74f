// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
//
// This file is a derived work, based on the github.com/fxamacker/cbor whose
// original notices appear in decode.go and encode.go.

package cborpath

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind is the tag of a Value's variant, per the CBOR Value data model
// (RFC 8949 major types, with Tag unwrapped transparently into the inner
// Kind).
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindText
	KindBytes
	KindBool
	KindNull
	KindArray
	KindMap
)

// String returns a human-readable name for k.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is a CBOR value as seen by the path engine: a tagged union that
// treats a CBOR Tag as transparent (the Kind and fields below always
// describe the innermost, un-tagged value; Tags records the tag numbers
// that wrapped it, outermost first, for round-trip fidelity only).
//
// A Value is immutable once constructed by Decode or the New* helpers.
// A Node, per the engine's data model, is simply a *Value pointing into
// an argument tree that was decoded once and never mutated afterwards.
type Value struct {
	Kind Kind

	Int    int64
	BigInt *big.Int // non-nil only when Int overflows int64/uint64
	Float  float64
	Text   string
	Bytes  []byte
	Bool   bool

	Array []*Value
	Map   *OrderedMap

	Tags []uint64
}

// MapEntry is a single (key, value) pair of an OrderedMap, retaining the
// position it was inserted at.
type MapEntry struct {
	Key   *Value
	Value *Value
}

// OrderedMap is a CBOR Map: an ordered sequence of (key, value) pairs with
// arbitrary Value keys and enforced key uniqueness, per the CBORPath data
// model (spec §3). Lookups use CBOR equality (§4.5), not Go's ==.
type OrderedMap struct {
	entries []MapEntry
}

// NewOrderedMap builds an OrderedMap from entries in insertion order.
// It panics if two entries share an equal key, mirroring the "key
// uniqueness required" invariant of the CBOR Map variant.
func NewOrderedMap(entries ...MapEntry) *OrderedMap {
	m := &OrderedMap{}
	for _, e := range entries {
		if _, ok := m.Get(e.Key); ok {
			panic(fmt.Sprintf("cborpath: duplicate map key %s", e.Key.String()))
		}
		m.entries = append(m.entries, e)
	}
	return m
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the (key, value) pairs in insertion order. The returned
// slice must not be mutated.
func (m *OrderedMap) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Get looks up key by CBOR equality (§4.5) and returns its value in
// insertion-order priority (first match wins, though keys are unique by
// construction).
func (m *OrderedMap) Get(key *Value) (*Value, bool) {
	if m == nil {
		return nil, false
	}
	for _, e := range m.entries {
		if Equal(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Constructors.

func NewInt(i int64) *Value { return &Value{Kind: KindInt, Int: i} }

// NewBigInt wraps an arbitrary-width integer, used for CBOR integers that
// overflow int64/uint64 (RFC 8949's unbounded-width semantics).
func NewBigInt(i *big.Int) *Value {
	if i.IsInt64() {
		return NewInt(i.Int64())
	}
	return &Value{Kind: KindInt, BigInt: i}
}

func NewFloat(f float64) *Value        { return &Value{Kind: KindFloat, Float: f} }
func NewText(s string) *Value          { return &Value{Kind: KindText, Text: s} }
func NewBytes(b []byte) *Value         { return &Value{Kind: KindBytes, Bytes: b} }
func NewBool(b bool) *Value            { return &Value{Kind: KindBool, Bool: b} }
func NewNull() *Value                  { return &Value{Kind: KindNull} }
func NewArray(elems ...*Value) *Value  { return &Value{Kind: KindArray, Array: elems} }
func NewMap(m *OrderedMap) *Value      { return &Value{Kind: KindMap, Map: m} }
func NewMapEntries(e ...MapEntry) *Value {
	return &Value{Kind: KindMap, Map: NewOrderedMap(e...)}
}

// IsNaN reports whether v is a Float NaN.
func (v *Value) IsNaN() bool {
	return v != nil && v.Kind == KindFloat && math.IsNaN(v.Float)
}

// asBigFloat renders a numeric Value (Int/BigInt/Float) as a *big.Float
// suitable for exact cross-representation comparison.
func (v *Value) asBigFloat() *big.Float {
	switch {
	case v.BigInt != nil:
		return new(big.Float).SetInt(v.BigInt)
	case v.Kind == KindInt:
		return new(big.Float).SetInt64(v.Int)
	default:
		return big.NewFloat(v.Float)
	}
}

// numericEqual compares two numeric Values (Int/Float, possibly BigInt)
// by value, per §4.5: Integer and Float compare by numeric value, NaN is
// unequal to everything (including itself), and two same-sign infinities
// compare equal like any other pair of equal magnitudes — consistent with
// Compare's ordering, which reports EqualTo for that same pair.
func numericEqual(a, b *Value) bool {
	if a.IsNaN() || b.IsNaN() {
		return false
	}
	if a.BigInt == nil && b.BigInt == nil && a.Kind == KindInt && b.Kind == KindInt {
		return a.Int == b.Int
	}
	return a.asBigFloat().Cmp(b.asBigFloat()) == 0
}

// Equal implements CBOR equality (§4.5): same-variant equality, except
// Integer/Float compare numerically, NaN is unequal to everything, Arrays
// compare element-wise, and Maps compare by key-set + per-key value
// (insertion order irrelevant).
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	numA := a.Kind == KindInt || a.Kind == KindFloat
	numB := b.Kind == KindInt || b.Kind == KindFloat
	if numA && numB {
		return numericEqual(a, b)
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindText:
		return a.Text == b.Text
	case KindBytes:
		return string(a.Bytes) == string(b.Bytes)
	case KindBool:
		return a.Bool == b.Bool
	case KindNull:
		return true
	case KindArray:
		if len(a.Array) != len(b.Array) {
			return false
		}
		for i := range a.Array {
			if !Equal(a.Array[i], b.Array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if a.Map.Len() != b.Map.Len() {
			return false
		}
		for _, e := range a.Map.Entries() {
			bv, ok := b.Map.Get(e.Key)
			if !ok || !Equal(e.Value, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Ordering is the result of comparing two Values per §4.5's ordering
// rules. Ok is false when the pair has no defined ordering (mismatched
// non-numeric/non-text/non-bytes kinds, or a NaN operand).
type Ordering struct {
	Less, EqualTo, Greater bool
	Ok                    bool
}

// Compare implements the ordering relation of §4.5: defined only for
// numeric pairs (NaN making every comparison false), and for Text-Text or
// Bytes-Bytes pairs (lexicographic). Any other pairing yields Ok=false,
// meaning every ordering operator evaluates to false.
func Compare(a, b *Value) Ordering {
	numA := a.Kind == KindInt || a.Kind == KindFloat
	numB := b.Kind == KindInt || b.Kind == KindFloat
	switch {
	case numA && numB:
		if a.IsNaN() || b.IsNaN() {
			return Ordering{}
		}
		c := a.asBigFloat().Cmp(b.asBigFloat())
		return Ordering{Less: c < 0, EqualTo: c == 0, Greater: c > 0, Ok: true}
	case a.Kind == KindText && b.Kind == KindText:
		c := strings.Compare(a.Text, b.Text)
		return Ordering{Less: c < 0, EqualTo: c == 0, Greater: c > 0, Ok: true}
	case a.Kind == KindBytes && b.Kind == KindBytes:
		c := compareBytes(a.Bytes, b.Bytes)
		return Ordering{Less: c < 0, EqualTo: c == 0, Greater: c > 0, Ok: true}
	default:
		return Ordering{}
	}
}

func compareBytes(a, b []byte) int {
	la, lb := len(a), len(b)
	n := la
	if lb < n {
		n = lb
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	default:
		return 0
	}
}

// String renders v as a compact, JSON-like diagnostic string. It is not a
// CBOR diagnostic-notation encoder; it exists purely for error messages
// and debugging, mirroring the teacher's Node.String().
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	var b strings.Builder
	v.writeString(&b)
	return b.String()
}

func (v *Value) writeString(b *strings.Builder) {
	switch v.Kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindInt:
		if v.BigInt != nil {
			b.WriteString(v.BigInt.String())
		} else {
			b.WriteString(strconv.FormatInt(v.Int, 10))
		}
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case KindText:
		b.WriteString(strconv.Quote(v.Text))
	case KindBytes:
		b.WriteString("h'")
		for _, by := range v.Bytes {
			fmt.Fprintf(b, "%02x", by)
		}
		b.WriteString("'")
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.Array {
			if i > 0 {
				b.WriteString(", ")
			}
			e.writeString(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, e := range v.Map.Entries() {
			if i > 0 {
				b.WriteString(", ")
			}
			e.Key.writeString(b)
			b.WriteString(": ")
			e.Value.writeString(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("<invalid>")
	}
}
