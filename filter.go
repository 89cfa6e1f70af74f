// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cborpath

// evalFilterBool evaluates a filter's boolean expression against current
// (the node being tested) with root available for absolute sub-paths
// (spec §4.3). Evaluation never errors; a malformed or inapplicable
// operand simply evaluates to false or to Nothing, per the usual
// short-circuit rules below.
func evalFilterBool(expr *BoolExpr, current, root *Value) bool {
	switch expr.Kind {
	case BoolAnd:
		for _, op := range expr.Operands {
			if !evalFilterBool(op, current, root) {
				return false
			}
		}
		return true

	case BoolOr:
		for _, op := range expr.Operands {
			if evalFilterBool(op, current, root) {
				return true
			}
		}
		return false

	case BoolNot:
		return !evalFilterBool(expr.Operands[0], current, root)

	case BoolTest:
		start := pickStart(expr.TestPath, current, root)
		return len(evaluateFrom(expr.TestPath, start, root)) > 0

	case BoolCompare:
		left, leftOk := evalComparable(expr.Left, current, root)
		right, rightOk := evalComparable(expr.Right, current, root)
		return evalComparison(expr.CompareOp, left, leftOk, right, rightOk)

	case BoolMatch, BoolSearch:
		v, ok := evalComparable(expr.MatchValue, current, root)
		if !ok || v.Kind != KindText {
			return false
		}
		return expr.Regex.MatchString(v.Text)

	default:
		return false
	}
}

// pickStart resolves which node a nested Path's evaluation should start
// from: an absolute ($) path always starts at the overall argument root;
// a relative (@) path starts at the filter's current node. Either way,
// the original root stays available separately for that sub-path's own
// nested absolute sub-expressions — see evaluateFrom.
func pickStart(p *Path, current, root *Value) *Value {
	if p.Root == RootAbsolute {
		return root
	}
	return current
}

// evalComparable evaluates a Comparable to a Value, or reports false
// (Nothing, per spec §4.3/§4.5) when a SingularPath resolves to no node
// or length() is applied to a non-applicable Kind. count() always yields
// a value, 0 for an empty nodelist.
func evalComparable(c *Comparable, current, root *Value) (*Value, bool) {
	switch c.Kind {
	case ComparableLiteral:
		return c.Literal, true

	case ComparableSingularPath:
		return resolveSingularPath(c.Path, current, root)

	case ComparableFuncLength:
		inner, ok := evalComparable(c.Inner, current, root)
		if !ok {
			return nil, false
		}
		return funcLength(inner)

	case ComparableFuncCount:
		start := pickStart(c.Path, current, root)
		nodes := evaluateFrom(c.Path, start, root)
		return NewInt(int64(len(nodes))), true

	default:
		return nil, false
	}
}

// funcLength implements length(), per spec §4.3: the character count of a
// Text value, the byte count of a Bytes value, or the element/entry count
// of an Array/Map. Any other Kind has no length, yielding Nothing.
func funcLength(v *Value) (*Value, bool) {
	switch v.Kind {
	case KindText:
		return NewInt(int64(len([]rune(v.Text)))), true
	case KindBytes:
		return NewInt(int64(len(v.Bytes))), true
	case KindArray:
		return NewInt(int64(len(v.Array))), true
	case KindMap:
		return NewInt(int64(v.Map.Len())), true
	default:
		return nil, false
	}
}

// evalComparison implements the six comparison operators over two
// (possibly-Nothing) Comparable results, per spec §4.5: == and != treat
// a present/absent mismatch and Nothing==Nothing specially, while the
// four ordering operators are always false whenever either side is
// absent or the pair has no defined ordering.
func evalComparison(op CompareOp, left *Value, leftOk bool, right *Value, rightOk bool) bool {
	switch op {
	case CompareEq:
		if !leftOk || !rightOk {
			return !leftOk && !rightOk
		}
		return Equal(left, right)
	case CompareNe:
		if !leftOk || !rightOk {
			return !(!leftOk && !rightOk)
		}
		return !Equal(left, right)
	default:
		if !leftOk || !rightOk {
			return false
		}
		ord := Compare(left, right)
		if !ord.Ok {
			return false
		}
		switch op {
		case CompareLt:
			return ord.Less
		case CompareLe:
			return ord.Less || ord.EqualTo
		case CompareGt:
			return ord.Greater
		case CompareGe:
			return ord.Greater || ord.EqualTo
		default:
			return false
		}
	}
}
