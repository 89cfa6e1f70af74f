// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cborpath

// Nodelist is an ordered, duplicate-preserving sequence of Nodes produced
// by evaluating a Path against an argument (spec §4.2). A Node is simply a
// *Value pointing into the (never mutated) argument tree — no copying.
type Nodelist []*Value

// Evaluate runs path against argument and returns the resulting nodelist.
// Evaluation never fails: a path that selects nothing yields an empty
// Nodelist (spec §4.6 — only Compile can error).
func Evaluate(path *Path, argument *Value) Nodelist {
	return evaluateFrom(path, argument, argument)
}

// evaluateFrom walks path starting at start, using root as the node any
// absolute ($) sub-path or sub-filter resolves against. Top-level Evaluate
// calls this with start == root == argument; a relative (@) Test or
// count() re-entering evaluation from inside a filter must keep the
// original root fixed rather than substituting its own start node for it
// (spec §4.3: "$ — always the original argument"), so it threads the
// outer root through unchanged instead of calling Evaluate again.
func evaluateFrom(path *Path, start, root *Value) Nodelist {
	nodes := Nodelist{start}
	for _, seg := range path.Segments {
		nodes = evalSegment(seg, nodes, root)
	}
	return nodes
}

// EvaluateBytes decodes both pathDoc and argumentDoc, compiles the path,
// and evaluates it — the fully-materialized convenience entry point named
// in SPEC_FULL.md's external interface.
func EvaluateBytes(pathDoc, argumentDoc []byte) (Nodelist, error) {
	path, err := Compile(pathDoc)
	if err != nil {
		return nil, err
	}
	argument, err := Decode(argumentDoc)
	if err != nil {
		return nil, err
	}
	return Evaluate(path, argument), nil
}

// evalSegment applies seg to every node in the input nodelist, in order,
// concatenating each node's results (spec §4.2).
func evalSegment(seg *Segment, input Nodelist, root *Value) Nodelist {
	var out Nodelist
	for _, node := range input {
		switch seg.Kind {
		case SegmentChild:
			for _, sel := range seg.Selectors {
				out = append(out, evalSelector(sel, node, root)...)
			}
		case SegmentDescendant:
			walkDescendants(node, func(n *Value) {
				for _, sel := range seg.Selectors {
					out = append(out, evalSelector(sel, n, root)...)
				}
			})
		}
	}
	return out
}

// walkDescendants visits node and every descendant of node, pre-order:
// node itself first, then its children's subtrees in order (spec §4.2,
// "descendant segment").
func walkDescendants(node *Value, visit func(*Value)) {
	visit(node)
	switch node.Kind {
	case KindArray:
		for _, e := range node.Array {
			walkDescendants(e, visit)
		}
	case KindMap:
		for _, e := range node.Map.Entries() {
			walkDescendants(e.Value, visit)
		}
	}
}

// evalSelector applies a single selector to node, returning the nodes it
// selects (spec §4.2's per-selector semantics). Any selector applied to a
// node of the wrong Kind yields no results, never an error.
func evalSelector(sel *Selector, node, root *Value) Nodelist {
	switch sel.Kind {
	case SelectorKey:
		if node.Kind != KindMap {
			return nil
		}
		if v, ok := node.Map.Get(sel.Key); ok {
			return Nodelist{v}
		}
		return nil

	case SelectorWildcard:
		switch node.Kind {
		case KindArray:
			out := make(Nodelist, len(node.Array))
			copy(out, node.Array)
			return out
		case KindMap:
			entries := node.Map.Entries()
			out := make(Nodelist, len(entries))
			for i, e := range entries {
				out[i] = e.Value
			}
			return out
		default:
			return nil
		}

	case SelectorIndex:
		if node.Kind != KindArray {
			return nil
		}
		i := normalizeIndex(sel.Index, len(node.Array))
		if i < 0 || i >= len(node.Array) {
			return nil
		}
		return Nodelist{node.Array[i]}

	case SelectorSlice:
		if node.Kind != KindArray {
			return nil
		}
		return evalSlice(sel.Slice, node.Array)

	case SelectorFilter:
		switch node.Kind {
		case KindArray:
			var out Nodelist
			for _, e := range node.Array {
				if evalFilterBool(sel.Filter, e, root) {
					out = append(out, e)
				}
			}
			return out
		case KindMap:
			var out Nodelist
			for _, e := range node.Map.Entries() {
				if evalFilterBool(sel.Filter, e.Value, root) {
					out = append(out, e.Value)
				}
			}
			return out
		default:
			return nil
		}

	default:
		return nil
	}
}

// normalizeIndex resolves a (possibly negative) index against a sequence
// of length n, counting from the end when negative (spec §3, Index
// selector).
func normalizeIndex(i int64, n int) int {
	if i >= 0 {
		return int(i)
	}
	return n + int(i)
}

// evalSlice implements Python/JSONPath-style slicing: step may be
// negative (reverses traversal direction); start/end default per step's
// sign, and are clamped to [0, n] (or [-1, n-1] for negative step) per
// spec §3, Slice selector.
func evalSlice(p SliceParams, arr []*Value) Nodelist {
	n := len(arr)
	step := p.Step

	var start, end int
	if step > 0 {
		start, end = 0, n
		if p.Start != nil {
			start = clampSliceIndex(*p.Start, n)
		}
		if p.End != nil {
			end = clampSliceIndex(*p.End, n)
		}
		var out Nodelist
		for i := start; i < end; i += int(step) {
			if i >= 0 && i < n {
				out = append(out, arr[i])
			}
		}
		return out
	}

	start, end = n-1, -1
	if p.Start != nil {
		start = clampSliceIndexLower(*p.Start, n)
	}
	if p.End != nil {
		end = clampSliceIndexLower(*p.End, n)
	}
	var out Nodelist
	for i := start; i > end; i += int(step) {
		if i >= 0 && i < n {
			out = append(out, arr[i])
		}
	}
	return out
}

// clampSliceIndex resolves and clamps a slice bound to [0, n] for a
// positive step.
func clampSliceIndex(i int64, n int) int {
	v := normalizeIndex(i, n)
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}

// clampSliceIndexLower resolves and clamps a slice bound to [-1, n-1] for
// a negative step.
func clampSliceIndexLower(i int64, n int) int {
	v := normalizeIndex(i, n)
	if v < -1 {
		return -1
	}
	if v > n-1 {
		return n - 1
	}
	return v
}
