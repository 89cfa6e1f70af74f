// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cborpath

// resolveSingularPath walks a SingularPath (one whose segments the
// compiler has already restricted to single-selector Key/Index child
// segments) directly, without building a general nodelist — the
// dedicated fast path spec §4.4/§9 calls for. It returns (nil, false)
// as soon as any step fails to resolve, representing Nothing.
func resolveSingularPath(p *Path, current, root *Value) (*Value, bool) {
	node := current
	if p.Root == RootAbsolute {
		node = root
	}

	for _, seg := range p.Segments {
		sel := seg.Selectors[0]
		switch sel.Kind {
		case SelectorKey:
			if node.Kind != KindMap {
				return nil, false
			}
			v, ok := node.Map.Get(sel.Key)
			if !ok {
				return nil, false
			}
			node = v

		case SelectorIndex:
			if node.Kind != KindArray {
				return nil, false
			}
			i := normalizeIndex(sel.Index, len(node.Array))
			if i < 0 || i >= len(node.Array) {
				return nil, false
			}
			node = node.Array[i]

		default:
			return nil, false
		}
	}
	return node, true
}
