package binspec

// SizeOf returns the static byte width of the schema if every node is
// statically sized, and ok=true. Otherwise ok=false ("unknown"). The
// oracle is informational only: Parse/Encode never consult it.
func (s *Schema) SizeOf() (size int, ok bool) {
	return sizeOfChain(s.head)
}

func sizeOfChain(head *Node) (int, bool) {
	total := 0
	for n := head; n != nil; n = n.next {
		sz, ok := sizeOfNode(n)
		if !ok {
			return 0, false
		}
		total += sz
	}
	return total, true
}

func sizeOfNode(n *Node) (int, bool) {
	switch n.kind {
	case KindEmpty, KindSaveOffset:
		return 0, true

	case KindSeek:
		if lit, isInt := n.opts.Length.(int); isInt {
			if lit < 0 {
				// negative seeks move backward; the oracle only sums
				// forward consumption, so a static schema with a
				// negative seek is not statically sized.
				return 0, false
			}
			return lit, true
		}
		return 0, false

	case KindString, KindBuffer:
		if n.opts.ZeroTerminated || n.opts.Greedy || n.opts.ReadUntil != nil {
			return 0, false
		}
		if lit, isInt := n.opts.Length.(int); isInt {
			return lit, true
		}
		return 0, false

	case KindArray:
		if n.opts.ReadUntil != nil || n.opts.LengthInBytes != nil {
			return 0, false
		}
		count, isInt := n.opts.Length.(int)
		if !isInt {
			return 0, false
		}
		elemSize, ok := typeRefStaticSize(n.opts.Type)
		if !ok {
			return 0, false
		}
		return count * elemSize, true

	case KindNest:
		return typeRefStaticSize(n.opts.Type)

	case KindBit, KindChoice, KindPointer:
		return 0, false

	default:
		if w, ok := n.kind.Width(); ok {
			return w, true
		}
		return 0, false
	}
}

// typeRefStaticSize resolves the static size of a `type` reference: an
// inline *Schema, a catalog kind name, or a registered alias. An
// unregistered alias name makes the size unknown rather than an error,
// since the oracle never fails the program, it just reports "unknown".
func typeRefStaticSize(typ any) (int, bool) {
	switch t := typ.(type) {
	case *Schema:
		return sizeOfChain(t.head)
	case string:
		if k, ok := resolveKindName(t); ok {
			return k.Width()
		}
		if alias, ok := resolveAlias(t); ok {
			return sizeOfChain(alias.head)
		}
		return 0, false
	default:
		return 0, false
	}
}
