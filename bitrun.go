package binspec

import "github.com/kungfusheep/binspec/byteio"

// A bit run is a maximal consecutive subchain of `bit` Nodes, tolerating
// `nest` Nodes sandwiched inside without breaking the run. bitrun.go
// holds the arithmetic shared by the decode and encode planners;
// decode.go/encode.go own the actual buffer I/O sequencing.

// bitFieldSpec describes one named field within a run: its width and its
// cumulative bit offset among the run's Bit members, in source order
// (Nest members contribute 0 to the cumulative count).
type bitFieldSpec struct {
	node       *Node
	width      int
	cumulative int
}

// isBitRunMember reports whether n can appear inside an in-progress bit
// run without breaking it.
func isBitRunMember(n *Node) bool {
	return n.kind == KindBit || n.kind == KindNest
}

// scanBitRun walks nodes starting at a Bit node (start) and returns the
// exclusive end index of the maximal run, the ordered Bit field specs,
// and the raw (un-rounded) total bit width.
func scanBitRun(nodes []*Node, start int) (end int, fields []bitFieldSpec, total int) {
	cumulative := 0
	i := start
	for i < len(nodes) && isBitRunMember(nodes[i]) {
		if nodes[i].kind == KindBit {
			w := nodes[i].opts.BitWidth
			fields = append(fields, bitFieldSpec{node: nodes[i], width: w, cumulative: cumulative})
			cumulative += w
		}
		i++
	}
	return i, fields, cumulative
}

// roundUpBitWidth rounds a total bit width up to the next packed
// container size the engine supports.
func roundUpBitWidth(total int) (int, error) {
	switch {
	case total <= 0:
		return 0, nil
	case total <= 8:
		return 8, nil
	case total <= 16:
		return 16, nil
	case total <= 24:
		return 24, nil
	case total <= 32:
		return 32, nil
	default:
		return 0, &BitSequenceTooLong{Width: total}
	}
}

// bitFieldShift computes the shift amount for a field of the given width
// at the given cumulative offset, within a packed container of `rounded`
// bits total. With BigEndian the first field (lowest cumulative) takes
// the most significant bits; with LittleEndian it takes the least
// significant bits.
func bitFieldShift(endian Endianness, rounded, cumulative, width int) int {
	if endian == LittleEndian {
		return cumulative
	}
	return rounded - cumulative - width
}

func bitFieldMask(width int) uint32 {
	return (uint32(1) << uint(width)) - 1
}

// readPackedBits reads `rounded` bits (8/16/24/32) as a big-endian
// unsigned integer: bit fields always read a packed uint8/uint16/
// uint24/uint32 in big-endian byte order, regardless of the schema's
// default.
func readPackedBits(r *byteio.Reader, rounded int) uint32 {
	switch rounded {
	case 8:
		return uint32(r.ReadUint8())
	case 16:
		return uint32(r.ReadUint16BE())
	case 24:
		return r.ReadUint24BE()
	case 32:
		return r.ReadUint32BE()
	default:
		return 0
	}
}

// writePackedBits writes `rounded` bits big-endian, splitting 24-bit
// containers into a 16-bit high part and an 8-bit low part.
func writePackedBits(w *byteio.Writer, rounded int, value uint32) {
	switch rounded {
	case 8:
		w.AppendUint8(uint8(value))
	case 16:
		w.AppendUint16BE(uint16(value))
	case 24:
		w.AppendUint16BE(uint16(value >> 8))
		w.AppendUint8(uint8(value))
	case 32:
		w.AppendUint32BE(value)
	}
}
