// Package binspec implements a hierarchical binary format description
// engine: compose a Schema with a chainable builder, then Parse a byte
// buffer into a Record or Encode a Record back into bytes.
//
// A Schema describes one structure as a chain of Nodes:
//
//	s := binspec.Start().
//		Uint8("count").
//		Array("items", binspec.ArrayOpts{Length: "count", Type: "uint16le"})
//
//	rec, err := s.Parse([]byte{0x02, 0x01, 0x00, 0x02, 0x00})
//	// rec["count"] == uint8(2), rec["items"] == []any{uint16(1), uint16(2)}
//
//	out, err := s.Encode(rec)
//
// Bit-packed fields, variable-length containers, discriminated unions,
// forward-referencing named schemas, and absolute pointer redirection are
// all expressed through the same chain; see the doc comments on Schema's
// builder methods and on Options.
package binspec
