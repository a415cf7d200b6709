package binspec

import "fmt"

// Kind tags a Node with the field type it decodes/encodes, identifying
// an explicit schema Node rather than an inferred Go type.
type Kind uint8

const (
	KindInvalid Kind = iota

	KindUint8
	KindInt8
	KindUint16BE
	KindUint16LE
	KindInt16BE
	KindInt16LE
	KindUint24BE
	KindUint24LE
	KindInt24BE
	KindInt24LE
	KindUint32BE
	KindUint32LE
	KindInt32BE
	KindInt32LE
	KindUint64BE
	KindUint64LE
	KindInt64BE
	KindInt64LE
	KindFloatBE // float32, big-endian
	KindFloatLE // float32, little-endian
	KindDoubleBE // float64, big-endian
	KindDoubleLE // float64, little-endian

	// Container/control kinds, not part of the numeric catalog but
	// tagged the same way so Node only needs one discriminator field.
	KindBit
	KindString
	KindBuffer
	KindArray
	KindChoice
	KindNest
	KindSeek
	KindPointer
	KindSaveOffset
	KindEmpty
)

// catalogEntry describes one numeric primitive kind: its fixed byte
// width and whether it is inherently big/little endian or endian-neutral
// (resolved against the schema's current default at build time).
type catalogEntry struct {
	name     string
	width    int // bytes; 0 for non-fixed-width kinds
	neutral  Kind // the endian-neutral family this kind belongs to, or KindInvalid
	isSigned bool
	isFloat  bool
}

var catalog = map[Kind]catalogEntry{
	KindUint8:    {name: "uint8", width: 1},
	KindInt8:     {name: "int8", width: 1, isSigned: true},
	KindUint16BE: {name: "uint16be", width: 2},
	KindUint16LE: {name: "uint16le", width: 2},
	KindInt16BE:  {name: "int16be", width: 2, isSigned: true},
	KindInt16LE:  {name: "int16le", width: 2, isSigned: true},
	KindUint24BE: {name: "uint24be", width: 3},
	KindUint24LE: {name: "uint24le", width: 3},
	KindInt24BE:  {name: "int24be", width: 3, isSigned: true},
	KindInt24LE:  {name: "int24le", width: 3, isSigned: true},
	KindUint32BE: {name: "uint32be", width: 4},
	KindUint32LE: {name: "uint32le", width: 4},
	KindInt32BE:  {name: "int32be", width: 4, isSigned: true},
	KindInt32LE:  {name: "int32le", width: 4, isSigned: true},
	KindUint64BE: {name: "uint64be", width: 8},
	KindUint64LE: {name: "uint64le", width: 8},
	KindInt64BE:  {name: "int64be", width: 8, isSigned: true},
	KindInt64LE:  {name: "int64le", width: 8, isSigned: true},
	KindFloatBE:  {name: "floatbe", width: 4, isFloat: true},
	KindFloatLE:  {name: "floatle", width: 4, isFloat: true},
	KindDoubleBE: {name: "doublebe", width: 8, isFloat: true},
	KindDoubleLE: {name: "doublele", width: 8, isFloat: true},
}

// catalogByName resolves a catalog kind's textual name (used wherever a
// `type` option accepts "a catalog kind name", e.g. array/choice/nest
// element types expressed as strings).
var catalogByName map[string]Kind

func init() {
	catalogByName = make(map[string]Kind, len(catalog))
	for k, e := range catalog {
		catalogByName[e.name] = k
	}
}

// String renders a Kind as its catalog name for numeric kinds, or a
// short tag for container/control kinds.
func (k Kind) String() string {
	if e, ok := catalog[k]; ok {
		return e.name
	}
	switch k {
	case KindBit:
		return "bit"
	case KindString:
		return "string"
	case KindBuffer:
		return "buffer"
	case KindArray:
		return "array"
	case KindChoice:
		return "choice"
	case KindNest:
		return "nest"
	case KindSeek:
		return "seek"
	case KindPointer:
		return "pointer"
	case KindSaveOffset:
		return "saveOffset"
	case KindEmpty:
		return "empty"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Width returns the fixed byte width of a numeric catalog kind, or
// (0, false) for anything without a static width.
func (k Kind) Width() (int, bool) {
	e, ok := catalog[k]
	if !ok {
		return 0, false
	}
	return e.width, true
}

// isNumeric reports whether k is one of the fixed-width numeric catalog
// kinds (as opposed to a container/control kind).
func (k Kind) isNumeric() bool {
	_, ok := catalog[k]
	return ok
}

// resolveKindName looks up a catalog kind by its builder-facing name,
// e.g. "uint16le". Used when a `type` option is given as a string.
func resolveKindName(name string) (Kind, bool) {
	k, ok := catalogByName[name]
	return k, ok
}

// Catalog lists the names of every numeric primitive kind in the
// catalog, in no particular order. Only names are returned; the width
// and endianness of each kind are not included.
func Catalog() []string {
	names := make([]string, 0, len(catalog))
	for _, e := range catalog {
		names = append(names, e.name)
	}
	return names
}
