package binspec

// Endianness selects byte order for endian-neutral numeric fields and
// which end of a packed bit run the first named field occupies (the
// packed value itself is always read big-endian).
type Endianness int

const (
	// BigEndian is the schema default unless overridden by Endianness().
	BigEndian Endianness = iota
	LittleEndian
)

func (e Endianness) String() string {
	if e == LittleEndian {
		return "little"
	}
	return "big"
}

// BufferReadUntil scans a buffer byte by byte; it is called with the
// byte just read and the slice still remaining after it, and returns
// true to stop.
type BufferReadUntil func(b byte, remaining []byte) bool

// ArrayReadUntilDecode is evaluated after each array item is decoded; it
// receives the just-decoded item and the buffer remaining after it, and
// returns true to stop the container.
type ArrayReadUntilDecode func(item any, remaining []byte) bool

// ArrayReadUntilEncode mirrors ArrayReadUntilDecode for encoding: called
// with the just-encoded item and a snapshot of the sink written so far.
type ArrayReadUntilEncode func(item any, sinkSoFar []byte) bool

// EncodeUntil halts encoding of a container after the current item.
type EncodeUntil func(item any, record Record) bool

// Formatter replaces a decoded value before it is stored in the record.
type Formatter func(value any, fullBuffer []byte, offsetAfterField int) any

// Encoder transforms a value immediately prior to encoding; the
// original value is restored once the field has been written.
type Encoder func(value any, record Record) any

// AssertPredicate is the predicate form of the `assert` option; Parse
// calls it with the enclosing record and the just-decoded value. A falsy
// return raises AssertFailed. Encode does not call it.
type AssertPredicate func(record Record, value any) bool

// IntField computes an integer (length, offset, tag, ...) from the
// partially decoded record. Used for every late-bound integer option:
// `length`, `lengthInBytes`, `offset`, and `tag`.
type IntField func(record Record) int64

// eofSentinel is the `readUntil: "eof"` value meaning "read to end of
// buffer". It is not accepted as a `length` value.
const eofSentinel = "eof"

// Options holds every per-node option the builder accepts. Only the
// subset valid for a given Node's Kind is populated; validate.go enforces
// the allowed combinations as build-time errors.
type Options struct {
	Length         any // int | string (field name) | IntField
	LengthInBytes  any // int | string | IntField
	ZeroTerminated bool
	Greedy         bool
	StripNull      bool
	Trim           bool
	Encoding       string

	ReadUntil    any // "eof" | BufferReadUntil | ArrayReadUntilDecode
	EncodeUntil  any // ArrayReadUntilEncode | EncodeUntil

	Type any // string (catalog/alias name) | *Schema

	Key string // array: group decoded items into a map keyed by this subfield

	Tag           any // string (field name) | IntField
	Choices       map[int64]any
	DefaultChoice any

	Offset any // int | string | IntField, for pointer

	Formatter Formatter
	Encoder   Encoder

	Assert any // int64 | string | AssertPredicate

	Padd    byte   // fixed-width string pad byte; defaults to ' ' (0x20)
	Padding string // "left" | "right"

	Clone bool

	SmartBufferSize int

	VarName string // nest: name of the subrecord field; "" merges into parent

	BitWidth int // bit: width in bits, 1..32
}

// Node is one link in a Schema's chain. Once appended a Node keeps its
// place in the chain, though per-field modifiers (Formatter, Assert,
// Padding, ...) update the last-appended Node's options in place;
// Schema.compile() walks them to build the decode/encode plan.
type Node struct {
	kind          Kind
	name          string
	endianDefault Endianness
	opts          Options
	next          *Node
}
