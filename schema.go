package binspec

// Schema is a head/tail reference into a chain of Nodes. The value
// returned by Start is the root; every chain method returns the same
// *Schema so calls compose.
type Schema struct {
	head *Node
	tail *Node

	endianDefault Endianness
	alias         string
	ctor          Constructor

	compiled *plan
}

// Constructor wraps a decoded root Record into a caller-supplied value,
// set via Schema.Create.
type Constructor func(Record) any

// Start returns a new root Schema with big-endian as the default.
func Start() *Schema {
	return &Schema{endianDefault: BigEndian}
}

// Endianness switches the schema's current default ("big" or "little").
// It affects endian-neutral builder methods and bit-field extraction
// order for nodes appended afterward; already-appended nodes keep the
// default that was active when they were appended.
func (s *Schema) Endianness(dir string) *Schema {
	switch dir {
	case "big":
		s.endianDefault = BigEndian
	case "little":
		s.endianDefault = LittleEndian
	default:
		buildErrorf(KindInvalid, "", "endianness must be \"big\" or \"little\", got %q", dir)
	}
	return s
}

// Create installs a constructor applied to the root record by
// Schema.Build after a successful Parse.
func (s *Schema) Create(ctor Constructor) *Schema {
	s.ctor = ctor
	return s
}

// push appends n to the chain, stamping it with the schema's current
// endian default, and invalidates any compiled plan.
func (s *Schema) push(n *Node) *Schema {
	n.endianDefault = s.endianDefault
	if s.head == nil {
		s.head = n
		s.tail = n
	} else {
		s.tail.next = n
		s.tail = n
	}
	s.compiled = nil
	return s
}

func (s *Schema) appendPrimitive(kind Kind, name string) *Schema {
	validateNode(kind, name, Options{})
	return s.push(&Node{kind: kind, name: name})
}

// --- explicit-endian numeric primitives ---

func (s *Schema) Uint8(name string) *Schema  { return s.appendPrimitive(KindUint8, name) }
func (s *Schema) Int8(name string) *Schema   { return s.appendPrimitive(KindInt8, name) }

func (s *Schema) Uint16be(name string) *Schema { return s.appendPrimitive(KindUint16BE, name) }
func (s *Schema) Uint16le(name string) *Schema { return s.appendPrimitive(KindUint16LE, name) }
func (s *Schema) Int16be(name string) *Schema  { return s.appendPrimitive(KindInt16BE, name) }
func (s *Schema) Int16le(name string) *Schema  { return s.appendPrimitive(KindInt16LE, name) }

func (s *Schema) Uint24be(name string) *Schema { return s.appendPrimitive(KindUint24BE, name) }
func (s *Schema) Uint24le(name string) *Schema { return s.appendPrimitive(KindUint24LE, name) }
func (s *Schema) Int24be(name string) *Schema  { return s.appendPrimitive(KindInt24BE, name) }
func (s *Schema) Int24le(name string) *Schema  { return s.appendPrimitive(KindInt24LE, name) }

func (s *Schema) Uint32be(name string) *Schema { return s.appendPrimitive(KindUint32BE, name) }
func (s *Schema) Uint32le(name string) *Schema { return s.appendPrimitive(KindUint32LE, name) }
func (s *Schema) Int32be(name string) *Schema  { return s.appendPrimitive(KindInt32BE, name) }
func (s *Schema) Int32le(name string) *Schema  { return s.appendPrimitive(KindInt32LE, name) }

func (s *Schema) Uint64be(name string) *Schema { return s.appendPrimitive(KindUint64BE, name) }
func (s *Schema) Uint64le(name string) *Schema { return s.appendPrimitive(KindUint64LE, name) }
func (s *Schema) Int64be(name string) *Schema  { return s.appendPrimitive(KindInt64BE, name) }
func (s *Schema) Int64le(name string) *Schema  { return s.appendPrimitive(KindInt64LE, name) }

func (s *Schema) Floatbe(name string) *Schema  { return s.appendPrimitive(KindFloatBE, name) }
func (s *Schema) Floatle(name string) *Schema  { return s.appendPrimitive(KindFloatLE, name) }
func (s *Schema) Doublebe(name string) *Schema { return s.appendPrimitive(KindDoubleBE, name) }
func (s *Schema) Doublele(name string) *Schema { return s.appendPrimitive(KindDoubleLE, name) }

// --- endian-neutral primitives: resolved against the schema's current
// default at the point they're appended ---

func (s *Schema) neutral(be, le Kind, name string) *Schema {
	if s.endianDefault == LittleEndian {
		return s.appendPrimitive(le, name)
	}
	return s.appendPrimitive(be, name)
}

func (s *Schema) Uint16(name string) *Schema { return s.neutral(KindUint16BE, KindUint16LE, name) }
func (s *Schema) Int16(name string) *Schema  { return s.neutral(KindInt16BE, KindInt16LE, name) }
func (s *Schema) Uint24(name string) *Schema { return s.neutral(KindUint24BE, KindUint24LE, name) }
func (s *Schema) Int24(name string) *Schema  { return s.neutral(KindInt24BE, KindInt24LE, name) }
func (s *Schema) Uint32(name string) *Schema { return s.neutral(KindUint32BE, KindUint32LE, name) }
func (s *Schema) Int32(name string) *Schema  { return s.neutral(KindInt32BE, KindInt32LE, name) }
func (s *Schema) Uint64(name string) *Schema { return s.neutral(KindUint64BE, KindUint64LE, name) }
func (s *Schema) Int64(name string) *Schema  { return s.neutral(KindInt64BE, KindInt64LE, name) }
func (s *Schema) Float(name string) *Schema  { return s.neutral(KindFloatBE, KindFloatLE, name) }
func (s *Schema) Double(name string) *Schema { return s.neutral(KindDoubleBE, KindDoubleLE, name) }

// --- bit fields ---

// Bit appends a named field occupying width bits (1..32) of the current
// bit run. A single parameterized method covers every width, with
// convenience wrappers for the common ones, rather than thirty-two
// near-identical forwarders.
func (s *Schema) Bit(name string, width int) *Schema {
	opts := Options{BitWidth: width}
	validateNode(KindBit, name, opts)
	return s.push(&Node{kind: KindBit, name: name, opts: opts})
}

func (s *Schema) Bit1(name string) *Schema  { return s.Bit(name, 1) }
func (s *Schema) Bit2(name string) *Schema  { return s.Bit(name, 2) }
func (s *Schema) Bit3(name string) *Schema  { return s.Bit(name, 3) }
func (s *Schema) Bit4(name string) *Schema  { return s.Bit(name, 4) }
func (s *Schema) Bit5(name string) *Schema  { return s.Bit(name, 5) }
func (s *Schema) Bit6(name string) *Schema  { return s.Bit(name, 6) }
func (s *Schema) Bit7(name string) *Schema  { return s.Bit(name, 7) }
func (s *Schema) Bit8(name string) *Schema  { return s.Bit(name, 8) }
func (s *Schema) Bit16(name string) *Schema { return s.Bit(name, 16) }
func (s *Schema) Bit24(name string) *Schema { return s.Bit(name, 24) }
func (s *Schema) Bit32(name string) *Schema { return s.Bit(name, 32) }

// --- string ---

// StringOpts configures a `string` field.
type StringOpts struct {
	Length         any // int | string (field name) | IntField
	ZeroTerminated bool
	Greedy         bool
	StripNull      bool
	Trim           bool
	Encoding       string
}

func (s *Schema) String(name string, opts StringOpts) *Schema {
	o := Options{
		Length:         opts.Length,
		ZeroTerminated: opts.ZeroTerminated,
		Greedy:         opts.Greedy,
		StripNull:      opts.StripNull,
		Trim:           opts.Trim,
		Encoding:       opts.Encoding,
		Padd:           ' ',
	}
	validateNode(KindString, name, o)
	return s.push(&Node{kind: KindString, name: name, opts: o})
}

// --- buffer ---

// BufferOpts configures a `buffer` field.
type BufferOpts struct {
	Length    any // int | string | IntField
	ReadUntil any // "eof" | BufferReadUntil
	Clone     bool
}

func (s *Schema) Buffer(name string, opts BufferOpts) *Schema {
	o := Options{Length: opts.Length, ReadUntil: opts.ReadUntil, Clone: opts.Clone}
	validateNode(KindBuffer, name, o)
	return s.push(&Node{kind: KindBuffer, name: name, opts: o})
}

// --- array ---

// ArrayOpts configures an `array` field.
type ArrayOpts struct {
	Length        any // int | string | IntField
	LengthInBytes any // int | string | IntField
	ReadUntil     any // "eof" | ArrayReadUntilDecode, paired with EncodeUntil/ArrayReadUntilEncode on encode
	EncodeUntil   any // EncodeUntil | ArrayReadUntilEncode
	Type          any // string (catalog/alias name) | *Schema
	Key           string
}

func (s *Schema) Array(name string, opts ArrayOpts) *Schema {
	o := Options{
		Length:        opts.Length,
		LengthInBytes: opts.LengthInBytes,
		ReadUntil:     opts.ReadUntil,
		EncodeUntil:   opts.EncodeUntil,
		Type:          opts.Type,
		Key:           opts.Key,
	}
	validateNode(KindArray, name, o)
	return s.push(&Node{kind: KindArray, name: name, opts: o})
}

// --- choice ---

// ChoiceOpts configures a `choice` field.
type ChoiceOpts struct {
	Tag           any // string (field name) | IntField
	Choices       map[int64]any
	DefaultChoice any
}

func (s *Schema) Choice(name string, opts ChoiceOpts) *Schema {
	o := Options{Tag: opts.Tag, Choices: opts.Choices, DefaultChoice: opts.DefaultChoice}
	validateNode(KindChoice, name, o)
	return s.push(&Node{kind: KindChoice, name: name, opts: o})
}

// --- nest ---

func (s *Schema) Nest(varName string, typ any) *Schema {
	o := Options{Type: typ, VarName: varName}
	validateNode(KindNest, varName, o)
	return s.push(&Node{kind: KindNest, name: varName, opts: o})
}

// --- seek / skip ---

func (s *Schema) Seek(length int) *Schema {
	o := Options{Length: length}
	validateNode(KindSeek, "", o)
	return s.push(&Node{kind: KindSeek, opts: o})
}

// Skip is an alias for Seek.
func (s *Schema) Skip(length int) *Schema { return s.Seek(length) }

// --- pointer ---

// PointerOpts configures a `pointer` field.
type PointerOpts struct {
	Offset any // int | string | IntField
	Type   any // string (catalog/alias name) | *Schema
}

func (s *Schema) Pointer(name string, opts PointerOpts) *Schema {
	o := Options{Offset: opts.Offset, Type: opts.Type}
	validateNode(KindPointer, name, o)
	return s.push(&Node{kind: KindPointer, name: name, opts: o})
}

// --- saveOffset ---

func (s *Schema) SaveOffset(name string) *Schema {
	validateNode(KindSaveOffset, name, Options{})
	return s.push(&Node{kind: KindSaveOffset, name: name})
}

// --- per-field modifiers: formatter/encoder/assert/padding/etc. apply to
// the most recently appended node ---

// Formatter attaches a decode-time value transform to the last-appended
// node.
func (s *Schema) Formatter(fn Formatter) *Schema {
	s.requireTail("formatter").opts.Formatter = fn
	return s
}

// EncoderFn attaches an encode-time pre-transform to the last-appended
// node. Named EncoderFn (not Encoder) to avoid colliding with the
// Encoder func type.
func (s *Schema) EncoderFn(fn Encoder) *Schema {
	s.requireTail("encoder").opts.Encoder = fn
	return s
}

// Assert attaches an assertion to the last-appended node: v is either a
// literal int64/string to compare for equality, or an AssertPredicate.
func (s *Schema) Assert(v any) *Schema {
	n := s.requireTail("assert")
	if n.kind == KindSeek {
		buildErrorf(KindSeek, n.name, "seek forbids assert")
	}
	n.opts.Assert = v
	return s
}

// Padding sets fixed-width string padding: padd is the pad byte (space,
// 0x20, unless overridden here), side is "left" or "right" (default
// "right").
func (s *Schema) Padding(padd byte, side string) *Schema {
	n := s.requireTail("padding")
	if side != "" && side != "left" && side != "right" {
		buildErrorf(n.kind, n.name, "padding must be \"left\" or \"right\", got %q", side)
	}
	n.opts.Padd = padd
	n.opts.Padding = side
	return s
}

// SmartBufferSize sets the encode-time growable-buffer capacity hint for
// the last-appended node. Only `array` fields consult it, since arrays
// are the one case where encode.go builds a temporary sink before
// appending to the main output; elsewhere it's stored but unused.
func (s *Schema) SmartBufferSize(n int) *Schema {
	s.requireTail("smartBufferSize").opts.SmartBufferSize = n
	return s
}

func (s *Schema) requireTail(option string) *Node {
	if s.tail == nil {
		buildErrorf(KindInvalid, "", "%s: no field to attach to", option)
	}
	return s.tail
}
