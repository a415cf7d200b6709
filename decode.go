package binspec

import (
	"fmt"

	"github.com/kungfusheep/binspec/byteio"
	"github.com/kungfusheep/binspec/textenc"
)

// Parse decodes data against the schema, returning the decoded Record.
// Field decode order equals chain order. Any panic raised during
// traversal (such as an out-of-bounds byteio read) is recovered and
// returned as an error: parse/encode failures are runtime (returned),
// not thrown.
func (s *Schema) Parse(data []byte) (rec Record, err error) {
	defer func() {
		if rc := recover(); rc != nil {
			err = runtimeError(rc)
		}
	}()

	p := s.compile()
	r := byteio.NewReader(data)
	rec = Record{}
	if decErr := decodeNodesInto(p.nodes, &r, rec, nil); decErr != nil {
		return nil, decErr
	}
	return rec, nil
}

// Build decodes data and, if Create installed a Constructor, applies it
// to the resulting Record; otherwise Build behaves like Parse.
func (s *Schema) Build(data []byte) (any, error) {
	rec, err := s.Parse(data)
	if err != nil {
		return nil, err
	}
	if s.ctor != nil {
		return s.ctor(rec), nil
	}
	return rec, nil
}

// MustParse is Parse but panics on error, for callers already operating
// in a context where a panic is acceptable.
func (s *Schema) MustParse(data []byte) Record {
	rec, err := s.Parse(data)
	if err != nil {
		panic(err)
	}
	return rec
}

// decodeNodesInto runs the decode planner over nodes, writing decoded
// fields into rec. path is the dotted qualification of rec's own
// position for error messages.
func decodeNodesInto(nodes []*Node, r *byteio.Reader, rec Record, path []string) error {
	for i := 0; i < len(nodes); {
		n := nodes[i]

		if n.kind == KindBit {
			end, fields, total := scanBitRun(nodes, i)
			if err := decodeBitRun(nodes[i:end], fields, total, r, rec, path); err != nil {
				return err
			}
			i = end
			continue
		}

		if err := decodeSingleNode(n, r, rec, path); err != nil {
			return err
		}
		i++
	}
	return nil
}

// decodeBitRun reads the packed container once and distributes values to
// each Bit field in source order, running any sandwiched Nest nodes
// inline once the cursor is past the packed bytes.
func decodeBitRun(members []*Node, fields []bitFieldSpec, total int, r *byteio.Reader, rec Record, path []string) error {
	rounded, err := roundUpBitWidth(total)
	if err != nil {
		if tooLong, ok := err.(*BitSequenceTooLong); ok && len(members) > 0 {
			tooLong.Path = qualifiedName(path, members[0].name)
		}
		return err
	}
	packed := readPackedBits(r, rounded)

	fi := 0
	for _, m := range members {
		if m.kind == KindBit {
			f := fields[fi]
			fi++
			shift := bitFieldShift(m.endianDefault, rounded, f.cumulative, f.width)
			raw := (packed >> uint(shift)) & bitFieldMask(f.width)
			val, err := postProcess(m, int64(raw), r, path, rec)
			if err != nil {
				return err
			}
			if m.name != "" {
				rec[m.name] = val
			}
			continue
		}
		if err := decodeSingleNode(m, r, rec, path); err != nil {
			return err
		}
	}
	return nil
}

func decodeSingleNode(n *Node, r *byteio.Reader, rec Record, path []string) error {
	switch {
	case n.kind.isNumeric():
		val, err := postProcess(n, decodePrimitive(n.kind, r), r, path, rec)
		if err != nil {
			return err
		}
		if n.name != "" {
			rec[n.name] = val
		}
		return nil

	case n.kind == KindString:
		raw, err := decodeStringBytes(n, r, rec)
		if err != nil {
			return err
		}
		text, err := textenc.Decode(n.opts.Encoding, raw)
		if err != nil {
			return err
		}
		val, err := postProcess(n, text, r, path, rec)
		if err != nil {
			return err
		}
		if n.name != "" {
			rec[n.name] = val
		}
		return nil

	case n.kind == KindBuffer:
		raw, err := decodeBufferBytes(n, r, rec)
		if err != nil {
			return err
		}
		if n.opts.Clone {
			cp := make([]byte, len(raw))
			copy(cp, raw)
			raw = cp
		}
		val, err := postProcess(n, raw, r, path, rec)
		if err != nil {
			return err
		}
		if n.name != "" {
			rec[n.name] = val
		}
		return nil

	case n.kind == KindArray:
		val, err := decodeArray(n, r, rec, path)
		if err != nil {
			return err
		}
		val, err = postProcess(n, val, r, path, rec)
		if err != nil {
			return err
		}
		if n.name != "" {
			rec[n.name] = val
		}
		return nil

	case n.kind == KindChoice:
		return decodeChoice(n, r, rec, path)

	case n.kind == KindNest:
		return decodeNest(n, r, rec, path)

	case n.kind == KindSeek:
		length, err := resolveIntOption(n.opts.Length, rec)
		if err != nil {
			return err
		}
		r.Skip(int(length))
		return nil

	case n.kind == KindPointer:
		return decodePointer(n, r, rec, path)

	case n.kind == KindSaveOffset:
		val, err := postProcess(n, r.Position(), r, path, rec)
		if err != nil {
			return err
		}
		if n.name != "" {
			rec[n.name] = val
		}
		return nil

	case n.kind == KindEmpty:
		return nil
	}
	return fmt.Errorf("binspec: decode: unhandled kind %s", n.kind)
}

func signExtend24(v uint32) int32 {
	if v&0x800000 != 0 {
		return int32(v | 0xFF000000)
	}
	return int32(v)
}

func decodePrimitive(k Kind, r *byteio.Reader) any {
	switch k {
	case KindUint8:
		return r.ReadUint8()
	case KindInt8:
		return r.ReadInt8()
	case KindUint16BE:
		return r.ReadUint16BE()
	case KindUint16LE:
		return r.ReadUint16LE()
	case KindInt16BE:
		return r.ReadInt16BE()
	case KindInt16LE:
		return r.ReadInt16LE()
	case KindUint24BE:
		return r.ReadUint24BE()
	case KindUint24LE:
		return r.ReadUint24LE()
	case KindInt24BE:
		return signExtend24(r.ReadUint24BE())
	case KindInt24LE:
		return signExtend24(r.ReadUint24LE())
	case KindUint32BE:
		return r.ReadUint32BE()
	case KindUint32LE:
		return r.ReadUint32LE()
	case KindInt32BE:
		return r.ReadInt32BE()
	case KindInt32LE:
		return r.ReadInt32LE()
	case KindUint64BE:
		return r.ReadUint64BE()
	case KindUint64LE:
		return r.ReadUint64LE()
	case KindInt64BE:
		return r.ReadInt64BE()
	case KindInt64LE:
		return r.ReadInt64LE()
	case KindFloatBE:
		return r.ReadFloat32BE()
	case KindFloatLE:
		return r.ReadFloat32LE()
	case KindDoubleBE:
		return r.ReadFloat64BE()
	case KindDoubleLE:
		return r.ReadFloat64LE()
	}
	panic(fmt.Sprintf("binspec: decode: unknown primitive kind %s", k))
}

// decodeStringBytes implements the four `string` decode modes, returning
// the raw text bytes (stripNull/trim already applied; encoding
// conversion happens in the caller).
func decodeStringBytes(n *Node, r *byteio.Reader, rec Record) ([]byte, error) {
	var raw []byte

	switch {
	case n.opts.Length != nil && n.opts.ZeroTerminated:
		limit, err := resolveIntOption(n.opts.Length, rec)
		if err != nil {
			return nil, err
		}
		for consumed := int64(0); consumed < limit; consumed++ {
			b := r.ReadByte()
			if b == 0 {
				break
			}
			raw = append(raw, b)
		}

	case n.opts.Length != nil:
		limit, err := resolveIntOption(n.opts.Length, rec)
		if err != nil {
			return nil, err
		}
		raw = append(raw, r.Read(int(limit))...)

	case n.opts.ZeroTerminated:
		for {
			b := r.ReadByte()
			if b == 0 {
				break
			}
			raw = append(raw, b)
		}

	case n.opts.Greedy:
		rest := r.Remaining()
		raw = append(raw, rest...)
		r.Skip(len(rest))
	}

	if n.opts.StripNull {
		raw = stripTrailingNulls(raw)
	}
	if n.opts.Trim {
		raw = trimASCIISpace(raw)
	}
	return raw, nil
}

func stripTrailingNulls(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}

func isASCIISpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func trimASCIISpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isASCIISpace(b[start]) {
		start++
	}
	for end > start && isASCIISpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

// decodeBufferBytes implements `buffer` decode.
func decodeBufferBytes(n *Node, r *byteio.Reader, rec Record) ([]byte, error) {
	if n.opts.ReadUntil != nil {
		if s, ok := n.opts.ReadUntil.(string); ok {
			if s != eofSentinel {
				return nil, fmt.Errorf("binspec: buffer readUntil string must be %q, got %q", eofSentinel, s)
			}
			rest := r.Remaining()
			r.Skip(len(rest))
			return rest, nil
		}
		pred, ok := n.opts.ReadUntil.(BufferReadUntil)
		if !ok {
			return nil, fmt.Errorf("binspec: buffer readUntil has unsupported type %T", n.opts.ReadUntil)
		}
		r.SetMark()
		for !r.AtEOF() {
			b := r.PeekByte()
			remaining := r.Remaining()[1:]
			if pred(b, remaining) {
				break
			}
			r.Skip(1)
		}
		return r.BytesFromMark(), nil
	}

	limit, err := resolveIntOption(n.opts.Length, rec)
	if err != nil {
		return nil, err
	}
	return r.Read(int(limit)), nil
}

// decodeTypeRefValue decodes one value of the resolved type at the
// reader's current position: a scalar for a primitive catalog kind, or a
// fresh sub-Record for a nested Schema/alias.
func decodeTypeRefValue(resolved resolvedType, r *byteio.Reader, path []string, fieldName string) (any, error) {
	if resolved.isPrimitive() {
		return decodePrimitive(resolved.kind, r), nil
	}
	subrec := Record{}
	if err := decodeNodesInto(resolved.schema.compile().nodes, r, subrec, append(path, fieldName)); err != nil {
		return nil, err
	}
	return subrec, nil
}

func decodeArray(n *Node, r *byteio.Reader, rec Record, path []string) (any, error) {
	resolved, err := resolveType(n.opts.Type)
	if err != nil {
		return nil, err
	}

	var seq []any
	var dict map[string]any
	if n.opts.Key != "" {
		dict = make(map[string]any)
	} else {
		seq = []any{}
	}

	store := func(item any) error {
		if dict != nil {
			sub, ok := item.(Record)
			if !ok {
				return fmt.Errorf("binspec: array %q: key option requires record-typed items", n.name)
			}
			keyVal, ok := sub[n.opts.Key]
			if !ok {
				return fmt.Errorf("binspec: array %q: key field %q missing from item", n.name, n.opts.Key)
			}
			dict[fmt.Sprint(keyVal)] = sub
			return nil
		}
		seq = append(seq, item)
		return nil
	}

	switch {
	case n.opts.ReadUntil != nil:
		switch ru := n.opts.ReadUntil.(type) {
		case string:
			if ru != eofSentinel {
				return nil, fmt.Errorf("binspec: array readUntil string must be %q, got %q", eofSentinel, ru)
			}
			for r.BytesLeft() > 0 {
				item, err := decodeTypeRefValue(resolved, r, path, n.name)
				if err != nil {
					return nil, err
				}
				if err := store(item); err != nil {
					return nil, err
				}
			}
		case ArrayReadUntilDecode:
			// do-while: always decode at least one item, even on an
			// empty buffer (which then surfaces as a runtime error via
			// byteio's bounds check, recovered by Parse).
			for {
				item, err := decodeTypeRefValue(resolved, r, path, n.name)
				if err != nil {
					return nil, err
				}
				if err := store(item); err != nil {
					return nil, err
				}
				if ru(item, r.Remaining()) {
					break
				}
			}
		default:
			return nil, fmt.Errorf("binspec: array %q: readUntil has unsupported type %T", n.name, n.opts.ReadUntil)
		}

	case n.opts.LengthInBytes != nil:
		limit, err := resolveIntOption(n.opts.LengthInBytes, rec)
		if err != nil {
			return nil, err
		}
		start := r.Position()
		for int64(r.Position()-start) < limit {
			item, err := decodeTypeRefValue(resolved, r, path, n.name)
			if err != nil {
				return nil, err
			}
			if err := store(item); err != nil {
				return nil, err
			}
		}

	default:
		count, err := resolveIntOption(n.opts.Length, rec)
		if err != nil {
			return nil, err
		}
		for i := int64(0); i < count; i++ {
			item, err := decodeTypeRefValue(resolved, r, path, n.name)
			if err != nil {
				return nil, err
			}
			if err := store(item); err != nil {
				return nil, err
			}
		}
	}

	if dict != nil {
		return dict, nil
	}
	return seq, nil
}

func decodeChoice(n *Node, r *byteio.Reader, rec Record, path []string) error {
	tag, err := resolveIntOption(n.opts.Tag, rec)
	if err != nil {
		return err
	}

	typ, ok := n.opts.Choices[tag]
	if !ok {
		if n.opts.DefaultChoice == nil {
			return &UndefinedTag{Path: qualifiedName(path, n.name), Tag: tag}
		}
		typ = n.opts.DefaultChoice
	}

	resolved, err := resolveType(typ)
	if err != nil {
		return err
	}
	val, err := decodeTypeRefValue(resolved, r, path, n.name)
	if err != nil {
		return err
	}
	val, err = postProcess(n, val, r, path, rec)
	if err != nil {
		return err
	}
	if n.name != "" {
		rec[n.name] = val
	}
	return nil
}

func decodeNest(n *Node, r *byteio.Reader, rec Record, path []string) error {
	resolved, err := resolveType(n.opts.Type)
	if err != nil {
		return err
	}

	if resolved.isPrimitive() {
		val, err := postProcess(n, decodePrimitive(resolved.kind, r), r, path, rec)
		if err != nil {
			return err
		}
		if n.name != "" {
			rec[n.name] = val
		}
		return nil
	}

	if n.name == "" {
		// Inline merge: the subrecord's fields join the parent directly.
		return decodeNodesInto(resolved.schema.compile().nodes, r, rec, path)
	}

	subrec := Record{}
	if err := decodeNodesInto(resolved.schema.compile().nodes, r, subrec, append(path, n.name)); err != nil {
		return err
	}
	val, err := postProcess(n, any(subrec), r, path, rec)
	if err != nil {
		return err
	}
	rec[n.name] = val
	return nil
}

func decodePointer(n *Node, r *byteio.Reader, rec Record, path []string) error {
	offset, err := resolveIntOption(n.opts.Offset, rec)
	if err != nil {
		return err
	}

	resolved, err := resolveType(n.opts.Type)
	if err != nil {
		return err
	}

	saved := r.Position()
	r.Seek(int(offset))
	val, err := decodeTypeRefValue(resolved, r, path, n.name)
	r.Seek(saved)
	if err != nil {
		return err
	}

	val, err = postProcess(n, val, r, path, rec)
	if err != nil {
		return err
	}
	if n.name != "" {
		rec[n.name] = val
	}
	return nil
}

// postProcess applies a node's `formatter` then `assert` option to a
// just-decoded value.
func postProcess(n *Node, value any, r *byteio.Reader, path []string, rec Record) (any, error) {
	if n.opts.Formatter != nil {
		value = n.opts.Formatter(value, r.FullBytes(), r.Position())
	}
	if n.opts.Assert != nil {
		ok, err := checkAssert(n.opts.Assert, rec, value)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &AssertFailed{Path: qualifiedName(path, n.name), Value: value}
		}
	}
	return value, nil
}

func checkAssert(assertVal any, rec Record, value any) (bool, error) {
	switch a := assertVal.(type) {
	case int:
		n, ok := asInt64(value)
		return ok && n == int64(a), nil
	case int64:
		n, ok := asInt64(value)
		return ok && n == a, nil
	case string:
		s, ok := value.(string)
		return ok && s == a, nil
	case AssertPredicate:
		return a(rec, value), nil
	default:
		return false, fmt.Errorf("binspec: unsupported assert value %T", assertVal)
	}
}
