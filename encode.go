package binspec

import (
	"fmt"

	"github.com/kungfusheep/binspec/byteio"
	"github.com/kungfusheep/binspec/textenc"
)

// Encode serializes rec against the schema, returning the assembled
// bytes. Field encode order equals chain order, mirroring Parse. Panics
// raised during traversal (such as a byteio bounds check) are recovered
// and returned as errors, matching Parse's error discipline.
func (s *Schema) Encode(rec Record) (out []byte, err error) {
	if rec == nil {
		return nil, &ArgumentError{Reason: "Encode requires a non-nil record"}
	}

	defer func() {
		if rc := recover(); rc != nil {
			err = runtimeError(rc)
		}
	}()

	p := s.compile()
	w := byteio.NewWriterFromPool(64)
	defer w.ReturnToPool()
	if encErr := encodeNodesInto(p.nodes, w, rec, nil); encErr != nil {
		return nil, encErr
	}
	out = make([]byte, len(w.Bytes))
	copy(out, w.Bytes)
	return out, nil
}

// MustEncode is Encode but panics on error.
func (s *Schema) MustEncode(rec Record) []byte {
	out, err := s.Encode(rec)
	if err != nil {
		panic(err)
	}
	return out
}

func encodeNodesInto(nodes []*Node, w *byteio.Writer, rec Record, path []string) error {
	for i := 0; i < len(nodes); {
		n := nodes[i]

		if n.kind == KindBit {
			end, fields, total := scanBitRun(nodes, i)
			if err := encodeBitRun(nodes[i:end], fields, total, w, rec, path); err != nil {
				return err
			}
			i = end
			continue
		}

		if err := encodeSingleNode(n, w, rec, path); err != nil {
			return err
		}
		i++
	}
	return nil
}

func encodeBitRun(members []*Node, fields []bitFieldSpec, total int, w *byteio.Writer, rec Record, path []string) error {
	rounded, err := roundUpBitWidth(total)
	if err != nil {
		if tooLong, ok := err.(*BitSequenceTooLong); ok && len(members) > 0 {
			tooLong.Path = qualifiedName(path, members[0].name)
		}
		return err
	}

	// Sandwiched Nest members are written after the packed bits, matching
	// decodeBitRun, which reads the packed container before them.
	var packed uint32
	var nests []*Node
	fi := 0
	for _, m := range members {
		if m.kind == KindBit {
			f := fields[fi]
			fi++
			value, ok := rec[m.name]
			if !ok {
				return fmt.Errorf("binspec: encode: field %q missing from record", qualifiedName(path, m.name))
			}
			value = applyEncoder(m, value, rec)
			n64, ok := asInt64(value)
			if !ok {
				return fmt.Errorf("binspec: encode: field %q is not numeric (got %T)", qualifiedName(path, m.name), value)
			}
			shift := bitFieldShift(m.endianDefault, rounded, f.cumulative, f.width)
			packed |= (uint32(n64) & bitFieldMask(f.width)) << uint(shift)
			continue
		}
		nests = append(nests, m)
	}
	writePackedBits(w, rounded, packed)
	for _, m := range nests {
		if err := encodeSingleNode(m, w, rec, path); err != nil {
			return err
		}
	}
	return nil
}

func encodeSingleNode(n *Node, w *byteio.Writer, rec Record, path []string) error {
	switch {
	case n.kind.isNumeric():
		value, err := fieldValue(n, rec, path)
		if err != nil {
			return err
		}
		value = applyEncoder(n, value, rec)
		if err := encodePrimitive(n.kind, w, value); err != nil {
			return fmt.Errorf("binspec: encode %q: %w", qualifiedName(path, n.name), err)
		}
		return nil

	case n.kind == KindString:
		value, err := fieldValue(n, rec, path)
		if err != nil {
			return err
		}
		value = applyEncoder(n, value, rec)
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("binspec: encode %q: expected string, got %T", qualifiedName(path, n.name), value)
		}
		return encodeString(n, w, text, rec)

	case n.kind == KindBuffer:
		value, err := fieldValue(n, rec, path)
		if err != nil {
			return err
		}
		value = applyEncoder(n, value, rec)
		raw, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("binspec: encode %q: expected []byte, got %T", qualifiedName(path, n.name), value)
		}
		w.AppendBytes(raw)
		return nil

	case n.kind == KindArray:
		value, err := fieldValue(n, rec, path)
		if err != nil {
			return err
		}
		value = applyEncoder(n, value, rec)
		return encodeArray(n, w, rec, value, path)

	case n.kind == KindChoice:
		return encodeChoice(n, w, rec, path)

	case n.kind == KindNest:
		return encodeNest(n, w, rec, path)

	case n.kind == KindSeek:
		length, err := resolveIntOption(n.opts.Length, rec)
		if err != nil {
			return err
		}
		if length < 0 {
			return &UnsupportedEncoding{Path: qualifiedName(path, n.name), Reason: "seek cannot move backward while encoding"}
		}
		w.AppendBytes(make([]byte, length))
		return nil

	case n.kind == KindPointer:
		// Absolute redirection is a decode-only capability; `pointer` and
		// `saveOffset` are no-ops when encoding, since the sink has no
		// prior bytes to redirect into.
		return nil

	case n.kind == KindSaveOffset:
		return nil

	case n.kind == KindEmpty:
		return nil
	}
	return fmt.Errorf("binspec: encode: unhandled kind %s", n.kind)
}

// fieldValue looks up a named node's value in rec, applying no
// transform; an unnamed node has no value to look up and yields an error
// (anonymous `nest` merges are handled before reaching this path).
func fieldValue(n *Node, rec Record, path []string) (any, error) {
	if n.name == "" {
		return nil, fmt.Errorf("binspec: encode: anonymous %s node has no field to read", n.kind)
	}
	v, ok := rec[n.name]
	if !ok {
		return nil, fmt.Errorf("binspec: encode: field %q missing from record", qualifiedName(path, n.name))
	}
	return v, nil
}

// applyEncoder runs the node's `encoder` pre-transform if set; the
// original record value is untouched, since the transform only affects
// what's written, not what siblings later see.
func applyEncoder(n *Node, value any, rec Record) any {
	if n.opts.Encoder != nil {
		return n.opts.Encoder(value, rec)
	}
	return value
}

func encodePrimitive(k Kind, w *byteio.Writer, value any) error {
	n64, nok := asInt64(value)
	switch k {
	case KindUint8:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint8(uint8(n64))
	case KindInt8:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendInt8(int8(n64))
	case KindUint16BE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint16BE(uint16(n64))
	case KindUint16LE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint16LE(uint16(n64))
	case KindInt16BE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendInt16BE(int16(n64))
	case KindInt16LE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendInt16LE(int16(n64))
	case KindUint24BE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint24BE(uint32(n64))
	case KindUint24LE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint24LE(uint32(n64))
	case KindInt24BE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint24BE(uint32(n64) & 0xFFFFFF)
	case KindInt24LE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint24LE(uint32(n64) & 0xFFFFFF)
	case KindUint32BE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint32BE(uint32(n64))
	case KindUint32LE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint32LE(uint32(n64))
	case KindInt32BE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendInt32BE(int32(n64))
	case KindInt32LE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendInt32LE(int32(n64))
	case KindUint64BE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint64BE(uint64(n64))
	case KindUint64LE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendUint64LE(uint64(n64))
	case KindInt64BE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendInt64BE(n64)
	case KindInt64LE:
		if !nok {
			return fmt.Errorf("expected numeric value, got %T", value)
		}
		w.AppendInt64LE(n64)
	case KindFloatBE:
		f, ok := asFloat64(value)
		if !ok {
			return fmt.Errorf("expected float value, got %T", value)
		}
		w.AppendFloat32BE(float32(f))
	case KindFloatLE:
		f, ok := asFloat64(value)
		if !ok {
			return fmt.Errorf("expected float value, got %T", value)
		}
		w.AppendFloat32LE(float32(f))
	case KindDoubleBE:
		f, ok := asFloat64(value)
		if !ok {
			return fmt.Errorf("expected float value, got %T", value)
		}
		w.AppendFloat64BE(f)
	case KindDoubleLE:
		f, ok := asFloat64(value)
		if !ok {
			return fmt.Errorf("expected float value, got %T", value)
		}
		w.AppendFloat64LE(f)
	default:
		return fmt.Errorf("binspec: encode: unknown primitive kind %s", k)
	}
	return nil
}

func asFloat64(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	}
	if n, ok := asInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}

// encodeString implements the `string` encode modes: text is converted
// through the named encoding, then padded/truncated to a fixed length or
// terminated with a zero byte as the options require.
func encodeString(n *Node, w *byteio.Writer, text string, rec Record) error {
	raw, err := textenc.Encode(n.opts.Encoding, text)
	if err != nil {
		return err
	}

	switch {
	case n.opts.Length != nil && n.opts.ZeroTerminated:
		limit, err := resolveIntOption(n.opts.Length, rec)
		if err != nil {
			return err
		}
		w.AppendBytes(padOrTruncateSide(raw, int(limit), n.opts.Padd, n.opts.Padding))
		w.AppendByte(0)

	case n.opts.Length != nil:
		limit, err := resolveIntOption(n.opts.Length, rec)
		if err != nil {
			return err
		}
		w.AppendBytes(padOrTruncateSide(raw, int(limit), n.opts.Padd, n.opts.Padding))

	case n.opts.ZeroTerminated:
		w.AppendBytes(raw)
		w.AppendByte(0)

	case n.opts.Greedy:
		w.AppendBytes(raw)
	}
	return nil
}

// padOrTruncate returns raw resized to exactly n bytes: truncated if
// longer, right-padded with fill if shorter.
func padOrTruncate(raw []byte, n int, fill byte) []byte {
	return padOrTruncateSide(raw, n, fill, "right")
}

// padOrTruncateSide is padOrTruncate with an explicit pad side ("left" or
// "right", default right) for the `padding` option.
func padOrTruncateSide(raw []byte, n int, fill byte, side string) []byte {
	if len(raw) >= n {
		return raw[:n]
	}
	out := make([]byte, n)
	if side == "left" {
		pad := n - len(raw)
		for i := 0; i < pad; i++ {
			out[i] = fill
		}
		copy(out[pad:], raw)
		return out
	}
	copy(out, raw)
	for i := len(raw); i < n; i++ {
		out[i] = fill
	}
	return out
}

func encodeArray(n *Node, w *byteio.Writer, rec Record, value any, path []string) error {
	resolved, err := resolveType(n.opts.Type)
	if err != nil {
		return err
	}

	items, err := arrayItems(n, value, path)
	if err != nil {
		return err
	}

	if n.opts.Length != nil {
		length, err := resolveIntOption(n.opts.Length, rec)
		if err != nil {
			return err
		}
		if int(length) < len(items) {
			items = items[:int(length)]
		}
	}

	sink := byteio.NewWriterFromPool(n.opts.SmartBufferSize)
	defer sink.ReturnToPool()

	switch {
	case n.opts.EncodeUntil != nil:
		var stop func(item any) bool
		switch until := n.opts.EncodeUntil.(type) {
		case EncodeUntil:
			untilRec := Record{n.name: items}
			stop = func(item any) bool { return until(item, untilRec) }
		case ArrayReadUntilEncode:
			stop = func(item any) bool { return until(item, sink.Bytes) }
		default:
			return &UnsupportedEncoding{Path: qualifiedName(path, n.name), Reason: fmt.Sprintf("encodeUntil has unsupported type %T", n.opts.EncodeUntil)}
		}
		for _, item := range items {
			if err := encodeTypeRefValue(resolved, sink, item, path, n.name); err != nil {
				return err
			}
			if stop(item) {
				break
			}
		}

	default:
		for _, item := range items {
			if err := encodeTypeRefValue(resolved, sink, item, path, n.name); err != nil {
				return err
			}
		}
	}

	if n.opts.LengthInBytes != nil {
		lengthInBytes, err := resolveIntOption(n.opts.LengthInBytes, rec)
		if err != nil {
			return err
		}
		sink.Truncate(int(lengthInBytes))
	}

	w.AppendBytes(sink.Bytes)
	return nil
}

// arrayItems normalizes an array field's decoded/constructed value ([]any
// or a dictionary map keyed by n.opts.Key) back into ordered items for
// encoding. Dictionary-keyed arrays cannot round-trip a stable item order
// from a Go map, so encoding one is unsupported.
func arrayItems(n *Node, value any, path []string) ([]any, error) {
	if n.opts.Key != "" {
		return nil, &UnsupportedEncoding{Path: qualifiedName(path, n.name), Reason: "dictionary-keyed arrays (key option) cannot be encoded"}
	}
	switch v := value.(type) {
	case []any:
		return v, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("binspec: encode %q: expected []any, got %T", qualifiedName(path, n.name), value)
	}
}

func encodeTypeRefValue(resolved resolvedType, w *byteio.Writer, item any, path []string, fieldName string) error {
	if resolved.isPrimitive() {
		return encodePrimitive(resolved.kind, w, item)
	}
	sub, ok := item.(Record)
	if !ok {
		return fmt.Errorf("binspec: encode %q: expected Record item, got %T", qualifiedName(path, fieldName), item)
	}
	return encodeNodesInto(resolved.schema.compile().nodes, w, sub, append(path, fieldName))
}

func encodeChoice(n *Node, w *byteio.Writer, rec Record, path []string) error {
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

	value, err := fieldValue(n, rec, path)
	if err != nil {
		return err
	}
	value = applyEncoder(n, value, rec)
	return encodeTypeRefValue(resolved, w, value, path, n.name)
}

func encodeNest(n *Node, w *byteio.Writer, rec Record, path []string) error {
	resolved, err := resolveType(n.opts.Type)
	if err != nil {
		return err
	}

	if resolved.isPrimitive() {
		value, err := fieldValue(n, rec, path)
		if err != nil {
			return err
		}
		value = applyEncoder(n, value, rec)
		return encodePrimitive(resolved.kind, w, value)
	}

	if n.name == "" {
		// Inline merge: the same record supplies this nest's fields too.
		return encodeNodesInto(resolved.schema.compile().nodes, w, rec, path)
	}

	value, err := fieldValue(n, rec, path)
	if err != nil {
		return err
	}
	value = applyEncoder(n, value, rec)
	sub, ok := value.(Record)
	if !ok {
		return fmt.Errorf("binspec: encode %q: expected Record, got %T", qualifiedName(path, n.name), value)
	}
	return encodeNodesInto(resolved.schema.compile().nodes, w, sub, append(path, n.name))
}
