// Package yamlschema compiles a YAML schema definition into a
// *binspec.Schema, giving the builder chain (normally composed in Go
// code) a data-driven entry point for the CLI. Uses
// github.com/goccy/go-yaml for decoding the document.
package yamlschema

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/kungfusheep/binspec"
)

// Doc is the top-level YAML document: a field list plus optional
// endianness default and alias name (for a schema meant to be
// referenced elsewhere via `namely`/a `type: {name: ...}` reference).
type Doc struct {
	Endianness string  `yaml:"endianness"`
	Alias      string  `yaml:"alias"`
	Fields     []Field `yaml:"fields"`
}

// Field is one entry in a Doc's field list. Only the subset of keys
// relevant to Kind need be set; Compile validates combinations by
// delegating to the same builder methods Go callers use, so an invalid
// YAML schema fails with the same *binspec.BuildError a hand-written one
// would, wrapped with the field name.
type Field struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	Width int `yaml:"width"` // bit

	Length         any    `yaml:"length"`
	LengthInBytes  any    `yaml:"lengthInBytes"`
	ZeroTerminated bool   `yaml:"zeroTerminated"`
	Greedy         bool   `yaml:"greedy"`
	StripNull      bool   `yaml:"stripNull"`
	Trim           bool   `yaml:"trim"`
	Encoding       string `yaml:"encoding"`

	// ReadUntil only supports the "eof" sentinel from data-driven YAML;
	// predicate functions have no textual representation, so a YAML
	// schema cannot express them.
	ReadUntil string `yaml:"readUntil"`

	Type          *TypeRef            `yaml:"type"`
	Key           string              `yaml:"key"`
	Tag           any                 `yaml:"tag"`
	Choices       map[string]TypeRef  `yaml:"choices"`
	DefaultChoice *TypeRef            `yaml:"defaultChoice"`

	Offset any `yaml:"offset"`

	Assert any `yaml:"assert"`

	Padd    int    `yaml:"padd"`
	Padding string `yaml:"padding"`

	Clone bool `yaml:"clone"`
}

// TypeRef names a field/array-element/choice-branch type: either a
// catalog kind or registered alias name, or an inline nested schema.
type TypeRef struct {
	Name   string `yaml:"name"`
	Schema *Doc   `yaml:"schema"`
}

// Parse reads a YAML schema document from raw bytes.
func Parse(raw []byte) (*Doc, error) {
	var d Doc
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("yamlschema: parse: %w", err)
	}
	return &d, nil
}

// Compile turns a parsed Doc into a *binspec.Schema by driving the same
// builder surface a Go caller would use.
func Compile(d *Doc) (*binspec.Schema, error) {
	s := binspec.Start()
	if d.Endianness != "" {
		s = s.Endianness(d.Endianness)
	}
	for _, f := range d.Fields {
		if err := appendField(s, f); err != nil {
			return nil, err
		}
	}
	if d.Alias != "" {
		s.Namely(d.Alias)
	}
	return s, nil
}

func appendField(s *binspec.Schema, f Field) (err error) {
	defer func() {
		if rc := recover(); rc != nil {
			if e, ok := rc.(error); ok {
				err = fmt.Errorf("yamlschema: field %q: %w", f.Name, e)
				return
			}
			err = fmt.Errorf("yamlschema: field %q: %v", f.Name, rc)
		}
	}()

	switch f.Kind {
	case "uint8":
		s.Uint8(f.Name)
	case "int8":
		s.Int8(f.Name)
	case "uint16be":
		s.Uint16be(f.Name)
	case "uint16le":
		s.Uint16le(f.Name)
	case "uint16":
		s.Uint16(f.Name)
	case "int16be":
		s.Int16be(f.Name)
	case "int16le":
		s.Int16le(f.Name)
	case "int16":
		s.Int16(f.Name)
	case "uint24be":
		s.Uint24be(f.Name)
	case "uint24le":
		s.Uint24le(f.Name)
	case "uint24":
		s.Uint24(f.Name)
	case "int24be":
		s.Int24be(f.Name)
	case "int24le":
		s.Int24le(f.Name)
	case "int24":
		s.Int24(f.Name)
	case "uint32be":
		s.Uint32be(f.Name)
	case "uint32le":
		s.Uint32le(f.Name)
	case "uint32":
		s.Uint32(f.Name)
	case "int32be":
		s.Int32be(f.Name)
	case "int32le":
		s.Int32le(f.Name)
	case "int32":
		s.Int32(f.Name)
	case "uint64be":
		s.Uint64be(f.Name)
	case "uint64le":
		s.Uint64le(f.Name)
	case "uint64":
		s.Uint64(f.Name)
	case "int64be":
		s.Int64be(f.Name)
	case "int64le":
		s.Int64le(f.Name)
	case "int64":
		s.Int64(f.Name)
	case "floatbe":
		s.Floatbe(f.Name)
	case "floatle":
		s.Floatle(f.Name)
	case "float":
		s.Float(f.Name)
	case "doublebe":
		s.Doublebe(f.Name)
	case "doublele":
		s.Doublele(f.Name)
	case "double":
		s.Double(f.Name)

	case "bit":
		s.Bit(f.Name, f.Width)

	case "string":
		s.String(f.Name, binspec.StringOpts{
			Length:         f.Length,
			ZeroTerminated: f.ZeroTerminated,
			Greedy:         f.Greedy,
			StripNull:      f.StripNull,
			Trim:           f.Trim,
			Encoding:       f.Encoding,
		})

	case "buffer":
		s.Buffer(f.Name, binspec.BufferOpts{
			Length:    f.Length,
			ReadUntil: readUntilValue(f.ReadUntil),
			Clone:     f.Clone,
		})

	case "array":
		typ, err := resolveTypeRef(f.Type)
		if err != nil {
			return err
		}
		s.Array(f.Name, binspec.ArrayOpts{
			Length:        f.Length,
			LengthInBytes: f.LengthInBytes,
			ReadUntil:     readUntilValue(f.ReadUntil),
			Type:          typ,
			Key:           f.Key,
		})

	case "choice":
		choices := make(map[int64]any, len(f.Choices))
		for k, v := range f.Choices {
			tag, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return fmt.Errorf("choices key %q: %w", k, err)
			}
			typ, err := resolveTypeRef(&v)
			if err != nil {
				return err
			}
			choices[tag] = typ
		}
		var defaultChoice any
		if f.DefaultChoice != nil {
			defaultChoice, err = resolveTypeRef(f.DefaultChoice)
			if err != nil {
				return err
			}
		}
		s.Choice(f.Name, binspec.ChoiceOpts{
			Tag:           f.Tag,
			Choices:       choices,
			DefaultChoice: defaultChoice,
		})

	case "nest":
		typ, err := resolveTypeRef(f.Type)
		if err != nil {
			return err
		}
		s.Nest(f.Name, typ)

	case "seek":
		length, ok := f.Length.(int)
		if !ok {
			return fmt.Errorf("seek %q: length must be a literal int", f.Name)
		}
		s.Seek(length)

	case "pointer":
		typ, err := resolveTypeRef(f.Type)
		if err != nil {
			return err
		}
		s.Pointer(f.Name, binspec.PointerOpts{Offset: f.Offset, Type: typ})

	case "saveOffset":
		s.SaveOffset(f.Name)

	default:
		return fmt.Errorf("unknown kind %q", f.Kind)
	}

	if f.Assert != nil {
		s.Assert(f.Assert)
	}
	if f.Padding != "" || f.Padd != 0 {
		s.Padding(byte(f.Padd), f.Padding)
	}
	return nil
}

// readUntilValue turns the YAML-expressible "eof" sentinel into the
// `any` value the builder expects, leaving anything else unset (byte-
// and item-level predicates cannot be expressed in YAML).
func readUntilValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// resolveTypeRef turns a TypeRef into the `any` value a `type` option
// expects: a catalog/alias name string, or a compiled inline *Schema.
func resolveTypeRef(t *TypeRef) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("type reference is required")
	}
	if t.Schema != nil {
		return Compile(t.Schema)
	}
	if t.Name == "" {
		return nil, fmt.Errorf("type reference needs a name or an inline schema")
	}
	return t.Name, nil
}
