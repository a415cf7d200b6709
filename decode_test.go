package binspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrimitives(t *testing.T) {
	t.Parallel()

	s := Start().
		Uint8("a").
		Int16be("b").
		Uint32le("c").
		Doublebe("d")

	data := []byte{
		0xFF,
		0xFF, 0xFE, // -2
		0x04, 0x03, 0x02, 0x01, // 0x01020304 little-endian
		0x3F, 0xF0, 0, 0, 0, 0, 0, 0, // 1.0
	}

	rec, err := s.Parse(data)
	require.NoError(t, err)
	assert.EqualValues(t, 0xFF, rec["a"])
	assert.EqualValues(t, -2, rec["b"])
	assert.EqualValues(t, 0x01020304, rec["c"])
	assert.InDelta(t, 1.0, rec["d"], 0.0001)
}

func TestParseStringModes(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		schema   *Schema
		data     []byte
		expected string
	}{
		"length + zeroTerminated, early stop": {
			schema:   Start().String("s", StringOpts{Length: 5, ZeroTerminated: true}),
			data:     []byte{'a', 'b', 0, 'c', 'd'},
			expected: "ab",
		},
		"length only, no stripping": {
			schema:   Start().String("s", StringOpts{Length: 3}),
			data:     []byte{'f', 'o', 'o'},
			expected: "foo",
		},
		"zeroTerminated only": {
			schema:   Start().String("s", StringOpts{ZeroTerminated: true}),
			data:     []byte{'h', 'i', 0, 'X'},
			expected: "hi",
		},
		"greedy": {
			schema:   Start().String("s", StringOpts{Greedy: true}),
			data:     []byte{'r', 'e', 's', 't'},
			expected: "rest",
		},
		"stripNull trailing": {
			schema:   Start().String("s", StringOpts{Length: 6, StripNull: true}),
			data:     []byte{'h', 'i', 0, 0, 0, 0},
			expected: "hi",
		},
		"trim whitespace": {
			schema:   Start().String("s", StringOpts{Length: 6, Trim: true}),
			data:     []byte{' ', 'h', 'i', ' ', ' ', ' '},
			expected: "hi",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			rec, err := tc.schema.Parse(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, rec["s"])
		})
	}
}

func TestParseBufferReadUntilPredicateStopsBeforeTerminator(t *testing.T) {
	t.Parallel()

	s := Start().Buffer("b", BufferOpts{
		ReadUntil: BufferReadUntil(func(b byte, remaining []byte) bool { return b == 0x00 }),
	}).Uint8("next")

	data := []byte{1, 2, 0, 3}
	rec, err := s.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, rec["b"])
	assert.EqualValues(t, 0, rec["next"])
}

func TestParseArrayByLength(t *testing.T) {
	t.Parallel()

	s := Start().Uint8("count").Array("items", ArrayOpts{Length: "count", Type: "uint8"})
	rec, err := s.Parse([]byte{3, 10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, []any{uint8(10), uint8(20), uint8(30)}, rec["items"])
}

func TestParseArrayLengthInBytes(t *testing.T) {
	t.Parallel()

	s := Start().Array("items", ArrayOpts{LengthInBytes: 4, Type: "uint16be"})
	rec, err := s.Parse([]byte{0, 1, 0, 2, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, []any{uint16(1), uint16(2)}, rec["items"])
}

func TestParseChoiceDefault(t *testing.T) {
	t.Parallel()

	s := Start().Uint8("tag").Choice("body", ChoiceOpts{
		Tag:           "tag",
		Choices:       map[int64]any{1: "uint8"},
		DefaultChoice: "uint16be",
	})

	rec, err := s.Parse([]byte{9, 0, 42})
	require.NoError(t, err)
	assert.EqualValues(t, 42, rec["body"])
}

func TestParseChoiceUndefinedTag(t *testing.T) {
	t.Parallel()

	s := Start().Uint8("tag").Choice("body", ChoiceOpts{
		Tag:     "tag",
		Choices: map[int64]any{1: "uint8"},
	})

	_, err := s.Parse([]byte{9, 0})
	require.Error(t, err)
	var undef *UndefinedTag
	require.ErrorAs(t, err, &undef)
}

func TestParseBitFieldsBigEndian(t *testing.T) {
	t.Parallel()

	s := Start().Bit("flag", 1).Bit("kind", 3).Bit("value", 4)
	rec, err := s.Parse([]byte{0b1_011_0101})
	require.NoError(t, err)
	assert.EqualValues(t, 1, rec["flag"])
	assert.EqualValues(t, 0b011, rec["kind"])
	assert.EqualValues(t, 0b0101, rec["value"])
}

func TestParseBitFieldsLittleEndian(t *testing.T) {
	t.Parallel()

	s := Start().Endianness("little").Bit("low", 4).Bit("high", 4)
	rec, err := s.Parse([]byte{0b1111_0001})
	require.NoError(t, err)
	assert.EqualValues(t, 0b0001, rec["low"])
	assert.EqualValues(t, 0b1111, rec["high"])
}

func TestParseNestedSchemaMergeAndNamed(t *testing.T) {
	t.Parallel()

	header := Start().Uint8("version")
	s := Start().Nest("", header).Nest("point", Start().Uint8("x").Uint8("y"))

	rec, err := s.Parse([]byte{1, 10, 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, rec["version"])
	point, ok := rec["point"].(Record)
	require.True(t, ok)
	assert.EqualValues(t, 10, point["x"])
	assert.EqualValues(t, 20, point["y"])
}

func TestParsePointerRestoresCursor(t *testing.T) {
	t.Parallel()

	s := Start().
		Uint8("offset").
		Pointer("linked", PointerOpts{Offset: "offset", Type: "uint8"}).
		Uint8("afterPointer")

	data := []byte{2, 0xAA, 0x42, 0xBB}
	rec, err := s.Parse(data)
	require.NoError(t, err)
	assert.EqualValues(t, 0x42, rec["linked"])
	assert.EqualValues(t, 0xAA, rec["afterPointer"])
}

func TestParseSaveOffsetAndSeek(t *testing.T) {
	t.Parallel()

	s := Start().SaveOffset("start").Seek(2).SaveOffset("end")
	rec, err := s.Parse([]byte{1, 2})
	require.NoError(t, err)
	assert.EqualValues(t, 0, rec["start"])
	assert.EqualValues(t, 2, rec["end"])
}

func TestParseFormatterAndAssert(t *testing.T) {
	t.Parallel()

	s := Start().Uint8("code").Formatter(func(v any, full []byte, offset int) any {
		return v.(uint8) * 2
	}).Assert(int64(20))

	rec, err := s.Parse([]byte{10})
	require.NoError(t, err)
	assert.EqualValues(t, 20, rec["code"])
}

func TestParseAssertFailure(t *testing.T) {
	t.Parallel()

	s := Start().Uint8("magic").Assert(int64(0xAB))
	_, err := s.Parse([]byte{0x01})
	require.Error(t, err)
	var af *AssertFailed
	require.ErrorAs(t, err, &af)
}
