package binspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripPrimitives(t *testing.T) {
	t.Parallel()

	s := Start().Uint8("a").Int16be("b").Uint32le("c")
	data := []byte{0xFF, 0xFF, 0xFE, 0x04, 0x03, 0x02, 0x01}

	rec, err := s.Parse(data)
	require.NoError(t, err)

	out, err := s.Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestRoundTripBitPackingBothEndians(t *testing.T) {
	t.Parallel()

	for _, endian := range []string{"big", "little"} {
		t.Run(endian, func(t *testing.T) {
			s := Start().Endianness(endian).Bit("a", 3).Bit("b", 5)
			data := []byte{0b101_10110}

			rec, err := s.Parse(data)
			require.NoError(t, err)

			out, err := s.Encode(rec)
			require.NoError(t, err)
			assert.Equal(t, data, out)
		})
	}
}

func TestRoundTripLengthPrefixedArray(t *testing.T) {
	t.Parallel()

	s := Start().Uint8("count").Array("items", ArrayOpts{Length: "count", Type: "uint16be"})
	data := []byte{2, 0, 10, 0, 20}

	rec, err := s.Parse(data)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rec["count"])

	out, err := s.Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestRoundTripChoiceWithDefault(t *testing.T) {
	t.Parallel()

	s := Start().Uint8("tag").Choice("body", ChoiceOpts{
		Tag:           "tag",
		Choices:       map[int64]any{1: "uint8"},
		DefaultChoice: "uint16be",
	})

	for _, data := range [][]byte{{1, 0x7F}, {9, 0, 42}} {
		rec, err := s.Parse(data)
		require.NoError(t, err)

		out, err := s.Encode(rec)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	}
}

// TestRoundTripRecursiveAliasChain decodes and re-encodes a short linked
// chain of self-referential nodes, confirming the lazy alias resolution
// in plan.go survives a full Parse -> Encode -> Parse cycle rather than
// just a single decode.
func TestRoundTripRecursiveAliasChain(t *testing.T) {
	Start().
		Uint8("value").
		Choice("next", ChoiceOpts{
			Tag:           "value",
			Choices:       map[int64]any{0: Start()},
			DefaultChoice: "binspec_test_roundtrip_linked_node",
		}).
		Namely("binspec_test_roundtrip_linked_node")

	node, ok := resolveAlias("binspec_test_roundtrip_linked_node")
	require.True(t, ok)

	data := []byte{1, 2, 0}

	rec, err := node.Parse(data)
	require.NoError(t, err)

	out, err := node.Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	rec2, err := node.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, rec, rec2)
}

func TestRoundTripNestedRecord(t *testing.T) {
	t.Parallel()

	s := Start().Uint8("version").Nest("point", Start().Uint8("x").Uint8("y"))
	data := []byte{1, 10, 20}

	rec, err := s.Parse(data)
	require.NoError(t, err)

	out, err := s.Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}
