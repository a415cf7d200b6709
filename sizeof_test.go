package binspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeOfStaticSchema(t *testing.T) {
	t.Parallel()

	s := Start().
		Uint8("a").
		Uint16be("b").
		Buffer("c", BufferOpts{Length: 4}).
		Array("d", ArrayOpts{Length: 2, Type: "uint32be"})

	size, ok := s.SizeOf()
	assert.True(t, ok)
	assert.Equal(t, 1+2+4+2*4, size)
}

func TestSizeOfUnknownForDynamicFields(t *testing.T) {
	t.Parallel()

	tcs := map[string]*Schema{
		"greedy string":          Start().String("s", StringOpts{Greedy: true}),
		"zero-terminated string": Start().String("s", StringOpts{ZeroTerminated: true}),
		"readUntil buffer":       Start().Buffer("b", BufferOpts{ReadUntil: "eof"}),
		"length-in-bytes array":  Start().Array("a", ArrayOpts{LengthInBytes: 4, Type: "uint8"}),
		"bit field":              Start().Bit("b", 4),
		"choice":                 Start().Choice("c", ChoiceOpts{Tag: 0, Choices: map[int64]any{0: "uint8"}}),
		"pointer":                Start().Pointer("p", PointerOpts{Offset: 0, Type: "uint8"}),
	}

	for name, s := range tcs {
		t.Run(name, func(t *testing.T) {
			_, ok := s.SizeOf()
			assert.False(t, ok)
		})
	}
}

func TestSizeOfNestedSchema(t *testing.T) {
	t.Parallel()

	inner := Start().Uint8("x").Uint8("y")
	outer := Start().Nest("point", inner)

	size, ok := outer.SizeOf()
	assert.True(t, ok)
	assert.Equal(t, 2, size)
}

func TestSizeOfRegisteredAlias(t *testing.T) {
	Start().Uint16be("x").Uint16be("y").Namely("binspec_test_sizeof_point")

	outer := Start().Nest("p", "binspec_test_sizeof_point")
	size, ok := outer.SizeOf()
	assert.True(t, ok)
	assert.Equal(t, 4, size)
}
