package binspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamelyRegistersAndResolves(t *testing.T) {
	Start().Uint8("x").Namely("binspec_test_point")

	s, ok := resolveAlias("binspec_test_point")
	require.True(t, ok)
	assert.Len(t, s.compile().nodes, 1)
}

func TestResolveTypeCatalogKindBeforeAlias(t *testing.T) {
	rt, err := resolveType("uint32be")
	require.NoError(t, err)
	assert.True(t, rt.isPrimitive())
	assert.Equal(t, KindUint32BE, rt.kind)
}

func TestResolveTypeUnknownAlias(t *testing.T) {
	_, err := resolveType("binspec_test_definitely_unregistered")
	require.Error(t, err)
	var unknown *UnknownAlias
	require.ErrorAs(t, err, &unknown)
}

// TestRecursiveAliasTerminates exercises a linked-list-style
// self-recursive alias: a node whose `next` field points at another node
// of the same alias, terminated by a zero tag choosing an empty schema.
func TestRecursiveAliasTerminates(t *testing.T) {
	node := Start().
		Uint8("value").
		Choice("next", ChoiceOpts{
			Tag:           "value",
			Choices:       map[int64]any{0: Start()},
			DefaultChoice: "binspec_test_linked_node",
		}).
		Namely("binspec_test_linked_node")

	// byte0=1 (non-zero tag) takes the default branch, recursing into the
	// linked schema once more; byte1=0 (zero tag) terminates with the
	// empty schema registered under choice 0.
	data := []byte{1, 0}
	rec, err := node.Parse(data)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rec["value"])

	next, ok := rec["next"].(Record)
	require.True(t, ok)
	assert.EqualValues(t, 0, next["value"])

	tail, ok := next["next"].(Record)
	require.True(t, ok)
	assert.Empty(t, tail)
}
