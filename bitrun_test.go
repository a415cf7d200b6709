package binspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUpBitWidth(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		total       int
		expected    int
		expectError bool
	}{
		"zero":          {total: 0, expected: 0},
		"one bit":       {total: 1, expected: 8},
		"exactly eight": {total: 8, expected: 8},
		"nine bits":     {total: 9, expected: 16},
		"seventeen":     {total: 17, expected: 24},
		"twenty-five":   {total: 25, expected: 32},
		"too long":      {total: 33, expectError: true},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := roundUpBitWidth(tc.total)
			if tc.expectError {
				require.Error(t, err)
				var tooLong *BitSequenceTooLong
				require.ErrorAs(t, err, &tooLong)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestBitFieldShift(t *testing.T) {
	t.Parallel()

	// Two 3-bit fields packed into a rounded 8-bit container: the first
	// field (lowest cumulative offset) takes the top bits under
	// BigEndian, the bottom bits under LittleEndian.
	assert.Equal(t, 5, bitFieldShift(BigEndian, 8, 0, 3))
	assert.Equal(t, 2, bitFieldShift(BigEndian, 8, 3, 3))
	assert.Equal(t, 0, bitFieldShift(LittleEndian, 8, 0, 3))
	assert.Equal(t, 3, bitFieldShift(LittleEndian, 8, 3, 3))
}

func TestScanBitRun(t *testing.T) {
	t.Parallel()

	nodes := []*Node{
		{kind: KindBit, name: "a", opts: Options{BitWidth: 3}},
		{kind: KindBit, name: "b", opts: Options{BitWidth: 5}},
		{kind: KindUint8, name: "next"},
	}

	end, fields, total := scanBitRun(nodes, 0)
	assert.Equal(t, 2, end)
	assert.Equal(t, 8, total)
	require.Len(t, fields, 2)
	assert.Equal(t, 0, fields[0].cumulative)
	assert.Equal(t, 3, fields[1].cumulative)
}

func TestScanBitRunToleratesNest(t *testing.T) {
	t.Parallel()

	nodes := []*Node{
		{kind: KindBit, name: "a", opts: Options{BitWidth: 4}},
		{kind: KindNest, opts: Options{Type: Start()}},
		{kind: KindBit, name: "b", opts: Options{BitWidth: 4}},
		{kind: KindString, name: "tail"},
	}

	end, fields, total := scanBitRun(nodes, 0)
	assert.Equal(t, 3, end)
	assert.Equal(t, 8, total)
	require.Len(t, fields, 2)
}
