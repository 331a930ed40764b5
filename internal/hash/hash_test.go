package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32C(t *testing.T) {
	// standard check value for CRC32-Castagnoli
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))

	h := NewCRC32C()
	_, _ = h.Write([]byte("12345"))
	_, _ = h.Write([]byte("6789"))
	assert.Equal(t, uint32(0xe3069283), h.Sum32())

	require.NoError(t, VerifyCRC32C([]byte("123456789"), 0xe3069283))
	assert.ErrorIs(t, VerifyCRC32C([]byte("123456780"), 0xe3069283), ErrChecksumMismatch)
}

func TestKey64(t *testing.T) {
	a := NewKey64().String("ab").String("c").Sum()
	b := NewKey64().String("a").String("bc").Sum()
	assert.NotEqual(t, a, b, "strings are length prefixed")

	c := NewKey64().String("ab").String("c").Sum()
	assert.Equal(t, a, c)

	assert.NotEqual(t, NewKey64().Float64(1).Sum(), NewKey64().Int64(1).Sum())
}
