package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Key64 accumulates values into a 64-bit xxhash digest.
type Key64 struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewKey64 returns an empty key builder.
func NewKey64() *Key64 {
	return &Key64{d: xxhash.New()}
}

// Uint64 adds v.
func (k *Key64) Uint64(v uint64) *Key64 {
	binary.LittleEndian.PutUint64(k.buf[:], v)
	_, _ = k.d.Write(k.buf[:])
	return k
}

// Int64 adds v.
func (k *Key64) Int64(v int64) *Key64 { return k.Uint64(uint64(v)) }

// Float64 adds the bits of v.
func (k *Key64) Float64(v float64) *Key64 { return k.Uint64(math.Float64bits(v)) }

// String adds a length-prefixed string.
func (k *Key64) String(s string) *Key64 {
	k.Uint64(uint64(len(s)))
	_, _ = k.d.WriteString(s)
	return k
}

// Sum returns the digest.
func (k *Key64) Sum() uint64 { return k.d.Sum64() }
