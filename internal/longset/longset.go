// Package longset provides an immutable open-addressing set of int64 values
// for fast membership tests in doc-values set queries.
package longset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ErrUnsorted is returned when the input of New is not sorted.
var ErrUnsorted = errors.New("values must be sorted")

// missing marks an empty slot. Its use as a real value is tracked separately.
const missing = math.MinInt64

// Set is an immutable hash set of int64 values. The table size is the
// smallest power of two strictly greater than 1.5 times the number of unique
// values, so probing always terminates at a free slot.
type Set struct {
	table           []int64
	mask            int
	hasMissingValue bool
	size            int
	minValue        int64
	maxValue        int64
}

// New builds a set from sorted values. Duplicates are allowed.
func New(values []int64) (*Set, error) {
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			return nil, fmt.Errorf("%w: %d follows %d at index %d", ErrUnsorted, values[i], values[i-1], i)
		}
	}

	tableSize := 1 << bits.Len(uint(len(values)*3/2))
	s := &Set{
		table:    make([]int64, tableSize),
		mask:     tableSize - 1,
		minValue: math.MaxInt64,
		maxValue: math.MinInt64,
	}
	for i := range s.table {
		s.table[i] = missing
	}
	if len(values) > 0 {
		s.minValue = values[0]
		s.maxValue = values[len(values)-1]
	}

	for i, v := range values {
		if i > 0 && v == values[i-1] {
			continue
		}
		if v == missing {
			s.hasMissingValue = true
			s.size++
			continue
		}
		slot := s.slot(v)
		for s.table[slot] != missing {
			slot = (slot + 1) & s.mask
		}
		s.table[slot] = v
		s.size++
	}
	return s, nil
}

func (s *Set) slot(v int64) int {
	h := int32(v ^ int64(uint64(v)>>32))
	return int(h) & s.mask
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v int64) bool {
	if v == missing {
		return s.hasMissingValue
	}
	for slot := s.slot(v); ; slot = (slot + 1) & s.mask {
		switch s.table[slot] {
		case v:
			return true
		case missing:
			return false
		}
	}
}

// Size returns the number of unique values.
func (s *Set) Size() int { return s.size }

// MinValue returns the smallest value, or math.MaxInt64 for an empty set.
func (s *Set) MinValue() int64 { return s.minValue }

// MaxValue returns the largest value, or math.MinInt64 for an empty set.
func (s *Set) MaxValue() int64 { return s.maxValue }

// TableSize returns the number of slots in the hash table.
func (s *Set) TableSize() int { return len(s.table) }

// Values returns the unique values in ascending order.
func (s *Set) Values() []int64 {
	out := make([]int64, 0, s.size)
	if s.hasMissingValue {
		out = append(out, missing)
	}
	for _, v := range s.table {
		if v != missing {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets hold the same values.
func (s *Set) Equal(o *Set) bool {
	if s == o {
		return true
	}
	if o == nil || s.size != o.size || s.hasMissingValue != o.hasMissingValue ||
		s.minValue != o.minValue || s.maxValue != o.maxValue || len(s.table) != len(o.table) {
		return false
	}
	// identical inputs produce identical tables
	for i := range s.table {
		if s.table[i] != o.table[i] {
			return false
		}
	}
	return true
}

// Hash returns a stable hash of the set contents.
func (s *Set) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	write(uint64(s.size))
	write(uint64(s.minValue))
	write(uint64(s.maxValue))
	write(uint64(s.mask))
	if s.hasMissingValue {
		write(1)
	} else {
		write(0)
	}
	for _, v := range s.table {
		write(uint64(v))
	}
	return d.Sum64()
}

// String renders the sorted values.
func (s *Set) String() string {
	vals := s.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
