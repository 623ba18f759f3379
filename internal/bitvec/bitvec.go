// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitvec defines a growable bit vector used to
// track small sets of indices (enabled lights, pressed
// keys, free slots).
package bitvec

import (
	"iter"
	"math/bits"
	"unsafe"
)

// Uint represents the granularity of a bit vector.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// V is a growable bit vector with custom granularity.
// The zero value is an empty vector.
type V[T Uint] struct {
	s   []T
	rem int
}

func (*V[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// Len returns the number of bits in the vector.
func (v *V[_]) Len() int { return len(v.s) * v.nbit() }

// Rem returns the number of unset bits in the vector.
func (v *V[_]) Rem() int { return v.rem }

// Count returns the number of set bits in the vector.
func (v *V[_]) Count() int { return v.Len() - v.rem }

// Grow appends nplus Uints of unset bits to the vector.
// It returns the value of v.Len prior to growing.
func (v *V[T]) Grow(nplus int) (index int) {
	index = v.Len()
	if nplus > 0 {
		v.rem += nplus * v.nbit()
		v.s = append(v.s, make([]T, nplus)...)
	}
	return
}

// Fit grows the vector, if needed, so that index is in
// bounds.
func (v *V[T]) Fit(index int) {
	if index < v.Len() {
		return
	}
	n := v.nbit()
	v.Grow((index+n)/n - len(v.s))
}

func (v *V[T]) pos(index int) (int, T) {
	n := v.nbit()
	return index / n, T(1) << (index & (n - 1))
}

// Set sets a given bit.
func (v *V[T]) Set(index int) {
	i, b := v.pos(index)
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

// Unset unsets a given bit.
func (v *V[T]) Unset(index int) {
	i, b := v.pos(index)
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.rem++
	}
}

// IsSet checks whether a given bit is set.
// Indices out of bounds are reported as unset.
func (v *V[T]) IsSet(index int) bool {
	if index < 0 || index >= v.Len() {
		return false
	}
	i, b := v.pos(index)
	return v.s[i]&b != 0
}

// Search attempts to locate an unset bit in the vector.
// It fails only when v.Rem() == 0.
func (v *V[T]) Search() (index int, ok bool) {
	if v.rem == 0 {
		return
	}
	for i, x := range v.s {
		if x == ^T(0) {
			continue
		}
		return i*v.nbit() + bits.TrailingZeros64(uint64(^x)), true
	}
	return
}

// Clear unsets every bit in the vector.
func (v *V[T]) Clear() {
	clear(v.s)
	v.rem = v.Len()
}

// Ones returns an iterator over the indices of set bits,
// in increasing order.
func (v *V[T]) Ones() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := v.nbit()
		for i, x := range v.s {
			for x != 0 {
				b := bits.TrailingZeros64(uint64(x))
				if !yield(i*n + b) {
					return
				}
				x &^= T(1) << b
			}
		}
	}
}
