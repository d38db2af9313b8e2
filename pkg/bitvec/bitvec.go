// Package bitvec provides fixed-width bit vectors and the population
// container the genealogy pipeline operates on.
//
// A population is square by construction: N vectors, each N bits wide.
// Vectors are immutable once built and are referenced downstream by their
// population index, never copied except inside distance computations.
package bitvec

import (
	"fmt"
	"math/bits"
	"strings"
)

const wordBits = 64

// Vector is a fixed-width bit string tagged with its position in the
// population it belongs to. The zero value is not usable - use Parse.
type Vector struct {
	// Index is the vector's original position in the population.
	Index int

	words []uint64
	width int
}

// Parse builds a Vector from a string of '0' and '1' characters.
// Any other character is rejected with its offset in the string.
// Bit i of the result corresponds to s[i].
func Parse(index int, s string) (Vector, error) {
	v := Vector{
		Index: index,
		words: make([]uint64, (len(s)+wordBits-1)/wordBits),
		width: len(s),
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			v.words[i/wordBits] |= 1 << (uint(i) % wordBits)
		default:
			return Vector{}, fmt.Errorf("invalid character %q at offset %d", s[i], i)
		}
	}
	return v, nil
}

// Width returns the number of bits in the vector.
func (v Vector) Width() int { return v.width }

// Bit reports whether bit i is set. Panics if i is out of range.
func (v Vector) Bit(i int) bool {
	if i < 0 || i >= v.width {
		panic(fmt.Sprintf("bitvec: bit %d out of range [0,%d)", i, v.width))
	}
	return v.words[i/wordBits]&(1<<(uint(i)%wordBits)) != 0
}

// Hamming returns the number of differing bits between v and u.
// The caller is responsible for ensuring both vectors have equal width.
func (v Vector) Hamming(u Vector) int {
	d := 0
	for i := range v.words {
		d += bits.OnesCount64(v.words[i] ^ u.words[i])
	}
	return d
}

// String renders the vector as a '0'/'1' string in bit order.
func (v Vector) String() string {
	var b strings.Builder
	b.Grow(v.width)
	for i := 0; i < v.width; i++ {
		if v.Bit(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Population is an ordered collection of N vectors of width N.
type Population struct {
	Vectors []Vector
}

// Size returns the number of vectors (and the vector width) N.
func (p *Population) Size() int { return len(p.Vectors) }
