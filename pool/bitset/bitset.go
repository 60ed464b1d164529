// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package bitset provides a fixed-width growable bitmap indexed by a small
non-negative integer id.

It backs every package set in this module: membership,
union, intersection, difference and a lazy bit-scan iterator that never
materializes a slice unless asked to. The iterator walks a uint64 word at
a time using bits.TrailingZeros64, the idiomatic Go analogue of the
byte-aligned find-first-set table used by libsolv's Map.
*/
package bitset

import "math/bits"

const wordBits = 64

// Set is a bitmap over the range [0, n) for some n that grows on demand.
// The zero value is an empty set of size 0.
type Set struct {
	words []uint64
	// size is the number of addressable bits; len(words)*64 may exceed it
	// by up to 63 bits, since Grow rounds up to whole words.
	size int
}

// New returns a Set large enough to address ids in [0, size).
func New(size int) *Set {
	s := &Set{}
	s.Grow(size)
	return s
}

// Size reports the number of addressable bits.
func (s *Set) Size() int { return s.size }

// Grow extends the set so ids in [0, size) are addressable. It never
// shrinks the set. New bits are zero.
func (s *Set) Grow(size int) {
	if size <= s.size {
		return
	}
	need := (size + wordBits - 1) / wordBits
	if need > len(s.words) {
		nw := make([]uint64, need)
		copy(nw, s.words)
		s.words = nw
	}
	s.size = size
}

func (s *Set) wordIndex(id int) (int, uint64) {
	return id / wordBits, uint64(1) << uint(id%wordBits)
}

// Add sets id's bit, growing the set if necessary.
func (s *Set) Add(id int) {
	if id < 0 {
		return
	}
	if id >= s.size {
		s.Grow(id + 1)
	}
	w, bit := s.wordIndex(id)
	s.words[w] |= bit
}

// Remove clears id's bit. It is a no-op for an id outside the set's range.
func (s *Set) Remove(id int) {
	if id < 0 || id >= s.size {
		return
	}
	w, bit := s.wordIndex(id)
	s.words[w] &^= bit
}

// Contains reports whether id's bit is set. Ids outside the set's range
// are never contained.
func (s *Set) Contains(id int) bool {
	if id < 0 || id >= s.size {
		return false
	}
	w, bit := s.wordIndex(id)
	return s.words[w]&bit != 0
}

// ClearAll zeroes every bit without changing the size.
func (s *Set) ClearAll() {
	for i := range s.words {
		s.words[i] = 0
	}
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	c := &Set{size: s.size, words: make([]uint64, len(s.words))}
	copy(c.words, s.words)
	return c
}

// Count returns the number of set bits.
func (s *Set) Count() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Empty reports whether no bit is set.
func (s *Set) Empty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

func (s *Set) align(other *Set) {
	if other.size > s.size {
		s.Grow(other.size)
	}
}

// Union sets s to the union of s and other, growing s if needed.
func (s *Set) Union(other *Set) {
	s.align(other)
	for i, w := range other.words {
		s.words[i] |= w
	}
}

// Intersect sets s to the intersection of s and other. Bits beyond
// other's size are cleared, since other implicitly has zeros there.
func (s *Set) Intersect(other *Set) {
	for i := range s.words {
		var ow uint64
		if i < len(other.words) {
			ow = other.words[i]
		}
		s.words[i] &= ow
	}
}

// Subtract clears from s every bit that is set in other.
func (s *Set) Subtract(other *Set) {
	for i := range s.words {
		if i >= len(other.words) {
			break
		}
		s.words[i] &^= other.words[i]
	}
}

// Equal reports whether s and other contain exactly the same bits,
// irrespective of their addressable size.
func (s *Set) Equal(other *Set) bool {
	n := len(s.words)
	if len(other.words) > n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(s.words) {
			a = s.words[i]
		}
		if i < len(other.words) {
			b = other.words[i]
		}
		if a != b {
			return false
		}
	}
	return true
}

// Next returns the smallest set bit >= from, and true, or (0, false) if
// there is none. It is the primitive a ForEach/iterator is built on and
// never allocates.
func (s *Set) Next(from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	w := from / wordBits
	if w >= len(s.words) {
		return 0, false
	}
	// Mask off bits below `from` in the first word.
	first := s.words[w] &^ ((uint64(1) << uint(from%wordBits)) - 1)
	if first != 0 {
		return w*wordBits + bits.TrailingZeros64(first), true
	}
	for w++; w < len(s.words); w++ {
		if s.words[w] != 0 {
			return w*wordBits + bits.TrailingZeros64(s.words[w]), true
		}
	}
	return 0, false
}

// ForEach calls f for every set bit in ascending order.
func (s *Set) ForEach(f func(id int)) {
	for id, ok := s.Next(0); ok; id, ok = s.Next(id + 1) {
		f(id)
	}
}

// Slice materializes the set as a sorted slice of ids. Prefer ForEach or
// Next when a materialized slice isn't required by the caller.
func (s *Set) Slice() []int {
	out := make([]int, 0, s.Count())
	s.ForEach(func(id int) { out = append(out, id) })
	return out
}
