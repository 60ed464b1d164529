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
Package idqueue provides a growable, ordered sequence of ids.

It fits job tuples (a flag word followed by a selector id, see PushPair)
and step lists, where order matters and duplicate values are expected.
*/
package idqueue

import "sort"

// Queue is an ordered, growable sequence of int32 ids.
// The zero value is an empty queue, ready to use.
type Queue struct {
	ids []int32
}

// New returns an empty Queue with capacity for n elements.
func New(n int) *Queue {
	return &Queue{ids: make([]int32, 0, n)}
}

// FromSlice returns a Queue holding a copy of ids.
func FromSlice(ids []int32) *Queue {
	q := &Queue{ids: make([]int32, len(ids))}
	copy(q.ids, ids)
	return q
}

// Push appends a single id.
func (q *Queue) Push(id int32) {
	q.ids = append(q.ids, id)
}

// PushPair appends two ids together, used for (flag_word, selector_id)
// job tuples and other paired entries.
func (q *Queue) PushPair(a, b int32) {
	q.ids = append(q.ids, a, b)
}

// Len returns the number of ids in the queue.
func (q *Queue) Len() int { return len(q.ids) }

// Empty reports whether the queue holds no ids.
func (q *Queue) Empty() bool { return len(q.ids) == 0 }

// At returns the id at index i.
func (q *Queue) At(i int) int32 { return q.ids[i] }

// Set replaces the id at index i.
func (q *Queue) Set(i int, id int32) { q.ids[i] = id }

// Clear empties the queue without releasing its backing storage.
func (q *Queue) Clear() { q.ids = q.ids[:0] }

// Append adds another queue's contents to the end of this one.
func (q *Queue) Append(other *Queue) {
	q.ids = append(q.ids, other.ids...)
}

// Sort orders the queue's ids using less as the strict-less comparator.
func (q *Queue) Sort(less func(a, b int32) bool) {
	sort.Slice(q.ids, func(i, j int) bool { return less(q.ids[i], q.ids[j]) })
}

// SortAsc sorts the queue's ids in ascending numeric order.
func (q *Queue) SortAsc() {
	sort.Slice(q.ids, func(i, j int) bool { return q.ids[i] < q.ids[j] })
}

// Equal reports whether q and other hold the same ids in the same order.
func (q *Queue) Equal(other *Queue) bool {
	if len(q.ids) != len(other.ids) {
		return false
	}
	for i, v := range q.ids {
		if other.ids[i] != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the queue.
func (q *Queue) Clone() *Queue {
	return FromSlice(q.ids)
}

// Slice returns the queue's ids as a slice. The caller must not mutate it
// through any alias that outlives a subsequent Push/Clear.
func (q *Queue) Slice() []int32 { return q.ids }

// Contains reports whether id is present anywhere in the queue.
func (q *Queue) Contains(id int32) bool {
	for _, v := range q.ids {
		if v == id {
			return true
		}
	}
	return false
}
