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

package idqueue

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPushPair(t *testing.T) {
	q := New(0)
	q.PushPair(1, 100)
	q.PushPair(2, 200)
	if diff := cmp.Diff([]int32{1, 100, 2, 200}, q.Slice()); diff != "" {
		t.Errorf("Slice mismatch (-want +got):\n%s", diff)
	}
}

func TestSortAsc(t *testing.T) {
	q := FromSlice([]int32{3, 1, 2})
	q.SortAsc()
	if diff := cmp.Diff([]int32{1, 2, 3}, q.Slice()); diff != "" {
		t.Errorf("Slice mismatch (-want +got):\n%s", diff)
	}
}

func TestEqualAndClone(t *testing.T) {
	a := FromSlice([]int32{1, 2, 3})
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatalf("clone should be equal")
	}
	b.Push(4)
	if a.Equal(b) {
		t.Fatalf("mutated clone should differ")
	}
	if a.Len() != 3 {
		t.Fatalf("original should be unaffected by clone mutation")
	}
}

func TestClear(t *testing.T) {
	q := FromSlice([]int32{1, 2, 3})
	q.Clear()
	if !q.Empty() {
		t.Fatalf("expected empty queue after Clear")
	}
	q.Push(9)
	if diff := cmp.Diff([]int32{9}, q.Slice()); diff != "" {
		t.Errorf("Slice mismatch (-want +got):\n%s", diff)
	}
}
