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

package bitset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddContainsRemove(t *testing.T) {
	s := New(4)
	s.Add(1)
	s.Add(65)
	if !s.Contains(1) || !s.Contains(65) {
		t.Fatalf("expected 1 and 65 set")
	}
	if s.Contains(2) {
		t.Fatalf("2 should not be set")
	}
	s.Remove(1)
	if s.Contains(1) {
		t.Fatalf("1 should have been removed")
	}
}

func TestUnionIntersectSubtract(t *testing.T) {
	a := New(8)
	a.Add(1)
	a.Add(3)
	b := New(8)
	b.Add(3)
	b.Add(5)

	u := a.Clone()
	u.Union(b)
	if diff := cmp.Diff([]int{1, 3, 5}, u.Slice()); diff != "" {
		t.Errorf("Union mismatch (-want +got):\n%s", diff)
	}

	i := a.Clone()
	i.Intersect(b)
	if diff := cmp.Diff([]int{3}, i.Slice()); diff != "" {
		t.Errorf("Intersect mismatch (-want +got):\n%s", diff)
	}

	d := a.Clone()
	d.Subtract(b)
	if diff := cmp.Diff([]int{1}, d.Slice()); diff != "" {
		t.Errorf("Subtract mismatch (-want +got):\n%s", diff)
	}
}

func TestNextAcrossWords(t *testing.T) {
	s := New(200)
	s.Add(0)
	s.Add(63)
	s.Add(64)
	s.Add(191)
	got := s.Slice()
	want := []int{0, 63, 64, 191}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Slice mismatch (-want +got):\n%s", diff)
	}
}

func TestGrowPreservesBits(t *testing.T) {
	s := New(4)
	s.Add(2)
	s.Grow(1000)
	if !s.Contains(2) {
		t.Fatalf("bit lost across Grow")
	}
	if s.Size() < 1000 {
		t.Fatalf("Size() = %d, want >= 1000", s.Size())
	}
}

func TestEqualIgnoresTrailingSize(t *testing.T) {
	a := New(4)
	a.Add(1)
	b := New(500)
	b.Add(1)
	if !a.Equal(b) {
		t.Fatalf("expected equal sets regardless of addressable size")
	}
}

func TestCountAndEmpty(t *testing.T) {
	s := New(10)
	if !s.Empty() {
		t.Fatalf("new set should be empty")
	}
	s.Add(1)
	s.Add(9)
	if s.Empty() {
		t.Fatalf("set should not be empty")
	}
	if got := s.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
}
