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

package query

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rpm-software-management/dnf5-sub002/pool"
)

func buildTestPool() (*pool.Pool, *pool.Repository, *pool.Repository) {
	p := pool.New()
	installed := p.AddRepository("@System", true)
	avail := p.AddRepository("fedora", false)
	return p, installed, avail
}

func names(p *pool.Pool, ids []pool.Id) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = p.FullNevra(id)
	}
	return out
}

func TestFilterNameExact(t *testing.T) {
	p, _, avail := buildTestPool()
	foo := p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "1.0-1", Arch: "x86_64"})
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "bar", EVR: "1.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	q := New(p, ApplyExcludes)
	if err := q.FilterName(EQ, "foo"); err != nil {
		t.Fatalf("FilterName: %v", err)
	}
	if got := q.ToSlice(); len(got) != 1 || got[0] != foo {
		t.Fatalf("FilterName(foo) = %v, want [%v]", got, foo)
	}
}

func TestFilterNameGlob(t *testing.T) {
	p, _, avail := buildTestPool()
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo-devel", EVR: "1.0-1", Arch: "x86_64"})
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo-libs", EVR: "1.0-1", Arch: "x86_64"})
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "bar", EVR: "1.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	q := New(p, ApplyExcludes)
	if err := q.FilterName(GLOB, "foo-*"); err != nil {
		t.Fatalf("FilterName: %v", err)
	}
	if got := q.Len(); got != 2 {
		t.Fatalf("FilterName(foo-*) matched %d, want 2", got)
	}
}

func TestFilterNameNot(t *testing.T) {
	p, _, avail := buildTestPool()
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "1.0-1", Arch: "x86_64"})
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "bar", EVR: "1.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	q := New(p, ApplyExcludes)
	if err := q.FilterName(EQ|NOT, "foo"); err != nil {
		t.Fatalf("FilterName: %v", err)
	}
	if got := q.Len(); got != 1 {
		t.Fatalf("FilterName(NOT foo) matched %d, want 1", got)
	}
}

func TestFilterUpgradesBasic(t *testing.T) {
	p, installed, avail := buildTestPool()
	p.AddSolvable(installed, pool.SolvableAttrs{Name: "foo", EVR: "1.0-1", Arch: "x86_64"})
	newer := p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "2.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	q := New(p, ApplyExcludes)
	q.FilterAvailable()
	q.FilterUpgrades()
	if got := q.ToSlice(); len(got) != 1 || got[0] != newer {
		t.Fatalf("FilterUpgrades = %v, want [%v]", got, newer)
	}
}

func TestFilterUpgradesBlockedByEqualInstalled(t *testing.T) {
	p, installed, avail := buildTestPool()
	p.AddSolvable(installed, pool.SolvableAttrs{Name: "foo", EVR: "2.0-1", Arch: "x86_64"})
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "2.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	q := New(p, ApplyExcludes)
	q.FilterAvailable()
	q.FilterUpgrades()
	if got := q.Len(); got != 0 {
		t.Fatalf("FilterUpgrades with equal installed version matched %d, want 0", got)
	}
}

func TestFilterUpgradableInstalled(t *testing.T) {
	p, installed, avail := buildTestPool()
	old := p.AddSolvable(installed, pool.SolvableAttrs{Name: "foo", EVR: "1.0-1", Arch: "x86_64"})
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "2.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	q := New(p, ApplyExcludes)
	q.FilterInstalled()
	q.FilterUpgradable()
	if got := q.ToSlice(); len(got) != 1 || got[0] != old {
		t.Fatalf("FilterUpgradable = %v, want [%v]", got, old)
	}
}

func TestFilterLatestEVR(t *testing.T) {
	p, _, avail := buildTestPool()
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "1.0-1", Arch: "x86_64"})
	latest := p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "2.0-1", Arch: "x86_64"})
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "1.5-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	q := New(p, ApplyExcludes)
	q.FilterLatestEVR(1, false)
	if got := q.ToSlice(); len(got) != 1 || got[0] != latest {
		t.Fatalf("FilterLatestEVR(1) = %v, want [%v]", got, latest)
	}
}

func TestFilterLatestEVRNegativeDropsNewest(t *testing.T) {
	p, _, avail := buildTestPool()
	oldest := p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "1.0-1", Arch: "x86_64"})
	mid := p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "1.5-1", Arch: "x86_64"})
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "2.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	// n = -1 drops the single highest-evr member, keeping the rest.
	q := New(p, ApplyExcludes)
	q.FilterLatestEVR(-1, false)
	got := q.ToSlice()
	want := []pool.Id{oldest, mid}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FilterLatestEVR(-1) mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterVersionlockExcludesLockedId(t *testing.T) {
	p, _, avail := buildTestPool()
	locked := p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "1.0-1", Arch: "x86_64"})
	free := p.AddSolvable(avail, pool.SolvableAttrs{Name: "bar", EVR: "1.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()
	p.SetVersionlock([]pool.Id{locked})

	q := New(p, ApplyExcludes)
	q.FilterVersionlock()
	if got := q.ToSlice(); len(got) != 1 || got[0] != free {
		t.Fatalf("FilterVersionlock = %v, want [%v]", got, free)
	}
}

func TestFilterLeavesDropsRequiredPackage(t *testing.T) {
	p, _, avail := buildTestPool()
	libEVR := p.InternString("1.0-1")
	libNameID := p.InternString("lib")
	libReldep := p.InternReldep(libNameID, pool.CmpEQ, libEVR)
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "lib", EVR: "1.0-1", Arch: "x86_64"})
	top := p.AddSolvable(avail, pool.SolvableAttrs{
		Name: "app", EVR: "1.0-1", Arch: "x86_64",
		Requires: []pool.Id{libReldep},
	})
	p.MakeProvidesReady()

	q := New(p, ApplyExcludes)
	q.FilterLeaves(false)
	got := q.ToSlice()
	if len(got) != 1 || got[0] != top {
		t.Fatalf("FilterLeaves = %v (%v), want only [%v]", got, names(p, got), top)
	}
}

func TestResolvePkgSpecNevraForm(t *testing.T) {
	p, _, avail := buildTestPool()
	id := p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "1.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	q := New(p, ApplyExcludes)
	ok, _ := q.ResolvePkgSpec("foo-1.0-1.x86_64", ResolveSettings{WithNevra: true})
	if !ok {
		t.Fatalf("ResolvePkgSpec: expected match")
	}
	if got := q.ToSlice(); len(got) != 1 || got[0] != id {
		t.Fatalf("ResolvePkgSpec result = %v, want [%v]", got, id)
	}
}

func TestResolvePkgSpecMiss(t *testing.T) {
	p, _, avail := buildTestPool()
	p.AddSolvable(avail, pool.SolvableAttrs{Name: "foo", EVR: "1.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	q := New(p, ApplyExcludes)
	ok, nevra := q.ResolvePkgSpec("doesnotexist", ResolveSettings{WithNevra: true})
	if ok {
		t.Fatalf("ResolvePkgSpec: expected miss")
	}
	if diff := cmp.Diff(pool.Nevra{}, nevra); diff != "" {
		t.Errorf("nevra mismatch (-want +got):\n%s", diff)
	}
	if q.Len() != 0 {
		t.Fatalf("query after miss should be empty, got %d", q.Len())
	}
}
