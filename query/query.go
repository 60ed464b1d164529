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
Package query implements a composable boolean package query: a package
set plus a chain of filter operations that only ever shrinks it.

Every Filter* method follows the same shape: compute the positive match
into a fresh bitset, then either subtract it from the query's state
(NOT) or intersect with it (not-NOT). This keeps each filter's
positive-matching code free of NOT bookkeeping.
*/
package query

import (
	"errors"
	"sort"

	"github.com/rpm-software-management/dnf5-sub002/pool"
	"github.com/rpm-software-management/dnf5-sub002/pool/bitset"
)

// ErrUnsupportedCmp is returned when a filter is given a comparator it
// does not implement.
var ErrUnsupportedCmp = errors.New("query: unsupported comparator")

// ErrDifferentBase is returned when two queries or sets from distinct
// Pools are combined.
var ErrDifferentBase = errors.New("query: objects belong to different pools")

// Mode selects a Query's initial population.
type Mode int

const (
	// ApplyExcludes starts from the Pool's considered mask.
	ApplyExcludes Mode = iota
	// IgnoreExcludes starts from every solvable in the Pool.
	IgnoreExcludes
	// IgnoreRegularExcludes is like IgnoreExcludes in this module, since
	// the core does not itself distinguish "regular" vs "modular"
	// exclude categories; those belong to a higher configuration layer.
	// It is retained as a distinct named mode for callers that do draw
	// that distinction.
	IgnoreRegularExcludes
	// IgnoreModularExcludes: see IgnoreRegularExcludes.
	IgnoreModularExcludes
)

// Query is a package set plus the Pool it was drawn from.
type Query struct {
	pool *pool.Pool
	set  *bitset.Set
}

// New creates a Query over p, populated according to mode.
func New(p *pool.Pool, mode Mode) *Query {
	n := p.NSolvables()
	var set *bitset.Set
	switch mode {
	case ApplyExcludes:
		if c := p.Considered(); c != nil {
			set = c.Clone()
			set.Grow(n)
		} else {
			set = allSolvables(p)
		}
	default: // IgnoreExcludes and both partial-exclude modes
		set = allSolvables(p)
	}
	return &Query{pool: p, set: set}
}

// Empty returns a Query over p with no members.
func Empty(p *pool.Pool) *Query {
	return &Query{pool: p, set: bitset.New(p.NSolvables())}
}

func allSolvables(p *pool.Pool) *bitset.Set {
	s := bitset.New(p.NSolvables())
	for i := 1; i < p.NSolvables(); i++ {
		s.Add(i)
	}
	return s
}

// Pool returns the Query's owning Pool.
func (q *Query) Pool() *pool.Pool { return q.pool }

// Clone returns an independent copy of q.
func (q *Query) Clone() *Query {
	return &Query{pool: q.pool, set: q.set.Clone()}
}

// Len returns the number of solvables currently in the query.
func (q *Query) Len() int { return q.set.Count() }

// Contains reports whether id is a member of the query.
func (q *Query) Contains(id pool.Id) bool { return q.set.Contains(int(id)) }

// ForEach calls f for every member id in ascending order.
func (q *Query) ForEach(f func(pool.Id)) {
	q.set.ForEach(func(i int) { f(pool.Id(i)) })
}

// ToSlice materializes the query's members as a slice of ids, in
// ascending id order. Prefer ForEach when a materialized slice isn't
// required.
func (q *Query) ToSlice() []pool.Id {
	out := make([]pool.Id, 0, q.Len())
	q.ForEach(func(id pool.Id) { out = append(out, id) })
	return out
}

// ToSortedSlice materializes the query's members sorted by
// (name, arch, evr).
func (q *Query) ToSortedSlice() []pool.Id {
	ids := q.ToSlice()
	sort.Slice(ids, func(i, j int) bool {
		return q.less(ids[i], ids[j])
	})
	return ids
}

func (q *Query) less(a, b pool.Id) bool {
	sa, sb := q.pool.MustSolvable(a), q.pool.MustSolvable(b)
	na, nb := q.pool.LookupString(sa.Name), q.pool.LookupString(sb.Name)
	if na != nb {
		return na < nb
	}
	aa, ab := q.pool.LookupString(sa.Arch), q.pool.LookupString(sb.Arch)
	if aa != ab {
		return aa < ab
	}
	return q.pool.Evrcmp(sa.EVR, sb.EVR) < 0
}

// Set returns the query's underlying bitmap. Callers must treat it as
// read-only; mutate via a Filter method or via Union/Intersect/Subtract.
func (q *Query) Set() *bitset.Set { return q.set }

func (q *Query) checkBase(other *Query) error {
	if other != nil && other.pool != q.pool {
		return ErrDifferentBase
	}
	return nil
}

// Union adds every member of other into q.
func (q *Query) Union(other *Query) error {
	if err := q.checkBase(other); err != nil {
		return err
	}
	q.set.Union(other.set)
	return nil
}

// Intersect restricts q to members also present in other.
func (q *Query) Intersect(other *Query) error {
	if err := q.checkBase(other); err != nil {
		return err
	}
	q.set.Intersect(other.set)
	return nil
}

// Subtract removes every member of other from q.
func (q *Query) Subtract(other *Query) error {
	if err := q.checkBase(other); err != nil {
		return err
	}
	q.set.Subtract(other.set)
	return nil
}

// applyNot is the shared positive/NOT dispatch described in the package
// doc: callers build `positive`, the freshly computed match, and this
// folds it into q's state.
func (q *Query) applyNot(positive *bitset.Set, negate bool) {
	if negate {
		q.set.Subtract(positive)
	} else {
		q.set.Intersect(positive)
	}
}

func (q *Query) newTemp() *bitset.Set {
	return bitset.New(q.pool.NSolvables())
}
