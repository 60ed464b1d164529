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

package advisory

import (
	"strings"

	"github.com/rpm-software-management/dnf5-sub002/pool"
	"github.com/rpm-software-management/dnf5-sub002/query"
)

// Query is a narrowing filter chain over an advisory set, mirroring
// query.Query's shape for packages.
type Query struct {
	pool       *pool.Pool
	advisories []*Advisory
}

// New returns a Query over every advisory in all.
func New(p *pool.Pool, all []*Advisory) *Query {
	cp := make([]*Advisory, len(all))
	copy(cp, all)
	return &Query{pool: p, advisories: cp}
}

// Len returns the number of advisories currently in the query.
func (q *Query) Len() int { return len(q.advisories) }

// ToSlice returns the query's current advisory set.
func (q *Query) ToSlice() []*Advisory {
	out := make([]*Advisory, len(q.advisories))
	copy(out, q.advisories)
	return out
}

func (q *Query) keep(pred func(*Advisory) bool) {
	kept := q.advisories[:0]
	for _, a := range q.advisories {
		if pred(a) {
			kept = append(kept, a)
		}
	}
	q.advisories = kept
}

// FilterName matches on the advisory id/name, with the internal
// "advisory:" solvable-name prefix stripped before matching.
func (q *Query) FilterName(cmp query.CmpType, patterns ...string) {
	q.keep(func(a *Advisory) bool {
		name := strings.TrimPrefix(a.Name, namePrefix)
		for _, pat := range patterns {
			if query.MatchString(name, pat, cmp) {
				return true
			}
		}
		return false
	})
}

// FilterType restricts the query to advisories of one of kinds.
func (q *Query) FilterType(kinds ...Kind) {
	q.keep(func(a *Advisory) bool {
		for _, k := range kinds {
			if a.Kind == k {
				return true
			}
		}
		return false
	})
}

// FilterSeverity restricts the query to advisories of one of severities.
func (q *Query) FilterSeverity(severities ...Severity) {
	q.keep(func(a *Advisory) bool {
		for _, s := range severities {
			if a.Severity == s {
				return true
			}
		}
		return false
	})
}

// FilterReference restricts the query to advisories carrying a
// reference matching pattern; refType, if non-empty, additionally
// restricts to references of that type (e.g. "cve", "bugzilla").
func (q *Query) FilterReference(refType string, cmp query.CmpType, patterns ...string) {
	q.keep(func(a *Advisory) bool {
		for _, ref := range a.References {
			if refType != "" && ref.Type != refType {
				continue
			}
			for _, pat := range patterns {
				if query.MatchString(ref.ID, pat, cmp) {
					return true
				}
			}
		}
		return false
	})
}

// FilterPackages restricts the query to advisories with at least one
// package matching a member of pkgs, compared by (name, evr, arch) when
// exact is true or by name and arch only (any evr) when exact is false.
func (q *Query) FilterPackages(pkgs *query.Query, exact bool) {
	type key struct{ name, arch string }
	byKey := make(map[key][]string) // -> evrs seen
	pkgs.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		n := q.pool.LookupString(s.Name)
		arch := q.pool.LookupString(s.Arch)
		evr := q.pool.LookupString(s.EVR)
		byKey[key{n, arch}] = append(byKey[key{n, arch}], evr)
	})
	q.keep(func(a *Advisory) bool {
		for _, p := range a.Packages {
			evrs, ok := byKey[key{p.Name, p.Arch}]
			if !ok {
				continue
			}
			if !exact {
				return true
			}
			want := pool.EVR{Epoch: p.Epoch, Version: p.Version, Release: p.Release}.String()
			for _, evr := range evrs {
				if evr == want {
					return true
				}
			}
		}
		return false
	})
}

// Applicable restricts the query to advisories where at least one
// package can upgrade something currently installed in the Pool.
func (q *Query) Applicable() {
	q.keep(func(a *Advisory) bool { return a.isApplicable(q.pool) })
}

func (a *Advisory) isApplicable(p *pool.Pool) bool {
	repo := p.InstalledRepo()
	if repo == nil {
		return false
	}
	for _, pkg := range a.Packages {
		nameID, ok := p.FindString(pkg.Name)
		if !ok {
			continue
		}
		for i := 1; i < p.NSolvables(); i++ {
			id := pool.Id(i)
			s := p.MustSolvable(id)
			if s.Repo != repo || s.Name != nameID {
				continue
			}
			archOK := p.LookupString(s.Arch) == pkg.Arch || pkg.Arch == "" || pkg.Arch == pool.ArchNoarch
			if !archOK {
				continue
			}
			evr := pool.EVR{Epoch: pkg.Epoch, Version: pkg.Version, Release: pkg.Release}
			if evr.Compare(pool.ParseEVR(p.LookupString(s.EVR))) > 0 {
				return true
			}
		}
	}
	return false
}

