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
	"fmt"

	"github.com/rpm-software-management/dnf5-sub002/pool"
)

// filterField runs the shared NOT/positive dispatch over a single
// string attribute extracted by get, matching against any of patterns.
func (q *Query) filterField(get func(*pool.Solvable) string, cmp CmpType, patterns []string) error {
	if !cmp.Supported() {
		return fmt.Errorf("%w: %v", ErrUnsupportedCmp, cmp)
	}
	positive, negate := cmp.bare()
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		v := get(s)
		for _, pat := range patterns {
			if matchStringPositive(v, pat, positive) {
				tmp.Add(int(id))
				return
			}
		}
	})
	q.applyNot(tmp, negate)
	return nil
}

// FilterName matches on the solvable's name.
func (q *Query) FilterName(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string { return q.pool.LookupString(s.Name) }, cmp, patterns)
}

// FilterArch matches on the solvable's architecture.
func (q *Query) FilterArch(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string { return q.pool.LookupString(s.Arch) }, cmp, patterns)
}

// FilterVendor matches on the solvable's vendor.
func (q *Query) FilterVendor(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string { return q.pool.LookupString(s.Vendor) }, cmp, patterns)
}

// FilterEpoch matches on the solvable's evr epoch component.
func (q *Query) FilterEpoch(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string {
		return pool.ParseEVR(q.pool.LookupString(s.EVR)).Epoch
	}, cmp, patterns)
}

// FilterVersion matches on the solvable's evr version component.
func (q *Query) FilterVersion(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string {
		return pool.ParseEVR(q.pool.LookupString(s.EVR)).Version
	}, cmp, patterns)
}

// FilterRelease matches on the solvable's evr release component.
func (q *Query) FilterRelease(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string {
		return pool.ParseEVR(q.pool.LookupString(s.EVR)).Release
	}, cmp, patterns)
}

// FilterSourceRPM matches on the solvable's source rpm file name.
func (q *Query) FilterSourceRPM(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string { return s.SourceRPM }, cmp, patterns)
}

// FilterDescription matches on the solvable's description text.
func (q *Query) FilterDescription(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string { return s.Description }, cmp, patterns)
}

// FilterSummary matches on the solvable's summary text.
func (q *Query) FilterSummary(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string { return s.Summary }, cmp, patterns)
}

// FilterURL matches on the solvable's project URL.
func (q *Query) FilterURL(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string { return s.URL }, cmp, patterns)
}

// FilterLocation matches exactly on the solvable's relative package URL.
func (q *Query) FilterLocation(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string { return s.Location }, cmp, patterns)
}

// FilterRepoID matches on the name of the owning repository.
func (q *Query) FilterRepoID(cmp CmpType, patterns ...string) error {
	return q.filterField(func(s *pool.Solvable) string {
		if s.Repo == nil {
			return ""
		}
		return s.Repo.Name
	}, cmp, patterns)
}

// FilterFromRepoID is an alias of FilterRepoID: in this core every
// solvable carries exactly one owning repository, so "from repo" and
// "repo" coincide; a higher layer that tracks provenance across repo
// refreshes may give them different meanings.
func (q *Query) FilterFromRepoID(cmp CmpType, patterns ...string) error {
	return q.FilterRepoID(cmp, patterns...)
}

// FilterFile matches on any path in the solvable's file list.
func (q *Query) FilterFile(cmp CmpType, patterns ...string) error {
	if !cmp.Supported() {
		return fmt.Errorf("%w: %v", ErrUnsupportedCmp, cmp)
	}
	positive, negate := cmp.bare()
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		for _, f := range s.Files {
			for _, pat := range patterns {
				if matchStringPositive(f, pat, positive) {
					tmp.Add(int(id))
					return
				}
			}
		}
	})
	q.applyNot(tmp, negate)
	return nil
}

// FilterNevra matches patterns parsed as Nevra (or raw strings parsed
// with pool.ParseNevraForm(s, pool.FormNEVRA)); any empty field in the
// pattern is a wildcard, and for the list form a member matches if any
// pattern matches.
func (q *Query) FilterNevra(cmp CmpType, patterns ...pool.Nevra) error {
	positive, negate := cmp.bare()
	if positive != EQ && positive != GLOB {
		return fmt.Errorf("%w: %v", ErrUnsupportedCmp, cmp)
	}
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		n := nevraOf(q.pool, s)
		for _, pat := range patterns {
			if nevraMatches(pat, n, positive) {
				tmp.Add(int(id))
				return
			}
		}
	})
	q.applyNot(tmp, negate)
	return nil
}

func nevraOf(p *pool.Pool, s *pool.Solvable) pool.Nevra {
	evr := pool.ParseEVR(p.LookupString(s.EVR))
	return pool.Nevra{
		Name:    p.LookupString(s.Name),
		Epoch:   evr.Epoch,
		Version: evr.Version,
		Release: evr.Release,
		Arch:    p.LookupString(s.Arch),
	}
}

func nevraMatches(pat, n pool.Nevra, cmp CmpType) bool {
	fields := [][2]string{
		{pat.Name, n.Name},
		{pat.Epoch, n.Epoch},
		{pat.Version, n.Version},
		{pat.Release, n.Release},
		{pat.Arch, n.Arch},
	}
	for _, f := range fields {
		if f[0] == "" {
			continue
		}
		if cmp == GLOB {
			if !matchStringPositive(f[1], f[0], GLOB) {
				return false
			}
		} else if f[0] != f[1] {
			return false
		}
	}
	return true
}
