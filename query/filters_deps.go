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

// DepKind selects which dependency array a dependency filter inspects.
type DepKind int

const (
	DepRequires DepKind = iota
	DepRecommends
	DepSuggests
	DepSupplements
	DepEnhances
	DepConflicts
	DepObsoletes
	DepProvides
)

func depsOf(s *pool.Solvable, kind DepKind) []pool.Id {
	switch kind {
	case DepRequires:
		return s.Requires
	case DepRecommends:
		return s.Recommends
	case DepSuggests:
		return s.Suggests
	case DepSupplements:
		return s.Supplements
	case DepEnhances:
		return s.Enhances
	case DepConflicts:
		return s.Conflicts
	case DepObsoletes:
		return s.Obsoletes
	case DepProvides:
		return s.Provides
	default:
		return nil
	}
}

// FilterDep matches solvables carrying, in the dependency array
// identified by kind, a reldep whose rendered text satisfies cmp
// against any of patterns.
func (q *Query) FilterDep(kind DepKind, cmp CmpType, patterns ...string) error {
	if !cmp.Supported() {
		return fmt.Errorf("%w: %v", ErrUnsupportedCmp, cmp)
	}
	positive, negate := cmp.bare()
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		for _, rd := range depsOf(s, kind) {
			text := q.pool.ReldepString(rd)
			for _, pat := range patterns {
				if matchStringPositive(text, pat, positive) {
					tmp.Add(int(id))
					return
				}
			}
		}
	})
	q.applyNot(tmp, negate)
	return nil
}

// FilterProvidesReldep restricts the query to solvables that provide
// reldepID, resolved through the Pool's whatprovides index. MakeProvidesReady
// must have been called on the Pool beforehand.
func (q *Query) FilterProvidesReldep(reldepID pool.Id, negate bool) {
	provides := q.pool.WhatprovidesSet(reldepID)
	q.applyNot(provides, negate)
}

// FilterRequiresReldep restricts the query to solvables whose Requires
// array contains reldepID verbatim (not resolved through whatprovides;
// for "what requires X, counting providers of X" combine with
// FilterProvidesReldep on a separate query and match against the union
// of provider reldep ids).
func (q *Query) FilterRequiresReldep(reldepID pool.Id, negate bool) {
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		for _, rd := range s.Requires {
			if rd == reldepID {
				tmp.Add(int(id))
				return
			}
		}
	})
	q.applyNot(tmp, negate)
}
