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

import "github.com/rpm-software-management/dnf5-sub002/pool"

// FilterPredicate restricts the query to members satisfying pred (or,
// if negate, to members not satisfying it). It exists so callers
// outside this package, such as the advisory query, can add a filter
// stage without this package importing theirs.
func (q *Query) FilterPredicate(pred func(*pool.Solvable) bool, negate bool) {
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		if pred(q.pool.MustSolvable(id)) {
			tmp.Add(int(id))
		}
	})
	q.applyNot(tmp, negate)
}

// FilterInstalled restricts the query to members in the Pool's
// installed repository.
func (q *Query) FilterInstalled() {
	repo := q.pool.InstalledRepo()
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		if s := q.pool.MustSolvable(id); s.Repo == repo && repo != nil {
			tmp.Add(int(id))
		}
	})
	q.applyNot(tmp, false)
}

// FilterAvailable restricts the query to members outside the Pool's
// installed repository.
func (q *Query) FilterAvailable() {
	repo := q.pool.InstalledRepo()
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		if s := q.pool.MustSolvable(id); s.Repo != repo {
			tmp.Add(int(id))
		}
	})
	q.applyNot(tmp, false)
}

// FilterPriority restricts, for each package name, the available
// members to those from the highest-priority repository offering that
// name, where priority is compared numerically (higher value wins).
// Arch is not part of the grouping. Installed members are left untouched.
func (q *Query) FilterPriority() {
	best := make(map[pool.Id]int) // name id -> best priority seen
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		if s.Repo == nil || s.Repo.Installed {
			return
		}
		if cur, ok := best[s.Name]; !ok || s.Repo.Priority > cur {
			best[s.Name] = s.Repo.Priority
		}
	})
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		if s.Repo == nil || s.Repo.Installed {
			tmp.Add(int(id))
			return
		}
		if s.Repo.Priority == best[s.Name] {
			tmp.Add(int(id))
		}
	})
	q.applyNot(tmp, false)
}

// FilterDuplicates restricts the query to installed members sharing a
// name and arch with at least one other installed member: the classic
// "installed more than once" detector. Versions are not compared.
func (q *Query) FilterDuplicates() {
	type key struct {
		name, arch pool.Id
	}
	groups := make(map[key][]pool.Id)
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		if s.Repo == nil || !s.Repo.Installed {
			return
		}
		k := key{s.Name, s.Arch}
		groups[k] = append(groups[k], id)
	})
	tmp := q.newTemp()
	for _, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			tmp.Add(int(id))
		}
	}
	q.applyNot(tmp, false)
}

// FilterVersionlock removes members excluded by the Pool's versionlock
// set (see pool.Pool.SetVersionlock).
func (q *Query) FilterVersionlock() {
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		if q.pool.IsVersionlocked(id) {
			tmp.Add(int(id))
		}
	})
	q.applyNot(tmp, true)
}

// FilterExtras restricts the query to installed packages whose exact
// NEVRA is not present in any available repository: locally built or
// orphaned packages.
func (q *Query) FilterExtras() {
	available := make(map[pool.Nevra]bool)
	for i := 1; i < q.pool.NSolvables(); i++ {
		id := pool.Id(i)
		s := q.pool.MustSolvable(id)
		if s.Repo != nil && s.Repo.Installed {
			continue
		}
		available[nevraOf(q.pool, s)] = true
	}
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		if s.Repo == nil || !s.Repo.Installed {
			return
		}
		if !available[nevraOf(q.pool, s)] {
			tmp.Add(int(id))
		}
	})
	q.applyNot(tmp, false)
}
