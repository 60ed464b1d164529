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

// UnneededResolver computes, for an installed-package set, the subset
// that a transient solve would not keep: packages installed only to
// satisfy a dependency chain that no longer reaches a user-requested
// package. Computing this requires running the goal solver, which
// itself depends on query to evaluate jobs; taking that dependency
// directly here would create an import cycle, so FilterUnneeded takes
// the solver as a caller-supplied function instead of importing the
// goal package.
type UnneededResolver func(p *pool.Pool, installed []pool.Id) ([]pool.Id, error)

// FilterUnneeded restricts the query to installed members that resolve
// would report as unneeded by solve, per resolver.
func (q *Query) FilterUnneeded(resolver UnneededResolver) error {
	installedQ := q.Clone()
	installedQ.FilterInstalled()
	unneeded, err := resolver(q.pool, installedQ.ToSlice())
	if err != nil {
		return err
	}
	tmp := q.newTemp()
	for _, id := range unneeded {
		tmp.Add(int(id))
	}
	q.applyNot(tmp, false)
	return nil
}
