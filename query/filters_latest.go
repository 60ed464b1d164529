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

	"github.com/rpm-software-management/dnf5-sub002/pool"
)

type evrGroupKey struct {
	name, arch pool.Id
}

// FilterLatestEVR keeps, for every (name, arch) group, the first n
// distinct evrs in descending order; n == 0 means "no limit", a no-op.
// Negative n drops the first |n| distinct evrs instead (the highest
// |n| versions), keeping the rest of the group. anyArch collapses arch
// out of the grouping key, so ranks are computed across all of a
// name's architectures combined.
func (q *Query) FilterLatestEVR(n int, anyArch bool) {
	if n == 0 {
		return
	}
	q.filterExtremeEVR(n, anyArch, true)
}

// FilterEarliestEVR keeps, for every (name, arch) group, the first n
// distinct evrs in ascending order; negative n drops the first |n|
// (the lowest |n| versions) instead. See FilterLatestEVR for anyArch.
func (q *Query) FilterEarliestEVR(n int, anyArch bool) {
	if n == 0 {
		return
	}
	q.filterExtremeEVR(n, anyArch, false)
}

func (q *Query) filterExtremeEVR(n int, anyArch, latest bool) {
	groups := make(map[evrGroupKey][]pool.Id)
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		k := evrGroupKey{name: s.Name}
		if !anyArch {
			k.arch = s.Arch
		}
		groups[k] = append(groups[k], id)
	})

	drop := n < 0
	limit := n
	if drop {
		limit = -n
	}

	tmp := q.newTemp()
	for _, ids := range groups {
		sort.Slice(ids, func(i, j int) bool {
			c := q.pool.Evrcmp(q.pool.MustSolvable(ids[i]).EVR, q.pool.MustSolvable(ids[j]).EVR)
			if latest {
				return c > 0
			}
			return c < 0
		})
		// distinct evr "ranks": limit counts distinct version values,
		// not individual members, so ties at the cut keep (or drop)
		// every tied member together.
		distinct := 0
		var lastEVR pool.Id
		haveLast := false
		for _, id := range ids {
			evr := q.pool.MustSolvable(id).EVR
			if !haveLast || evr != lastEVR {
				distinct++
				lastEVR = evr
				haveLast = true
			}
			within := distinct <= limit
			if within != drop {
				tmp.Add(int(id))
			}
		}
	}
	q.applyNot(tmp, false)
}
