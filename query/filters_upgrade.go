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
	"github.com/rpm-software-management/dnf5-sub002/pool"
)

// archUpgradeCompatible is the arch compatibility rule used when
// deciding whether one package can upgrade another: equal archs always
// qualify, noarch may cross to or from any non-source arch, and source
// archs never participate in an upgrade relation.
func archUpgradeCompatible(a, b string) bool {
	if a == b {
		return true
	}
	if a == pool.ArchSrc || a == pool.ArchNoSrc || b == pool.ArchSrc || b == pool.ArchNoSrc {
		return false
	}
	return a == pool.ArchNoarch || b == pool.ArchNoarch
}

// installedByName groups the Pool's installed-repo solvables by name id.
func installedByName(p *pool.Pool) map[pool.Id][]*pool.Solvable {
	out := make(map[pool.Id][]*pool.Solvable)
	repo := p.InstalledRepo()
	if repo == nil {
		return out
	}
	for i := 1; i < p.NSolvables(); i++ {
		id := pool.Id(i)
		s := p.MustSolvable(id)
		if s.Repo == repo {
			out[s.Name] = append(out[s.Name], s)
		}
	}
	return out
}

// FilterUpgrades restricts the query to members that can upgrade some
// installed package: same name, an arch-compatible installed sibling,
// and that sibling strictly older. A candidate whose name has an
// installed sibling at or above its own version upgrades nothing and is
// dropped, matching what_upgrades's "return none at all" behavior when
// a newer or equal copy is already installed.
func (q *Query) FilterUpgrades() {
	byName := installedByName(q.pool)
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		cArch := q.pool.LookupString(s.Arch)
		found, blocked := false, false
		for _, inst := range byName[s.Name] {
			if !archUpgradeCompatible(q.pool.LookupString(inst.Arch), cArch) {
				continue
			}
			c := q.pool.Evrcmp(inst.EVR, s.EVR)
			if c >= 0 {
				blocked = true
				break
			}
			found = true
		}
		if found && !blocked {
			tmp.Add(int(id))
		}
	})
	q.applyNot(tmp, false)
}

// FilterDowngrades restricts the query to members that can downgrade
// some installed package: same name and arch exactly, and an installed
// sibling strictly newer, with no installed sibling at or below the
// candidate's version.
func (q *Query) FilterDowngrades() {
	byName := installedByName(q.pool)
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		found, blocked := false, false
		for _, inst := range byName[s.Name] {
			if inst.Arch != s.Arch {
				continue
			}
			c := q.pool.Evrcmp(inst.EVR, s.EVR)
			if c <= 0 {
				blocked = true
				break
			}
			found = true
		}
		if found && !blocked {
			tmp.Add(int(id))
		}
	})
	q.applyNot(tmp, false)
}

// FilterUpgradable restricts the query to installed members for which
// some other solvable in the Pool can upgrade them.
func (q *Query) FilterUpgradable() {
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		sArch := q.pool.LookupString(s.Arch)
		for i := 1; i < q.pool.NSolvables(); i++ {
			cid := pool.Id(i)
			c := q.pool.MustSolvable(cid)
			if c.Name != s.Name || cid == id {
				continue
			}
			if !archUpgradeCompatible(sArch, q.pool.LookupString(c.Arch)) {
				continue
			}
			if q.pool.Evrcmp(c.EVR, s.EVR) > 0 {
				tmp.Add(int(id))
				break
			}
		}
	})
	q.applyNot(tmp, false)
}

// FilterDowngradable restricts the query to installed members for which
// some other solvable of the same name and arch in the Pool is older.
func (q *Query) FilterDowngradable() {
	tmp := q.newTemp()
	q.ForEach(func(id pool.Id) {
		s := q.pool.MustSolvable(id)
		for i := 1; i < q.pool.NSolvables(); i++ {
			cid := pool.Id(i)
			c := q.pool.MustSolvable(cid)
			if c.Name != s.Name || c.Arch != s.Arch || cid == id {
				continue
			}
			if q.pool.Evrcmp(c.EVR, s.EVR) < 0 {
				tmp.Add(int(id))
				break
			}
		}
	})
	q.applyNot(tmp, false)
}
