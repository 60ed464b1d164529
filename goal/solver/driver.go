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

package solver

import (
	"sort"

	"github.com/rpm-software-management/dnf5-sub002/pool"
	"github.com/rpm-software-management/dnf5-sub002/transaction"
)

// Options carries the driver's fixed flag contract plus the policy
// knobs a Goal resolves before calling Solve.
type Options struct {
	KeepOrphans          bool
	BestObeyPolicy       bool
	YumObsoletes         bool
	IgnoreRecommended    bool
	AllowDowngrade       bool
	AllowVendorChange    bool
	DupAllowVendorChange bool
	AllowUninstallAll    bool // SOLVER_ALLOWUNINSTALL applied to every installed solvable

	Protected        map[pool.Id]bool
	InstallOnlyLimit map[pool.Id]int // by package name id
}

// ExitCode mirrors the solver's coarse outcome.
type ExitCode int

const (
	Solved ExitCode = iota
	Unsolvable
)

// Driver is the stateful solve session: constructed fresh per resolve,
// it owns the working "what ends up installed" set and the bookkeeping
// needed to answer get_reason/list_* after Solve returns.
type Driver struct {
	pool *pool.Pool
	opts Options

	// keep is the working installed-state set: solvable ids (from any
	// repo) that are installed once the transaction applies.
	keep map[pool.Id]bool

	// replaces maps a newly kept id to the previously-installed id of
	// the same name it supersedes, when applicable.
	replaces map[pool.Id]pool.Id

	reasons map[pool.Id]transaction.Reason

	problems []transaction.Problem

	exit ExitCode
}

// NewDriver returns a Driver seeded from p's current installed repo.
func NewDriver(p *pool.Pool, opts Options) *Driver {
	d := newBareDriver(p, opts)
	if repo := p.InstalledRepo(); repo != nil {
		for i := 1; i < p.NSolvables(); i++ {
			id := pool.Id(i)
			if s := p.MustSolvable(id); s.Repo == repo {
				d.keep[id] = true
				d.reasons[id] = transaction.ReasonUser
			}
		}
	}
	return d
}

// NewEmptyDriver returns a Driver whose working set starts empty
// regardless of what is installed in p. It exists for transient
// closure computations (e.g. "what does installing only these packages
// pull in") that must not assume the current installed set is correct.
func NewEmptyDriver(p *pool.Pool, opts Options) *Driver {
	return newBareDriver(p, opts)
}

func newBareDriver(p *pool.Pool, opts Options) *Driver {
	return &Driver{
		pool:     p,
		opts:     opts,
		keep:     make(map[pool.Id]bool),
		replaces: make(map[pool.Id]pool.Id),
		reasons:  make(map[pool.Id]transaction.Reason),
	}
}

func (d *Driver) addProblem(rules ...transaction.Rule) {
	d.problems = append(d.problems, transaction.Problem{Rules: rules})
	d.exit = Unsolvable
}

// Solve processes jobs in order, mutating the driver's working set.
// It never panics on an unsatisfiable job; it records a Problem and
// continues with the remaining jobs so independent problems can all be
// reported together.
func (d *Driver) Solve(jobs []Job) ExitCode {
	for _, j := range jobs {
		d.applyJob(j)
	}
	if d.opts.InstallOnlyLimit != nil {
		d.trimInstallOnly()
	}
	if len(d.problems) > 0 {
		d.exit = Unsolvable
	}
	return d.exit
}

func (d *Driver) applyJob(j Job) {
	switch j.Action {
	case ActionInstall:
		d.install(j)
	case ActionErase:
		d.erase(j)
	case ActionUpdate:
		d.update(j)
	case ActionDistupgrade:
		d.distupgrade(j)
	case ActionUserInstalled:
		for _, id := range j.Ids {
			d.reasons[id] = transaction.ReasonUser
		}
	case ActionAllowUninstall, ActionLock, ActionExcludeFromWeak, ActionVerify:
		// Policy-only bits; no direct effect on the working set here.
	}
}

func (d *Driver) candidates(j Job) []pool.Id {
	if j.Selector == SelectorProvides {
		return d.pool.Whatprovides(j.Reldep)
	}
	return j.Ids
}

// bestCandidate picks the highest-evr, highest-repo-priority solvable
// among ids.
func (d *Driver) bestCandidate(ids []pool.Id) pool.Id {
	if len(ids) == 0 {
		return pool.NoId
	}
	best := ids[0]
	bs := d.pool.MustSolvable(best)
	for _, id := range ids[1:] {
		s := d.pool.MustSolvable(id)
		if c := d.pool.Evrcmp(s.EVR, bs.EVR); c > 0 {
			best, bs = id, s
			continue
		} else if c < 0 {
			continue
		}
		if s.Repo != nil && bs.Repo != nil && s.Repo.Priority > bs.Repo.Priority {
			best, bs = id, s
		}
	}
	return best
}

// installedSibling finds the kept solvable that target replaces: same
// name and same arch, so distinct multilib arches of one name (e.g.
// glibc.x86_64 and glibc.i686) coexist as independent slots instead of
// evicting each other.
func (d *Driver) installedSibling(s *pool.Solvable) (pool.Id, bool) {
	for id := range d.keep {
		other := d.pool.MustSolvable(id)
		if other.Name == s.Name && other.Arch == s.Arch {
			return id, true
		}
	}
	return pool.NoId, false
}

func (d *Driver) conflicts(a, b *pool.Solvable) bool {
	for _, rd := range a.Conflicts {
		for _, id := range d.pool.Whatprovides(rd) {
			if id == b.ID {
				return true
			}
		}
	}
	return false
}

// selfConflicts reports whether s's own Conflicts set is satisfied by
// s itself, e.g. a Conflicts on its own "name = evr": such a package can
// never be installed regardless of what else is kept.
func (d *Driver) selfConflicts(s *pool.Solvable) bool {
	for _, rd := range s.Conflicts {
		for _, id := range d.pool.Whatprovides(rd) {
			if id == s.ID {
				return true
			}
		}
	}
	return false
}

func (d *Driver) hasConflictWithKept(id pool.Id) (pool.Id, bool) {
	s := d.pool.MustSolvable(id)
	for other := range d.keep {
		if other == id {
			continue
		}
		os := d.pool.MustSolvable(other)
		if d.conflicts(s, os) || d.conflicts(os, s) {
			return other, true
		}
	}
	return pool.NoId, false
}

// evictionBreaksRequires reports whether removing sibling from the
// working set (to make room for target, its same-name replacement)
// would strand some other kept package's requires: a reldep that only
// sibling satisfies, and that target doesn't satisfy in its place.
func (d *Driver) evictionBreaksRequires(sibling, target pool.Id) (pool.Id, pool.Id, bool) {
	for other := range d.keep {
		if other == sibling {
			continue
		}
		os := d.pool.MustSolvable(other)
		for _, req := range os.Requires {
			var providesSibling, providesElsewhere bool
			for _, pid := range d.pool.Whatprovides(req) {
				switch {
				case pid == sibling:
					providesSibling = true
				case pid == target || d.keep[pid]:
					providesElsewhere = true
				}
			}
			if providesSibling && !providesElsewhere {
				return other, req, true
			}
		}
	}
	return pool.NoId, pool.NoId, false
}

// installOne adds target into the working set, replacing any existing
// member of the same name and arch (unless installonly), resolving its requires
// transitively, and reporting a PKG_CONFLICTS problem if it collides
// with something already kept. reason attributes why target was
// pulled in for get_reason.
func (d *Driver) installOne(target pool.Id, reason transaction.Reason) bool {
	if d.keep[target] {
		d.reasons[target] = reason
		return true
	}
	s := d.pool.MustSolvable(target)

	if d.selfConflicts(s) {
		d.addProblem(transaction.Rule{Kind: transaction.RulePkgSelfConflict, Source: target})
		return false
	}

	if other, ok := d.hasConflictWithKept(target); ok {
		d.addProblem(transaction.Rule{Kind: transaction.RulePkgConflicts, Source: target, Related: other})
		return false
	}

	if !d.pool.IsInstallOnly(s) {
		if sibling, ok := d.installedSibling(s); ok && sibling != target {
			if breaker, req, broken := d.evictionBreaksRequires(sibling, target); broken {
				d.addProblem(transaction.Rule{Kind: transaction.RulePkgRequires, Source: breaker, Related: req, Target: sibling})
				return false
			}
			delete(d.keep, sibling)
			d.replaces[target] = sibling
		}
	}

	d.keep[target] = true
	d.reasons[target] = reason

	for _, obsoletes := range s.Obsoletes {
		for _, victim := range d.pool.Whatprovides(obsoletes) {
			if victim != target && d.keep[victim] {
				delete(d.keep, victim)
				if _, already := d.replaces[target]; !already {
					d.replaces[target] = victim
				}
			}
		}
	}

	for _, req := range s.Requires {
		if d.satisfied(req) {
			continue
		}
		providers := d.pool.Whatprovides(req)
		if len(providers) == 0 {
			d.addProblem(transaction.Rule{Kind: transaction.RulePkgNothingProvidesDep, Source: target, Related: req})
			continue
		}
		best := d.bestCandidate(providers)
		if !d.installOne(best, transaction.ReasonDependency) {
			d.addProblem(transaction.Rule{Kind: transaction.RulePkgRequires, Source: target, Related: req})
		}
	}
	if !d.opts.IgnoreRecommended {
		for _, rec := range s.Recommends {
			if d.satisfied(rec) {
				continue
			}
			if providers := d.pool.Whatprovides(rec); len(providers) > 0 {
				d.installOne(d.bestCandidate(providers), transaction.ReasonWeakDependency)
			}
		}
	}
	return true
}

func (d *Driver) satisfied(reldepID pool.Id) bool {
	for _, id := range d.pool.Whatprovides(reldepID) {
		if d.keep[id] {
			return true
		}
	}
	return false
}

// nameArch is the multilib_policy "all" grouping key: one INSTALL per
// distinct (name, arch) candidate group, per the job's literal contract.
type nameArch struct {
	name, arch pool.Id
}

// install resolves a job's candidates to a concrete solvable per
// distinct (name, arch) group (a glob or provides match can span
// several names at once, e.g. installing "ba*", and multilib_policy
// "all" keeps every arch of a matched name as its own group) and
// installs the best-evr candidate of each.
func (d *Driver) install(j Job) {
	candidates := d.candidates(j)
	if len(candidates) == 0 {
		d.addProblem(transaction.Rule{Kind: transaction.RuleJobNothingProvidesDep})
		return
	}
	byGroup := make(map[nameArch][]pool.Id)
	var order []nameArch
	for _, id := range candidates {
		s := d.pool.MustSolvable(id)
		key := nameArch{name: s.Name, arch: s.Arch}
		if _, seen := byGroup[key]; !seen {
			order = append(order, key)
		}
		byGroup[key] = append(byGroup[key], id)
	}
	for _, key := range order {
		d.installOne(d.bestCandidate(byGroup[key]), transaction.ReasonUser)
	}
}

func (d *Driver) erase(j Job) {
	for _, id := range d.candidates(j) {
		if d.opts.Protected[id] {
			d.addProblem(transaction.Rule{Kind: transaction.RulePkg, Source: id})
			continue
		}
		delete(d.keep, id)
		if j.Flags&FlagCleanDeps != 0 {
			d.cleanOrphans(id)
		}
	}
}

// cleanOrphans drops dependency-only packages that id was the sole
// remaining reason to keep. It is a single pass, not a fixpoint: it
// mirrors clean_requirements_on_remove for the direct dependency set
// without chasing transitive orphans.
func (d *Driver) cleanOrphans(removed pool.Id) {
	s := d.pool.MustSolvable(removed)
	for _, req := range s.Requires {
		for _, pid := range d.pool.Whatprovides(req) {
			if !d.keep[pid] || d.reasons[pid] != transaction.ReasonDependency {
				continue
			}
			if d.stillNeeded(pid) {
				continue
			}
			delete(d.keep, pid)
		}
	}
}

func (d *Driver) stillNeeded(id pool.Id) bool {
	for other := range d.keep {
		if other == id {
			continue
		}
		os := d.pool.MustSolvable(other)
		for _, req := range os.Requires {
			for _, pid := range d.pool.Whatprovides(req) {
				if pid == id {
					return true
				}
			}
		}
	}
	return false
}

func (d *Driver) update(j Job) {
	for _, id := range d.namesInKeep(j) {
		s := d.pool.MustSolvable(id)
		best := d.bestAvailable(s)
		if best == pool.NoId {
			continue
		}
		if d.pool.Evrcmp(d.pool.MustSolvable(best).EVR, s.EVR) > 0 {
			d.installOne(best, d.reasons[id])
		}
	}
}

func (d *Driver) distupgrade(j Job) {
	for _, id := range d.namesInKeep(j) {
		s := d.pool.MustSolvable(id)
		best := d.bestAvailable(s)
		if best == pool.NoId || best == id {
			if !d.opts.YumObsoletes {
				continue
			}
			obs, ok := d.yumObsoleter(s)
			if !ok {
				continue
			}
			if other, conflicted := d.hasConflictWithKept(obs); conflicted {
				d.addProblem(transaction.Rule{Kind: transaction.RuleYumObsoletes, Source: obs, Related: other, Target: id})
				continue
			}
			d.installOne(obs, d.reasons[id])
			continue
		}
		if best != id {
			d.installOne(best, d.reasons[id])
		}
	}
}

// yumObsoleter finds a cross-name replacement for installed: the best
// candidate, anywhere in the pool, whose Obsoletes is satisfied by
// installed's own self-provide. Only consulted when no same-name
// update exists and Options.YumObsoletes opts into this legacy
// yum-style "obsoletes instead of update" policy.
func (d *Driver) yumObsoleter(installed *pool.Solvable) (pool.Id, bool) {
	var candidates []pool.Id
	for i := 1; i < d.pool.NSolvables(); i++ {
		id := pool.Id(i)
		s := d.pool.MustSolvable(id)
		if s.Name == installed.Name {
			continue
		}
		for _, obsoletes := range s.Obsoletes {
			for _, victim := range d.pool.Whatprovides(obsoletes) {
				if victim == installed.ID {
					candidates = append(candidates, id)
				}
			}
		}
	}
	if len(candidates) == 0 {
		return pool.NoId, false
	}
	return d.bestCandidate(candidates), true
}

// namesInKeep returns the currently kept ids named by j (ActionUpdate
// with SelectorAll means every currently kept id).
func (d *Driver) namesInKeep(j Job) []pool.Id {
	if j.Selector == SelectorAll {
		out := make([]pool.Id, 0, len(d.keep))
		for id := range d.keep {
			out = append(out, id)
		}
		sort.Slice(out, func(i, k int) bool { return out[i] < out[k] })
		return out
	}
	var out []pool.Id
	for _, id := range d.candidates(j) {
		if d.keep[id] {
			out = append(out, id)
		}
	}
	return out
}

func (d *Driver) bestAvailable(installed *pool.Solvable) pool.Id {
	var candidates []pool.Id
	for i := 1; i < d.pool.NSolvables(); i++ {
		id := pool.Id(i)
		s := d.pool.MustSolvable(id)
		if s.Name != installed.Name {
			continue
		}
		if s.Arch != installed.Arch && !d.opts.DupAllowVendorChange {
			continue
		}
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		return pool.NoId
	}
	return d.bestCandidate(candidates)
}

// trimInstallOnly enforces installonly_limit by dropping the
// lowest-ranked providers of each over-quota name, ranked by descending
// evr with installed-repo membership breaking ties.
func (d *Driver) trimInstallOnly() {
	byName := make(map[pool.Id][]pool.Id)
	for id := range d.keep {
		s := d.pool.MustSolvable(id)
		if d.pool.IsInstallOnly(s) {
			byName[s.Name] = append(byName[s.Name], id)
		}
	}
	for name, ids := range byName {
		limit, ok := d.opts.InstallOnlyLimit[name]
		if !ok || len(ids) <= limit {
			continue
		}
		// Prefer to keep the highest-evr providers; an installed-repo
		// member only breaks a tie against an equal-evr available one.
		sort.Slice(ids, func(i, k int) bool {
			si, sk := d.pool.MustSolvable(ids[i]), d.pool.MustSolvable(ids[k])
			if c := d.pool.Evrcmp(si.EVR, sk.EVR); c != 0 {
				return c > 0
			}
			iInstalled := si.Repo != nil && si.Repo.Installed
			kInstalled := sk.Repo != nil && sk.Repo.Installed
			return iInstalled && !kInstalled
		})
		for _, id := range ids[limit:] {
			delete(d.keep, id)
		}
	}
}

// Transaction renders the driver's working set against the Pool's
// original installed repo as a classified Transaction.
func (d *Driver) Transaction() *transaction.Transaction {
	repo := d.pool.InstalledRepo()
	origInstalled := make(map[pool.Id]bool)
	if repo != nil {
		for i := 1; i < d.pool.NSolvables(); i++ {
			id := pool.Id(i)
			if s := d.pool.MustSolvable(id); s.Repo == repo {
				origInstalled[id] = true
			}
		}
	}

	var t transaction.Transaction
	for id := range d.keep {
		if origInstalled[id] {
			continue
		}
		old, replaced := d.replaces[id]
		if !replaced {
			t.Steps = append(t.Steps, transaction.Step{Kind: transaction.StepInstall, ID: id, Reason: d.reasons[id]})
			continue
		}
		kind := transaction.StepUpgrade
		if c := d.pool.Evrcmp(d.pool.MustSolvable(id).EVR, d.pool.MustSolvable(old).EVR); c < 0 {
			kind = transaction.StepDowngrade
		} else if c == 0 {
			kind = transaction.StepReinstall
		}
		t.Steps = append(t.Steps, transaction.Step{Kind: kind, ID: id, Replaces: old, Reason: d.reasons[id]})
	}
	for id := range origInstalled {
		if d.keep[id] {
			continue
		}
		replacedBy := pool.NoId
		for newID, old := range d.replaces {
			if old == id {
				replacedBy = newID
				break
			}
		}
		if replacedBy != pool.NoId {
			t.Steps = append(t.Steps, transaction.Step{Kind: transaction.StepObsoleted, ID: id, Replaces: replacedBy})
		} else {
			t.Steps = append(t.Steps, transaction.Step{Kind: transaction.StepErase, ID: id})
		}
	}
	sort.Slice(t.Steps, func(i, k int) bool { return t.Steps[i].ID < t.Steps[k].ID })
	return &t
}

// InstallRoot installs id and its transitive requires as a user-reason
// root, without going through a Job. It is the primitive transient
// closure computations (filter_unneeded) build on.
func (d *Driver) InstallRoot(id pool.Id) bool {
	return d.installOne(id, transaction.ReasonUser)
}

// Problems returns the accumulated problem report; empty if Solve
// succeeded.
func (d *Driver) Problems() []transaction.Problem { return d.problems }

// Reason returns why id ended up (or stayed) in the working set.
func (d *Driver) Reason(id pool.Id) transaction.Reason { return d.reasons[id] }

// Keeps reports whether id is in the driver's working installed set.
func (d *Driver) Keeps(id pool.Id) bool { return d.keep[id] }
