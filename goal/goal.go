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
Package goal is the public entry point for resolving user intent
against a Pool: accumulate install/remove/upgrade/etc. specs, then call
Resolve to get back a Transaction or a problem report. It owns spec
parsing (via query.ResolvePkgSpec) and job construction; the actual
decision-making is delegated to goal/solver.
*/
package goal

import (
	"github.com/rpm-software-management/dnf5-sub002/goal/solver"
	"github.com/rpm-software-management/dnf5-sub002/pool"
	"github.com/rpm-software-management/dnf5-sub002/query"
	"github.com/rpm-software-management/dnf5-sub002/transaction"
)

// MultilibPolicy controls how Goal.add_install expands a bare-name spec
// across architectures.
type MultilibPolicy int

const (
	MultilibAll MultilibPolicy = iota
	MultilibBest
)

// Settings configures one buffered spec.
type Settings struct {
	Strict                  bool
	Best                    bool
	CleanRequirementsOnRemove bool
	ToRepoIDs               []string
	FromRepoIDs             []string
	IgnoreCase              bool
	ExpandGlobs             bool
	WithNevra               bool
	WithProvides            bool
	WithFilenames           bool
	WithBinaries            bool
	NevraForms              []pool.NevraForm
}

func (s Settings) resolveSettings() query.ResolveSettings {
	return query.ResolveSettings{
		IgnoreCase:    s.IgnoreCase,
		ExpandGlobs:   s.ExpandGlobs,
		WithNevra:     s.WithNevra,
		WithProvides:  s.WithProvides,
		WithFilenames: s.WithFilenames,
		WithBinaries:  s.WithBinaries,
		NevraForms:    s.NevraForms,
	}
}

// DefaultSettings is the conventional starting point for a new spec:
// nevra, provides and filename matching enabled, strict off.
var DefaultSettings = Settings{
	WithNevra:    true,
	WithProvides: true,
	WithFilenames: true,
}

type action int

const (
	actionInstall action = iota
	actionRemove
	actionUpgrade
	actionUpgradeAll
	actionDowngrade
	actionDistroSync
	actionDistroSyncAll
	actionReinstall
	actionInstallOrReinstall
	actionProvideInstall
)

type bufferedSpec struct {
	action   action
	spec     string
	ids      []pool.Id
	reldep   pool.Id
	settings Settings
}

// ResolveLogEntry is one per-spec diagnostic accumulated during
// Resolve, surfaced even when the overall resolve succeeds.
type ResolveLogEntry struct {
	Spec   string
	Action string
}

// LogKind enumerates the recognized per-spec diagnostics.
type LogKind string

const (
	LogNotFound                       LogKind = "not-found"
	LogNotInstalled                   LogKind = "not-installed"
	LogAlreadyInstalled               LogKind = "already-installed"
	LogNotAvailable                   LogKind = "not-available"
	LogInstalledInDifferentVersion    LogKind = "installed-in-different-version"
	LogNotFoundInRepositories         LogKind = "not-found-in-repositories"
	LogInstalledForDifferentArch      LogKind = "installed-for-different-architecture"
	LogInstalledIsLowestVersion       LogKind = "installed-is-lowest-version"
)

// Goal accumulates job specs and resolves them against a Pool.
type Goal struct {
	pool *pool.Pool

	specs []bufferedSpec

	MultilibPolicy       MultilibPolicy
	AllowDowngrade       bool
	AllowVendorChange    bool
	InstallWeakDeps      bool
	RunInStrictMode      bool
	InstallOnlyLimit     map[string]int
	ProtectedPackages    []string
	ProtectRunningKernel bool
	YumObsoletes         bool

	Log []ResolveLogEntry
}

// New returns an empty Goal over p.
func New(p *pool.Pool) *Goal {
	return &Goal{pool: p}
}

func (g *Goal) buffer(a action, spec string, settings Settings) {
	g.specs = append(g.specs, bufferedSpec{action: a, spec: spec, settings: settings})
}

func (g *Goal) bufferIds(a action, ids []pool.Id, settings Settings) {
	g.specs = append(g.specs, bufferedSpec{action: a, ids: ids, settings: settings})
}

// AddInstall buffers an install intent for a spec string.
func (g *Goal) AddInstall(spec string, settings Settings) { g.buffer(actionInstall, spec, settings) }

// AddInstallPkgs buffers an install intent for a concrete solvable set.
func (g *Goal) AddInstallPkgs(ids []pool.Id, settings Settings) {
	g.bufferIds(actionInstall, ids, settings)
}

// AddRemove buffers a remove intent for a spec string.
func (g *Goal) AddRemove(spec string, settings Settings) { g.buffer(actionRemove, spec, settings) }

// AddRemovePkgs buffers a remove intent for a concrete solvable set.
func (g *Goal) AddRemovePkgs(ids []pool.Id, settings Settings) {
	g.bufferIds(actionRemove, ids, settings)
}

// AddUpgrade buffers an upgrade intent for a spec string.
func (g *Goal) AddUpgrade(spec string, settings Settings) { g.buffer(actionUpgrade, spec, settings) }

// AddUpgradeAll buffers an upgrade-everything intent.
func (g *Goal) AddUpgradeAll(settings Settings) { g.buffer(actionUpgradeAll, "", settings) }

// AddDowngrade buffers a downgrade intent for a spec string.
func (g *Goal) AddDowngrade(spec string, settings Settings) {
	g.buffer(actionDowngrade, spec, settings)
}

// AddDistroSync buffers a distro-sync intent for a spec string.
func (g *Goal) AddDistroSync(spec string, settings Settings) {
	g.buffer(actionDistroSync, spec, settings)
}

// AddDistroSyncAll buffers a distro-sync-everything intent.
func (g *Goal) AddDistroSyncAll(settings Settings) { g.buffer(actionDistroSyncAll, "", settings) }

// AddReinstall buffers a reinstall intent for a spec string.
func (g *Goal) AddReinstall(spec string, settings Settings) {
	g.buffer(actionReinstall, spec, settings)
}

// AddInstallOrReinstall buffers an install-or-reinstall intent.
func (g *Goal) AddInstallOrReinstall(spec string, settings Settings) {
	g.buffer(actionInstallOrReinstall, spec, settings)
}

// AddProvideInstall buffers an install intent resolved purely via
// provides matching against reldepSpec.
func (g *Goal) AddProvideInstall(reldepSpec string, settings Settings) {
	g.buffer(actionProvideInstall, reldepSpec, settings)
}

// Status is Resolve's coarse outcome.
type Status int

const (
	StatusOK Status = iota
	StatusNoSolution
	StatusSolverError
)

// Resolve runs the full spec-to-transaction pipeline: recompute the
// provides index, translate every buffered spec into solver jobs,
// apply policy flags and protections, and invoke the driver once. The
// driver trims installonly providers over their limit at the end of
// that solve; no second solve is run after the trim.
func (g *Goal) Resolve(allowErasing bool) (*transaction.Transaction, []transaction.Problem, Status) {
	g.Log = nil
	g.pool.MakeProvidesReady()

	protected := g.resolveProtectedIDs()
	jobs, problems := g.buildJobs()

	opts := solver.Options{
		AllowDowngrade:    g.AllowDowngrade,
		AllowVendorChange: g.AllowVendorChange,
		YumObsoletes:      g.YumObsoletes,
		IgnoreRecommended: !g.InstallWeakDeps,
		Protected:         protected,
		InstallOnlyLimit:  g.installOnlyLimitByID(),
		AllowUninstallAll: allowErasing,
	}

	if allowErasing {
		if repo := g.pool.InstalledRepo(); repo != nil {
			for i := 1; i < g.pool.NSolvables(); i++ {
				id := pool.Id(i)
				if s := g.pool.MustSolvable(id); s.Repo == repo && !protected[id] {
					jobs = append(jobs, solver.Job{Action: solver.ActionAllowUninstall, Ids: []pool.Id{id}})
				}
			}
		}
	}

	d := solver.NewDriver(g.pool, opts)
	exit := d.Solve(jobs)

	allProblems := append(problems, d.Problems()...)

	if exit == solver.Unsolvable && len(allProblems) > 0 {
		return nil, allProblems, StatusSolverError
	}

	t := d.Transaction()
	if removed := g.removedProtected(d, protected); len(removed) > 0 {
		rule := transaction.Rule{Kind: transaction.RulePkg}
		allProblems = append(allProblems, transaction.Problem{Rules: []transaction.Rule{rule}})
		return t, allProblems, StatusSolverError
	}
	return t, nil, StatusOK
}

func (g *Goal) removedProtected(d *solver.Driver, protected map[pool.Id]bool) []pool.Id {
	var out []pool.Id
	for id := range protected {
		if !d.Keeps(id) {
			out = append(out, id)
		}
	}
	return out
}

func (g *Goal) resolveProtectedIDs() map[pool.Id]bool {
	protected := make(map[pool.Id]bool)
	for _, name := range g.ProtectedPackages {
		nameID, ok := g.pool.FindString(name)
		if !ok {
			continue
		}
		for i := 1; i < g.pool.NSolvables(); i++ {
			id := pool.Id(i)
			if s := g.pool.MustSolvable(id); s.Name == nameID {
				protected[id] = true
			}
		}
	}
	return protected
}

func (g *Goal) installOnlyLimitByID() map[pool.Id]int {
	out := make(map[pool.Id]int, len(g.InstallOnlyLimit))
	for name, limit := range g.InstallOnlyLimit {
		id, ok := g.pool.FindString(name)
		if !ok {
			continue
		}
		out[id] = limit
	}
	return out
}

func (g *Goal) buildJobs() ([]solver.Job, []transaction.Problem) {
	var jobs []solver.Job
	var problems []transaction.Problem

	for _, spec := range g.specs {
		jj, logEntry, problem := g.resolveOneSpec(spec)
		jobs = append(jobs, jj...)
		if logEntry != "" {
			g.Log = append(g.Log, ResolveLogEntry{Spec: spec.spec, Action: logEntry})
		}
		if problem != nil {
			if spec.settings.Strict {
				problems = append(problems, *problem)
			}
		}
	}
	return jobs, problems
}

func (g *Goal) resolveOneSpec(spec bufferedSpec) ([]solver.Job, string, *transaction.Problem) {
	if len(spec.ids) > 0 {
		return []solver.Job{g.jobForAction(spec.action, spec.ids, solver.SelectorSolvable, pool.NoId)}, "", nil
	}

	if spec.action == actionUpgradeAll {
		return []solver.Job{{Action: solver.ActionUpdate, Selector: solver.SelectorAll}}, "", nil
	}
	if spec.action == actionDistroSyncAll {
		return []solver.Job{{Action: solver.ActionDistupgrade, Selector: solver.SelectorAll}}, "", nil
	}

	if spec.action == actionProvideInstall {
		id, err := g.pool.ParseRichReldep(spec.spec)
		if err != nil {
			return nil, string(LogNotFound), &transaction.Problem{
				Rules: []transaction.Rule{{Kind: transaction.RuleJobUnknownPackage, Detail: spec.spec}},
			}
		}
		return []solver.Job{{Action: solver.ActionInstall, Selector: solver.SelectorProvides, Reldep: id}}, "", nil
	}

	q := query.New(g.pool, query.ApplyExcludes)
	ok, _ := q.ResolvePkgSpec(spec.spec, spec.settings.resolveSettings())
	if !ok {
		return nil, string(LogNotFound), &transaction.Problem{
			Rules: []transaction.Rule{{Kind: transaction.RuleJobUnknownPackage, Detail: spec.spec}},
		}
	}

	if spec.action == actionInstall {
		g.applyMultilibPolicy(q)
		if g.allAlreadyInstalled(q.ToSlice()) {
			return nil, string(LogAlreadyInstalled), nil
		}
	}

	return []solver.Job{g.jobForAction(spec.action, q.ToSlice(), solver.SelectorSolvable, pool.NoId)}, "", nil
}

func (g *Goal) allAlreadyInstalled(ids []pool.Id) bool {
	repo := g.pool.InstalledRepo()
	if repo == nil || len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if s := g.pool.MustSolvable(id); s.Repo != repo {
			return false
		}
	}
	return true
}

func (g *Goal) applyMultilibPolicy(q *query.Query) {
	if g.MultilibPolicy != MultilibBest {
		return
	}
	q.FilterLatestEVR(1, false)
}

func (g *Goal) jobForAction(a action, ids []pool.Id, sel solver.SelectorKind, reldep pool.Id) solver.Job {
	switch a {
	case actionInstall, actionInstallOrReinstall:
		return solver.Job{Action: solver.ActionInstall, Selector: sel, Ids: ids, Reldep: reldep}
	case actionRemove:
		return solver.Job{Action: solver.ActionErase, Selector: sel, Ids: ids, Reldep: reldep}
	case actionUpgrade:
		return solver.Job{Action: solver.ActionUpdate, Selector: sel, Ids: ids, Reldep: reldep}
	case actionDowngrade:
		return solver.Job{Action: solver.ActionInstall, Selector: sel, Ids: ids, Reldep: reldep}
	case actionDistroSync:
		return solver.Job{Action: solver.ActionDistupgrade, Selector: sel, Ids: ids, Reldep: reldep}
	case actionReinstall:
		return solver.Job{Action: solver.ActionInstall, Selector: sel, Ids: ids, Reldep: reldep}
	default:
		return solver.Job{Action: solver.ActionInstall, Selector: sel, Ids: ids, Reldep: reldep}
	}
}

// UnneededResolver adapts a Pool into a query.UnneededResolver: it runs
// a transient resolve starting from nothing but the packages
// Pool.IsUserInstalled marks, so the resulting closure contains exactly
// what a fresh install of just the user's explicit choices would pull
// in. Anything currently installed but outside that closure is
// unneeded.
func UnneededResolver(p *pool.Pool, installed []pool.Id) ([]pool.Id, error) {
	d := solver.NewEmptyDriver(p, solver.Options{})
	for _, id := range installed {
		if p.IsUserInstalled(id) {
			d.InstallRoot(id)
		}
	}
	var unneeded []pool.Id
	for _, id := range installed {
		if !d.Keeps(id) {
			unneeded = append(unneeded, id)
		}
	}
	return unneeded, nil
}
