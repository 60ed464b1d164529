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

package goal

import (
	"testing"

	"github.com/rpm-software-management/dnf5-sub002/pool"
	"github.com/rpm-software-management/dnf5-sub002/transaction"
)

func addPkg(p *pool.Pool, repo *pool.Repository, name, evr, arch string) pool.Id {
	return p.AddSolvable(repo, pool.SolvableAttrs{Name: name, EVR: evr, Arch: arch})
}

// TestAlreadyInstalledIsNoop covers add_install("bash") when bash is
// already installed at the only version available: resolve should
// produce an empty transaction and log "already-installed" rather than
// a reinstall step.
func TestAlreadyInstalledIsNoop(t *testing.T) {
	p := pool.New()
	installed := p.AddRepository("@System", true)
	addPkg(p, installed, "bash", "5.1-1", "x86_64")

	g := New(p)
	g.AddInstall("bash", DefaultSettings)
	tx, problems, status := g.Resolve(false)
	if status != StatusOK {
		t.Fatalf("status = %v, problems = %+v, want StatusOK", status, problems)
	}
	if tx != nil && len(tx.Steps) != 0 {
		t.Errorf("Steps = %+v, want none", tx.Steps)
	}
	if len(g.Log) != 1 || g.Log[0].Action != string(LogAlreadyInstalled) {
		t.Errorf("Log = %+v, want a single already-installed entry", g.Log)
	}
}

// TestUpgradePicksLatest covers add_upgrade("bash") choosing the
// highest-evr available candidate over the installed one.
func TestUpgradePicksLatest(t *testing.T) {
	p := pool.New()
	installed := p.AddRepository("@System", true)
	avail := p.AddRepository("fedora", false)

	addPkg(p, installed, "bash", "5.1-1", "x86_64")
	addPkg(p, avail, "bash", "5.1-2", "x86_64")
	latest := addPkg(p, avail, "bash", "5.2-1", "x86_64")

	g := New(p)
	g.AddUpgrade("bash", DefaultSettings)
	tx, problems, status := g.Resolve(false)
	if status != StatusOK {
		t.Fatalf("status = %v, problems = %+v, want StatusOK", status, problems)
	}
	installs := tx.ByKind(transaction.StepUpgrade)
	if len(installs) != 1 || installs[0] != latest {
		t.Errorf("upgrade steps = %v, want [%v]", installs, latest)
	}
}

// TestInstallOnlyLimitEnforced covers an installonly_limit=2 kernel
// install that must erase the oldest installed kernel to make room for
// the newly installed one.
func TestInstallOnlyLimitEnforced(t *testing.T) {
	p := pool.New()
	installed := p.AddRepository("@System", true)
	avail := p.AddRepository("fedora", false)

	k1 := addPkg(p, installed, "kernel", "1", "x86_64")
	addPkg(p, installed, "kernel", "2", "x86_64")
	k3 := addPkg(p, avail, "kernel", "3", "x86_64")
	p.SetInstallOnly([]pool.Id{p.InternString("kernel")})

	g := New(p)
	g.InstallOnlyLimit = map[string]int{"kernel": 2}
	g.AddInstallPkgs([]pool.Id{k3}, DefaultSettings)

	tx, problems, status := g.Resolve(false)
	if status != StatusOK {
		t.Fatalf("status = %v, problems = %+v, want StatusOK", status, problems)
	}
	installs := tx.ByKind(transaction.StepInstall)
	erases := tx.ByKind(transaction.StepErase)
	if len(installs) != 1 || installs[0] != k3 {
		t.Errorf("installs = %v, want [%v]", installs, k3)
	}
	if len(erases) != 1 || erases[0] != k1 {
		t.Errorf("erases = %v, want [%v]", erases, k1)
	}
}

// TestUnsatisfiableConflictReportsProblem covers add_install of a
// package whose only path to satisfy its requires collides with an
// already-installed package's own requires, which must surface as a
// solver error rather than a silently broken transaction.
func TestUnsatisfiableConflictReportsProblem(t *testing.T) {
	p := pool.New()
	installed := p.AddRepository("@System", true)
	avail := p.AddRepository("fedora", false)

	aReq, err := p.ParseSimpleReldep("lib = 1")
	if err != nil {
		t.Fatal(err)
	}
	p.AddSolvable(installed, pool.SolvableAttrs{Name: "a", EVR: "1", Arch: "x86_64", Requires: []pool.Id{aReq}})
	addPkg(p, installed, "lib", "1", "x86_64")
	addPkg(p, avail, "lib", "2", "x86_64")

	bReq, err := p.ParseSimpleReldep("lib = 2")
	if err != nil {
		t.Fatal(err)
	}
	b := p.AddSolvable(avail, pool.SolvableAttrs{Name: "b", EVR: "1", Arch: "x86_64", Requires: []pool.Id{bReq}})

	g := New(p)
	g.AddInstallPkgs([]pool.Id{b}, DefaultSettings)
	_, problems, status := g.Resolve(false)
	if status != StatusSolverError {
		t.Fatalf("status = %v, want StatusSolverError", status)
	}
	var sawRequires bool
	for _, prob := range problems {
		for _, r := range prob.Rules {
			if r.Kind == transaction.RulePkgRequires {
				sawRequires = true
			}
		}
	}
	if !sawRequires {
		t.Errorf("problems = %+v, want a PKG_REQUIRES rule", problems)
	}
}

// TestInstallAllPolicyKeepsEveryArch covers the default multilib_policy
// "all": installing a bare name that resolves to candidates on more
// than one architecture must install one candidate per (name, arch)
// group, not collapse to a single best-arch winner.
func TestInstallAllPolicyKeepsEveryArch(t *testing.T) {
	p := pool.New()
	avail := p.AddRepository("fedora", false)
	fooX86 := addPkg(p, avail, "foo", "1-1", "x86_64")
	fooI686 := addPkg(p, avail, "foo", "1-1", "i686")

	g := New(p)
	g.AddInstall("foo", DefaultSettings)
	tx, problems, status := g.Resolve(false)
	if status != StatusOK {
		t.Fatalf("status = %v, problems = %+v, want StatusOK", status, problems)
	}
	installs := tx.ByKind(transaction.StepInstall)
	got := map[pool.Id]bool{}
	for _, id := range installs {
		got[id] = true
	}
	if !got[fooX86] || !got[fooI686] || len(installs) != 2 {
		t.Errorf("installs = %v, want exactly [%v %v]", installs, fooX86, fooI686)
	}
}

// TestInstallGlobMatchesEveryName covers add_install("ba*") expanding
// to every matching, not-yet-installed name.
func TestInstallGlobMatchesEveryName(t *testing.T) {
	p := pool.New()
	avail := p.AddRepository("fedora", false)
	bash := addPkg(p, avail, "bash", "5.1-1", "x86_64")
	bacula := addPkg(p, avail, "bacula", "11-1", "x86_64")
	addPkg(p, avail, "zsh", "5.9-1", "x86_64")

	g := New(p)
	g.AddInstall("ba*", Settings{ExpandGlobs: true, WithNevra: true})
	tx, problems, status := g.Resolve(false)
	if status != StatusOK {
		t.Fatalf("status = %v, problems = %+v, want StatusOK", status, problems)
	}
	installs := tx.ByKind(transaction.StepInstall)
	got := map[pool.Id]bool{}
	for _, id := range installs {
		got[id] = true
	}
	if !got[bash] || !got[bacula] || len(installs) != 2 {
		t.Errorf("installs = %v, want exactly [%v %v]", installs, bash, bacula)
	}
}
