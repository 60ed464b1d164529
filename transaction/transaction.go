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
Package transaction holds the result types a resolved Goal produces: the
classified list of package-level steps on success, or a structured
problem report on failure. Neither type knows how to execute anything;
applying a transaction to a live RPM database is outside this module.
*/
package transaction

import (
	"sort"

	"github.com/rpm-software-management/dnf5-sub002/pool"
)

// StepKind classifies one entry of a resolved Transaction.
type StepKind int

const (
	StepInstall StepKind = iota
	StepErase
	StepUpgrade
	StepDowngrade
	StepReinstall
	StepObsoleted
	StepChange
)

func (k StepKind) String() string {
	switch k {
	case StepInstall:
		return "install"
	case StepErase:
		return "erase"
	case StepUpgrade:
		return "upgrade"
	case StepDowngrade:
		return "downgrade"
	case StepReinstall:
		return "reinstall"
	case StepObsoleted:
		return "obsoleted"
	case StepChange:
		return "change"
	default:
		return "unknown"
	}
}

// Reason records why the solver decided to bring in a package.
type Reason int

const (
	ReasonUser Reason = iota
	ReasonGroup
	ReasonWeakDependency
	ReasonDependency
	ReasonClean
)

func (r Reason) String() string {
	switch r {
	case ReasonUser:
		return "user"
	case ReasonGroup:
		return "group"
	case ReasonWeakDependency:
		return "weak-dependency"
	case ReasonDependency:
		return "dependency"
	case ReasonClean:
		return "clean"
	default:
		return "unknown"
	}
}

// Step is one package-level action in a resolved Transaction.
type Step struct {
	Kind StepKind
	ID   pool.Id // the solvable being installed, erased, etc.

	// Replaces is set for Upgrade/Downgrade/Reinstall to the
	// previously-installed solvable this step replaces. For Obsoleted,
	// where ID is the package being removed, it is the obsoleting package.
	Replaces pool.Id

	Reason Reason
}

// Transaction is the ordered list of package-level steps a resolved
// Goal produces.
type Transaction struct {
	Steps []Step
}

// ByKind returns the ids of steps matching kind, in order.
func (t *Transaction) ByKind(kind StepKind) []pool.Id {
	var out []pool.Id
	for _, s := range t.Steps {
		if s.Kind == kind {
			out = append(out, s.ID)
		}
	}
	return out
}

// ObsoletersOf returns the ids of the packages that obsolete target (a
// StepObsoleted entry's ID is the package being removed, its Replaces
// the package that obsoletes it), ordered so that same-name obsoleters
// come first, then by descending evr: the natural "which of these
// replacements is the closest match" ordering when several unrelated
// packages obsolete one installed package at once.
func (t *Transaction) ObsoletersOf(p *pool.Pool, target pool.Id) []pool.Id {
	var out []pool.Id
	for _, s := range t.Steps {
		if s.Kind == StepObsoleted && s.ID == target {
			out = append(out, s.Replaces)
		}
	}
	targetName := p.MustSolvable(target).Name
	sort.Slice(out, func(i, j int) bool {
		si, sj := p.MustSolvable(out[i]), p.MustSolvable(out[j])
		iSame, jSame := si.Name == targetName, sj.Name == targetName
		if iSame != jSame {
			return iSame
		}
		return p.Evrcmp(si.EVR, sj.EVR) > 0
	})
	return out
}
