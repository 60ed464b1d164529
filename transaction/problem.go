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

package transaction

import "github.com/rpm-software-management/dnf5-sub002/pool"

// RuleKind is the fixed, closed set of reasons a job can fail to
// resolve. It is never extended at runtime; a solver-internal rule that
// doesn't map cleanly onto one of these becomes RuleUnknown with its
// text preserved in Rule.Detail.
type RuleKind int

const (
	RuleDistupgrade RuleKind = iota
	RuleInfarch
	RuleUpdate
	RuleJob
	RuleJobUnsupported
	RuleJobNothingProvidesDep
	RuleJobUnknownPackage
	RuleJobProvidedBySystem
	RulePkg
	RuleBest1
	RuleBest2
	RulePkgNotInstallable1
	RulePkgNotInstallable2
	RulePkgNotInstallable3
	RulePkgNothingProvidesDep
	RulePkgSameName
	RulePkgConflicts
	RulePkgObsoletes
	RulePkgInstalledObsoletes
	RulePkgImplicitObsoletes
	RulePkgRequires
	RulePkgSelfConflict
	RuleYumObsoletes
	RuleUnknown
)

func (k RuleKind) String() string {
	switch k {
	case RuleDistupgrade:
		return "DISTUPGRADE"
	case RuleInfarch:
		return "INFARCH"
	case RuleUpdate:
		return "UPDATE"
	case RuleJob:
		return "JOB"
	case RuleJobUnsupported:
		return "JOB_UNSUPPORTED"
	case RuleJobNothingProvidesDep:
		return "JOB_NOTHING_PROVIDES_DEP"
	case RuleJobUnknownPackage:
		return "JOB_UNKNOWN_PACKAGE"
	case RuleJobProvidedBySystem:
		return "JOB_PROVIDED_BY_SYSTEM"
	case RulePkg:
		return "PKG"
	case RuleBest1:
		return "BEST_1"
	case RuleBest2:
		return "BEST_2"
	case RulePkgNotInstallable1:
		return "PKG_NOT_INSTALLABLE_1"
	case RulePkgNotInstallable2:
		return "PKG_NOT_INSTALLABLE_2"
	case RulePkgNotInstallable3:
		return "PKG_NOT_INSTALLABLE_3"
	case RulePkgNothingProvidesDep:
		return "PKG_NOTHING_PROVIDES_DEP"
	case RulePkgSameName:
		return "PKG_SAME_NAME"
	case RulePkgConflicts:
		return "PKG_CONFLICTS"
	case RulePkgObsoletes:
		return "PKG_OBSOLETES"
	case RulePkgInstalledObsoletes:
		return "PKG_INSTALLED_OBSOLETES"
	case RulePkgImplicitObsoletes:
		return "PKG_IMPLICIT_OBSOLETES"
	case RulePkgRequires:
		return "PKG_REQUIRES"
	case RulePkgSelfConflict:
		return "PKG_SELF_CONFLICT"
	case RuleYumObsoletes:
		return "YUMOBS"
	default:
		return "UNKNOWN"
	}
}

// Rule is one tuple of a problem: the rule that fired, the solvables it
// names (zero value pool.NoId when not applicable), and free text for
// RuleUnknown.
type Rule struct {
	Kind     RuleKind
	Source   pool.Id
	Related  pool.Id
	Target   pool.Id
	Detail   string
}

// Problem is one independent, alternative explanation of why a goal
// could not be resolved; a Goal.Resolve failure carries a list of these.
type Problem struct {
	Rules []Rule
}
