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
Package solver is the private driver between a Goal and the package
set: it takes a flat job queue, decides which solvables end up
installed, and reports either a Transaction's worth of steps or a
problem report. It does not parse user-facing specs; Goal does that and
hands the driver resolved solvable/reldep ids.
*/
package solver

import "github.com/rpm-software-management/dnf5-sub002/pool"

// Action is a job's verb.
type Action int

const (
	ActionInstall Action = iota
	ActionErase
	ActionUpdate
	ActionDistupgrade
	ActionLock
	ActionAllowUninstall
	ActionUserInstalled
	ActionExcludeFromWeak
	ActionVerify
)

// SelectorKind distinguishes how a Job's target ids were resolved.
type SelectorKind int

const (
	SelectorSolvable SelectorKind = iota
	SelectorProvides
	SelectorOneOf
	SelectorAll
)

// Flags are the per-job modifier bits.
type Flags uint32

const (
	FlagWeak Flags = 1 << iota
	FlagForceBest
	FlagCleanDeps
	FlagTargeted
	FlagSetArch
	FlagSetEVR
)

// Job is one (flag_word, selector) entry in the driver's queue.
type Job struct {
	Action   Action
	Selector SelectorKind
	Flags    Flags

	// Ids holds the resolved solvable ids (SelectorSolvable/OneOf/All) or
	// is empty and Reldep is set (SelectorProvides).
	Ids    []pool.Id
	Reldep pool.Id
}
