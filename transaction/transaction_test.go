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

import (
	"testing"

	"github.com/rpm-software-management/dnf5-sub002/pool"
)

// TestObsoletersOfOrdersSameNameFirstThenByEVR covers the general
// ordering contract independent of how a driver builds a Transaction:
// an obsoleted package replaced by more than one step (a same-name
// update plus an unrelated cross-name obsoletion recorded separately)
// must list the same-name entry first.
func TestObsoletersOfOrdersSameNameFirstThenByEVR(t *testing.T) {
	p := pool.New()
	repo := p.AddRepository("fedora", false)
	old := p.AddSolvable(repo, pool.SolvableAttrs{Name: "foo", EVR: "1-1", Arch: "x86_64"})
	sameName := p.AddSolvable(repo, pool.SolvableAttrs{Name: "foo", EVR: "2-1", Arch: "x86_64"})
	crossName := p.AddSolvable(repo, pool.SolvableAttrs{Name: "bar", EVR: "9-1", Arch: "x86_64"})

	tx := &Transaction{Steps: []Step{
		{Kind: StepObsoleted, ID: old, Replaces: crossName},
		{Kind: StepObsoleted, ID: old, Replaces: sameName},
	}}

	got := tx.ObsoletersOf(p, old)
	want := []pool.Id{sameName, crossName}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ObsoletersOf = %v, want %v", got, want)
	}
}

// TestObsoletersOfEmptyWhenNoMatch covers a target id with no
// StepObsoleted entry at all.
func TestObsoletersOfEmptyWhenNoMatch(t *testing.T) {
	p := pool.New()
	repo := p.AddRepository("fedora", false)
	id := p.AddSolvable(repo, pool.SolvableAttrs{Name: "foo", EVR: "1-1", Arch: "x86_64"})

	tx := &Transaction{}
	if got := tx.ObsoletersOf(p, id); len(got) != 0 {
		t.Errorf("ObsoletersOf = %v, want none", got)
	}
}
