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

package advisory

import (
	"testing"

	"github.com/rpm-software-management/dnf5-sub002/pool"
	"github.com/rpm-software-management/dnf5-sub002/query"
)

func TestFilterTypeAndSeverity(t *testing.T) {
	p := pool.New()
	all := []*Advisory{
		{Name: "advisory:FEDORA-2023-0001", Kind: KindSecurity, Severity: SeverityCritical},
		{Name: "advisory:FEDORA-2023-0002", Kind: KindBugfix, Severity: SeverityNone},
	}
	q := New(p, all)
	q.FilterType(KindSecurity)
	if q.Len() != 1 {
		t.Fatalf("FilterType(security) matched %d, want 1", q.Len())
	}
	q.FilterSeverity(SeverityCritical)
	if q.Len() != 1 {
		t.Fatalf("FilterSeverity(critical) matched %d, want 1", q.Len())
	}
}

func TestFilterNameStripsPrefix(t *testing.T) {
	p := pool.New()
	all := []*Advisory{{Name: "advisory:FEDORA-2023-0001"}}
	q := New(p, all)
	q.FilterName(query.EQ, "FEDORA-2023-0001")
	if q.Len() != 1 {
		t.Fatalf("FilterName did not strip prefix, matched %d", q.Len())
	}
}

func TestApplicableRequiresUpgrade(t *testing.T) {
	p := pool.New()
	installed := p.AddRepository("@System", true)
	p.AddSolvable(installed, pool.SolvableAttrs{Name: "foo", EVR: "1.0-1", Arch: "x86_64"})
	p.MakeProvidesReady()

	all := []*Advisory{
		{
			Name: "advisory:FEDORA-2023-0001",
			Packages: []Package{
				{Name: "foo", Version: "2.0", Release: "1", Arch: "x86_64"},
			},
		},
		{
			Name: "advisory:FEDORA-2023-0002",
			Packages: []Package{
				{Name: "foo", Version: "0.5", Release: "1", Arch: "x86_64"},
			},
		},
	}
	q := New(p, all)
	q.Applicable()
	if q.Len() != 1 {
		t.Fatalf("Applicable() matched %d, want 1", q.Len())
	}
	if q.ToSlice()[0].Name != "advisory:FEDORA-2023-0001" {
		t.Fatalf("Applicable() kept wrong advisory: %s", q.ToSlice()[0].Name)
	}
}
