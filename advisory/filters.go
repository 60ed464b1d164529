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
	"github.com/rpm-software-management/dnf5-sub002/pool"
	"github.com/rpm-software-management/dnf5-sub002/query"
)

// coreRebootPackages are always considered to need a reboot on update,
// independent of whether any advisory says so.
var coreRebootPackages = map[string]bool{
	"kernel":       true,
	"kernel-core":  true,
	"glibc":        true,
	"systemd":      true,
	"dbus":         true,
	"linux-firmware": true,
}

// FilterAdvisoryPackages restricts pkgs to packages that appear in any
// advisory package carried by aq.
func FilterAdvisoryPackages(pkgs *query.Query, aq *Query) {
	names := make(map[string]bool)
	for _, a := range aq.advisories {
		for _, p := range a.Packages {
			names[p.Name] = true
		}
	}
	pkgs.FilterPredicate(func(s *pool.Solvable) bool {
		return names[pkgs.Pool().LookupString(s.Name)]
	}, false)
}

// FilterRebootSuggested restricts pkgs to the union of the hardcoded
// core reboot-requiring package names and packages named by any
// reboot-suggested advisory in aq.
func FilterRebootSuggested(pkgs *query.Query, aq *Query) {
	names := make(map[string]bool, len(coreRebootPackages))
	for n := range coreRebootPackages {
		names[n] = true
	}
	for _, a := range aq.advisories {
		if !a.RebootSuggested {
			continue
		}
		for _, p := range a.Packages {
			names[p.Name] = true
		}
	}
	pkgs.FilterPredicate(func(s *pool.Solvable) bool {
		return names[pkgs.Pool().LookupString(s.Name)]
	}, false)
}
