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
	"strings"

	"github.com/rpm-software-management/dnf5-sub002/pool"
)

// ResolveSettings configures ResolvePkgSpec.
type ResolveSettings struct {
	IgnoreCase    bool
	ExpandGlobs   bool
	WithNevra     bool
	WithProvides  bool
	WithFilenames bool
	WithBinaries  bool
	NevraForms    []pool.NevraForm
}

func (s ResolveSettings) forms() []pool.NevraForm {
	if len(s.NevraForms) > 0 {
		return s.NevraForms
	}
	return pool.DefaultNevraForms
}

func (s ResolveSettings) cmp() CmpType {
	if s.ExpandGlobs {
		if s.IgnoreCase {
			return IGLOB
		}
		return GLOB
	}
	if s.IgnoreCase {
		return IEQ
	}
	return EQ
}

func looksLikeFilePath(spec string) bool {
	return strings.HasPrefix(spec, "/") || strings.Contains(spec, "*/") || strings.HasPrefix(spec, "*/")
}

// ResolvePkgSpec narrows q in place to the solvables matching a
// user-supplied package specification, trying successive resolution
// strategies in the order the settings enable them, and reports the
// Nevra the winning strategy matched against (the empty Nevra if
// nothing matched nevra form resolution). On a total miss q is left
// empty and ok is false.
func (q *Query) ResolvePkgSpec(spec string, settings ResolveSettings) (ok bool, matched pool.Nevra) {
	cmp := settings.cmp()

	if settings.WithNevra {
		for _, form := range settings.forms() {
			n := pool.ParseNevraForm(spec, form)
			if n.Empty() {
				continue
			}
			candidate := q.Clone()
			if err := candidate.FilterNevra(cmp, n); err == nil && candidate.Len() > 0 {
				*q = *candidate
				return true, n
			}
		}
	}

	if settings.WithProvides {
		if id, err := q.pool.ParseRichReldep(spec); err == nil {
			candidate := q.Clone()
			candidate.FilterProvidesReldep(id, false)
			if candidate.Len() > 0 {
				*q = *candidate
				return true, pool.Nevra{}
			}
		}
	}

	isPath := looksLikeFilePath(spec)
	if settings.WithFilenames && isPath {
		candidate := q.Clone()
		if err := candidate.FilterFile(cmp, spec); err == nil && candidate.Len() > 0 {
			*q = *candidate
			return true, pool.Nevra{}
		}
	}

	if settings.WithBinaries && !isPath {
		for _, dir := range []string{"/usr/bin/", "/usr/sbin/"} {
			binSpec := dir + spec
			if id, err := q.pool.ParseSimpleReldep(binSpec); err == nil {
				candidate := q.Clone()
				candidate.FilterProvidesReldep(id, false)
				if candidate.Len() > 0 {
					*q = *candidate
					return true, pool.Nevra{}
				}
			}
			candidate := q.Clone()
			if err := candidate.FilterFile(cmp, binSpec); err == nil && candidate.Len() > 0 {
				*q = *candidate
				return true, pool.Nevra{}
			}
		}
	}

	*q = *Empty(q.pool)
	return false, pool.Nevra{}
}
