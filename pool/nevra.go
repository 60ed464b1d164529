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

package pool

import (
	"fmt"
	"strings"
)

// Nevra is the parsed Name-Epoch-Version-Release-Arch identity of a
// package spec. Any field may be empty, meaning "unconstrained" when used
// as a query pattern (see ResolvePkgSpec).
type Nevra struct {
	Name, Epoch, Version, Release, Arch string
}

// NevraForm identifies which subset of Nevra fields a textual spec is
// expected to populate; ResolvePkgSpec tries forms in order until one
// yields a match.
type NevraForm int

const (
	FormNEVRA NevraForm = iota
	FormNEVR
	FormNEV
	FormNEA
	FormNE
	FormNA
	FormN
)

// DefaultNevraForms is the form-trial order used when a caller doesn't
// supply its own, broadest to narrowest.
var DefaultNevraForms = []NevraForm{FormNEVRA, FormNEVR, FormNEV, FormNEA, FormNE, FormNA, FormN}

// Empty reports whether every field of n is empty.
func (n Nevra) Empty() bool {
	return n.Name == "" && n.Epoch == "" && n.Version == "" && n.Release == "" && n.Arch == ""
}

// String renders the canonical "name-[epoch:]version-release.arch" form,
// omitting the epoch when it is "0" or empty, matching full_nevra/
// nevra_without_epoch depending on withEpoch.
func (n Nevra) String() string {
	return n.render(true)
}

// StringNoEpoch renders the NEVRA without a leading epoch, matching
// Pool.NevraWithoutEpoch.
func (n Nevra) StringNoEpoch() string {
	return n.render(false)
}

func (n Nevra) render(withEpoch bool) string {
	var b strings.Builder
	b.WriteString(n.Name)
	if n.Version != "" {
		b.WriteByte('-')
		if withEpoch && n.Epoch != "" && n.Epoch != "0" {
			b.WriteString(n.Epoch)
			b.WriteByte(':')
		}
		b.WriteString(n.Version)
		if n.Release != "" {
			b.WriteByte('-')
			b.WriteString(n.Release)
		}
	}
	if n.Arch != "" {
		b.WriteByte('.')
		b.WriteString(n.Arch)
	}
	return b.String()
}

// ParseNevraForm parses spec according to the given form, returning the
// populated Nevra. It never fails: fields that the form doesn't assign
// are left empty; malformed embedded evr strings are left as-is in
// Version.
func ParseNevraForm(spec string, form NevraForm) Nevra {
	var n Nevra
	rest := spec

	if form == FormNA || form == FormN {
		// No version component at all; arch, if present, is the last
		// ".something" segment.
		if form == FormNA {
			if i := strings.LastIndexByte(rest, '.'); i > 0 {
				n.Name, n.Arch = rest[:i], rest[i+1:]
				return n
			}
		}
		n.Name = rest
		return n
	}

	arch := ""
	if form == FormNEVRA || form == FormNEA {
		if i := strings.LastIndexByte(rest, '.'); i > 0 {
			arch = rest[i+1:]
			rest = rest[:i]
		}
	}

	if form == FormNEA {
		n.Name = rest
		n.Arch = arch
		return n
	}
	if form == FormNE {
		// name-epoch:version, no release, no arch.
		if i := strings.LastIndexByte(rest, '-'); i > 0 {
			n.Name = rest[:i]
			evr := ParseEVR(rest[i+1:])
			n.Epoch, n.Version = evr.Epoch, evr.Version
		} else {
			n.Name = rest
		}
		return n
	}

	// FormNEVRA, FormNEVR, FormNEV all have "name-evr[.arch]"; the number
	// of '-' separated trailing components distinguishes version-only
	// (NEV) from version-release (NEVR/NEVRA).
	switch form {
	case FormNEV:
		if i := strings.LastIndexByte(rest, '-'); i > 0 {
			n.Name = rest[:i]
			evr := ParseEVR(rest[i+1:])
			n.Epoch, n.Version = evr.Epoch, evr.Version
		} else {
			n.Name = rest
		}
	default: // FormNEVRA, FormNEVR
		parts := strings.Split(rest, "-")
		if len(parts) < 3 {
			n.Name = rest
			break
		}
		n.Release = parts[len(parts)-1]
		evr := ParseEVR(parts[len(parts)-2])
		n.Epoch, n.Version = evr.Epoch, evr.Version
		n.Name = strings.Join(parts[:len(parts)-2], "-")
	}
	n.Arch = arch
	return n
}

// Match reports whether the Nevra pattern p matches the concrete fields
// of c, treating empty fields in p as wildcards; non-empty fields are
// compared verbatim (the caller applies globbing before calling Match
// when CmpType is GLOB).
func (p Nevra) Match(c Nevra) bool {
	return (p.Name == "" || p.Name == c.Name) &&
		(p.Epoch == "" || p.Epoch == c.Epoch) &&
		(p.Version == "" || p.Version == c.Version) &&
		(p.Release == "" || p.Release == c.Release) &&
		(p.Arch == "" || p.Arch == c.Arch)
}

func (p Nevra) errContext() string {
	return fmt.Sprintf("nevra %q", p.String())
}
