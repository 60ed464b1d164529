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
Package advisory implements errata/advisory records and the query over
them: the same filter-and-narrow shape as package query, applied to a
much smaller, in-memory object set, so it is built directly on plain
slices rather than the Pool's interned bitmap storage.
*/
package advisory

import "github.com/rpm-software-management/dnf5-sub002/pool"

// Kind is an advisory's category.
type Kind string

const (
	KindBugfix      Kind = "bugfix"
	KindEnhancement Kind = "enhancement"
	KindSecurity    Kind = "security"
	KindNewPackage  Kind = "newpackage"
	KindUnknown     Kind = "unknown"
)

// Severity is an advisory's urgency, meaningful mainly for KindSecurity.
type Severity string

const (
	SeverityCritical  Severity = "critical"
	SeverityImportant Severity = "important"
	SeverityModerate  Severity = "moderate"
	SeverityLow       Severity = "low"
	SeverityNone      Severity = "none"
)

// Reference is an external pointer from an advisory: a CVE id, a
// bugzilla ticket, or a vendor URL.
type Reference struct {
	ID    string
	Type  string // "cve", "bugzilla", "vendor"
	Title string
}

// Package identifies one NEVRA entry an advisory says it ships, without
// requiring that entry to be present in any Pool.
type Package struct {
	Name, Epoch, Version, Release, Arch string
	Filename                            string
}

// Nevra renders pkg as a pool.Nevra for cross-matching against a
// package query.
func (pkg Package) Nevra() pool.Nevra {
	return pool.Nevra{Name: pkg.Name, Epoch: pkg.Epoch, Version: pkg.Version, Release: pkg.Release, Arch: pkg.Arch}
}

// namePrefix is prepended to every advisory's solvable name inside the
// pool that loaded it; FilterName strips it transparently so callers
// match on the advisory id they already know, e.g. "FEDORA-2023-1234"
// rather than "advisory:FEDORA-2023-1234".
const namePrefix = "advisory:"

// Advisory is a single errata record.
type Advisory struct {
	ID        int
	Name      string
	Kind      Kind
	Severity  Severity
	BuildTime int64

	Title       string
	Vendor      string
	Rights      string
	Status      string
	Message     string
	Description string

	References []Reference
	Packages   []Package

	// RebootSuggested is set by the loader for advisories (kernel,
	// glibc, systemd and similar) known to require a reboot once
	// installed.
	RebootSuggested bool
}
