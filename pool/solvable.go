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

// Repository is a named container of solvables. Exactly zero or one
// repository in a Pool may be the installed repository.
type Repository struct {
	ID        Id
	Name      string
	Priority  int
	Disabled  bool
	Installed bool // scope flag: true for the single "installed system" repo
}

// SolvableAttrs are the fields a loader supplies when adding a solvable to
// a Repository.
type SolvableAttrs struct {
	Name, EVR, Arch, Vendor string

	Requires, Recommends, Suggests, Supplements, Enhances []Id
	Conflicts, Obsoletes, Provides                        []Id

	Files      []string
	SourceRPM  string
	Location   string
	BuildTime  int64

	Description, Summary, URL string
}

// Solvable is the atomic package record. Its id is stable for the
// lifetime of the owning Pool.
type Solvable struct {
	ID   Id
	Repo *Repository

	Name, EVR, Arch, Vendor Id

	Requires, Recommends, Suggests, Supplements, Enhances []Id
	Conflicts, Obsoletes, Provides                        []Id

	Files     []string
	SourceRPM string
	Location  string
	BuildTime int64

	Description, Summary, URL string
}

const (
	// ArchSrc and ArchNoSrc never interoperate with binary architectures
	// unless both sides are source.
	ArchSrc   = "src"
	ArchNoSrc = "nosrc"
	// ArchNoarch is upgradable to, and from, any architecture.
	ArchNoarch = "noarch"
)
