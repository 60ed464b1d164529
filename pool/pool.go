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

	"github.com/rpm-software-management/dnf5-sub002/pool/bitset"
)

// Pool owns every per-package array, the interned string and reldep
// tables, the repository list and the whatprovides index. Every other
// object in this module (a Query, a Goal) holds only ids or a weak,
// non-owning reference to a Pool; the Pool is the sole owner of
// solvable/string/reldep/repository storage.
type Pool struct {
	strings  []string
	strIndex map[string]Id

	reldeps     []reldep
	reldepIndex map[reldep]Id

	// solvables[0] is an unused placeholder so that solvable Id n maps to
	// solvables[n], keeping Id 0 reserved for NoId everywhere.
	solvables []Solvable

	repos         []*Repository
	installedRepo *Repository

	considered   *bitset.Set
	whatprovides map[Id]*bitset.Set
	dirty        bool

	// installonly holds the name string ids whose providers may
	// coexist in multiple installed versions.
	installonly map[Id]bool

	// userInstalled holds the solvable ids a loader marked as installed
	// by direct user request, as opposed to pulled in as a dependency.
	// This mirrors the persisted reason data an rpmdb history keeps;
	// this module doesn't read or write that history itself, so a
	// loader populates it from whatever source it has.
	userInstalled map[Id]bool

	// versionlock holds solvable ids excluded by a versionlock plugin-style
	// policy, independent of the ordinary repo-level excludes a Query
	// already applies via ApplyExcludes.
	versionlock map[Id]bool

	// DistType distinguishes e.g. "rpm" from "deb" solvables. It is
	// carried only; ArchCompatible and the other arch rules do not read it.
	DistType string

	// AllowVendorChange is the Pool-wide default vendor-change policy;
	// Goal may override it per-resolve.
	AllowVendorChange bool
}

// New returns an empty Pool.
func New() *Pool {
	p := &Pool{
		strIndex:     make(map[string]Id),
		reldepIndex:  make(map[reldep]Id),
		solvables:    make([]Solvable, 1), // index 0 unused
		whatprovides: make(map[Id]*bitset.Set),
		installonly:  make(map[Id]bool),
	}
	p.InternString("") // string Id 0 == NoId == ""
	return p
}

// InternString returns the existing id for s or allocates a new one.
func (p *Pool) InternString(s string) Id {
	if id, ok := p.strIndex[s]; ok {
		return id
	}
	p.strings = append(p.strings, s)
	id := Id(len(p.strings) - 1)
	p.strIndex[s] = id
	return id
}

// FindString returns the id already interned for s, without allocating
// a new one; ok is false if s was never interned.
func (p *Pool) FindString(s string) (Id, bool) {
	id, ok := p.strIndex[s]
	return id, ok
}

// LookupString never fails for a valid id; an out-of-range id returns "".
func (p *Pool) LookupString(id Id) string {
	i := int(id)
	if i < 0 || i >= len(p.strings) {
		return ""
	}
	return p.strings[i]
}

// NSolvables returns one past the highest valid solvable id.
func (p *Pool) NSolvables() int { return len(p.solvables) }

// Solvable returns the solvable for id, or (nil, false) if id is invalid.
func (p *Pool) Solvable(id Id) (*Solvable, bool) {
	i := int(id)
	if i <= 0 || i >= len(p.solvables) {
		return nil, false
	}
	return &p.solvables[i], true
}

// MustSolvable is like Solvable but panics on an invalid id; it is meant
// for internal callers that have already validated id against a set
// drawn from this Pool.
func (p *Pool) MustSolvable(id Id) *Solvable {
	s, ok := p.Solvable(id)
	if !ok {
		panic(fmt.Sprintf("pool: %v: %v", id, ErrBadID))
	}
	return s
}

// AddRepository creates a new, empty Repository. installed distinguishes
// the single "installed system" repository from ordinary available ones;
// at most one installed repo may exist per Pool.
func (p *Pool) AddRepository(name string, installed bool) *Repository {
	r := &Repository{
		ID:        Id(len(p.repos) + 1),
		Name:      name,
		Installed: installed,
	}
	p.repos = append(p.repos, r)
	if installed {
		p.installedRepo = r
	}
	return r
}

// Repositories returns every repository added to the Pool, in add order.
func (p *Pool) Repositories() []*Repository { return p.repos }

// InstalledRepo returns the installed-system repository, or nil if none
// has been added.
func (p *Pool) InstalledRepo() *Repository { return p.installedRepo }

// AddSolvable interns attrs and appends a new Solvable to repo, returning
// its stable id. It marks the whatprovides index dirty.
func (p *Pool) AddSolvable(repo *Repository, attrs SolvableAttrs) Id {
	s := Solvable{
		ID:          Id(len(p.solvables)),
		Repo:        repo,
		Name:        p.InternString(attrs.Name),
		EVR:         p.InternString(attrs.EVR),
		Arch:        p.InternString(attrs.Arch),
		Vendor:      p.InternString(attrs.Vendor),
		Requires:    attrs.Requires,
		Recommends:  attrs.Recommends,
		Suggests:    attrs.Suggests,
		Supplements: attrs.Supplements,
		Enhances:    attrs.Enhances,
		Conflicts:   attrs.Conflicts,
		Obsoletes:   attrs.Obsoletes,
		Provides:    attrs.Provides,
		Files:       attrs.Files,
		SourceRPM:   attrs.SourceRPM,
		Location:    attrs.Location,
		BuildTime:   attrs.BuildTime,
		Description: attrs.Description,
		Summary:     attrs.Summary,
		URL:         attrs.URL,
	}
	p.solvables = append(p.solvables, s)
	p.MarkProvidesDirty()
	return s.ID
}

// MarkProvidesDirty invalidates the whatprovides index; it must be called
// by loaders after any change to the solvable set.
func (p *Pool) MarkProvidesDirty() {
	p.dirty = true
}

// ProvidesReady reports whether the whatprovides index is current.
func (p *Pool) ProvidesReady() bool { return !p.dirty }

// MakeProvidesReady rebuilds the whatprovides index if it is dirty. Every
// reldep a solvable provides maps to the solvable's id, plus the
// solvable's implicit self-provide of name = evr.
func (p *Pool) MakeProvidesReady() {
	if !p.dirty {
		return
	}
	p.whatprovides = make(map[Id]*bitset.Set, len(p.reldeps))
	for i := 1; i < len(p.solvables); i++ {
		s := &p.solvables[i]
		self := p.InternReldep(s.Name, CmpEQ, s.EVR)
		p.addProvider(self, s.ID)
		for _, rd := range s.Provides {
			p.addProvider(rd, s.ID)
		}
	}
	p.dirty = false
}

func (p *Pool) addProvider(reldepID, solvableID Id) {
	set, ok := p.whatprovides[reldepID]
	if !ok {
		set = bitset.New(len(p.solvables))
		p.whatprovides[reldepID] = set
	}
	set.Add(int(solvableID))
}

// Whatprovides returns the ids of solvables providing reldepID. It is
// only valid once ProvidesReady (callers normally call
// MakeProvidesReady first); whatprovides of a reldep whose name id is
// NoId is always empty.
func (p *Pool) Whatprovides(reldepID Id) []Id {
	set, ok := p.whatprovides[reldepID]
	if !ok {
		return nil
	}
	ids := set.Slice()
	out := make([]Id, len(ids))
	for i, v := range ids {
		out[i] = Id(v)
	}
	return out
}

// WhatprovidesSet is like Whatprovides but returns the raw bitmap,
// avoiding a slice allocation; the caller must not mutate the result.
func (p *Pool) WhatprovidesSet(reldepID Id) *bitset.Set {
	if set, ok := p.whatprovides[reldepID]; ok {
		return set
	}
	return bitset.New(0)
}

// SetConsidered installs (or clears, with nil) the optional mask that
// restricts which solvables queries and the solver see.
func (p *Pool) SetConsidered(set *bitset.Set) {
	p.considered = set
}

// Considered returns the active considered mask, or nil if none is set.
func (p *Pool) Considered() *bitset.Set { return p.considered }

// Evrcmp implements the RPM EVR comparison between two interned evr
// string ids, returning -1, 0 or 1. It is the sole authority for version
// ordering, reused by every filter and by the solver.
func (p *Pool) Evrcmp(a, b Id) int {
	if a == b {
		return 0
	}
	return ParseEVR(p.LookupString(a)).Compare(ParseEVR(p.LookupString(b)))
}

// FullNevra renders a solvable's canonical "name-[epoch:]version-release.arch" form.
func (p *Pool) FullNevra(id Id) string {
	s, ok := p.Solvable(id)
	if !ok {
		return ""
	}
	return p.nevraOf(s).String()
}

// NevraWithoutEpoch renders a solvable's NEVRA without a leading epoch.
func (p *Pool) NevraWithoutEpoch(id Id) string {
	s, ok := p.Solvable(id)
	if !ok {
		return ""
	}
	return p.nevraOf(s).StringNoEpoch()
}

func (p *Pool) nevraOf(s *Solvable) Nevra {
	evr := ParseEVR(p.LookupString(s.EVR))
	return Nevra{
		Name:    p.LookupString(s.Name),
		Epoch:   evr.Epoch,
		Version: evr.Version,
		Release: evr.Release,
		Arch:    p.LookupString(s.Arch),
	}
}

// SetInstallOnly marks the given (already interned) provide name ids as
// installonly, meaning the Goal may keep more than one installed version
// of their providers.
func (p *Pool) SetInstallOnly(nameIDs []Id) {
	p.installonly = make(map[Id]bool, len(nameIDs))
	for _, id := range nameIDs {
		p.installonly[id] = true
	}
}

// SetUserInstalled records which installed solvables were installed by
// direct user request.
func (p *Pool) SetUserInstalled(ids []Id) {
	p.userInstalled = make(map[Id]bool, len(ids))
	for _, id := range ids {
		p.userInstalled[id] = true
	}
}

// IsUserInstalled reports whether id was marked user-installed.
func (p *Pool) IsUserInstalled(id Id) bool { return p.userInstalled[id] }

// IsInstallOnly reports whether s provides any installonly name.
func (p *Pool) IsInstallOnly(s *Solvable) bool {
	if p.installonly[s.Name] {
		return true
	}
	for _, rd := range s.Provides {
		r := p.mustReldep(rd)
		if !r.isRich() && p.installonly[r.name] {
			return true
		}
	}
	return false
}

// SetVersionlock replaces the set of solvable ids excluded by versionlock.
func (p *Pool) SetVersionlock(ids []Id) {
	p.versionlock = make(map[Id]bool, len(ids))
	for _, id := range ids {
		p.versionlock[id] = true
	}
}

// IsVersionlocked reports whether id is excluded by versionlock.
func (p *Pool) IsVersionlocked(id Id) bool { return p.versionlock[id] }

// ArchCompatible reports whether archA and archB may coexist as an
// upgrade/downgrade pair: equal archs are always compatible, noarch is
// compatible with everything, and source archs only interoperate with
// other source archs.
func ArchCompatible(archA, archB string) bool {
	if archA == archB {
		return true
	}
	aSrc := archA == ArchSrc || archA == ArchNoSrc
	bSrc := archB == ArchSrc || archB == ArchNoSrc
	if aSrc || bSrc {
		return aSrc && bSrc
	}
	return archA == ArchNoarch || archB == ArchNoarch
}
