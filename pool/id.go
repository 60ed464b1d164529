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
Package pool implements the interned object store at the center of this
module: strings, reldeps, solvables and repositories, plus the
whatprovides index that drives resolution.

Ids are stable for the lifetime of a Pool and are never portable between
Pools; combining ids or sets minted by two different Pool values is a
programming error (ErrDifferentBase).
*/
package pool

// Id uniquely identifies a string, a solvable, a repository or a reldep
// within one Pool. Ids are never negative except for the UnknownId
// sentinel below, and are stable until the owning Pool is dropped.
type Id int32

// NoId is the reserved id meaning "no string" / "unversioned" / "not set".
const NoId Id = 0

// UnknownId is a second, distinct sentinel used by running-kernel
// detection to mean "detection was attempted and failed", as opposed to
// NoId's "never set". Callers must not collapse the two.
const UnknownId Id = -1
