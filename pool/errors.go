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

import "errors"

// Programming errors (ErrBadID, ErrDifferentBase) are meant to surface
// immediately to the caller; they are not expected to be handled, only
// reported.
var (
	// ErrBadID is returned when a lookup receives an id outside its valid
	// range for the Pool.
	ErrBadID = errors.New("pool: id out of range")

	// ErrBadReldep is returned when a rich or simple reldep string fails
	// to parse.
	ErrBadReldep = errors.New("pool: malformed reldep")

	// ErrDifferentBase is returned when two sets or queries from distinct
	// Pools are combined.
	ErrDifferentBase = errors.New("pool: objects belong to different pools")
)
