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
	"path/filepath"
	"regexp"
	"strings"
)

// CmpType is a filter comparator. It is a closed, exhaustive set
// dispatched on explicitly, not an open polymorphic hierarchy. NOT is a
// composable bit, stripped off by callers before dispatch and reapplied
// as a set subtraction.
type CmpType uint32

const (
	EQ CmpType = 1 << iota
	NEQ
	GT
	LT
	GTE
	LTE
	IEQ
	IGLOB
	GLOB
	CONTAINS
	ICONTAINS
	IEXACT
	REGEX
	IREGEX

	// NOT is composable with any of the above.
	NOT
)

// bare strips the NOT bit, returning the positive comparator to dispatch
// on plus whether NOT was present.
func (c CmpType) bare() (CmpType, bool) {
	if c&NOT != 0 {
		return c &^ NOT, true
	}
	return c, false
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// MatchString reports whether value satisfies pattern under cmp's string
// semantics. GLOB/IGLOB automatically fall back to EQ/IEQ when pattern
// has no glob metacharacter, saving a filesystem-style match call.
func MatchString(value, pattern string, cmp CmpType) bool {
	positive, negate := cmp.bare()
	result := matchStringPositive(value, pattern, positive)
	if negate {
		return !result
	}
	return result
}

func matchStringPositive(value, pattern string, cmp CmpType) bool {
	switch cmp {
	case EQ, IEXACT:
		if cmp == IEXACT {
			return strings.EqualFold(value, pattern)
		}
		return value == pattern
	case NEQ:
		return value != pattern
	case IEQ:
		return strings.EqualFold(value, pattern)
	case GT:
		return value > pattern
	case LT:
		return value < pattern
	case GTE:
		return value >= pattern
	case LTE:
		return value <= pattern
	case GLOB:
		if !hasGlobMeta(pattern) {
			return value == pattern
		}
		ok, _ := filepath.Match(pattern, value)
		return ok
	case IGLOB:
		if !hasGlobMeta(pattern) {
			return strings.EqualFold(value, pattern)
		}
		ok, _ := filepath.Match(strings.ToLower(pattern), strings.ToLower(value))
		return ok
	case CONTAINS:
		return strings.Contains(value, pattern)
	case ICONTAINS:
		return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
	case REGEX:
		re, err := regexp.Compile(pattern)
		return err == nil && re.MatchString(value)
	case IREGEX:
		re, err := regexp.Compile("(?i)" + pattern)
		return err == nil && re.MatchString(value)
	default:
		return false
	}
}

// MatchEVR reports whether cmp holds for the 3-way comparison result c
// (as returned by pool.EVR.Compare / pool.Pool.Evrcmp). Only the ordering
// comparators apply; EQ/NEQ are supported for convenience alongside
// GT/LT/GTE/LTE.
func MatchEVR(c int, cmp CmpType) bool {
	positive, negate := cmp.bare()
	var result bool
	switch positive {
	case EQ, IEQ, IEXACT:
		result = c == 0
	case NEQ:
		result = c != 0
	case GT:
		result = c > 0
	case LT:
		result = c < 0
	case GTE:
		result = c >= 0
	case LTE:
		result = c <= 0
	default:
		return false
	}
	if negate {
		return !result
	}
	return result
}

// Supported reports whether cmp (after stripping NOT) is one of the
// comparators MatchString/MatchEVR implement.
func (c CmpType) Supported() bool {
	positive, _ := c.bare()
	switch positive {
	case EQ, NEQ, GT, LT, GTE, LTE, IEQ, IGLOB, GLOB, CONTAINS, ICONTAINS, IEXACT, REGEX, IREGEX:
		return true
	default:
		return false
	}
}
