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
	"strconv"
	"strings"
)

// EVR is the parsed form of an Epoch-Version-Release string. Epoch
// defaults to "0" when absent from the string form "[epoch:]version[-release]".
type EVR struct {
	Epoch, Version, Release string
}

// ParseEVR splits a "[e:]v[-r]" string into its components. A missing
// epoch defaults to "0"; a missing release is the empty string.
func ParseEVR(s string) EVR {
	e := EVR{Epoch: "0"}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		e.Epoch = s[:i]
		s = s[i+1:]
	}
	if i := strings.IndexByte(s, '-'); i >= 0 {
		e.Version = s[:i]
		e.Release = s[i+1:]
	} else {
		e.Version = s
	}
	return e
}

// String renders the canonical "[e:]v[-r]" form.
func (e EVR) String() string {
	var b strings.Builder
	if e.Epoch != "" && e.Epoch != "0" {
		b.WriteString(e.Epoch)
		b.WriteByte(':')
	}
	b.WriteString(e.Version)
	if e.Release != "" {
		b.WriteByte('-')
		b.WriteString(e.Release)
	}
	return b.String()
}

// Compare implements the RPM EVR ordering: epoch (as an integer, missing
// or non-numeric treated as 0) dominates, then version, then release, the
// latter two compared segment-wise by rpmVerCmp. It is total and
// antisymmetric, and is the sole authority for version ordering reused by
// every package query filter and by the solver.
func (e EVR) Compare(o EVR) int {
	if c := compareEpoch(e.Epoch, o.Epoch); c != 0 {
		return c
	}
	if c := rpmVerCmp(e.Version, o.Version); c != 0 {
		return c
	}
	return rpmVerCmp(e.Release, o.Release)
}

func compareEpoch(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr != nil {
		ai = 0
	}
	if berr != nil {
		bi = 0
	}
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// rpmVerCmp compares two version or release strings using the classic RPM
// segmentation algorithm: strings are split into alternating runs of
// digits and (ASCII) letters, separators (anything else) are skipped
// entirely, numeric segments always outrank alphabetic ones, numeric runs
// compare numerically (after stripping leading zeros, so a longer run of
// digits wins), and alphabetic runs compare byte-wise. A leading tilde
// ("~") segment sorts before everything, including the empty string,
// matching RPM's prerelease convention.
func rpmVerCmp(a, b string) int {
	if a == b {
		return 0
	}
	for len(a) > 0 || len(b) > 0 {
		// Tildes sort before anything else, including end-of-string.
		if len(a) > 0 && a[0] == '~' || len(b) > 0 && b[0] == '~' {
			aTilde := len(a) > 0 && a[0] == '~'
			bTilde := len(b) > 0 && b[0] == '~'
			if aTilde && !bTilde {
				return -1
			}
			if !aTilde && bTilde {
				return 1
			}
			a, b = a[1:], b[1:]
			continue
		}

		// Skip non-alphanumeric separators on both sides.
		for len(a) > 0 && !isAlnum(a[0]) {
			a = a[1:]
		}
		for len(b) > 0 && !isAlnum(b[0]) {
			b = b[1:]
		}

		if len(a) == 0 || len(b) == 0 {
			break
		}

		var segA, segB string
		var numeric bool
		if isDigit(a[0]) {
			segA, a = takeWhile(a, isDigit)
		} else {
			segA, a = takeWhile(a, isAlpha)
		}
		if isDigit(b[0]) {
			segB, b = takeWhile(b, isDigit)
			numeric = isDigit(segA[0])
		} else {
			segB, b = takeWhile(b, isAlpha)
		}

		isNumA := isDigit(segA[0])
		isNumB := isDigit(segB[0])
		if isNumA != isNumB {
			// A numeric segment always outranks an alphabetic one,
			// regardless of which side it's on.
			if isNumA {
				return 1
			}
			return -1
		}
		_ = numeric

		if isNumA {
			segA = strings.TrimLeft(segA, "0")
			segB = strings.TrimLeft(segB, "0")
			if len(segA) != len(segB) {
				if len(segA) > len(segB) {
					return 1
				}
				return -1
			}
		}
		if segA != segB {
			if segA < segB {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a) == len(b):
		return 0
	case len(a) > len(b):
		return 1
	default:
		return -1
	}
}

func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func takeWhile(s string, pred func(byte) bool) (taken, rest string) {
	i := 0
	for i < len(s) && pred(s[i]) {
		i++
	}
	return s[:i], s[i:]
}
