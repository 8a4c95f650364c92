// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package expand implements the signal expander and the alias generator:
// two small, pure utilities shared by the entity initializer and the
// recursive instantiator.  It depends only on the Name constraint (package
// ident), not on the full hdl package, so that hdl can depend on expand
// without an import cycle.
package expand

import (
	"fmt"
	"strconv"

	"github.com/1heinz/hal/pkg/hdl/ident"
)

// Expandable is the minimal shape the Signal Expander needs: a name, its
// ranges (empty for a scalar), and whether it is a binary literal.
// hdl.Signal[N] satisfies this.
type Expandable[N ident.Name[N]] interface {
	ExpandName() N
	ExpandRanges() [][]uint32
	ExpandBinary() bool
}

// Signal turns a ranged/bused signal into an ordered list of single-bit
// names.  If the signal is a binary literal, each character of its name
// becomes a one-character name.  Otherwise, it enumerates the Cartesian
// product of the signal's ranges in row-major order (the first dimension is
// outermost) and emits name(i1)(i2)...(ik) for every index tuple; a scalar
// (no ranges) yields the bare name.
//
// The textual form "name(i)(j)" is a public convention: every expanded name
// produced anywhere in the elaborator is built this way and is used
// directly as a map key.
func Signal[N ident.Name[N]](s Expandable[N]) []N {
	if s.ExpandBinary() {
		return binary(s.ExpandName())
	}

	var out []N
	recurse(&out, s.ExpandName(), s.ExpandRanges(), 0)

	return out
}

func binary[N ident.Name[N]](name N) []N {
	var zero N

	text := name.String()
	out := make([]N, 0, len(text))

	for _, r := range text {
		out = append(out, zero.Concat(string(r)))
	}

	return out
}

func recurse[N ident.Name[N]](out *[]N, current N, ranges [][]uint32, dimension int) {
	if dimension < len(ranges) {
		for _, index := range ranges[dimension] {
			recurse(out, current.Concat(fmt.Sprintf("(%s)", strconv.FormatUint(uint64(index), 10))), ranges, dimension+1)
		}

		return
	}

	*out = append(*out, current)
}

// Unique implements the Alias Generator.  If the total observed occurrences
// of name across the entire design is less than two, it returns name
// unchanged.  Otherwise it increments the counter and returns
// name + "__[" + k + "]__" where k is the post-increment value.  This
// guarantees global uniqueness across a flattened design while leaving
// unambiguous names unadorned -- the usual case for top-level ports.
func Unique[N ident.Name[N]](occurrences map[N]uint32, name N) N {
	if occurrences[name] < 2 {
		return name
	}

	occurrences[name]++

	return name.Concat(fmt.Sprintf("__[%d]__", occurrences[name]))
}
