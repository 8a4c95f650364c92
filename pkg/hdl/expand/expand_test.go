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
package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1heinz/hal/pkg/hdl/ident"
)

type fakeSignal struct {
	name   ident.CaseSensitive
	ranges [][]uint32
	binary bool
}

func (f fakeSignal) ExpandName() ident.CaseSensitive { return f.name }
func (f fakeSignal) ExpandRanges() [][]uint32        { return f.ranges }
func (f fakeSignal) ExpandBinary() bool              { return f.binary }

func names(ns []ident.CaseSensitive) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.String()
	}

	return out
}

func TestSignalExpandsScalar(t *testing.T) {
	s := fakeSignal{name: "a"}
	assert.Equal(t, []string{"a"}, names(Signal[ident.CaseSensitive](s)))
}

func TestSignalExpandsSingleRange(t *testing.T) {
	s := fakeSignal{name: "i", ranges: [][]uint32{{0, 1, 2, 3}}}
	assert.Equal(t, []string{"i(0)", "i(1)", "i(2)", "i(3)"}, names(Signal[ident.CaseSensitive](s)))
}

func TestSignalExpandsMultiDimensionalRowMajor(t *testing.T) {
	s := fakeSignal{name: "m", ranges: [][]uint32{{0, 1}, {0, 1}}}
	assert.Equal(t, []string{"m(0)(0)", "m(0)(1)", "m(1)(0)", "m(1)(1)"}, names(Signal[ident.CaseSensitive](s)))
}

func TestSignalExpandsBinaryLiteral(t *testing.T) {
	s := fakeSignal{name: "101", binary: true}
	assert.Equal(t, []string{"1", "0", "1"}, names(Signal[ident.CaseSensitive](s)))
}

func TestUniqueLeavesFirstTwoOccurrencesUnchanged(t *testing.T) {
	occurrences := map[ident.CaseSensitive]uint32{"u1": 0}

	assert.Equal(t, ident.CaseSensitive("u1"), Unique(occurrences, ident.CaseSensitive("u1")))

	occurrences["u1"] = 1
	assert.Equal(t, ident.CaseSensitive("u1"), Unique(occurrences, ident.CaseSensitive("u1")))

	assert.Equal(t, uint32(1), occurrences["u1"], "Unique must not increment the counter below the threshold")
}

func TestUniqueAliasesFromThirdOccurrenceOnwardWithIncreasingSuffix(t *testing.T) {
	occurrences := map[ident.CaseSensitive]uint32{"u1": 2}

	first := Unique(occurrences, ident.CaseSensitive("u1"))
	assert.Equal(t, "u1__[3]__", first.String())

	second := Unique(occurrences, ident.CaseSensitive("u1"))
	assert.Equal(t, "u1__[4]__", second.String())

	assert.NotEqual(t, first, second, "repeated occurrences of the same name must get distinct aliases")
}
