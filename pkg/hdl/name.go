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
package hdl

import "github.com/1heinz/hal/pkg/hdl/ident"

// Name abstracts the identifier type used as every map key and comparison
// throughout the elaborator: ports, signals, instances, entities, gate
// types and pins are all of some Name.  The upstream IR producer picks the
// concrete instantiation (CaseSensitive or CaseInsensitive) once for an
// entire elaboration run.  Defined in package ident so that pkg/hdl/expand
// can depend on the constraint without importing pkg/hdl itself.
type Name[T any] = ident.Name[T]

// CaseSensitive is a Name whose ordering is plain byte-wise (ASCII) string
// comparison.
type CaseSensitive = ident.CaseSensitive

// CaseInsensitive is a Name whose ordering ignores ASCII case.  See
// ident.CaseInsensitive for why its text is canonicalised to upper case.
type CaseInsensitive = ident.CaseInsensitive

// NewCaseInsensitive canonicalises s for use as a CaseInsensitive name.
func NewCaseInsensitive(s string) CaseInsensitive {
	return ident.NewCaseInsensitive(s)
}

// NameFromString lifts a plain string into N by concatenating it onto N's
// zero value -- the same trick pkg/elaborate uses internally to turn a
// gate-type name (always a plain string) into the design's chosen Name
// ordering. Exported so a front end such as pkg/hdlparser, which only ever
// sees raw source text, can build N values without reimplementing it.
func NameFromString[N Name[N]](s string) N {
	var zero N
	return zero.Concat(s)
}
