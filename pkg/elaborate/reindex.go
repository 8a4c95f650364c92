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
package elaborate

import (
	"github.com/1heinz/hal/pkg/gatelib"
	"github.com/1heinz/hal/pkg/hdl"
)

// reindexGateTypes copies the library's plain-string-keyed gate type table
// into one keyed by N, so every subsequent lookup uses N's comparator
// (case-sensitive or case-insensitive, per the design's chosen ordering)
// rather than Go's built-in string equality.
func reindexGateTypes[N hdl.Name[N]](r *run[N]) {
	r.tmpGateTypes = make(map[N]gatelib.GateType, len(r.library.GateTypes()))

	for name, gt := range r.library.GateTypes() {
		r.tmpGateTypes[nameFromString[N](name)] = gt
	}
}
