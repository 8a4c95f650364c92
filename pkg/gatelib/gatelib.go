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

// Package gatelib is the gate library: a queryable catalog of gate types.
// The elaborator only ever reads from a Library; it never constructs or
// mutates one.
package gatelib

// GateType is a library-provided leaf cell with fixed input/output pins and
// pin groups.  A pin group (e.g. a bus-shaped input like "A" of width 8) is
// expressed as a slice of per-bit indices; an empty group means the pin is
// scalar.
type GateType interface {
	// Name returns this gate type's name, as it appears in HDL source.
	Name() string
	// InputPins returns the ordered list of scalar input pin names.
	InputPins() []string
	// OutputPins returns the ordered list of scalar output pin names.
	OutputPins() []string
	// InputPinGroups returns, for every grouped (bussed) input pin, its
	// per-bit index list.
	InputPinGroups() map[string][]uint32
	// OutputPinGroups returns, for every grouped (bussed) output pin, its
	// per-bit index list.
	OutputPinGroups() map[string][]uint32
}

// Library is the catalog of gate types available to one elaboration run,
// keyed by gate type name exactly as declared in HDL source (always a plain
// string; the elaborator reindexes it into its chosen Name ordering via
// reindexGateTypes).
type Library interface {
	// Name returns this library's name (e.g. "GTECH", or "BUILTIN" for the
	// built-in demo library).
	Name() string
	// GateTypes returns every gate type this library provides, keyed by
	// name.
	GateTypes() map[string]GateType
	// GroundGateTypes returns every gate type capable of driving a
	// constant-zero net.  Non-empty iff ground insertion is possible.
	GroundGateTypes() map[string]GateType
	// PowerGateTypes returns every gate type capable of driving a
	// constant-one net.  Non-empty iff power insertion is possible.
	PowerGateTypes() map[string]GateType
}

// Registry resolves a library by name, analogous to a netlist factory
// keyed on gate-library name.
type Registry interface {
	// Library looks up a registered library by name.  Returns nil, false if
	// unknown.
	Library(name string) (Library, bool)
}
