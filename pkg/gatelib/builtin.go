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
package gatelib

// builtinLibrary is the demo Library backing "BUILTIN", generated from
// builtin_gen.go's gate literals.
type builtinLibrary struct {
	name        string
	types       map[string]GateType
	groundTypes map[string]GateType
	powerTypes  map[string]GateType
}

func (l *builtinLibrary) Name() string                        { return l.name }
func (l *builtinLibrary) GateTypes() map[string]GateType       { return l.types }
func (l *builtinLibrary) GroundGateTypes() map[string]GateType { return l.groundTypes }
func (l *builtinLibrary) PowerGateTypes() map[string]GateType  { return l.powerTypes }

// NewBuiltinLibrary constructs the demo library used by tests and by the
// CLI when no external library is configured.
func NewBuiltinLibrary() Library {
	raw := newBuiltinGateTypes()

	types := make(map[string]GateType, len(raw))
	for name, gt := range raw {
		types[name] = gt
	}

	ground := make(map[string]GateType, len(builtinGroundTypes))
	for _, name := range builtinGroundTypes {
		ground[name] = types[name]
	}

	power := make(map[string]GateType, len(builtinPowerTypes))
	for _, name := range builtinPowerTypes {
		power[name] = types[name]
	}

	return &builtinLibrary{
		name:        "BUILTIN",
		types:       types,
		groundTypes: ground,
		powerTypes:  power,
	}
}

// staticRegistry is a Registry over a fixed set of libraries, keyed by
// name at construction time.
type staticRegistry struct {
	libraries map[string]Library
}

// NewRegistry builds a Registry over the given libraries, keyed by their
// own Name().  Later libraries with a duplicate name overwrite earlier
// ones.
func NewRegistry(libraries ...Library) Registry {
	r := &staticRegistry{libraries: make(map[string]Library, len(libraries))}
	for _, lib := range libraries {
		r.libraries[lib.Name()] = lib
	}

	return r
}

func (r *staticRegistry) Library(name string) (Library, bool) {
	lib, ok := r.libraries[name]
	return lib, ok
}

// DefaultRegistry returns a Registry pre-populated with the built-in demo
// library, suitable as a zero-configuration default.
func DefaultRegistry() Registry {
	return NewRegistry(NewBuiltinLibrary())
}
