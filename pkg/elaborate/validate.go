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

// validateInstances runs once before elaboration, over every entity's
// every instance.  For an instance of a known entity, a not-yet-ranged
// port assignment has its lhs ranges filled in from the target port; for
// an instance of a library gate type, from the matching pin or pin group.
// Either way, the lhs size is then checked against the summed rhs size.
func validateInstances[N hdl.Name[N]](r *run[N]) error {
	var firstErr error

	r.entities.Range(func(_ N, entity *hdl.Entity[N]) bool {
		entity.Instances.Range(func(_ N, inst hdl.Instance[N]) bool {
			if err := validateInstance(r, entity, inst); err != nil {
				firstErr = err
				return false
			}

			return true
		})

		return firstErr == nil
	})

	return firstErr
}

func validateInstance[N hdl.Name[N]](r *run[N], _ *hdl.Entity[N], inst hdl.Instance[N]) error {
	if target, ok := r.entities.Get(inst.Type); ok {
		return validateEntityInstance(inst, target)
	}

	if gateType, ok := r.tmpGateTypes[inst.Type]; ok {
		return validateGateInstance(inst, gateType)
	}

	return NewError(inst.Line, "instance %q: type %q is neither a known entity nor a known gate type",
		inst.NameVal.String(), inst.Type.String())
}

func validateEntityInstance[N hdl.Name[N]](inst hdl.Instance[N], target *hdl.Entity[N]) error {
	var firstErr error

	inst.PortAssignments.Range(func(portName N, pa hdl.PortAssignment[N]) bool {
		if !pa.Port.RangesKnown {
			port, ok := target.Ports.Get(portName)
			if !ok {
				firstErr = NewError(inst.Line, "instance %q: entity %q has no port %q",
					inst.NameVal.String(), inst.Type.String(), portName.String())
				return false
			}

			pa.Port.SetRanges(port.Signal.Ranges)
			inst.PortAssignments.Set(portName, pa)
		}

		if err := checkWidth(inst, portName, pa); err != nil {
			firstErr = err
			return false
		}

		return true
	})

	return firstErr
}

// pinTable merges a gate type's input and output pin/pin-group sets into
// one lookup table: scalar pins map to a nil range, grouped pins to their
// bit-index list.  Input groups are applied after output groups so that,
// on a pathological name collision between an input and an output group,
// the input entry wins.
func pinTable(gt gatelib.GateType) map[string][]uint32 {
	table := make(map[string][]uint32)

	for _, p := range gt.OutputPins() {
		table[p] = nil
	}

	for _, p := range gt.InputPins() {
		table[p] = nil
	}

	for name, bits := range gt.OutputPinGroups() {
		table[name] = bits
	}

	for name, bits := range gt.InputPinGroups() {
		table[name] = bits
	}

	return table
}

func validateGateInstance[N hdl.Name[N]](inst hdl.Instance[N], gateType gatelib.GateType) error {
	table := pinTable(gateType)

	var firstErr error

	inst.PortAssignments.Range(func(portName N, pa hdl.PortAssignment[N]) bool {
		bits, ok := table[portName.String()]
		if !ok {
			firstErr = NewError(inst.Line, "instance %q: gate type %q has no pin %q",
				inst.NameVal.String(), inst.Type.String(), portName.String())
			return false
		}

		if !pa.Port.RangesKnown {
			if len(bits) > 0 {
				pa.Port.SetRanges([][]uint32{bits})
			} else {
				pa.Port.SetRanges(nil)
			}

			inst.PortAssignments.Set(portName, pa)
		}

		if err := checkWidth(inst, portName, pa); err != nil {
			firstErr = err
			return false
		}

		return true
	})

	return firstErr
}

func checkWidth[N hdl.Name[N]](inst hdl.Instance[N], portName N, pa hdl.PortAssignment[N]) error {
	rhsSize := 0
	for _, s := range pa.Rhs {
		rhsSize += s.Size()
	}

	if pa.Port.Size() != rhsSize {
		return NewError(inst.Line, "instance %q: port %q expects width %d, got %d",
			inst.NameVal.String(), portName.String(), pa.Port.Size(), rhsSize)
	}

	return nil
}
