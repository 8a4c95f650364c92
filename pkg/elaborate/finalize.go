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
	"fmt"

	"github.com/1heinz/hal/pkg/gatelib"
	"github.com/1heinz/hal/pkg/hdl"
	"github.com/1heinz/hal/pkg/netlist"
)

// assignModulePorts performs the final module-port naming pass: for every
// net recorded in run.modulePorts, its owning module's input and/or output
// port-name table is set to the recorded bit name.  Because the table is
// keyed by net and overwritten on every registration throughout
// instantiation and merging, this pass simply records whichever
// registration survived.
func assignModulePorts[N hdl.Name[N]](r *run[N]) {
	for net, entry := range r.modulePorts {
		if entry.Direction == hdl.In || entry.Direction == hdl.InOut {
			netlist.SetInputPortName(entry.Module, net, entry.PortName)
		}

		if entry.Direction == hdl.Out || entry.Direction == hdl.InOut {
			netlist.SetOutputPortName(entry.Module, net, entry.PortName)
		}
	}
}

func pickGateType(types map[string]gatelib.GateType) (gatelib.GateType, string, error) {
	for name, gt := range types {
		return gt, name, nil
	}

	return nil, "", fmt.Errorf("no gate type available")
}

// insertGroundAndPower conditionally drives the reserved '0'/'1' nets: a net
// with at least one destination gets an inserted, library-supplied ground
// or power gate as its sole source; one with none is simply deleted,
// matching the finalize step's "unconditional creation, conditional
// survival" handling of the constant nets.
func insertGroundAndPower[N hdl.Name[N]](r *run[N]) error {
	zeroName := nameFromString[N](hdl.Zero)
	if zero, ok := r.netByName[zeroName]; ok {
		if len(zero.Destinations()) > 0 {
			gt, name, err := pickGateType(r.library.GroundGateTypes())
			if err != nil {
				return NewErrorNoLine("gate library %q has no ground gate type", r.library.Name())
			}

			gate, err := r.container.CreateGate(r.container.TopModule(), "global_gnd", name)
			if err != nil {
				return NewErrorNoLine("could not instantiate ground gate: %v", err)
			}

			r.container.MarkGround(gate)
			netlist.AddSource(zero, gate, gt.OutputPins()[0])
		} else {
			r.container.DeleteNet(zero.Name)
			delete(r.netByName, zeroName)
		}
	}

	oneName := nameFromString[N](hdl.One)
	if one, ok := r.netByName[oneName]; ok {
		if len(one.Destinations()) > 0 {
			gt, name, err := pickGateType(r.library.PowerGateTypes())
			if err != nil {
				return NewErrorNoLine("gate library %q has no power gate type", r.library.Name())
			}

			gate, err := r.container.CreateGate(r.container.TopModule(), "global_vcc", name)
			if err != nil {
				return NewErrorNoLine("could not instantiate power gate: %v", err)
			}

			r.container.MarkPower(gate)
			netlist.AddSource(one, gate, gt.OutputPins()[0])
		} else {
			r.container.DeleteNet(one.Name)
			delete(r.netByName, oneName)
		}
	}

	return nil
}

// pruneUnusedNets deletes every net that ended up with neither a source nor
// a destination and is not a global input or output, the last step of
// finalization.
func pruneUnusedNets[N hdl.Name[N]](r *run[N]) {
	for _, net := range r.container.Nets() {
		noSource := len(net.Sources()) == 0 && !net.GlobalInput
		noDestination := len(net.Destinations()) == 0 && !net.GlobalOutput

		if noSource && noDestination {
			r.container.DeleteNet(net.Name)
		}
	}
}
