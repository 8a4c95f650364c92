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
	"github.com/1heinz/hal/pkg/hdl"
	"github.com/1heinz/hal/pkg/netlist"
)

// mergeNets drains run.netsToMerge by repeated fixed-point passes: a key
// whose own slave list still names another pending key (a master not yet
// folded) is skipped this pass; a key with no such dependency is a ready
// master and is folded in full before being dropped from the work map.  A pass that
// folds nothing in means the remaining entries form a cycle.
func mergeNets[N hdl.Name[N]](r *run[N]) error {
	for len(r.netsToMerge) > 0 {
		progress := false

		for master, slaves := range r.netsToMerge {
			if hasPendingDependency(r.netsToMerge, slaves) {
				continue
			}

			masterNet, ok := r.netByName[master]
			if !ok {
				return NewErrorNoLine("net %q scheduled for merge but never created", master.String())
			}

			for _, slave := range slaves {
				if slave == master {
					continue
				}

				slaveNet, ok := r.netByName[slave]
				if !ok {
					return NewErrorNoLine("net %q scheduled for merge but never created", slave.String())
				}

				foldNet(r, masterNet, slaveNet, slave)
			}

			delete(r.netsToMerge, master)

			progress = true

			break
		}

		if !progress {
			return NewErrorNoLine("cyclic dependency between signals")
		}
	}

	return nil
}

func hasPendingDependency[N hdl.Name[N]](pending map[N][]N, slaves []N) bool {
	for _, slave := range slaves {
		if _, ok := pending[slave]; ok {
			return true
		}
	}

	return false
}

// foldNet merges slave into master: every source and destination is
// reparented (deduplicating), global-input/output flags propagate, data
// entries are copied over, and any module-port registration keyed on slave
// is moved across.  slave is then deleted from the netlist.
func foldNet[N hdl.Name[N]](r *run[N], masterNet, slaveNet *netlist.Net, slaveKey N) {
	if slaveNet.GlobalInput {
		masterNet.GlobalInput = true
	}

	if slaveNet.GlobalOutput {
		masterNet.GlobalOutput = true
	}

	for _, src := range append([]netlist.PinRef(nil), slaveNet.Sources()...) {
		netlist.RemoveSource(slaveNet, src.Gate, src.Pin)
		netlist.AddSource(masterNet, src.Gate, src.Pin)
	}

	for _, dst := range append([]netlist.PinRef(nil), slaveNet.Destinations()...) {
		netlist.RemoveDestination(slaveNet, dst.Gate, dst.Pin)
		netlist.AddDestination(masterNet, dst.Gate, dst.Pin)
	}

	masterNet.CopyDataFrom(slaveNet)

	if entry, ok := r.modulePorts[slaveNet]; ok {
		r.modulePorts[masterNet] = entry
		delete(r.modulePorts, slaveNet)
	}

	r.container.DeleteNet(slaveNet.Name)
	delete(r.netByName, slaveKey)
}
