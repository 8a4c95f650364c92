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
	"github.com/sirupsen/logrus"

	"github.com/1heinz/hal/pkg/gatelib"
	"github.com/1heinz/hal/pkg/hdl"
	"github.com/1heinz/hal/pkg/netlist"
)

// modulePortEntry is one entry of the module_ports side-table: a net
// records, via this table, that it is the externally visible port of a
// specific module.
type modulePortEntry[N hdl.Name[N]] struct {
	Direction hdl.Direction
	PortName  string
	Module    *netlist.Module
}

// run holds every map and cache that is scoped to a single elaboration
// call.  It is created fresh by Elaborator.Instantiate and discarded at
// return -- nothing here outlives one call, matching the single-threaded,
// no-cancellation resource model.
type run[N hdl.Name[N]] struct {
	entities *hdl.OrderedMap[N, *hdl.Entity[N]]
	topName  N

	library      gatelib.Library
	tmpGateTypes map[N]gatelib.GateType

	container netlist.Container

	signalNameOccurrences   map[N]uint32
	instanceNameOccurrences map[N]uint32
	instantiationCount      map[N]uint32

	netByName   map[N]*netlist.Net
	netsToMerge map[N][]N
	modulePorts map[*netlist.Net]modulePortEntry[N]

	config Config
	log    *logrus.Logger
}

func newRun[N hdl.Name[N]](entities *hdl.OrderedMap[N, *hdl.Entity[N]], topName N, library gatelib.Library,
	config Config, log *logrus.Logger) *run[N] {
	return &run[N]{
		entities:                entities,
		topName:                 topName,
		library:                 library,
		container:               netlist.New(),
		signalNameOccurrences:   make(map[N]uint32),
		instanceNameOccurrences: make(map[N]uint32),
		instantiationCount:      make(map[N]uint32),
		netByName:               make(map[N]*netlist.Net),
		netsToMerge:             make(map[N][]N),
		modulePorts:             make(map[*netlist.Net]modulePortEntry[N]),
		config:                  config,
		log:                     log,
	}
}

// nameFromString builds an N from a plain string by concatenating it onto
// N's zero value, the same trick pkg/hdl/expand uses for binary expansion;
// it is how library gate-type names (always plain strings) are lifted into
// the design's chosen Name ordering.
func nameFromString[N hdl.Name[N]](s string) N {
	var zero N
	return zero.Concat(s)
}
