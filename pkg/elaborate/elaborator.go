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

// Package elaborate turns a parsed set of entities into a flattened
// netlist: it validates every instance's port widths, walks the
// instantiation tree from the chosen top entity, merges aliased nets to a
// fixed point, and drives or prunes the reserved constant nets.
package elaborate

import (
	"github.com/sirupsen/logrus"

	"github.com/1heinz/hal/pkg/gatelib"
	"github.com/1heinz/hal/pkg/hdl"
	"github.com/1heinz/hal/pkg/netlist"
)

// Parser produces the entity set an Elaborator instantiates: every entity
// declared in one source file or design unit, plus the name of the entity
// designated as the top of the hierarchy.
type Parser[N hdl.Name[N]] interface {
	Parse() (*hdl.OrderedMap[N, *hdl.Entity[N]], N, error)
}

// Elaborator runs the full pipeline from parsed entities to a netlist.
type Elaborator[N hdl.Name[N]] struct {
	parser   Parser[N]
	registry gatelib.Registry
	config   Config
	log      *logrus.Logger
}

// NewElaborator constructs an Elaborator bound to parser, resolving gate
// libraries out of registry per config.Library.
func NewElaborator[N hdl.Name[N]](parser Parser[N], registry gatelib.Registry, config Config) *Elaborator[N] {
	return &Elaborator[N]{
		parser:   parser,
		registry: registry,
		config:   config,
		log:      logrus.StandardLogger(),
	}
}

// SetLogger overrides the logger used for warnings during elaboration.
func (e *Elaborator[N]) SetLogger(log *logrus.Logger) {
	e.log = log
}

// Parse delegates to the configured Parser.
func (e *Elaborator[N]) Parse() (*hdl.OrderedMap[N, *hdl.Entity[N]], N, error) {
	return e.parser.Parse()
}

// ParseAndInstantiate parses and then instantiates in one call.
func (e *Elaborator[N]) ParseAndInstantiate() (*netlist.Netlist, error) {
	entities, top, err := e.Parse()
	if err != nil {
		return nil, err
	}

	return e.Instantiate(entities, top)
}

// Instantiate runs the full pipeline over an already-parsed entity set:
// port-width validation, reserved-constant-net creation, recursive
// instantiation from top, net merging, module-port assignment, and
// ground/power insertion with final pruning.  A failure is logged at error
// level and returned.
func (e *Elaborator[N]) Instantiate(entities *hdl.OrderedMap[N, *hdl.Entity[N]], top N) (nl *netlist.Netlist, err error) {
	defer func() {
		if err != nil {
			e.log.Error(err)
		}
	}()

	if entities.Len() == 0 {
		return nil, NewErrorNoLine("file did not contain any entities")
	}

	library, ok := e.registry.Library(e.config.Library)
	if !ok {
		return nil, NewErrorNoLine("unknown gate library %q", e.config.Library)
	}

	r := newRun[N](entities, top, library, e.config, e.log)

	reindexGateTypes(r)

	if err := validateInstances(r); err != nil {
		return nil, err
	}

	if err := createConstantNets(r); err != nil {
		return nil, err
	}

	if err := buildNetlist(r); err != nil {
		return nil, err
	}

	if err := mergeNets(r); err != nil {
		return nil, err
	}

	assignModulePorts(r)

	if err := insertGroundAndPower(r); err != nil {
		return nil, err
	}

	pruneUnusedNets(r)

	nl, _ = r.container.(*netlist.Netlist)

	return nl, nil
}

// createConstantNets unconditionally creates the two reserved constant
// nets before any instantiation runs; insertGroundAndPower later decides,
// once every real destination has been wired, whether each survives with
// a driving gate or is deleted outright.
func createConstantNets[N hdl.Name[N]](r *run[N]) error {
	zero, err := r.container.CreateNet(hdl.Zero)
	if err != nil {
		return NewErrorNoLine("could not create constant-zero net: %v", err)
	}

	r.netByName[nameFromString[N](hdl.Zero)] = zero

	one, err := r.container.CreateNet(hdl.One)
	if err != nil {
		return NewErrorNoLine("could not create constant-one net: %v", err)
	}

	r.netByName[nameFromString[N](hdl.One)] = one

	return nil
}

// buildNetlist runs the occurrence-counting pre-pass, the forced
// initialization and unused-entity sweep, top-boundary construction, and
// the recursive instantiation from top.  The top-level instance is always
// named "top_module" literally, mirroring the pre-existing top module's
// default name: its occurrence count is never otherwise incremented, so
// the alias generator always returns it unchanged.
func buildNetlist[N hdl.Name[N]](r *run[N]) error {
	top, ok := r.entities.Get(r.topName)
	if !ok {
		return NewErrorNoLine("top entity %q not found", r.topName.String())
	}

	r.container.SetDesignName(r.topName.String())

	countOccurrences(r, top)

	if err := forceInitializeAndWarnUnused(r); err != nil {
		return err
	}

	topAssignments, err := buildTopBoundary(r, top)
	if err != nil {
		return err
	}

	if _, err := instantiateEntity(r, top, nameFromString[N]("top_module"), nil, topAssignments); err != nil {
		return err
	}

	return nil
}
