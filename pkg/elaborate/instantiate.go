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
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/1heinz/hal/pkg/gatelib"
	"github.com/1heinz/hal/pkg/hdl"
	"github.com/1heinz/hal/pkg/hdl/expand"
	"github.com/1heinz/hal/pkg/netlist"
)

// canonicalizeGeneric validates and normalizes one generic's value.  A
// "field" generic (e.g. a gate-level constant expressed as a VHDL
// qualified expression, field'(7)) is parsed as a bls12-377 scalar-field
// element and re-serialized in its canonical decimal form; every other
// data_type passes its value through unchanged.
func canonicalizeGeneric(dataType, value string) (string, error) {
	if dataType != "field" {
		return value, nil
	}

	var e fr.Element
	if _, err := e.SetString(value); err != nil {
		return "", err
	}

	return e.String(), nil
}

// dataSetter is satisfied by *netlist.Module and *netlist.Gate: whichever
// container an instance elaborates into, entity/instance attributes and
// generics are applied to it uniformly through this interface.
type dataSetter interface {
	SetData(channel, key, typ, value string)
}

var (
	_ dataSetter = (*netlist.Module)(nil)
	_ dataSetter = (*netlist.Gate)(nil)
)

func isLiteral[N hdl.Name[N]](n N) bool {
	return hdl.IsReservedLiteral(n.String())
}

// countOccurrences runs the BFS pre-pass over the instance tree, starting
// from top, following only instances whose type resolves to a known
// entity.  It deliberately does not deduplicate visited entities: an
// entity instantiated twice is walked twice, so its internal signal and
// instance names are counted once per occurrence in the flattened design.
func countOccurrences[N hdl.Name[N]](r *run[N], top *hdl.Entity[N]) {
	r.instanceNameOccurrences[nameFromString[N]("top_entity")]++

	top.Ports.Range(func(portName N, _ hdl.Port[N]) bool {
		r.signalNameOccurrences[portName]++
		return true
	})

	queue := []*hdl.Entity[N]{top}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		r.instantiationCount[e.NameVal]++

		e.Signals.Range(func(signalName N, _ hdl.Signal[N]) bool {
			r.signalNameOccurrences[signalName]++
			return true
		})

		e.Instances.Range(func(instName N, inst hdl.Instance[N]) bool {
			r.instanceNameOccurrences[instName]++

			if target, ok := r.entities.Get(inst.Type); ok {
				queue = append(queue, target)
			}

			return true
		})
	}
}

// forceInitializeAndWarnUnused sweeps every declared entity: one still
// uninitialized at this point is force-initialized (a warning, unless
// config.StrictInit makes it fatal); one never instantiated is logged
// when config.WarnUnused is set.
func forceInitializeAndWarnUnused[N hdl.Name[N]](r *run[N]) error {
	var firstErr error

	r.entities.Range(func(name N, e *hdl.Entity[N]) bool {
		if !e.IsInitialized() {
			if r.config.StrictInit {
				firstErr = NewError(e.Line, "entity %q was not initialized during parsing", name.String())
				return false
			}

			r.log.Warnf("entity %q has not been initialized during parsing, this may affect performance", name.String())
			e.Initialize()
		}

		if r.config.WarnUnused && r.instantiationCount[name] == 0 {
			r.log.Warnf("entity %q defined but not used", name.String())
		}

		return true
	})

	return firstErr
}

// buildTopBoundary creates, for every expanded bit of every top-entity
// port, a net named literally by the expanded bit (no aliasing at the top
// scope), marks it global input/output per direction, and returns the
// identity map used as this call's parent_module_assignments.
func buildTopBoundary[N hdl.Name[N]](r *run[N], top *hdl.Entity[N]) (map[N]N, error) {
	topAssignments := make(map[N]N)

	var firstErr error

	top.Ports.Range(func(portName N, port hdl.Port[N]) bool {
		for _, bit := range top.ExpandedPorts()[portName] {
			net, err := r.container.CreateNet(bit.String())
			if err != nil {
				firstErr = NewError(port.Signal.Line, "could not create net %q: %v", bit.String(), err)
				return false
			}

			r.netByName[bit] = net
			topAssignments[bit] = bit

			if port.Direction == hdl.In || port.Direction == hdl.InOut {
				net.GlobalInput = true
			}

			if port.Direction == hdl.Out || port.Direction == hdl.InOut {
				net.GlobalOutput = true
			}
		}

		return true
	})

	return topAssignments, firstErr
}

func resolveStrict[N hdl.Name[N]](parentAssignments, signalAlias map[N]N, bit N) (N, bool) {
	if netName, ok := parentAssignments[bit]; ok {
		return netName, true
	}

	if alias, ok := signalAlias[bit]; ok {
		return alias, true
	}

	if isLiteral(bit) {
		return bit, true
	}

	return bit, false
}

func resolveWarn[N hdl.Name[N]](r *run[N], parentAssignments, signalAlias map[N]N, bit N) N {
	if netName, ok := parentAssignments[bit]; ok {
		return netName
	}

	if alias, ok := signalAlias[bit]; ok {
		return alias
	}

	if !isLiteral(bit) {
		r.log.Warnf("no alias for net %q", bit.String())
	}

	return bit
}

// buildInstanceAssignments expands every port assignment of inst into
// parallel (child-port-bit, rhs-bit) pairs and resolves each rhs bit
// through parentAssignments, then signalAlias, then literal acceptance.
// An unresolved rhs bit is fatal.
func buildInstanceAssignments[N hdl.Name[N]](inst hdl.Instance[N], parentAssignments, signalAlias map[N]N) (map[N]N, error) {
	result := make(map[N]N)

	var firstErr error

	inst.PortAssignments.Range(func(_ N, pa hdl.PortAssignment[N]) bool {
		expandedPort := expand.Signal[N](pa.Port)

		var expandedRhs []N

		for _, s := range pa.Rhs {
			expandedRhs = append(expandedRhs, expand.Signal[N](s)...)
		}

		for i := 0; i < len(expandedPort) && i < len(expandedRhs); i++ {
			resolved, ok := resolveStrict(parentAssignments, signalAlias, expandedRhs[i])
			if !ok {
				firstErr = NewError(inst.Line, "signal assignment %q = %q of instance %q is invalid",
					expandedPort[i].String(), expandedRhs[i].String(), inst.NameVal.String())

				return false
			}

			result[expandedPort[i]] = resolved
		}

		return true
	})

	return result, firstErr
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}

	return false
}

// wireGate creates a gate of childInst's type under module and binds every
// resolved port assignment to the gate's matching scalar pin, adding it as
// a net source (output pin) or destination (input pin).
func wireGate[N hdl.Name[N]](r *run[N], module *netlist.Module, instName N, inst hdl.Instance[N],
	gateType gatelib.GateType, instanceAssignments map[N]N) (*netlist.Gate, error) {
	alias := expand.Unique[N](r.instanceNameOccurrences, instName)

	gate, err := r.container.CreateGate(module, alias.String(), inst.Type.String())
	if err != nil {
		return nil, NewError(inst.Line, "could not instantiate gate %q within entity: %v", instName.String(), err)
	}

	for port, assignment := range instanceAssignments {
		net, ok := r.netByName[assignment]
		if !ok {
			return nil, NewError(inst.Line, "signal %q of entity %q has not been declared", assignment.String(), inst.Type.String())
		}

		pinName := port.String()
		isInput := containsString(gateType.InputPins(), pinName)
		isOutput := containsString(gateType.OutputPins(), pinName)

		if !isInput && !isOutput {
			return nil, NewError(inst.Line, "undefined pin %q for gate %q of type %q", pinName, gate.Name, gateType.Name())
		}

		if isOutput {
			netlist.AddSource(net, gate, pinName)
		}

		if isInput {
			netlist.AddDestination(net, gate, pinName)
		}
	}

	return gate, nil
}

// instantiateEntity is the recursive step of the instantiator.  parent=nil
// designates the top call, which renames the container's pre-existing top
// module rather than creating a new one.
func instantiateEntity[N hdl.Name[N]](r *run[N], entity *hdl.Entity[N], instName N, parent *netlist.Module,
	parentAssignments map[N]N) (*netlist.Module, error) {
	alias := expand.Unique[N](r.instanceNameOccurrences, instName)

	var module *netlist.Module

	if parent == nil {
		r.container.RenameTopModule(alias.String(), entity.NameVal.String())
		module = r.container.TopModule()
	} else {
		module = r.container.CreateModule(parent, alias.String())
		module.Type = entity.NameVal.String()
	}

	for _, a := range entity.Attributes {
		module.SetData("attribute", a.Key, a.Type, a.Value)
	}

	entity.Ports.Range(func(portName N, port hdl.Port[N]) bool {
		for _, bit := range entity.ExpandedPorts()[portName] {
			if netName, ok := parentAssignments[bit]; ok {
				if net, ok := r.netByName[netName]; ok {
					r.modulePorts[net] = modulePortEntry[N]{Direction: port.Direction, PortName: bit.String(), Module: module}
				}
			}
		}

		return true
	})

	signalAlias := make(map[N]N)

	var firstErr error

	entity.Signals.Range(func(signalName N, signal hdl.Signal[N]) bool {
		for _, bit := range entity.ExpandedSignals()[signalName] {
			bitAlias := expand.Unique[N](r.signalNameOccurrences, bit)
			signalAlias[bit] = bitAlias

			net, err := r.container.CreateNet(bitAlias.String())
			if err != nil {
				firstErr = NewError(signal.Line, "could not instantiate net %q of instance %q of entity %q: %v",
					bit.String(), instName.String(), entity.NameVal.String(), err)

				return false
			}

			r.netByName[bitAlias] = net

			for _, a := range signal.Attributes {
				net.SetData("attribute", a.Key, a.Type, a.Value)
			}
		}

		return true
	})

	if firstErr != nil {
		return nil, firstErr
	}

	entity.ExpandedAssignments().Range(func(lhsBit, rhsBit N) bool {
		a := resolveWarn(r, parentAssignments, signalAlias, lhsBit)
		b := resolveWarn(r, parentAssignments, signalAlias, rhsBit)

		r.netsToMerge[b] = append(r.netsToMerge[b], a)

		return true
	})

	entity.Instances.Range(func(childInstName N, childInst hdl.Instance[N]) bool {
		instanceAssignments, err := buildInstanceAssignments(childInst, parentAssignments, signalAlias)
		if err != nil {
			firstErr = err
			return false
		}

		var container dataSetter

		if childTarget, ok := r.entities.Get(childInst.Type); ok {
			childModule, err := instantiateEntity(r, childTarget, childInstName, module, instanceAssignments)
			if err != nil {
				firstErr = err
				return false
			}

			container = childModule
		} else if gateType, ok := r.tmpGateTypes[childInst.Type]; ok {
			gate, err := wireGate(r, module, childInstName, childInst, gateType, instanceAssignments)
			if err != nil {
				firstErr = err
				return false
			}

			container = gate
		} else {
			firstErr = NewError(childInst.Line, "could not find gate type %q in gate library %q", childInst.Type.String(), r.library.Name())
			return false
		}

		for _, a := range childInst.Attributes {
			container.SetData("attribute", a.Key, a.Type, a.Value)
		}

		var genErr error

		childInst.GenericAssignments.Range(func(genName string, g hdl.GenericAssignment) bool {
			canonical, err := canonicalizeGeneric(g.DataType, g.Value)
			if err != nil {
				genErr = NewError(childInst.Line, "generic %q of instance %q: %v", genName, childInstName.String(), err)
				return false
			}

			container.SetData("generic", genName, g.DataType, canonical)

			return true
		})

		if genErr != nil {
			firstErr = genErr
			return false
		}

		return true
	})

	if firstErr != nil {
		return nil, firstErr
	}

	return module, nil
}
