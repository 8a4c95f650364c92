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

// Package netlist is the mutable graph the elaborator writes into: nets,
// gates and modules, related by source/destination pin bindings and a
// parent/child module hierarchy.  It owns no elaboration policy -- it is a
// dumb container exposing create/delete/merge-support primitives, the way
// pkg/schema describes shape while pkg/trace holds mutable column state in
// this module's compiler pipeline.
package netlist

import "fmt"

// DataEntry is one (type, value) pair recorded under a data channel key.
// The elaborator uses the two channels "attribute" and "generic"; nothing
// in this package is specific to either name.
type DataEntry struct {
	Type  string
	Value string
}

// dataTable is embedded by every annotatable node (Net, Gate, Module) and
// implements channel -> key -> DataEntry storage.
type dataTable struct {
	channels map[string]map[string]DataEntry
}

func newDataTable() dataTable {
	return dataTable{channels: make(map[string]map[string]DataEntry)}
}

// SetData records key's (typ, value) under channel, overwriting any prior
// entry for the same (channel, key) pair.
func (t *dataTable) SetData(channel, key, typ, value string) {
	entries, ok := t.channels[channel]
	if !ok {
		entries = make(map[string]DataEntry)
		t.channels[channel] = entries
	}

	entries[key] = DataEntry{Type: typ, Value: value}
}

// Data returns the (type, value) recorded for key under channel, if any.
func (t *dataTable) Data(channel, key string) (DataEntry, bool) {
	entries, ok := t.channels[channel]
	if !ok {
		return DataEntry{}, false
	}

	e, ok := entries[key]

	return e, ok
}

// CopyDataFrom copies every channel/key entry of src into t, overwriting
// any existing entry of the same channel/key.  Used by the net merger to
// fold a slave's data onto its master.
func (t *dataTable) CopyDataFrom(src *dataTable) {
	for channel, entries := range src.channels {
		for key, entry := range entries {
			t.SetData(channel, key, entry.Type, entry.Value)
		}
	}
}

// PinRef names one (gate, pin) endpoint of a net.
type PinRef struct {
	Gate *Gate
	Pin  string
}

// Net is one connection in the elaborated netlist.
type Net struct {
	dataTable

	Name string

	GlobalInput  bool
	GlobalOutput bool
	Ground       bool
	Power        bool

	sources      []PinRef
	destinations []PinRef
}

// Sources returns this net's source (gate, pin) endpoints.
func (n *Net) Sources() []PinRef { return n.sources }

// Destinations returns this net's destination (gate, pin) endpoints.
func (n *Net) Destinations() []PinRef { return n.destinations }

// CopyDataFrom copies every data entry of src onto n, overwriting any
// existing entry of the same channel/key.  Used by the net merger to fold a
// slave net's attributes and generics onto its surviving master.
func (n *Net) CopyDataFrom(src *Net) {
	n.dataTable.CopyDataFrom(&src.dataTable)
}

// IsSource reports whether (gate, pin) is already a source of this net.
func (n *Net) IsSource(gate *Gate, pin string) bool {
	return containsPinRef(n.sources, gate, pin)
}

// IsDestination reports whether (gate, pin) is already a destination of
// this net.
func (n *Net) IsDestination(gate *Gate, pin string) bool {
	return containsPinRef(n.destinations, gate, pin)
}

func containsPinRef(refs []PinRef, gate *Gate, pin string) bool {
	for _, r := range refs {
		if r.Gate == gate && r.Pin == pin {
			return true
		}
	}

	return false
}

func appendPinRefUnique(refs []PinRef, gate *Gate, pin string) []PinRef {
	if containsPinRef(refs, gate, pin) {
		return refs
	}

	return append(refs, PinRef{Gate: gate, Pin: pin})
}

func removePinRef(refs []PinRef, gate *Gate, pin string) []PinRef {
	out := refs[:0]

	for _, r := range refs {
		if r.Gate == gate && r.Pin == pin {
			continue
		}

		out = append(out, r)
	}

	return out
}

// Gate is an elaborated instance of a library gate type.
type Gate struct {
	dataTable

	ID     uint64
	Name   string
	Type   string
	Module *Module
}

// Module is an elaborated instance of an entity, forming the hierarchy of
// the output netlist.
type Module struct {
	dataTable

	Name   string
	Type   string
	Parent *Module

	children []*Module
	gates    map[string]*Gate
	gateKeys []string

	inputPortNames  map[string]string // net name -> port name
	outputPortNames map[string]string // net name -> port name
}

func newModule(name string, parent *Module) *Module {
	return &Module{
		dataTable:       newDataTable(),
		Name:            name,
		Parent:          parent,
		gates:           make(map[string]*Gate),
		inputPortNames:  make(map[string]string),
		outputPortNames: make(map[string]string),
	}
}

// Children returns this module's direct submodules in creation order.
func (m *Module) Children() []*Module { return m.children }

// Gates returns this module's direct gates in creation order.
func (m *Module) Gates() []*Gate {
	out := make([]*Gate, len(m.gateKeys))
	for i, k := range m.gateKeys {
		out[i] = m.gates[k]
	}

	return out
}

// InputPortNames returns, for every net bound as an input port of this
// module, the declared port name.
func (m *Module) InputPortNames() map[string]string { return m.inputPortNames }

// OutputPortNames returns, for every net bound as an output port of this
// module, the declared port name.
func (m *Module) OutputPortNames() map[string]string { return m.outputPortNames }

// Netlist is the top-level container: every net, indexed by name, plus the
// root module of the hierarchy.
type Netlist struct {
	DesignName string

	top        *Module
	nets       map[string]*Net
	netKeys    []string
	groundGate *Gate
	powerGate  *Gate
	nextGateID uint64
}

// New constructs an empty netlist with a pre-existing top module named
// "top_module", mirroring the original's convention that the top module
// always exists and is renamed, never (re)created, by the first
// instantiation.
func New() *Netlist {
	return &Netlist{
		top:  newModule("top_module", nil),
		nets: make(map[string]*Net),
	}
}

// SetDesignName records the overall design's name, set once before any
// instantiation.
func (nl *Netlist) SetDesignName(name string) {
	nl.DesignName = name
}

// TopModule returns the netlist's single root module.
func (nl *Netlist) TopModule() *Module {
	return nl.top
}

// CreateNet creates and indexes a net named name.  It is an error to create
// a net under a name already present.
func (nl *Netlist) CreateNet(name string) (*Net, error) {
	if _, ok := nl.nets[name]; ok {
		return nil, fmt.Errorf("net %q already exists", name)
	}

	n := &Net{dataTable: newDataTable(), Name: name}
	nl.nets[name] = n
	nl.netKeys = append(nl.netKeys, name)

	return n, nil
}

// Net looks up a net by name.
func (nl *Netlist) Net(name string) (*Net, bool) {
	n, ok := nl.nets[name]
	return n, ok
}

// Nets returns every net in creation order.  The returned slice must not be
// mutated.
func (nl *Netlist) Nets() []*Net {
	out := make([]*Net, len(nl.netKeys))
	for i, k := range nl.netKeys {
		out[i] = nl.nets[k]
	}

	return out
}

// DeleteNet removes a net and drops its index entry.  Deleting an already-
// gone net is a no-op.
func (nl *Netlist) DeleteNet(name string) {
	if _, ok := nl.nets[name]; !ok {
		return
	}

	delete(nl.nets, name)

	for i, k := range nl.netKeys {
		if k == name {
			nl.netKeys = append(nl.netKeys[:i], nl.netKeys[i+1:]...)
			break
		}
	}
}

// RenameNet moves a net's index entry from oldName to newName, preserving
// creation-order position.  The elaborator does not call it: the net merger
// keeps each master's name and removes every folded slave with DeleteNet.
func (nl *Netlist) RenameNet(oldName, newName string) error {
	n, ok := nl.nets[oldName]
	if !ok {
		return fmt.Errorf("net %q does not exist", oldName)
	}

	if _, ok := nl.nets[newName]; ok {
		return fmt.Errorf("net %q already exists", newName)
	}

	delete(nl.nets, oldName)

	n.Name = newName
	nl.nets[newName] = n

	for i, k := range nl.netKeys {
		if k == oldName {
			nl.netKeys[i] = newName
			break
		}
	}

	return nil
}

// CreateModule creates a child module of parent.  parent must belong to
// this netlist (typically nl.TopModule() or one of its descendants).
func (nl *Netlist) CreateModule(parent *Module, name string) *Module {
	m := newModule(name, parent)
	parent.children = append(parent.children, m)

	return m
}

// RenameTopModule renames and retypes the pre-existing top module in
// place, rather than creating a new one, mirroring the original's "reuse
// the container's pre-existing top module and rename it" step.
func (nl *Netlist) RenameTopModule(name, typ string) {
	nl.top.Name = name
	nl.top.Type = typ
}

// CreateGate allocates a new gate of the given type under module, assigning
// it the next auto-incrementing ID.  name must be unique within module.
func (nl *Netlist) CreateGate(module *Module, name, gateType string) (*Gate, error) {
	if _, ok := module.gates[name]; ok {
		return nil, fmt.Errorf("gate %q already exists in module %q", name, module.Name)
	}

	nl.nextGateID++

	g := &Gate{dataTable: newDataTable(), ID: nl.nextGateID, Name: name, Type: gateType, Module: module}
	module.gates[name] = g
	module.gateKeys = append(module.gateKeys, name)

	return g, nil
}

// MarkGround designates gate as the netlist's ground gate.
func (nl *Netlist) MarkGround(gate *Gate) { nl.groundGate = gate }

// MarkPower designates gate as the netlist's power gate.
func (nl *Netlist) MarkPower(gate *Gate) { nl.powerGate = gate }

// GroundGate returns the designated ground gate, or nil if none was
// inserted (the '0' net had no destinations).
func (nl *Netlist) GroundGate() *Gate { return nl.groundGate }

// PowerGate returns the designated power gate, or nil if none was
// inserted.
func (nl *Netlist) PowerGate() *Gate { return nl.powerGate }

// AddSource records (gate, pin) as a source of net, deduplicating.
func AddSource(net *Net, gate *Gate, pin string) {
	net.sources = appendPinRefUnique(net.sources, gate, pin)
}

// AddDestination records (gate, pin) as a destination of net,
// deduplicating.
func AddDestination(net *Net, gate *Gate, pin string) {
	net.destinations = appendPinRefUnique(net.destinations, gate, pin)
}

// RemoveSource drops (gate, pin) from net's sources, if present.
func RemoveSource(net *Net, gate *Gate, pin string) {
	net.sources = removePinRef(net.sources, gate, pin)
}

// RemoveDestination drops (gate, pin) from net's destinations, if present.
func RemoveDestination(net *Net, gate *Gate, pin string) {
	net.destinations = removePinRef(net.destinations, gate, pin)
}

// SetInputPortName records that net is module's input-port-named portName.
func SetInputPortName(module *Module, net *Net, portName string) {
	module.inputPortNames[net.Name] = portName
}

// SetOutputPortName records that net is module's output-port-named
// portName.
func SetOutputPortName(module *Module, net *Net, portName string) {
	module.outputPortNames[net.Name] = portName
}

// ClearInputPortName removes net's input-port-name entry on module, if any.
func ClearInputPortName(module *Module, netName string) {
	delete(module.inputPortNames, netName)
}

// ClearOutputPortName removes net's output-port-name entry on module, if
// any.
func ClearOutputPortName(module *Module, netName string) {
	delete(module.outputPortNames, netName)
}
