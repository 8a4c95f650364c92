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
package hdl

import "github.com/1heinz/hal/pkg/hdl/expand"

// Direction is the directionality of an entity port.
type Direction uint8

const (
	// In marks an input port.
	In Direction = iota
	// Out marks an output port.
	Out
	// InOut marks a bidirectional port.
	InOut
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	case InOut:
		return "inout"
	default:
		return "?"
	}
}

// Port pairs a declared direction with its underlying signal.
type Port[N Name[N]] struct {
	Direction Direction
	Signal    Signal[N]
}

// PortAssignment is one entry of an instance's port map: the (possibly
// ranges-unknown) port-side signal, and the flattened list of signals bound
// to it on the instantiating side.
type PortAssignment[N Name[N]] struct {
	Port Signal[N]
	Rhs  []Signal[N]
}

// GenericAssignment is one entry of an instance's generic map.
type GenericAssignment struct {
	DataType string
	Value    string
}

// Instance is a use-site of an entity or library gate type inside another
// entity.
type Instance[N Name[N]] struct {
	Line               uint32
	Type               N
	NameVal            N
	PortAssignments    *OrderedMap[N, PortAssignment[N]]
	GenericAssignments *OrderedMap[string, GenericAssignment]
	Attributes         []Attribute
}

// NewInstance constructs an instance with empty assignment maps.
func NewInstance[N Name[N]](line uint32, typ, name N) Instance[N] {
	return Instance[N]{
		Line:               line,
		Type:               typ,
		NameVal:            name,
		PortAssignments:    NewOrderedMap[N, PortAssignment[N]](),
		GenericAssignments: NewOrderedMap[string, GenericAssignment](),
	}
}

// AddPortAssignment records a single port's binding.
func (i *Instance[N]) AddPortAssignment(port Signal[N], rhs []Signal[N]) {
	i.PortAssignments.Set(port.NameVal, PortAssignment[N]{Port: port, Rhs: rhs})
}

// AddGenericAssignment records a single generic's value.
func (i *Instance[N]) AddGenericAssignment(generic, dataType, value string) {
	i.GenericAssignments.Set(generic, GenericAssignment{DataType: dataType, Value: value})
}

// AddAttribute appends an attribute to this instance.
func (i *Instance[N]) AddAttribute(key, typ, value string) {
	i.Attributes = append(i.Attributes, Attribute{key, typ, value})
}

// Assignment is one entity-level "lhs = rhs" statement, each side a list of
// signals (concatenations are allowed on both sides upstream; the
// elaborator only ever sees the already-separated list).
type Assignment[N Name[N]] struct {
	Lhs []Signal[N]
	Rhs []Signal[N]
}

// Entity is one declared hardware module in the IR: ports plus body.
type Entity[N Name[N]] struct {
	Line        uint32
	NameVal     N
	Ports       *OrderedMap[N, Port[N]]
	Signals     *OrderedMap[N, Signal[N]]
	Assignments []Assignment[N]
	Instances   *OrderedMap[N, Instance[N]]
	Attributes  []Attribute

	initialized bool

	expandedPorts       map[N][]N
	expandedSignals     map[N][]N
	expandedAssignments *OrderedMap[N, N]
}

// NewEntity constructs an empty, uninitialized entity.
func NewEntity[N Name[N]](line uint32, name N) Entity[N] {
	return Entity[N]{
		Line:      line,
		NameVal:   name,
		Ports:     NewOrderedMap[N, Port[N]](),
		Signals:   NewOrderedMap[N, Signal[N]](),
		Instances: NewOrderedMap[N, Instance[N]](),
	}
}

// AddPort declares a port.
func (e *Entity[N]) AddPort(direction Direction, s Signal[N]) {
	e.Ports.Set(s.NameVal, Port[N]{Direction: direction, Signal: s})
}

// AddSignal declares an internal signal.
func (e *Entity[N]) AddSignal(s Signal[N]) {
	e.Signals.Set(s.NameVal, s)
}

// AddAssignment records an entity-level "lhs = rhs" statement.
func (e *Entity[N]) AddAssignment(lhs, rhs []Signal[N]) {
	e.Assignments = append(e.Assignments, Assignment[N]{Lhs: lhs, Rhs: rhs})
}

// AddInstance declares an instantiation of another entity or a gate type.
func (e *Entity[N]) AddInstance(inst Instance[N]) {
	e.Instances.Set(inst.NameVal, inst)
}

// AddAttribute appends an attribute to this entity.
func (e *Entity[N]) AddAttribute(key, typ, value string) {
	e.Attributes = append(e.Attributes, Attribute{key, typ, value})
}

// IsInitialized reports whether Initialize has been run at least once.
func (e *Entity[N]) IsInitialized() bool {
	return e.initialized
}

// ExpandedPorts returns, for every declared port name, its bit-level
// expansion in declared order.  Requires Initialize to have been called.
func (e *Entity[N]) ExpandedPorts() map[N][]N {
	return e.expandedPorts
}

// ExpandedSignals returns, for every declared internal signal name, its
// bit-level expansion.  Requires Initialize to have been called.
func (e *Entity[N]) ExpandedSignals() map[N][]N {
	return e.expandedSignals
}

// ExpandedAssignments returns the pointwise zip of expanded lhs and rhs
// across all entity-level assignments, in the order declared.  Requires
// Initialize to have been called.
func (e *Entity[N]) ExpandedAssignments() *OrderedMap[N, N] {
	return e.expandedAssignments
}

// Initialize computes expandedPorts, expandedSignals and
// expandedAssignments and caches them on the entity.  It is idempotent:
// re-invocation clears and recomputes every cache.
//
// It is the caller's responsibility that, for every assignment, the
// expanded lhs and rhs have the same length; a width mismatch here is an
// upstream parser bug that this design surfaces only indirectly, via a
// missing-alias warning downstream.
func (e *Entity[N]) Initialize() {
	e.expandedPorts = make(map[N][]N, e.Ports.Len())
	e.expandedSignals = make(map[N][]N, e.Signals.Len())
	e.expandedAssignments = NewOrderedMap[N, N]()

	e.Ports.Range(func(name N, p Port[N]) bool {
		e.expandedPorts[name] = expand.Signal[N](p.Signal)
		return true
	})

	e.Signals.Range(func(name N, s Signal[N]) bool {
		e.expandedSignals[name] = expand.Signal[N](s)
		return true
	})

	var expandedLhs, expandedRhs []N

	for _, a := range e.Assignments {
		for _, s := range a.Lhs {
			expandedLhs = append(expandedLhs, expand.Signal[N](s)...)
		}

		for _, s := range a.Rhs {
			expandedRhs = append(expandedRhs, expand.Signal[N](s)...)
		}
	}

	for i := 0; i < len(expandedLhs) && i < len(expandedRhs); i++ {
		e.expandedAssignments.Set(expandedLhs[i], expandedRhs[i])
	}

	e.initialized = true
}
