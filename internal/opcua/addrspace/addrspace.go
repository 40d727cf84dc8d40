// Package addrspace implements the in-memory address space: the node map
// produced by the UANodeSet streaming XML loader (loader.go) and consulted
// by the service adapters (internal/opcua/services).
package addrspace

import (
	"github.com/edge-opcua/opcuacore/internal/opcua/dict"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// NodeClass mirrors the OPC UA NodeClass enumeration, restricted to the
// classes the UANodeSet grammar names (spec §4.H's ELEMENT_TYPES table).
type NodeClass uint8

const (
	NodeClassUnspecified NodeClass = iota
	NodeClassObject
	NodeClassVariable
	NodeClassMethod
	NodeClassObjectType
	NodeClassVariableType
	NodeClassReferenceType
	NodeClassDataType
	NodeClassView
)

func (c NodeClass) String() string {
	switch c {
	case NodeClassObject:
		return "Object"
	case NodeClassVariable:
		return "Variable"
	case NodeClassMethod:
		return "Method"
	case NodeClassObjectType:
		return "ObjectType"
	case NodeClassVariableType:
		return "VariableType"
	case NodeClassReferenceType:
		return "ReferenceType"
	case NodeClassDataType:
		return "DataType"
	case NodeClassView:
		return "View"
	default:
		return "Unspecified"
	}
}

// Reference is one entry of a Node's References list.
type Reference struct {
	TypeID    values.NodeId
	IsForward bool
	TargetID  values.ExpandedNodeId
}

// Node is one UANodeSet node, in the shape the loader (loader.go) builds
// and the service adapters read.
type Node struct {
	NodeClass   NodeClass
	NodeID      values.NodeId
	BrowseName  values.QualifiedName
	DisplayName values.LocalizedText
	Description values.LocalizedText
	References  []Reference

	// DataType, ValueRank, AccessLevel, Value and ValueStatus are only
	// meaningful for Variable/VariableType nodes.
	DataType    values.NodeId
	ValueRank   int32
	AccessLevel byte
	Value       values.Variant
	ValueStatus values.StatusCode
}

// HasValue reports whether n's NodeClass carries a Value (Variable and
// VariableType only, spec §4.H "current_element_has_value").
func (n *Node) HasValue() bool {
	return n.NodeClass == NodeClassVariable || n.NodeClass == NodeClassVariableType
}

// AddressSpace is the thread-safe node map a loaded NodeSet produces.
// Cross-thread reads go through component B's TSafe wrapper (spec §5
// "Address space: owned by the server-side manager; cross-thread reads go
// through the thread-safe dictionary wrapper").
type AddressSpace struct {
	nodes *dict.TSafe[values.NodeId, *Node]
}

// New returns an empty address space, for building one programmatically
// (e.g. AddNodes against a server that started with no NodeSet loaded)
// rather than through LoadNodeSet.
func New() *AddressSpace { return newAddressSpace() }

func newAddressSpace() *AddressSpace {
	return &AddressSpace{
		nodes: dict.NewTSafe[values.NodeId, *Node](
			values.NodeId.Hash,
			values.NodeId.Equal,
			nil, // nodes are read-only once loaded; GetCopy is never used
		),
	}
}

// Append inserts node, keyed by its NodeID. A later node with the same id
// overwrites an earlier one, same as the dictionary's general Insert
// contract.
func (a *AddressSpace) Append(node *Node) {
	a.nodes.Insert(node.NodeID, node)
}

// Get returns the node for id, if any.
func (a *AddressSpace) Get(id values.NodeId) (*Node, bool) {
	n, ok := a.nodes.GetLocked(id)
	a.nodes.Unlock()
	return n, ok
}

// Len returns the number of nodes in the address space.
func (a *AddressSpace) Len() int { return a.nodes.Len() }

// ForEach applies fn to every node, holding the address space lock for the
// whole traversal (mirrors dict.TSafe.ForEach's atomicity contract).
func (a *AddressSpace) ForEach(fn func(id values.NodeId, node *Node)) {
	a.nodes.ForEach(fn)
}
