package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edge-opcua/opcuacore/internal/opcua/addrspace"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

type fakeVariableAttributes struct{}

func (fakeVariableAttributes) Copy() values.Encodeable { return fakeVariableAttributes{} }

func decodedAttributes() values.ExtensionObject {
	return values.ExtensionObject{Encoding: values.ExtensionEncodingObject, Object: fakeVariableAttributes{}}
}

func TestAddNodesRequiresNonEmptyBrowseName(t *testing.T) {
	a := &Adapters{Space: addrspace.New()}
	resp := a.AddNodes(AddNodesRequest{NodesToAdd: []AddNodesItem{{
		RequestedNewNodeID: values.NewNumericNodeId(1, 10),
		BrowseName:         values.NewQualifiedName(1, ""),
		NodeClass:          addrspace.NodeClassObject,
		NodeAttributes:     decodedAttributes(),
		TypeDefinition:     values.NewExpandedNodeId(values.NewNumericNodeId(0, 58)),
	}}})
	require.Equal(t, values.BadInvalidArgument, resp.Results[0].StatusCode)
}

func TestAddNodesRequiresTypeDefinitionForVariable(t *testing.T) {
	a := &Adapters{Space: addrspace.New()}
	resp := a.AddNodes(AddNodesRequest{NodesToAdd: []AddNodesItem{{
		RequestedNewNodeID: values.NewNumericNodeId(1, 11),
		BrowseName:         values.NewQualifiedName(1, "Sensor"),
		NodeClass:          addrspace.NodeClassVariable,
		NodeAttributes:     decodedAttributes(),
	}}})
	require.Equal(t, values.BadInvalidArgument, resp.Results[0].StatusCode)
}

func TestAddNodesRejectsUndecodedAttributes(t *testing.T) {
	a := &Adapters{Space: addrspace.New()}
	resp := a.AddNodes(AddNodesRequest{NodesToAdd: []AddNodesItem{{
		RequestedNewNodeID: values.NewNumericNodeId(1, 12),
		BrowseName:         values.NewQualifiedName(1, "Sensor"),
		NodeClass:          addrspace.NodeClassObject,
		NodeAttributes:     values.NullExtensionObject(),
		TypeDefinition:     values.NewExpandedNodeId(values.NewNumericNodeId(0, 58)),
	}}})
	require.Equal(t, values.BadInvalidArgument, resp.Results[0].StatusCode)
}

func TestAddNodesSucceedsAndIsVisibleToRead(t *testing.T) {
	space := addrspace.New()
	a := &Adapters{Space: space}
	resp := a.AddNodes(AddNodesRequest{NodesToAdd: []AddNodesItem{{
		RequestedNewNodeID: values.NewNumericNodeId(1, 13),
		BrowseName:         values.NewQualifiedName(1, "Sensor"),
		NodeClass:          addrspace.NodeClassObject,
		NodeAttributes:     decodedAttributes(),
		TypeDefinition:     values.NewExpandedNodeId(values.NewNumericNodeId(0, 58)),
	}}})
	require.Equal(t, values.Good, resp.Results[0].StatusCode)

	node, ok := space.Get(values.NewNumericNodeId(1, 13))
	require.True(t, ok)
	require.Equal(t, "Sensor", node.BrowseName.Name.String())
	require.Len(t, node.References, 1)
}

func TestAddNodesEmptyRequestIsNothingToDo(t *testing.T) {
	a := &Adapters{Space: addrspace.New()}
	resp := a.AddNodes(AddNodesRequest{})
	require.Equal(t, values.BadNothingToDo, resp.ServiceResult)
}
