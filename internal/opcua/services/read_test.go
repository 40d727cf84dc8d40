package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edge-opcua/opcuacore/internal/opcua/addrspace"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

func newTestSpace() *addrspace.AddressSpace {
	space := addrspace.New()
	space.Append(&addrspace.Node{
		NodeClass:   addrspace.NodeClassVariable,
		NodeID:      values.NewNumericNodeId(1, 42),
		BrowseName:  values.NewQualifiedName(1, "Temperature"),
		DisplayName: values.NewLocalizedText("en", "Temperature"),
		DataType:    values.NewNumericNodeId(0, 11), // Double
		ValueRank:   -1,
		AccessLevel: 3,
		Value:       values.NewDoubleVariant(21.5),
		ValueStatus: values.Good,
	})
	space.Append(&addrspace.Node{
		NodeClass:  addrspace.NodeClassObject,
		NodeID:     values.NewNumericNodeId(1, 1),
		BrowseName: values.NewQualifiedName(1, "Folder"),
	})
	return space
}

func TestReadEmptyRequestIsNothingToDo(t *testing.T) {
	a := &Adapters{Space: newTestSpace()}
	resp := a.Read(ReadRequest{})
	require.Equal(t, values.BadNothingToDo, resp.ServiceResult)
}

func TestReadTooManyOperations(t *testing.T) {
	a := &Adapters{Space: newTestSpace(), MaxOperations: 1}
	resp := a.Read(ReadRequest{NodesToRead: []ReadValueId{
		{NodeID: values.NewNumericNodeId(1, 42), AttributeID: AttributeValue},
		{NodeID: values.NewNumericNodeId(1, 42), AttributeID: AttributeValue},
	}})
	require.Equal(t, values.BadTooManyOperations, resp.ServiceResult)
}

func TestReadValueAttribute(t *testing.T) {
	a := &Adapters{Space: newTestSpace()}
	resp := a.Read(ReadRequest{NodesToRead: []ReadValueId{
		{NodeID: values.NewNumericNodeId(1, 42), AttributeID: AttributeValue},
	}})
	require.Equal(t, values.Good, resp.ServiceResult)
	require.Len(t, resp.Results, 1)
	require.Equal(t, values.Good, resp.Results[0].Status)
	require.Equal(t, 21.5, resp.Results[0].Value.Double)
}

func TestReadValueOnNodeWithoutValueIsNotSupported(t *testing.T) {
	a := &Adapters{Space: newTestSpace()}
	resp := a.Read(ReadRequest{NodesToRead: []ReadValueId{
		{NodeID: values.NewNumericNodeId(1, 1), AttributeID: AttributeValue},
	}})
	require.Equal(t, values.BadNotSupported, resp.Results[0].Status)
}

func TestReadUnknownNodeID(t *testing.T) {
	a := &Adapters{Space: newTestSpace()}
	resp := a.Read(ReadRequest{NodesToRead: []ReadValueId{
		{NodeID: values.NewNumericNodeId(1, 999), AttributeID: AttributeValue},
	}})
	require.Equal(t, values.BadNodeIDUnknown, resp.Results[0].Status)
}

func TestReadBrowseNameAttribute(t *testing.T) {
	a := &Adapters{Space: newTestSpace()}
	resp := a.Read(ReadRequest{NodesToRead: []ReadValueId{
		{NodeID: values.NewNumericNodeId(1, 42), AttributeID: AttributeBrowseName},
	}})
	require.Equal(t, "Temperature", resp.Results[0].Value.QualifiedName.Name.String())
}
