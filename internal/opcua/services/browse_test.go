package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edge-opcua/opcuacore/internal/opcua/addrspace"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

func newBrowsableSpace() *addrspace.AddressSpace {
	space := addrspace.New()
	organizes := values.NewNumericNodeId(0, 35)
	space.Append(&addrspace.Node{
		NodeClass:  addrspace.NodeClassObject,
		NodeID:     values.NewNumericNodeId(1, 1),
		BrowseName: values.NewQualifiedName(1, "Root"),
		References: []addrspace.Reference{
			{TypeID: organizes, IsForward: true, TargetID: values.NewExpandedNodeId(values.NewNumericNodeId(1, 2))},
		},
	})
	space.Append(&addrspace.Node{
		NodeClass:  addrspace.NodeClassVariable,
		NodeID:     values.NewNumericNodeId(1, 2),
		BrowseName: values.NewQualifiedName(1, "Child"),
		References: []addrspace.Reference{
			{TypeID: organizes, IsForward: false, TargetID: values.NewExpandedNodeId(values.NewNumericNodeId(1, 1))},
		},
	})
	return space
}

func TestBrowseForwardReferences(t *testing.T) {
	a := &Adapters{Space: newBrowsableSpace()}
	resp := a.Browse(BrowseRequest{NodesToBrowse: []BrowseDescription{
		{NodeID: values.NewNumericNodeId(1, 1), Direction: BrowseForward},
	}})
	require.Equal(t, values.Good, resp.ServiceResult)
	require.Len(t, resp.Results[0].References, 1)
	ref := resp.Results[0].References[0]
	require.True(t, ref.IsForward)
	require.Equal(t, "Child", ref.BrowseName.Name.String())
}

func TestBrowseInverseExcludesForwardOnly(t *testing.T) {
	a := &Adapters{Space: newBrowsableSpace()}
	resp := a.Browse(BrowseRequest{NodesToBrowse: []BrowseDescription{
		{NodeID: values.NewNumericNodeId(1, 1), Direction: BrowseInverse},
	}})
	require.Empty(t, resp.Results[0].References)
}

func TestBrowseUnknownStartingNode(t *testing.T) {
	a := &Adapters{Space: newBrowsableSpace()}
	resp := a.Browse(BrowseRequest{NodesToBrowse: []BrowseDescription{
		{NodeID: values.NewNumericNodeId(1, 999), Direction: BrowseForward},
	}})
	require.Equal(t, values.BadNodeIDUnknown, resp.Results[0].StatusCode)
}
