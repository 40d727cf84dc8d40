package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

func TestWriteValueAttribute(t *testing.T) {
	a := &Adapters{Space: newTestSpace()}
	resp := a.Write(WriteRequest{NodesToWrite: []WriteValue{
		{NodeID: values.NewNumericNodeId(1, 42), AttributeID: AttributeValue, Value: values.DataValue{
			Value:  values.NewDoubleVariant(99.9),
			Status: values.Good,
		}},
	}})
	require.Equal(t, values.Good, resp.ServiceResult)
	require.Equal(t, values.Good, resp.Results[0])

	read := a.Read(ReadRequest{NodesToRead: []ReadValueId{{NodeID: values.NewNumericNodeId(1, 42), AttributeID: AttributeValue}}})
	require.Equal(t, 99.9, read.Results[0].Value.Double)
}

func TestWriteNonValueAttributeIsNotSupported(t *testing.T) {
	a := &Adapters{Space: newTestSpace()}
	resp := a.Write(WriteRequest{NodesToWrite: []WriteValue{
		{NodeID: values.NewNumericNodeId(1, 42), AttributeID: AttributeBrowseName, Value: values.NullDataValue()},
	}})
	require.Equal(t, values.BadNotSupported, resp.Results[0])
}

func TestWriteEmptyRequestIsNothingToDo(t *testing.T) {
	a := &Adapters{Space: newTestSpace()}
	resp := a.Write(WriteRequest{})
	require.Equal(t, values.BadNothingToDo, resp.ServiceResult)
}

func TestWriteRecordsAuditEntry(t *testing.T) {
	store := newTestAuditStore(t)
	a := &Adapters{Space: newTestSpace(), Audit: store}
	id := values.NewNumericNodeId(1, 42)

	resp := a.Write(WriteRequest{NodesToWrite: []WriteValue{
		{NodeID: id, AttributeID: AttributeValue, Value: values.DataValue{Value: values.NewDoubleVariant(1), Status: values.Good}},
	}})
	require.Equal(t, values.Good, resp.Results[0])

	entries, err := store.RecentWrites(id, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteUnknownNodeID(t *testing.T) {
	a := &Adapters{Space: newTestSpace()}
	resp := a.Write(WriteRequest{NodesToWrite: []WriteValue{
		{NodeID: values.NewNumericNodeId(1, 999), AttributeID: AttributeValue, Value: values.NullDataValue()},
	}})
	require.Equal(t, values.BadNodeIDUnknown, resp.Results[0])
}
