package services

import "github.com/edge-opcua/opcuacore/internal/opcua/values"

// WriteValue is one operation of a WriteRequest: the node/attribute to
// update and the new value.
type WriteValue struct {
	NodeID      values.NodeId
	AttributeID AttributeID
	Value       values.DataValue
}

// WriteRequest carries the per-operation list a Write service call processes.
type WriteRequest struct {
	NodesToWrite []WriteValue
}

// WriteResponse mirrors WriteRequest, one StatusCode result per operation
// plus an overall service-level status.
type WriteResponse struct {
	ServiceResult values.StatusCode
	Results       []values.StatusCode
}

// Write implements the Write service adapter. Only the Value attribute of
// a Variable/VariableType node is writable; every other attribute (or a
// node with no Value at all) reports BadNotSupported for that operation.
// A successful write is mirrored to the optional historian, telemetry and
// publisher sinks; a sink failure is logged but never fails the primary
// operation (spec §7: a failing side channel must not fail the primary
// operation).
func (a *Adapters) Write(req WriteRequest) WriteResponse {
	if sc := a.checkOperationCount(len(req.NodesToWrite)); sc != values.Good {
		return WriteResponse{ServiceResult: sc}
	}

	results := make([]values.StatusCode, len(req.NodesToWrite))
	for i, op := range req.NodesToWrite {
		results[i] = a.writeOne(op)
	}
	return WriteResponse{ServiceResult: values.Good, Results: results}
}

func (a *Adapters) writeOne(op WriteValue) values.StatusCode {
	node, sc := lookupNode(a.Space, op.NodeID)
	if sc != values.Good {
		return sc
	}
	if op.AttributeID != AttributeValue || !node.HasValue() {
		return values.BadNotSupported
	}

	node.Value = op.Value.Value.Copy()
	node.ValueStatus = op.Value.Status

	if a.Historian != nil {
		if err := a.Historian.RecordDataValue(node.NodeID, op.Value); err != nil {
			logSinkFailure("historian", node.NodeID, err)
		}
	}
	if a.Telemetry != nil {
		if err := a.Telemetry.PublishWrite(node.NodeID, op.Value); err != nil {
			logSinkFailure("telemetry", node.NodeID, err)
		}
	}
	if a.Publisher != nil {
		if err := a.Publisher.NotifyWrite(node.NodeID); err != nil {
			logSinkFailure("publisher", node.NodeID, err)
		}
	}
	if a.Audit != nil {
		if err := a.Audit.RecordWrite(node.NodeID, op.Value.Status); err != nil {
			logSinkFailure("audit", node.NodeID, err)
		}
	}

	return values.Good
}
