package services

import "github.com/edge-opcua/opcuacore/internal/opcua/values"

// AttributeID names which Node field a ReadValueId targets (spec §6
// "<attribute-id: 1..22>"); only the attributes the address space actually
// carries are resolved, the rest return BadNotSupported.
type AttributeID uint32

const (
	AttributeNodeID AttributeID = iota + 1
	AttributeNodeClass
	AttributeBrowseName
	AttributeDisplayName
	AttributeDescription
	_ // WriteMask, not modeled
	_ // UserWriteMask, not modeled
	_ // IsAbstract, not modeled
	_ // Symmetric, not modeled
	_ // InverseName, not modeled
	_ // ContainsNoLoops, not modeled
	_ // EventNotifier, not modeled
	AttributeValue
	AttributeDataType
	AttributeValueRank
	_ // ArrayDimensions, not modeled
	AttributeAccessLevel
)

// ReadValueId is one operation of a ReadRequest: the node/attribute pair to
// fetch.
type ReadValueId struct {
	NodeID      values.NodeId
	AttributeID AttributeID
}

// ReadRequest carries the per-operation list a Read service call processes.
type ReadRequest struct {
	NodesToRead []ReadValueId
}

// ReadResponse mirrors ReadRequest, one DataValue result per operation plus
// an overall service-level status from the cross-cutting rules.
type ReadResponse struct {
	ServiceResult values.StatusCode
	Results       []values.DataValue
}

// Read implements the Read service adapter. Cross-cutting rules 1-3 apply
// before any operation executes; a per-operation NodeId/attribute miss only
// fails that operation's result, not the whole request.
func (a *Adapters) Read(req ReadRequest) ReadResponse {
	if sc := a.checkOperationCount(len(req.NodesToRead)); sc != values.Good {
		return ReadResponse{ServiceResult: sc}
	}

	results := make([]values.DataValue, len(req.NodesToRead))
	for i, op := range req.NodesToRead {
		results[i] = a.readOne(op)
	}
	return ReadResponse{ServiceResult: values.Good, Results: results}
}

func (a *Adapters) readOne(op ReadValueId) values.DataValue {
	node, sc := lookupNode(a.Space, op.NodeID)
	if sc != values.Good {
		dv := values.NullDataValue()
		dv.Status = sc
		return dv
	}

	switch op.AttributeID {
	case AttributeNodeID:
		return values.DataValue{Value: values.NewNodeIDVariant(node.NodeID.Copy()), Status: values.Good}
	case AttributeBrowseName:
		return values.DataValue{Value: values.Variant{Kind: values.KindQualifiedName, QualifiedName: node.BrowseName.Copy()}, Status: values.Good}
	case AttributeDisplayName:
		return values.DataValue{Value: values.Variant{Kind: values.KindLocalizedText, LocalizedText: node.DisplayName.Copy()}, Status: values.Good}
	case AttributeDescription:
		return values.DataValue{Value: values.Variant{Kind: values.KindLocalizedText, LocalizedText: node.Description.Copy()}, Status: values.Good}
	case AttributeDataType:
		if !node.HasValue() {
			dv := values.NullDataValue()
			dv.Status = values.BadNotSupported
			return dv
		}
		return values.DataValue{Value: values.NewNodeIDVariant(node.DataType.Copy()), Status: values.Good}
	case AttributeValueRank:
		if !node.HasValue() {
			dv := values.NullDataValue()
			dv.Status = values.BadNotSupported
			return dv
		}
		return values.DataValue{Value: values.NewInt32Variant(node.ValueRank), Status: values.Good}
	case AttributeAccessLevel:
		if !node.HasValue() {
			dv := values.NullDataValue()
			dv.Status = values.BadNotSupported
			return dv
		}
		return values.DataValue{Value: values.NewByteVariant(node.AccessLevel), Status: values.Good}
	case AttributeValue:
		if !node.HasValue() {
			dv := values.NullDataValue()
			dv.Status = values.BadNotSupported
			return dv
		}
		return values.DataValue{Value: node.Value.Copy(), Status: node.ValueStatus}
	default:
		dv := values.NullDataValue()
		dv.Status = values.BadNotSupported
		return dv
	}
}
