package services

import (
	"github.com/edge-opcua/opcuacore/internal/opcua/addrspace"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// AddNodesItem is one operation of an AddNodesRequest.
type AddNodesItem struct {
	ParentNodeID       values.ExpandedNodeId
	RequestedNewNodeID values.NodeId
	BrowseName         values.QualifiedName
	NodeClass          addrspace.NodeClass
	NodeAttributes     values.ExtensionObject
	TypeDefinition     values.ExpandedNodeId // required iff NodeClass is Object or Variable
}

// AddNodesRequest carries the per-operation list an AddNodes service call
// processes.
type AddNodesRequest struct {
	NodesToAdd []AddNodesItem
}

// AddNodesResult is the per-operation outcome: an overall status plus the
// assigned NodeId (echoing RequestedNewNodeID on success).
type AddNodesResult struct {
	StatusCode values.StatusCode
	AddedNodeID values.NodeId
}

// AddNodesResponse mirrors AddNodesRequest.
type AddNodesResponse struct {
	ServiceResult values.StatusCode
	Results       []AddNodesResult
}

// AddNodes implements the AddNodes service adapter and rule 4's four
// validations, each checked before the node is appended to the address
// space:
//  1. BrowseName must carry a non-empty Name.
//  2. NodeClass must be one of the legal (non-Unspecified) classes.
//  3. NodeAttributes must already be a decoded object (Encoding ==
//     ExtensionEncodingObject with a non-nil Object); this core does not
//     itself own the per-class attribute decoders (ObjectAttributes,
//     VariableAttributes, ...), so a caller passing an undecoded
//     byte-string/XML extension object is rejected the same as one that
//     failed to decode.
//  4. TypeDefinition must be present if and only if NodeClass is Object or
//     Variable.
func (a *Adapters) AddNodes(req AddNodesRequest) AddNodesResponse {
	if sc := a.checkOperationCount(len(req.NodesToAdd)); sc != values.Good {
		return AddNodesResponse{ServiceResult: sc}
	}

	results := make([]AddNodesResult, len(req.NodesToAdd))
	for i, op := range req.NodesToAdd {
		results[i] = a.addNodeOne(op)
	}
	return AddNodesResponse{ServiceResult: values.Good, Results: results}
}

func (a *Adapters) addNodeOne(op AddNodesItem) AddNodesResult {
	if sc := validateAddNodesItem(op); sc != values.Good {
		return AddNodesResult{StatusCode: sc}
	}

	node := &addrspace.Node{
		NodeClass:   op.NodeClass,
		NodeID:      op.RequestedNewNodeID.Copy(),
		BrowseName:  op.BrowseName.Copy(),
		DisplayName: values.NewLocalizedText("", op.BrowseName.Name.String()),
	}
	if op.NodeClass == addrspace.NodeClassObject || op.NodeClass == addrspace.NodeClassVariable {
		node.References = []addrspace.Reference{{
			TypeID:    values.NewNumericNodeId(0, 40), // HasTypeDefinition
			IsForward: true,
			TargetID:  op.TypeDefinition.Copy(),
		}}
	}
	a.Space.Append(node)

	if a.Audit != nil {
		if err := a.Audit.RecordAddNode(node.NodeID, node.BrowseName); err != nil {
			logSinkFailure("audit", node.NodeID, err)
		}
	}
	if a.Publisher != nil {
		if err := a.Publisher.NotifyWrite(node.NodeID); err != nil {
			logSinkFailure("publisher", node.NodeID, err)
		}
	}

	return AddNodesResult{StatusCode: values.Good, AddedNodeID: node.NodeID}
}

func validateAddNodesItem(op AddNodesItem) values.StatusCode {
	if op.BrowseName.Name.IsNull() || op.BrowseName.Name.String() == "" {
		return values.BadInvalidArgument
	}
	switch op.NodeClass {
	case addrspace.NodeClassObject, addrspace.NodeClassVariable, addrspace.NodeClassMethod,
		addrspace.NodeClassObjectType, addrspace.NodeClassVariableType,
		addrspace.NodeClassReferenceType, addrspace.NodeClassDataType, addrspace.NodeClassView:
	default:
		return values.BadNodeIDInvalid
	}
	if op.NodeAttributes.Encoding != values.ExtensionEncodingObject || op.NodeAttributes.Object == nil {
		return values.BadInvalidArgument
	}
	needsType := op.NodeClass == addrspace.NodeClassObject || op.NodeClass == addrspace.NodeClassVariable
	hasType := op.TypeDefinition.NodeID.IDType != values.IdentifierUndefined
	if needsType != hasType {
		return values.BadInvalidArgument
	}
	return values.Good
}
