package services

import "github.com/edge-opcua/opcuacore/internal/opcua/values"

// BrowseDirection selects which arm of a Node's References list a browse
// operation walks.
type BrowseDirection uint8

const (
	BrowseForward BrowseDirection = iota
	BrowseInverse
	BrowseBoth
)

// BrowseDescription is one operation of a BrowseRequest.
type BrowseDescription struct {
	NodeID         values.NodeId
	Direction      BrowseDirection
	ReferenceTypeID values.NodeId // zero value (undefined) means "any type"
}

// BrowseRequest carries the per-operation list a Browse service call
// processes.
type BrowseRequest struct {
	NodesToBrowse []BrowseDescription
}

// ReferenceDescription is one entry of a BrowseResult: a single reference
// out of the starting node, resolved against the address space when the
// target is known locally.
type ReferenceDescription struct {
	ReferenceTypeID values.NodeId
	IsForward       bool
	TargetID        values.ExpandedNodeId
	BrowseName      values.QualifiedName
	DisplayName     values.LocalizedText
}

// BrowseResult is the per-operation outcome: an overall status plus the
// matched references.
type BrowseResult struct {
	StatusCode values.StatusCode
	References []ReferenceDescription
}

// BrowseResponse mirrors BrowseRequest.
type BrowseResponse struct {
	ServiceResult values.StatusCode
	Results       []BrowseResult
}

// Browse implements the Browse service adapter: for each starting node,
// walks its References list filtering by direction and, when set, by
// reference type, and resolves each target's BrowseName/DisplayName when
// the target is hosted locally.
func (a *Adapters) Browse(req BrowseRequest) BrowseResponse {
	if sc := a.checkOperationCount(len(req.NodesToBrowse)); sc != values.Good {
		return BrowseResponse{ServiceResult: sc}
	}

	results := make([]BrowseResult, len(req.NodesToBrowse))
	for i, op := range req.NodesToBrowse {
		results[i] = a.browseOne(op)
	}
	return BrowseResponse{ServiceResult: values.Good, Results: results}
}

func (a *Adapters) browseOne(op BrowseDescription) BrowseResult {
	node, sc := lookupNode(a.Space, op.NodeID)
	if sc != values.Good {
		return BrowseResult{StatusCode: sc}
	}

	var refs []ReferenceDescription
	for _, r := range node.References {
		if op.Direction == BrowseForward && !r.IsForward {
			continue
		}
		if op.Direction == BrowseInverse && r.IsForward {
			continue
		}
		if op.ReferenceTypeID.IDType != values.IdentifierUndefined && !r.TypeID.Equal(op.ReferenceTypeID) {
			continue
		}

		rd := ReferenceDescription{
			ReferenceTypeID: r.TypeID.Copy(),
			IsForward:       r.IsForward,
			TargetID:        r.TargetID.Copy(),
		}
		if target, ok := a.Space.Get(r.TargetID.NodeID); ok {
			rd.BrowseName = target.BrowseName.Copy()
			rd.DisplayName = target.DisplayName.Copy()
		}
		refs = append(refs, rd)
	}

	return BrowseResult{StatusCode: values.Good, References: refs}
}
