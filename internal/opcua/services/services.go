// Package services implements the service adapter layer: one adapter per
// service family, each consuming a typed request, updating core state
// (address space, sessions), and producing a typed response (spec §4.J).
// The cross-cutting rules that apply across the whole surface (nothing to
// do / too many operations / NodeId validation) live here; AddNodes'
// attribute validation is in addnodes.go beside its adapter, and the
// per-service adapters are in read.go, write.go, browse.go, addnodes.go and
// discovery.go.
package services

import (
	"go.uber.org/zap"

	"github.com/edge-opcua/opcuacore/internal/logger"
	"github.com/edge-opcua/opcuacore/internal/opcua/addrspace"
	"github.com/edge-opcua/opcuacore/internal/opcua/status"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// DefaultMaxOperationsPerRequest bounds the number of operations a single
// request may carry, rule 2 of spec §4.J. Configurable per adapter set so demo and
// production wiring can choose their own ceiling.
const DefaultMaxOperationsPerRequest = 1000

// Adapters bundles the address space and the optional sinks every adapter
// may touch: an audit/historian store, a telemetry republisher and a
// change-notification publisher. Each sink is independently optional (nil
// disables it) so the adapters work standalone in tests without any of the
// external systems configured.
type Adapters struct {
	Space *addrspace.AddressSpace

	Audit     *AuditStore // nil disables AddNodes/Write auditing
	Historian *Historian  // nil disables the InfluxDB DataValue sink
	Telemetry *Telemetry  // nil disables the MQTT republish bridge
	Publisher *Publisher  // nil disables the redis change notification

	MaxOperations int // 0 means DefaultMaxOperationsPerRequest
}

func (a *Adapters) maxOps() int {
	if a.MaxOperations <= 0 {
		return DefaultMaxOperationsPerRequest
	}
	return a.MaxOperations
}

// checkOperationCount implements rules 1 and 2: zero operations is
// "nothing to do", more than the configured maximum is "too many
// operations". Returns the StatusCode to short-circuit the request with,
// or values.Good if the request should proceed.
func (a *Adapters) checkOperationCount(n int) values.StatusCode {
	switch {
	case n == 0:
		return values.BadNothingToDo
	case n > a.maxOps():
		return values.BadTooManyOperations
	default:
		return values.Good
	}
}

// validateNodeID implements rule 3: namespace index 0 is always
// well-formed (reserved namespace), any other namespace index must be
// non-zero and the identifier kind must be one of the four defined arms.
func validateNodeID(id values.NodeId) values.StatusCode {
	if id.IDType == values.IdentifierUndefined || id.IDType > values.IdentifierByteString {
		return values.BadNodeIDInvalid
	}
	return values.Good
}

// lookupNode resolves id against the address space, translating a miss
// into BadNodeIdUnknown (the status service adapters place on the wire per
// spec §7 "Service adapters translate local statuses to OPC UA StatusCode
// values").
func lookupNode(space *addrspace.AddressSpace, id values.NodeId) (*addrspace.Node, values.StatusCode) {
	if sc := validateNodeID(id); sc != values.Good {
		return nil, sc
	}
	node, ok := space.Get(id)
	if !ok {
		return nil, values.BadNodeIDUnknown
	}
	return node, values.Good
}

// toErrorCode maps a status.Code from an internal component failure onto
// the wire StatusCode an adapter reports when a sink (audit/historian/
// telemetry) errors out; sink failures never abort the service operation
// itself (spec §7: worker threads never panic, and a malformed/failing
// side channel must not block the primary result), they are only surfaced
// through logging at the call site.
func toErrorCode(code status.Code) values.StatusCode {
	switch code {
	case status.InvalidParameters:
		return values.BadInvalidArgument
	case status.InvalidState:
		return values.BadInternalError
	case status.OutOfMemory:
		return values.BadOutOfMemory
	case status.Closed:
		return values.BadConnectionClosed
	case status.NotSupported:
		return values.BadNotSupported
	default:
		return values.BadUnexpectedError
	}
}

// logSinkFailure logs a side-channel (audit/historian/telemetry/publisher)
// failure at warn level, tagged with the local status code it translates
// to on the wire, without altering the primary operation's result.
func logSinkFailure(sink string, id values.NodeId, err error) {
	logger.Get().Warn("service sink failed",
		zap.String("sink", sink),
		zap.String("node_id", id.ToCString()),
		zap.String("wire_status", toErrorCode(status.CodeOf(err)).String()),
		zap.Error(err),
	)
}
