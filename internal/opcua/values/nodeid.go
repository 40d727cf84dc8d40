package values

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IdentifierType discriminates the payload arm of a NodeId.
type IdentifierType uint8

const (
	IdentifierUndefined IdentifierType = iota
	IdentifierNumeric
	IdentifierString
	IdentifierGUID
	IdentifierByteString
)

// Guid is a structured 128-bit identifier, stored as the 16 raw bytes of
// its RFC 4122 encoding.
type Guid [16]byte

func (g Guid) String() string { return uuid.UUID(g).String() }

// ParseGuid parses the textual Guid form (standard UUID hyphenated form).
func ParseGuid(s string) (Guid, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Guid{}, fmt.Errorf("parse guid %q: %w", s, err)
	}
	return Guid(u), nil
}

// NodeId carries (namespace, identifier_type, payload); identifier_type
// must match whichever payload field is populated.
type NodeId struct {
	Namespace  uint16
	IDType     IdentifierType
	Numeric    uint32
	Str        String
	GUID       Guid
	ByteString ByteString
}

// NewNumericNodeId builds a namespace-scoped numeric NodeId.
func NewNumericNodeId(ns uint16, id uint32) NodeId {
	return NodeId{Namespace: ns, IDType: IdentifierNumeric, Numeric: id}
}

// NewStringNodeId builds a namespace-scoped string NodeId.
func NewStringNodeId(ns uint16, id string) NodeId {
	return NodeId{Namespace: ns, IDType: IdentifierString, Str: StringFromGoString(id)}
}

// NewGUIDNodeId builds a namespace-scoped guid NodeId.
func NewGUIDNodeId(ns uint16, id Guid) NodeId {
	return NodeId{Namespace: ns, IDType: IdentifierGUID, GUID: id}
}

// NewByteStringNodeId builds a namespace-scoped byte-string NodeId.
func NewByteStringNodeId(ns uint16, id []byte) NodeId {
	return NodeId{Namespace: ns, IDType: IdentifierByteString, ByteString: StringFromBytes(id)}
}

// Hash returns a structural hash suitable for keying an in-process
// dictionary by NodeId (e.g. an address space). It is not a wire-format
// or persistence hash.
func (n NodeId) Hash() uint64 { return nodeIDHash(n) }

// Equal reports structural equality consistent with IDType.
func (n NodeId) Equal(o NodeId) bool {
	if n.Namespace != o.Namespace || n.IDType != o.IDType {
		return false
	}
	switch n.IDType {
	case IdentifierNumeric:
		return n.Numeric == o.Numeric
	case IdentifierString:
		return Equal(n.Str, o.Str)
	case IdentifierGUID:
		return n.GUID == o.GUID
	case IdentifierByteString:
		return Equal(n.ByteString, o.ByteString)
	default:
		return true // both undefined
	}
}

// Copy deep-clones owned payload storage.
func (n NodeId) Copy() NodeId {
	cp := n
	switch n.IDType {
	case IdentifierString:
		cp.Str = n.Str.Copy()
	case IdentifierByteString:
		cp.ByteString = n.ByteString.Copy()
	}
	return cp
}

// ToCString renders the textual NodeId form:
// "[ns=<digits>;]{i=<u32>|s=<text>|g=<uuid>|b=<base64>}".
func (n NodeId) ToCString() string {
	var b strings.Builder
	if n.Namespace != 0 {
		fmt.Fprintf(&b, "ns=%d;", n.Namespace)
	}
	switch n.IDType {
	case IdentifierNumeric:
		fmt.Fprintf(&b, "i=%d", n.Numeric)
	case IdentifierString:
		fmt.Fprintf(&b, "s=%s", n.Str.String())
	case IdentifierGUID:
		fmt.Fprintf(&b, "g=%s", n.GUID.String())
	case IdentifierByteString:
		fmt.Fprintf(&b, "b=%s", Base64Encode(n.ByteString.Bytes))
	}
	return b.String()
}

// FromCString parses the textual NodeId form. This is the NodeId_FromCString
// side of the NodeId_FromCString ∘ NodeId_ToCString = identity round-trip
// law (spec §8).
func FromCString(s string) (NodeId, error) {
	rest := s
	var ns uint16
	if strings.HasPrefix(rest, "ns=") {
		semi := strings.IndexByte(rest, ';')
		if semi < 0 {
			return NodeId{}, fmt.Errorf("nodeid %q: missing ';' after ns= prefix", s)
		}
		n, err := strconv.ParseUint(rest[3:semi], 10, 16)
		if err != nil {
			return NodeId{}, fmt.Errorf("nodeid %q: bad namespace: %w", s, err)
		}
		ns = uint16(n)
		rest = rest[semi+1:]
	}
	if len(rest) < 2 || rest[1] != '=' {
		return NodeId{}, fmt.Errorf("nodeid %q: expected i=/s=/g=/b= identifier", s)
	}
	kind, payload := rest[0], rest[2:]
	switch kind {
	case 'i':
		v, err := strconv.ParseUint(payload, 10, 32)
		if err != nil {
			return NodeId{}, fmt.Errorf("nodeid %q: bad numeric identifier: %w", s, err)
		}
		return NewNumericNodeId(ns, uint32(v)), nil
	case 's':
		return NewStringNodeId(ns, payload), nil
	case 'g':
		g, err := ParseGuid(payload)
		if err != nil {
			return NodeId{}, fmt.Errorf("nodeid %q: %w", s, err)
		}
		return NewGUIDNodeId(ns, g), nil
	case 'b':
		raw, err := Base64Decode(payload)
		if err != nil {
			return NodeId{}, fmt.Errorf("nodeid %q: bad bytestring identifier: %w", s, err)
		}
		return NewByteStringNodeId(ns, raw), nil
	default:
		return NodeId{}, fmt.Errorf("nodeid %q: unknown identifier kind %q", s, kind)
	}
}

// ExpandedNodeId wraps a NodeId with an optional namespace URI and server
// index, used to refer to nodes hosted on other servers.
type ExpandedNodeId struct {
	NodeID       NodeId
	NamespaceURI String // null when unused
	ServerIndex  uint32
}

// NewExpandedNodeId wraps id with no namespace URI / server index (the
// common local-server case).
func NewExpandedNodeId(id NodeId) ExpandedNodeId {
	return ExpandedNodeId{NodeID: id, NamespaceURI: NullString()}
}

// Copy deep-clones owned payload storage.
func (e ExpandedNodeId) Copy() ExpandedNodeId {
	return ExpandedNodeId{
		NodeID:       e.NodeID.Copy(),
		NamespaceURI: e.NamespaceURI.Copy(),
		ServerIndex:  e.ServerIndex,
	}
}
