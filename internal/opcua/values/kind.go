// Package values implements the OPC UA binary value model: the built-in
// type domain, the Variant tagged union over single/array/matrix shapes,
// NodeId/ExpandedNodeId, DataValue, ExtensionObject (with an encodeable-type
// descriptor table), and the initialize/copy/clear discipline every
// built-in type exposes.
package values

// Kind is the built-in type discriminant of a Variant (spec §3.1). Values
// 0..23 cover the closed built-in domain; Variant (24) is the recursive
// arm used only inside arrays/matrices of variants.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindSByte
	KindByte
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindFloat
	KindDouble
	KindString
	KindDateTime
	KindGuid
	KindByteString
	KindXmlElement
	KindNodeId
	KindExpandedNodeId
	KindStatusCode
	KindQualifiedName
	KindLocalizedText
	KindExtensionObject
	KindDataValue
	KindDiagnosticInfo
	KindVariant
	kindCount
)

func (k Kind) String() string {
	names := [kindCount]string{
		"Boolean", "SByte", "Byte", "Int16", "UInt16", "Int32", "UInt32",
		"Int64", "UInt64", "Float", "Double", "String", "DateTime", "Guid",
		"ByteString", "XmlElement", "NodeId", "ExpandedNodeId", "StatusCode",
		"QualifiedName", "LocalizedText", "ExtensionObject", "DataValue",
		"DiagnosticInfo", "Variant",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Valid reports whether k is one of the closed built-in kinds.
func (k Kind) Valid() bool { return k < kindCount }
