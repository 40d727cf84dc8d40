package values

import "fmt"

// Variant is the tagged union over every built-in type, in scalar, array,
// or matrix shape. Only the field matching Kind (and, for arrays/matrices,
// the corresponding *Arr slice) is meaningful; everything else is the zero
// value. This mirrors the original's single VariantValue/VariantArrayValue
// union dispatched through Kind, expressed as named Go fields instead of a
// C union over void* storage.
type Variant struct {
	Kind     Kind
	IsArray  bool
	IsMatrix bool

	// Dimensions holds the per-axis extents when IsMatrix is set; the
	// product of Dimensions must equal the length of the *Arr slice for
	// Kind. Non-matrix arrays carry no dimensions.
	Dimensions []int32

	Boolean         bool
	SByte           int8
	Byte            byte
	Int16           int16
	UInt16          uint16
	Int32           int32
	UInt32          uint32
	Int64           int64
	UInt64          uint64
	Float           float32
	Double          float64
	String          String
	DateTime        DateTime
	Guid            Guid
	ByteString      ByteString
	XmlElement      XmlElement
	NodeID          NodeId
	ExpandedNodeID  ExpandedNodeId
	StatusCode      StatusCode
	QualifiedName   QualifiedName
	LocalizedText   LocalizedText
	ExtensionObject ExtensionObject
	DataValue       *DataValue
	DiagnosticInfo  *DiagnosticInfo

	BooleanArr         []bool
	SByteArr           []int8
	ByteArr            []byte
	Int16Arr           []int16
	UInt16Arr          []uint16
	Int32Arr           []int32
	UInt32Arr          []uint32
	Int64Arr           []int64
	UInt64Arr          []uint64
	FloatArr           []float32
	DoubleArr          []float64
	StringArr          []String
	DateTimeArr        []DateTime
	GuidArr            []Guid
	ByteStringArr      []ByteString
	XmlElementArr      []XmlElement
	NodeIDArr          []NodeId
	ExpandedNodeIDArr  []ExpandedNodeId
	StatusCodeArr      []StatusCode
	QualifiedNameArr   []QualifiedName
	LocalizedTextArr   []LocalizedText
	ExtensionObjectArr []ExtensionObject
	DataValueArr       []DataValue
	DiagnosticInfoArr  []DiagnosticInfo
	VariantArr         []Variant
}

// NullVariant is the zero-value Variant: scalar Boolean, value false.
func NullVariant() Variant { return Variant{Kind: KindBoolean} }

// NewBooleanVariant and the other NewXxxVariant constructors below build a
// scalar Variant of the named kind, the Go-generic-free equivalent of
// calling Variant_Initialize then assigning the union arm directly.
func NewBooleanVariant(v bool) Variant    { return Variant{Kind: KindBoolean, Boolean: v} }
func NewSByteVariant(v int8) Variant      { return Variant{Kind: KindSByte, SByte: v} }
func NewByteVariant(v byte) Variant       { return Variant{Kind: KindByte, Byte: v} }
func NewInt16Variant(v int16) Variant     { return Variant{Kind: KindInt16, Int16: v} }
func NewUInt16Variant(v uint16) Variant   { return Variant{Kind: KindUInt16, UInt16: v} }
func NewInt32Variant(v int32) Variant     { return Variant{Kind: KindInt32, Int32: v} }
func NewUInt32Variant(v uint32) Variant   { return Variant{Kind: KindUInt32, UInt32: v} }
func NewInt64Variant(v int64) Variant     { return Variant{Kind: KindInt64, Int64: v} }
func NewUInt64Variant(v uint64) Variant   { return Variant{Kind: KindUInt64, UInt64: v} }
func NewFloatVariant(v float32) Variant   { return Variant{Kind: KindFloat, Float: v} }
func NewDoubleVariant(v float64) Variant  { return Variant{Kind: KindDouble, Double: v} }
func NewStringVariant(v String) Variant   { return Variant{Kind: KindString, String: v} }
func NewNodeIDVariant(v NodeId) Variant   { return Variant{Kind: KindNodeId, NodeID: v} }
func NewStatusCodeVariant(v StatusCode) Variant {
	return Variant{Kind: KindStatusCode, StatusCode: v}
}

// NewInt32ArrayVariant builds a 1-dimensional Int32 array Variant.
func NewInt32ArrayVariant(values []int32) Variant {
	return Variant{Kind: KindInt32, IsArray: true, Int32Arr: values}
}

// NewInt32MatrixVariant builds a matrix-shaped Int32 Variant, validating
// that dims multiplies out to len(values).
func NewInt32MatrixVariant(dims []int32, values []int32) (Variant, error) {
	if err := checkMatrixShape(dims, len(values)); err != nil {
		return Variant{}, err
	}
	return Variant{Kind: KindInt32, IsArray: true, IsMatrix: true, Dimensions: dims, Int32Arr: values}, nil
}

// IsNull reports whether the Variant is in its default-constructed state
// (scalar Boolean, false) — the built-in "empty" Variant used as a
// placeholder in Read/Write responses that carry no value.
func (v Variant) IsNull() bool {
	return !v.IsArray && !v.IsMatrix && v.Kind == KindBoolean && !v.Boolean
}

// Copy deep-clones every owned slice/pointer/String reachable from v, so
// mutating or clearing the result never affects v.
func (v Variant) Copy() Variant {
	cp := v
	if v.IsMatrix {
		cp.Dimensions = append([]int32(nil), v.Dimensions...)
	} else {
		cp.Dimensions = nil
	}

	if v.IsArray {
		switch v.Kind {
		case KindBoolean:
			cp.BooleanArr = append([]bool(nil), v.BooleanArr...)
		case KindSByte:
			cp.SByteArr = append([]int8(nil), v.SByteArr...)
		case KindByte:
			cp.ByteArr = append([]byte(nil), v.ByteArr...)
		case KindInt16:
			cp.Int16Arr = append([]int16(nil), v.Int16Arr...)
		case KindUInt16:
			cp.UInt16Arr = append([]uint16(nil), v.UInt16Arr...)
		case KindInt32:
			cp.Int32Arr = append([]int32(nil), v.Int32Arr...)
		case KindUInt32:
			cp.UInt32Arr = append([]uint32(nil), v.UInt32Arr...)
		case KindInt64:
			cp.Int64Arr = append([]int64(nil), v.Int64Arr...)
		case KindUInt64:
			cp.UInt64Arr = append([]uint64(nil), v.UInt64Arr...)
		case KindFloat:
			cp.FloatArr = append([]float32(nil), v.FloatArr...)
		case KindDouble:
			cp.DoubleArr = append([]float64(nil), v.DoubleArr...)
		case KindString, KindByteString, KindXmlElement:
			cp.StringArr = copyStrings(v.StringArr)
			cp.ByteStringArr = copyStrings(v.ByteStringArr)
			cp.XmlElementArr = copyStrings(v.XmlElementArr)
		case KindDateTime:
			cp.DateTimeArr = append([]DateTime(nil), v.DateTimeArr...)
		case KindGuid:
			cp.GuidArr = append([]Guid(nil), v.GuidArr...)
		case KindNodeId:
			cp.NodeIDArr = copyNodeIDs(v.NodeIDArr)
		case KindExpandedNodeId:
			cp.ExpandedNodeIDArr = copyExpandedNodeIDs(v.ExpandedNodeIDArr)
		case KindStatusCode:
			cp.StatusCodeArr = append([]StatusCode(nil), v.StatusCodeArr...)
		case KindQualifiedName:
			cp.QualifiedNameArr = copyQualifiedNames(v.QualifiedNameArr)
		case KindLocalizedText:
			cp.LocalizedTextArr = copyLocalizedTexts(v.LocalizedTextArr)
		case KindExtensionObject:
			cp.ExtensionObjectArr = copyExtensionObjects(v.ExtensionObjectArr)
		case KindDataValue:
			cp.DataValueArr = copyDataValues(v.DataValueArr)
		case KindDiagnosticInfo:
			cp.DiagnosticInfoArr = copyDiagnosticInfos(v.DiagnosticInfoArr)
		case KindVariant:
			cp.VariantArr = copyVariants(v.VariantArr)
		}
		return cp
	}

	switch v.Kind {
	case KindString, KindByteString, KindXmlElement:
		cp.String = v.String.Copy()
		cp.ByteString = v.ByteString.Copy()
		cp.XmlElement = v.XmlElement.Copy()
	case KindNodeId:
		cp.NodeID = v.NodeID.Copy()
	case KindExpandedNodeId:
		cp.ExpandedNodeID = v.ExpandedNodeID.Copy()
	case KindQualifiedName:
		cp.QualifiedName = v.QualifiedName.Copy()
	case KindLocalizedText:
		cp.LocalizedText = v.LocalizedText.Copy()
	case KindExtensionObject:
		cp.ExtensionObject = v.ExtensionObject.Copy()
	case KindDataValue:
		if v.DataValue != nil {
			dv := v.DataValue.Copy()
			cp.DataValue = &dv
		}
	case KindDiagnosticInfo:
		if v.DiagnosticInfo != nil {
			di := v.DiagnosticInfo.Copy()
			cp.DiagnosticInfo = &di
		}
	}
	return cp
}

// Clear returns the null Variant. As with the other value types here,
// "clearing" means replacing the caller's variable with Clear's result
// rather than mutating shared storage.
func (Variant) Clear() Variant { return NullVariant() }

func copyStrings(in []String) []String {
	if in == nil {
		return nil
	}
	out := make([]String, len(in))
	for i, s := range in {
		out[i] = s.Copy()
	}
	return out
}

func copyNodeIDs(in []NodeId) []NodeId {
	if in == nil {
		return nil
	}
	out := make([]NodeId, len(in))
	for i, n := range in {
		out[i] = n.Copy()
	}
	return out
}

func copyExpandedNodeIDs(in []ExpandedNodeId) []ExpandedNodeId {
	if in == nil {
		return nil
	}
	out := make([]ExpandedNodeId, len(in))
	for i, n := range in {
		out[i] = n.Copy()
	}
	return out
}

func copyQualifiedNames(in []QualifiedName) []QualifiedName {
	if in == nil {
		return nil
	}
	out := make([]QualifiedName, len(in))
	for i, q := range in {
		out[i] = q.Copy()
	}
	return out
}

func copyLocalizedTexts(in []LocalizedText) []LocalizedText {
	if in == nil {
		return nil
	}
	out := make([]LocalizedText, len(in))
	for i, l := range in {
		out[i] = l.Copy()
	}
	return out
}

func copyExtensionObjects(in []ExtensionObject) []ExtensionObject {
	if in == nil {
		return nil
	}
	out := make([]ExtensionObject, len(in))
	for i, e := range in {
		out[i] = e.Copy()
	}
	return out
}

func copyDataValues(in []DataValue) []DataValue {
	if in == nil {
		return nil
	}
	out := make([]DataValue, len(in))
	for i, d := range in {
		out[i] = d.Copy()
	}
	return out
}

func copyDiagnosticInfos(in []DiagnosticInfo) []DiagnosticInfo {
	if in == nil {
		return nil
	}
	out := make([]DiagnosticInfo, len(in))
	for i, d := range in {
		out[i] = d.Copy()
	}
	return out
}

func copyVariants(in []Variant) []Variant {
	if in == nil {
		return nil
	}
	out := make([]Variant, len(in))
	for i, v := range in {
		out[i] = v.Copy()
	}
	return out
}

// checkMatrixShape validates that dims multiply out to length, the
// invariant Variant construction for matrices must hold (spec §3:
// "Matrix flag implies array flag, and the product of array dimensions
// must equal the array length").
func checkMatrixShape(dims []int32, length int) error {
	product := 1
	for _, d := range dims {
		if d < 0 {
			return fmt.Errorf("variant: negative matrix dimension %d", d)
		}
		product *= int(d)
	}
	if product != length {
		return fmt.Errorf("variant: matrix dimensions product %d does not match array length %d", product, length)
	}
	return nil
}
