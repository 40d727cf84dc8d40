package addrspace

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// Namespaces recognized by the loader (spec §6 "UANodeSet XML namespace").
// Elements in any other namespace are silently skipped.
const (
	nodesetNS = "http://opcfoundation.org/UA/2011/03/UANodeSet.xsd"
	typesNS   = "http://opcfoundation.org/UA/2008/02/Types.xsd"
)

// elementTypes maps a UANodeSet structural tag to the NodeClass it
// introduces (spec §4.H's ELEMENT_TYPES table).
var elementTypes = map[string]NodeClass{
	"UADataType":      NodeClassDataType,
	"UAMethod":        NodeClassMethod,
	"UAObject":        NodeClassObject,
	"UAObjectType":    NodeClassObjectType,
	"UAReferenceType": NodeClassReferenceType,
	"UAVariable":      NodeClassVariable,
	"UAVariableType":  NodeClassVariableType,
	"UAView":          NodeClassView,
}

// builtinTag is one entry of the Types-namespace tag table: the built-in
// kind it names and whether it is the "ListOf"-prefixed array form.
type builtinTag struct {
	kind    values.Kind
	isArray bool
}

// builtinTags mirrors spec §4.H's TYPE_IDS table: scalar tags for every
// built-in kind, plus "ListOf"-prefixed array tags for the subset of
// kinds the grammar allows in array form (NodeId, ExpandedNodeId,
// StatusCode, QualifiedName, LocalizedText and ExtensionObject have no
// array form here, matching the retrieved table exactly).
var builtinTags = map[string]builtinTag{
	"Boolean":        {values.KindBoolean, false},
	"SByte":          {values.KindSByte, false},
	"Byte":           {values.KindByte, false},
	"Int16":          {values.KindInt16, false},
	"UInt16":         {values.KindUInt16, false},
	"Int32":          {values.KindInt32, false},
	"UInt32":         {values.KindUInt32, false},
	"Int64":          {values.KindInt64, false},
	"UInt64":         {values.KindUInt64, false},
	"Float":          {values.KindFloat, false},
	"Double":         {values.KindDouble, false},
	"String":         {values.KindString, false},
	"DateTime":       {values.KindDateTime, false},
	"Guid":           {values.KindGuid, false},
	"ByteString":     {values.KindByteString, false},
	"XmlElement":     {values.KindXmlElement, false},
	"NodeId":         {values.KindNodeId, false},
	"ExpandedNodeId": {values.KindExpandedNodeId, false},
	"StatusCode":     {values.KindStatusCode, false},
	"QualifiedName":  {values.KindQualifiedName, false},
	"LocalizedText":  {values.KindLocalizedText, false},
	// Both spellings are recognized, matching the retrieved loader's table.
	"ExtenstionObject": {values.KindExtensionObject, false},
	"Structure":        {values.KindExtensionObject, false},

	"ListOfBoolean":    {values.KindBoolean, true},
	"ListOfSByte":      {values.KindSByte, true},
	"ListOfByte":       {values.KindByte, true},
	"ListOfInt16":      {values.KindInt16, true},
	"ListOfUInt16":     {values.KindUInt16, true},
	"ListOfInt32":      {values.KindInt32, true},
	"ListOfUInt32":     {values.KindUInt32, true},
	"ListOfInt64":      {values.KindInt64, true},
	"ListOfUInt64":     {values.KindUInt64, true},
	"ListOfFloat":      {values.KindFloat, true},
	"ListOfDouble":     {values.KindDouble, true},
	"ListOfString":     {values.KindString, true},
	"ListOfDateTime":   {values.KindDateTime, true},
	"ListOfGuid":       {values.KindGuid, true},
	"ListOfByteString": {values.KindByteString, true},
	"ListOfXmlElement": {values.KindXmlElement, true},
}

// Option configures LoadNodeSet.
type Option func(*loaderConfig)

type loaderConfig struct {
	lenientByteStrings bool
}

// LenientByteStrings makes ByteString value parsing ignore base64 decode
// failures instead of propagating them as a load error (spec §9 Open
// Question: the default is strict propagation; this option restores the
// old forgiving behavior for third-party NodeSet files with known-bad
// base64 padding).
func LenientByteStrings() Option {
	return func(c *loaderConfig) { c.lenientByteStrings = true }
}

type parseState int

const (
	stateStart parseState = iota
	stateNodeSet
	stateAliases
	stateAlias
	stateNode
	stateNodeDisplayName
	stateNodeDescription
	stateNodeReferences
	stateNodeReference
	stateNodeValue
	stateNodeValueScalar
	stateNodeValueArray
)

type loader struct {
	dec     *xml.Decoder
	state   parseState
	aliases map[string]string
	space   *AddressSpace
	lenient bool

	charData strings.Builder

	skipName  xml.Name
	skipDepth int

	currentAliasName string

	node       *Node
	references []Reference

	currentValueKind    values.Kind
	currentValueIsArray bool
	arrayItems          []values.Variant
}

// LoadNodeSet parses a UANodeSet XML document from r into a fresh
// AddressSpace. Any malformed input discards the whole partially-built
// address space: the error is the only thing returned (spec §4.H "Failure
// policy").
func LoadNodeSet(r io.Reader, opts ...Option) (*AddressSpace, error) {
	cfg := loaderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &loader{
		dec:     xml.NewDecoder(r),
		state:   stateStart,
		aliases: make(map[string]string),
		space:   newAddressSpace(),
		lenient: cfg.lenientByteStrings,
	}

	for {
		tok, err := l.dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("addrspace: xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := l.startElement(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if err := l.endElement(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if l.shouldAccumulateCharData() {
				l.charData.Write(t)
			}
		}
	}

	if l.state != stateStart && l.state != stateNodeSet {
		return nil, fmt.Errorf("addrspace: unexpected end of document in state %d", l.state)
	}

	return l.space, nil
}

func (l *loader) shouldAccumulateCharData() bool {
	switch l.state {
	case stateNodeDisplayName, stateNodeDescription, stateAlias, stateNodeReference, stateNodeValueScalar:
		return true
	default:
		return false
	}
}

func (l *loader) takeCharData() string {
	s := strings.TrimSpace(l.charData.String())
	l.charData.Reset()
	return s
}

// skip begins ignoring start/end events until the matching end of name,
// counting nested occurrences of the same tag so inner elements sharing
// its name don't close the skip early.
func (l *loader) skip(name xml.Name) {
	l.skipName = name
	l.skipDepth = 1
}

func tagString(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func (l *loader) startElement(se xml.StartElement) error {
	if l.skipName.Local != "" {
		if se.Name == l.skipName {
			l.skipDepth++
		}
		return nil
	}

	switch l.state {
	case stateStart:
		if se.Name.Space != nodesetNS || se.Name.Local != "UANodeSet" {
			return fmt.Errorf("addrspace: unexpected root element %q", tagString(se.Name))
		}
		l.state = stateNodeSet
		return nil

	case stateNodeSet:
		if se.Name.Space == nodesetNS {
			if nc, ok := elementTypes[se.Name.Local]; ok {
				return l.startNode(nc, se.Attr)
			}
			if se.Name.Local == "Aliases" {
				l.state = stateAliases
				return nil
			}
		}
		l.skip(se.Name)
		return nil

	case stateAliases:
		if se.Name.Space == nodesetNS && se.Name.Local == "Alias" {
			return l.startAlias(se.Attr)
		}
		l.skip(se.Name)
		return nil

	case stateNode:
		if se.Name.Space == nodesetNS {
			switch se.Name.Local {
			case "DisplayName":
				l.state = stateNodeDisplayName
				return nil
			case "Description":
				l.state = stateNodeDescription
				return nil
			case "References":
				l.state = stateNodeReferences
				return nil
			case "Value":
				if l.node.HasValue() {
					l.state = stateNodeValue
					return nil
				}
			}
		}
		l.skip(se.Name)
		return nil

	case stateNodeReferences:
		if se.Name.Space == nodesetNS && se.Name.Local == "Reference" {
			return l.startReference(se.Attr)
		}
		l.skip(se.Name)
		return nil

	case stateNodeValue:
		tag, ok := builtinTags[se.Name.Local]
		if se.Name.Space != typesNS || !ok {
			l.skip(se.Name)
			return nil
		}
		l.currentValueKind = tag.kind
		l.currentValueIsArray = tag.isArray
		if tag.isArray {
			l.arrayItems = l.arrayItems[:0]
			l.state = stateNodeValueArray
		} else {
			l.state = stateNodeValueScalar
		}
		return nil

	case stateNodeValueScalar:
		return fmt.Errorf("addrspace: unexpected tag %q while parsing a scalar value", tagString(se.Name))

	case stateNodeValueArray:
		tag, ok := builtinTags[se.Name.Local]
		if se.Name.Space != typesNS || !ok {
			l.skip(se.Name)
			return nil
		}
		if tag.kind != l.currentValueKind || tag.isArray {
			l.skip(se.Name)
			return nil
		}
		l.state = stateNodeValueScalar
		return nil

	default:
		return nil
	}
}

func (l *loader) endElement(ee xml.EndElement) error {
	if l.skipName.Local != "" {
		if ee.Name == l.skipName {
			l.skipDepth--
			if l.skipDepth == 0 {
				l.skipName = xml.Name{}
			}
		}
		return nil
	}

	switch l.state {
	case stateAliases:
		l.state = stateNodeSet
		return nil

	case stateAlias:
		if err := l.finalizeAlias(); err != nil {
			return err
		}
		l.state = stateAliases
		return nil

	case stateNodeDisplayName:
		l.node.DisplayName.Text = values.StringFromGoString(l.takeCharData())
		l.state = stateNode
		return nil

	case stateNodeDescription:
		l.node.Description.Text = values.StringFromGoString(l.takeCharData())
		l.state = stateNode
		return nil

	case stateNodeReferences:
		l.state = stateNode
		return nil

	case stateNodeReference:
		if err := l.finalizeReference(); err != nil {
			return err
		}
		l.state = stateNodeReferences
		return nil

	case stateNodeValueScalar:
		v, err := scalarValue(l.currentValueKind, l.takeCharData(), l.lenient)
		if err != nil {
			return fmt.Errorf("addrspace: %w", err)
		}
		if l.currentValueIsArray {
			l.arrayItems = append(l.arrayItems, v)
			l.state = stateNodeValueArray
		} else {
			l.node.Value = v
			l.node.ValueStatus = values.Good
			l.currentValueKind = values.KindBoolean
			l.state = stateNodeValue
		}
		return nil

	case stateNodeValueArray:
		l.node.Value = packArray(l.currentValueKind, l.arrayItems)
		l.node.ValueStatus = values.Good
		l.arrayItems = nil
		l.currentValueKind = values.KindBoolean
		l.currentValueIsArray = false
		l.state = stateNodeValue
		return nil

	case stateNodeValue:
		l.state = stateNode
		return nil

	case stateNode:
		l.node.References = l.references
		l.references = nil
		l.space.Append(l.node)
		l.node = nil
		l.state = stateNodeSet
		return nil

	case stateNodeSet:
		return nil

	default:
		return fmt.Errorf("addrspace: unexpected end tag %q in state %d", tagString(ee.Name), l.state)
	}
}

func (l *loader) startNode(nc NodeClass, attrs []xml.Attr) error {
	node := &Node{NodeClass: nc}

	for _, a := range attrs {
		switch a.Name.Local {
		case "NodeId":
			id, err := values.FromCString(a.Value)
			if err != nil {
				return fmt.Errorf("addrspace: invalid NodeId %q: %w", a.Value, err)
			}
			node.NodeID = id
			if id.Namespace == 0 {
				node.ValueStatus = values.Good
			} else {
				node.ValueStatus = values.UncertainInitialValue
			}

		case "BrowseName":
			bn, err := values.ParseQualifiedName(a.Value)
			if err != nil {
				return fmt.Errorf("addrspace: invalid BrowseName %q: %w", a.Value, err)
			}
			node.BrowseName = bn

		case "DataType":
			if nc != NodeClassVariable && nc != NodeClassVariableType {
				return fmt.Errorf("addrspace: unexpected DataType attribute on node of class %s", nc)
			}
			target := a.Value
			if aliased, ok := l.aliases[target]; ok {
				target = aliased
			}
			id, err := values.FromCString(target)
			if err != nil {
				return fmt.Errorf("addrspace: invalid DataType %q: %w", a.Value, err)
			}
			node.DataType = id

		case "ValueRank":
			if nc != NodeClassVariable && nc != NodeClassVariableType {
				return fmt.Errorf("addrspace: unexpected ValueRank attribute on node of class %s", nc)
			}
			rank, err := strconv.ParseInt(a.Value, 10, 32)
			if err != nil {
				return fmt.Errorf("addrspace: invalid ValueRank %q: %w", a.Value, err)
			}
			node.ValueRank = int32(rank)

		case "AccessLevel":
			if nc != NodeClassVariable {
				return fmt.Errorf("addrspace: unexpected AccessLevel attribute on node of class %s", nc)
			}
			level, err := strconv.ParseUint(a.Value, 10, 8)
			if err != nil {
				return fmt.Errorf("addrspace: invalid AccessLevel %q: %w", a.Value, err)
			}
			node.AccessLevel = byte(level)
		}
	}

	l.node = node
	l.state = stateNode
	return nil
}

func (l *loader) startAlias(attrs []xml.Attr) error {
	for _, a := range attrs {
		if a.Name.Local == "Alias" {
			l.currentAliasName = a.Value
		}
	}
	l.state = stateAlias
	return nil
}

func (l *loader) finalizeAlias() error {
	if l.currentAliasName == "" {
		return fmt.Errorf("addrspace: missing Alias attribute on Alias element")
	}
	l.aliases[l.currentAliasName] = l.takeCharData()
	l.currentAliasName = ""
	return nil
}

func (l *loader) startReference(attrs []xml.Attr) error {
	ref := Reference{IsForward: true}
	for _, a := range attrs {
		switch a.Name.Local {
		case "ReferenceType":
			target := a.Value
			if aliased, ok := l.aliases[target]; ok {
				target = aliased
			}
			id, err := values.FromCString(target)
			if err != nil {
				return fmt.Errorf("addrspace: invalid ReferenceType %q: %w", a.Value, err)
			}
			ref.TypeID = id
		case "IsForward":
			ref.IsForward = a.Value == "true"
		}
	}
	l.references = append(l.references, ref)
	l.state = stateNodeReference
	return nil
}

func (l *loader) finalizeReference() error {
	text := l.takeCharData()
	id, err := values.FromCString(text)
	if err != nil {
		return fmt.Errorf("addrspace: cannot parse reference target %q into a NodeId: %w", text, err)
	}
	l.references[len(l.references)-1].TargetID = values.NewExpandedNodeId(id)
	return nil
}

// scalarValue parses text into a scalar Variant of kind, per spec §4.H's
// built-in parser dispatch. DateTime, ExpandedNodeId, StatusCode and
// ExtensionObject are recognized type tags (builtinTags) but have no
// defined textual value form here, matching the retrieved loader (its
// TYPE_IDS table lists them but its value setter has no case for them);
// reaching their value content is therefore treated as malformed input.
// lenient controls ByteString decode-failure handling (LenientByteStrings).
func scalarValue(kind values.Kind, text string, lenient bool) (values.Variant, error) {
	switch kind {
	case values.KindBoolean:
		return values.NewBooleanVariant(text == "true"), nil
	case values.KindSByte:
		v, err := strconv.ParseInt(text, 10, 8)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid SByte value %q: %w", text, err)
		}
		return values.Variant{Kind: values.KindSByte, SByte: int8(v)}, nil
	case values.KindByte:
		v, err := strconv.ParseUint(text, 10, 8)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid Byte value %q: %w", text, err)
		}
		return values.Variant{Kind: values.KindByte, Byte: byte(v)}, nil
	case values.KindInt16:
		v, err := strconv.ParseInt(text, 10, 16)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid Int16 value %q: %w", text, err)
		}
		return values.Variant{Kind: values.KindInt16, Int16: int16(v)}, nil
	case values.KindUInt16:
		v, err := strconv.ParseUint(text, 10, 16)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid UInt16 value %q: %w", text, err)
		}
		return values.Variant{Kind: values.KindUInt16, UInt16: uint16(v)}, nil
	case values.KindInt32:
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid Int32 value %q: %w", text, err)
		}
		return values.NewInt32Variant(int32(v)), nil
	case values.KindUInt32:
		v, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid UInt32 value %q: %w", text, err)
		}
		return values.NewUInt32Variant(uint32(v)), nil
	case values.KindInt64:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid Int64 value %q: %w", text, err)
		}
		return values.NewInt64Variant(v), nil
	case values.KindUInt64:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid UInt64 value %q: %w", text, err)
		}
		return values.NewUInt64Variant(v), nil
	case values.KindFloat:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid Float value %q: %w", text, err)
		}
		return values.NewFloatVariant(float32(v)), nil
	case values.KindDouble:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid Double value %q: %w", text, err)
		}
		return values.NewDoubleVariant(v), nil
	case values.KindString:
		return values.NewStringVariant(values.StringFromGoString(text)), nil
	case values.KindXmlElement:
		return values.Variant{Kind: values.KindXmlElement, XmlElement: values.StringFromGoString(text)}, nil
	case values.KindByteString:
		raw, err := values.Base64Decode(text)
		if err != nil {
			if lenient {
				return values.Variant{Kind: values.KindByteString, ByteString: values.EmptyString()}, nil
			}
			return values.Variant{}, fmt.Errorf("invalid ByteString value %q: %w", text, err)
		}
		return values.Variant{Kind: values.KindByteString, ByteString: values.StringFromBytes(raw)}, nil
	case values.KindGuid:
		g, err := values.ParseGuid(text)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid Guid value %q: %w", text, err)
		}
		return values.Variant{Kind: values.KindGuid, Guid: g}, nil
	case values.KindNodeId:
		id, err := values.FromCString(text)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid NodeId value %q: %w", text, err)
		}
		return values.NewNodeIDVariant(id), nil
	case values.KindQualifiedName:
		qn, err := values.ParseQualifiedName(text)
		if err != nil {
			return values.Variant{}, fmt.Errorf("invalid QualifiedName value %q: %w", text, err)
		}
		return values.Variant{Kind: values.KindQualifiedName, QualifiedName: qn}, nil
	case values.KindLocalizedText:
		return values.Variant{
			Kind:          values.KindLocalizedText,
			LocalizedText: values.NewLocalizedText("", text),
		}, nil
	default:
		return values.Variant{}, fmt.Errorf("value parsing not implemented for kind %s", kind)
	}
}

// packArray assembles items (each a scalar Variant of kind) into a single
// array-form Variant of kind, the "pack into an array-form Variant" step
// of spec §4.H's array dispatch.
func packArray(kind values.Kind, items []values.Variant) values.Variant {
	v := values.Variant{Kind: kind, IsArray: true}
	switch kind {
	case values.KindBoolean:
		arr := make([]bool, len(items))
		for i, it := range items {
			arr[i] = it.Boolean
		}
		v.BooleanArr = arr
	case values.KindSByte:
		arr := make([]int8, len(items))
		for i, it := range items {
			arr[i] = it.SByte
		}
		v.SByteArr = arr
	case values.KindByte:
		arr := make([]byte, len(items))
		for i, it := range items {
			arr[i] = it.Byte
		}
		v.ByteArr = arr
	case values.KindInt16:
		arr := make([]int16, len(items))
		for i, it := range items {
			arr[i] = it.Int16
		}
		v.Int16Arr = arr
	case values.KindUInt16:
		arr := make([]uint16, len(items))
		for i, it := range items {
			arr[i] = it.UInt16
		}
		v.UInt16Arr = arr
	case values.KindInt32:
		arr := make([]int32, len(items))
		for i, it := range items {
			arr[i] = it.Int32
		}
		v.Int32Arr = arr
	case values.KindUInt32:
		arr := make([]uint32, len(items))
		for i, it := range items {
			arr[i] = it.UInt32
		}
		v.UInt32Arr = arr
	case values.KindInt64:
		arr := make([]int64, len(items))
		for i, it := range items {
			arr[i] = it.Int64
		}
		v.Int64Arr = arr
	case values.KindUInt64:
		arr := make([]uint64, len(items))
		for i, it := range items {
			arr[i] = it.UInt64
		}
		v.UInt64Arr = arr
	case values.KindFloat:
		arr := make([]float32, len(items))
		for i, it := range items {
			arr[i] = it.Float
		}
		v.FloatArr = arr
	case values.KindDouble:
		arr := make([]float64, len(items))
		for i, it := range items {
			arr[i] = it.Double
		}
		v.DoubleArr = arr
	case values.KindString:
		arr := make([]values.String, len(items))
		for i, it := range items {
			arr[i] = it.String
		}
		v.StringArr = arr
	case values.KindDateTime:
		arr := make([]values.DateTime, len(items))
		for i, it := range items {
			arr[i] = it.DateTime
		}
		v.DateTimeArr = arr
	case values.KindGuid:
		arr := make([]values.Guid, len(items))
		for i, it := range items {
			arr[i] = it.Guid
		}
		v.GuidArr = arr
	case values.KindByteString:
		arr := make([]values.ByteString, len(items))
		for i, it := range items {
			arr[i] = it.ByteString
		}
		v.ByteStringArr = arr
	case values.KindXmlElement:
		arr := make([]values.XmlElement, len(items))
		for i, it := range items {
			arr[i] = it.XmlElement
		}
		v.XmlElementArr = arr
	}
	return v
}
