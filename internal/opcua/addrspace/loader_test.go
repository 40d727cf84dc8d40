package addrspace

import (
	"strings"
	"testing"

	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

const nsHeader = `<UANodeSet xmlns="http://opcfoundation.org/UA/2011/03/UANodeSet.xsd" xmlns:uax="http://opcfoundation.org/UA/2008/02/Types.xsd">`

func mustLoad(t *testing.T, doc string, opts ...Option) *AddressSpace {
	t.Helper()
	space, err := LoadNodeSet(strings.NewReader(doc), opts...)
	if err != nil {
		t.Fatalf("LoadNodeSet: %v", err)
	}
	return space
}

func TestLoadTrivialVariableWithAliasAndReference(t *testing.T) {
	doc := nsHeader + `
  <Aliases>
    <Alias Alias="Int32">i=6</Alias>
  </Aliases>
  <UAVariable NodeId="ns=1;s=Temperature" BrowseName="1:Temperature" DataType="Int32" ValueRank="-1" AccessLevel="3">
    <DisplayName>Temperature</DisplayName>
    <References>
      <Reference ReferenceType="i=40" IsForward="false">i=85</Reference>
    </References>
    <Value>
      <uax:Int32>42</uax:Int32>
    </Value>
  </UAVariable>
</UANodeSet>`

	space := mustLoad(t, doc)
	if space.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", space.Len())
	}

	id := values.NewStringNodeId(1, "Temperature")
	node, ok := space.Get(id)
	if !ok {
		t.Fatal("node not found")
	}
	if node.NodeClass != NodeClassVariable {
		t.Fatalf("NodeClass = %v, want Variable", node.NodeClass)
	}
	if node.BrowseName.NamespaceIndex != 1 || node.BrowseName.Name.String() != "Temperature" {
		t.Fatalf("BrowseName = %+v", node.BrowseName)
	}
	if node.DisplayName.Text.String() != "Temperature" {
		t.Fatalf("DisplayName = %+v", node.DisplayName)
	}
	wantDataType := values.NewNumericNodeId(0, 6)
	if !node.DataType.Equal(wantDataType) {
		t.Fatalf("DataType = %+v, want alias-resolved %+v", node.DataType, wantDataType)
	}
	if node.ValueRank != -1 {
		t.Fatalf("ValueRank = %d, want -1", node.ValueRank)
	}
	if node.AccessLevel != 3 {
		t.Fatalf("AccessLevel = %d, want 3", node.AccessLevel)
	}
	if len(node.References) != 1 {
		t.Fatalf("References = %d, want 1", len(node.References))
	}
	ref := node.References[0]
	if ref.IsForward {
		t.Fatal("IsForward = true, want false")
	}
	if !ref.TypeID.Equal(values.NewNumericNodeId(0, 40)) {
		t.Fatalf("ReferenceType = %+v", ref.TypeID)
	}
	if !ref.TargetID.NodeID.Equal(values.NewNumericNodeId(0, 85)) {
		t.Fatalf("TargetId = %+v", ref.TargetID)
	}
	if node.Value.Kind != values.KindInt32 || node.Value.Int32 != 42 {
		t.Fatalf("Value = %+v, want Int32(42)", node.Value)
	}
	if node.ValueStatus != values.Good {
		t.Fatalf("ValueStatus = %v, want Good once a value is parsed", node.ValueStatus)
	}
}

func TestNamespaceZeroNodeDefaultsGoodWithoutValue(t *testing.T) {
	doc := nsHeader + `
  <UAObject NodeId="i=100" BrowseName="0:Root"></UAObject>
</UANodeSet>`
	space := mustLoad(t, doc)
	node, ok := space.Get(values.NewNumericNodeId(0, 100))
	if !ok {
		t.Fatal("node not found")
	}
	if node.ValueStatus != values.Good {
		t.Fatalf("ValueStatus = %v, want Good for namespace-0 node", node.ValueStatus)
	}
}

func TestNamespaceNonZeroVariableDefaultsUncertainWithoutValue(t *testing.T) {
	doc := nsHeader + `
  <UAVariable NodeId="ns=2;i=1" BrowseName="2:X"></UAVariable>
</UANodeSet>`
	space := mustLoad(t, doc)
	node, ok := space.Get(values.NewNumericNodeId(2, 1))
	if !ok {
		t.Fatal("node not found")
	}
	if node.ValueStatus != values.UncertainInitialValue {
		t.Fatalf("ValueStatus = %v, want UncertainInitialValue", node.ValueStatus)
	}
}

func TestByteStringValueDecodesBase64(t *testing.T) {
	doc := nsHeader + `
  <UAVariable NodeId="i=1" BrowseName="0:B">
    <Value><uax:ByteString>QUJD</uax:ByteString></Value>
  </UAVariable>
</UANodeSet>`
	space := mustLoad(t, doc)
	node, _ := space.Get(values.NewNumericNodeId(0, 1))
	if node.Value.Kind != values.KindByteString || string(node.Value.ByteString.Bytes) != "ABC" {
		t.Fatalf("Value = %+v, want ByteString(ABC)", node.Value)
	}
}

func TestByteStringDecodeFailurePropagatesByDefault(t *testing.T) {
	doc := nsHeader + `
  <UAVariable NodeId="i=1" BrowseName="0:B">
    <Value><uax:ByteString>not*base64!</uax:ByteString></Value>
  </UAVariable>
</UANodeSet>`
	if _, err := LoadNodeSet(strings.NewReader(doc)); err == nil {
		t.Fatal("expected decode failure to propagate without LenientByteStrings")
	}
}

func TestByteStringDecodeFailureIgnoredWhenLenient(t *testing.T) {
	doc := nsHeader + `
  <UAVariable NodeId="i=1" BrowseName="0:B">
    <Value><uax:ByteString>not*base64!</uax:ByteString></Value>
  </UAVariable>
</UANodeSet>`
	space := mustLoad(t, doc, LenientByteStrings())
	node, _ := space.Get(values.NewNumericNodeId(0, 1))
	if node.Value.Kind != values.KindByteString {
		t.Fatalf("Value.Kind = %v, want ByteString", node.Value.Kind)
	}
}

func TestArrayValuePacksIntoArrayVariant(t *testing.T) {
	doc := nsHeader + `
  <UAVariable NodeId="i=1" BrowseName="0:Arr">
    <Value>
      <uax:ListOfInt32>
        <uax:Int32>1</uax:Int32>
        <uax:Int32>2</uax:Int32>
        <uax:Int32>3</uax:Int32>
      </uax:ListOfInt32>
    </Value>
  </UAVariable>
</UANodeSet>`
	space := mustLoad(t, doc)
	node, _ := space.Get(values.NewNumericNodeId(0, 1))
	if !node.Value.IsArray || node.Value.Kind != values.KindInt32 {
		t.Fatalf("Value = %+v, want Int32 array", node.Value)
	}
	if got := node.Value.Int32Arr; len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("Int32Arr = %v, want [1 2 3]", got)
	}
}

func TestNestedArrayIsRejectedNonFatally(t *testing.T) {
	doc := nsHeader + `
  <UAVariable NodeId="i=1" BrowseName="0:Arr">
    <Value>
      <uax:ListOfInt32>
        <uax:ListOfInt32><uax:Int32>9</uax:Int32></uax:ListOfInt32>
        <uax:Int32>1</uax:Int32>
      </uax:ListOfInt32>
    </Value>
  </UAVariable>
</UANodeSet>`
	space := mustLoad(t, doc)
	node, _ := space.Get(values.NewNumericNodeId(0, 1))
	if got := node.Value.Int32Arr; len(got) != 1 || got[0] != 1 {
		t.Fatalf("Int32Arr = %v, want [1] (nested array element skipped)", got)
	}
}

func TestUnsupportedValueTagIsSkippedNonFatally(t *testing.T) {
	doc := nsHeader + `
  <UAVariable NodeId="i=1" BrowseName="0:U">
    <Value><uax:NotARealType>whatever</uax:NotARealType></Value>
  </UAVariable>
</UANodeSet>`
	space := mustLoad(t, doc)
	node, _ := space.Get(values.NewNumericNodeId(0, 1))
	if node.Value.Kind != values.KindBoolean || node.Value.Boolean {
		t.Fatalf("Value = %+v, want untouched null Variant", node.Value)
	}
}

func TestUnknownElementsAreSkippedIncludingNestedSameName(t *testing.T) {
	doc := nsHeader + `
  <Extensions xmlns="urn:somewhere:else">
    <Extensions><Inner/></Extensions>
  </Extensions>
  <UAObject NodeId="i=1" BrowseName="0:X"></UAObject>
</UANodeSet>`
	space := mustLoad(t, doc)
	if space.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (unknown element subtree skipped)", space.Len())
	}
}

func TestMalformedNodeIdAbortsWholeLoad(t *testing.T) {
	doc := nsHeader + `
  <UAObject NodeId="not-a-nodeid" BrowseName="0:X"></UAObject>
</UANodeSet>`
	if _, err := LoadNodeSet(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for malformed NodeId")
	}
}

func TestUnexpectedDataTypeAttributeOnNonVariableIsFatal(t *testing.T) {
	doc := nsHeader + `
  <UAObject NodeId="i=1" BrowseName="0:X" DataType="i=6"></UAObject>
</UANodeSet>`
	if _, err := LoadNodeSet(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for DataType attribute on a UAObject")
	}
}

func TestWrongRootElementIsFatal(t *testing.T) {
	doc := `<NotANodeSet xmlns="http://opcfoundation.org/UA/2011/03/UANodeSet.xsd"></NotANodeSet>`
	if _, err := LoadNodeSet(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for unexpected root element")
	}
}
