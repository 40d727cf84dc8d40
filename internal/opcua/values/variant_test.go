package values

import "testing"

func TestVariantNullIsZeroValue(t *testing.T) {
	if !NullVariant().IsNull() {
		t.Fatal("NullVariant should report IsNull")
	}
	if !(Variant{}).IsNull() {
		t.Fatal("zero-value Variant should report IsNull")
	}
}

func TestVariantScalarCopyIndependence(t *testing.T) {
	v := NewStringVariant(StringFromGoString("hello"))
	cp := v.Copy()
	cp.String.Bytes[0] = 'H'
	if v.String.String() != "hello" {
		t.Fatalf("copy mutation leaked into source: %q", v.String.String())
	}
}

func TestVariantClearOnNullIsNoop(t *testing.T) {
	v := NullVariant()
	cleared := v.Clear()
	if !cleared.IsNull() {
		t.Fatal("clearing a null variant must still yield null")
	}
}

func TestVariantArrayCopyIndependence(t *testing.T) {
	v := NewInt32ArrayVariant([]int32{1, 2, 3})
	cp := v.Copy()
	cp.Int32Arr[0] = 99
	if v.Int32Arr[0] != 1 {
		t.Fatalf("array copy mutation leaked into source: %v", v.Int32Arr)
	}
}

func TestVariantMatrixShapeValidation(t *testing.T) {
	if _, err := NewInt32MatrixVariant([]int32{2, 3}, []int32{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatalf("valid matrix rejected: %v", err)
	}
	if _, err := NewInt32MatrixVariant([]int32{2, 3}, []int32{1, 2, 3}); err == nil {
		t.Fatal("mismatched matrix dimensions should fail")
	}
}

func TestVariantNestedArrayOfVariants(t *testing.T) {
	inner := []Variant{NewInt32Variant(1), NewStringVariant(StringFromGoString("x"))}
	v := Variant{Kind: KindVariant, IsArray: true, VariantArr: inner}
	cp := v.Copy()
	cp.VariantArr[1].String.Bytes[0] = 'y'
	if v.VariantArr[1].String.String() != "x" {
		t.Fatalf("nested variant copy leaked into source: %q", v.VariantArr[1].String.String())
	}
}

func TestVariantExtensionObjectCopyIndependence(t *testing.T) {
	eo := ExtensionObject{
		TypeID:   NewNumericNodeId(0, 100),
		Encoding: ExtensionEncodingByteString,
		ByteBody: StringFromBytes([]byte{1, 2, 3}),
	}
	v := Variant{Kind: KindExtensionObject, ExtensionObject: eo}
	cp := v.Copy()
	cp.ExtensionObject.ByteBody.Bytes[0] = 9
	if v.ExtensionObject.ByteBody.Bytes[0] != 1 {
		t.Fatal("extension object copy mutation leaked into source")
	}
}
