package values

import "testing"

func TestDiagnosticInfoRecursiveClear(t *testing.T) {
	leaf := NullDiagnosticInfo()
	leaf.AdditionalInfo = StringFromGoString("leaf")
	mid := NullDiagnosticInfo()
	mid.AdditionalInfo = StringFromGoString("mid")
	mid.InnerDiagnosticInfo = &leaf

	cleared := mid.Clear()
	if cleared.SymbolicID != -1 || cleared.InnerDiagnosticInfo != nil {
		t.Fatalf("Clear must return the null representation, got %+v", cleared)
	}
}

func TestDiagnosticInfoCopyIndependence(t *testing.T) {
	leaf := NullDiagnosticInfo()
	leaf.AdditionalInfo = StringFromGoString("leaf")
	root := NullDiagnosticInfo()
	root.InnerDiagnosticInfo = &leaf

	cp := root.Copy()
	cp.InnerDiagnosticInfo.AdditionalInfo.Bytes[0] = 'L'
	if root.InnerDiagnosticInfo.AdditionalInfo.String() != "leaf" {
		t.Fatal("copy mutation leaked into source chain")
	}
}
