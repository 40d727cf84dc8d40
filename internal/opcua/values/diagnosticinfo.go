package values

// DiagnosticInfo carries indices into a separately-transmitted string table
// plus a nested status code, optionally chained to further diagnostic
// detail via InnerDiagnosticInfo. Index fields are -1 when absent.
type DiagnosticInfo struct {
	SymbolicID          int32
	NamespaceURI        int32
	Locale              int32
	LocalizedText       int32
	AdditionalInfo      String
	InnerStatusCode     StatusCode
	InnerDiagnosticInfo *DiagnosticInfo
}

// NullDiagnosticInfo is the zero/absent representation: every index is -1.
func NullDiagnosticInfo() DiagnosticInfo {
	return DiagnosticInfo{SymbolicID: -1, NamespaceURI: -1, Locale: -1, LocalizedText: -1, AdditionalInfo: NullString()}
}

// Copy deep-clones the owned AdditionalInfo string and recursively copies
// any chained InnerDiagnosticInfo.
func (d DiagnosticInfo) Copy() DiagnosticInfo {
	cp := d
	cp.AdditionalInfo = d.AdditionalInfo.Copy()
	if d.InnerDiagnosticInfo != nil {
		inner := d.InnerDiagnosticInfo.Copy()
		cp.InnerDiagnosticInfo = &inner
	}
	return cp
}

// Clear recursively tears down any chained InnerDiagnosticInfo and returns
// the null representation.
func (d DiagnosticInfo) Clear() DiagnosticInfo {
	if d.InnerDiagnosticInfo != nil {
		_ = d.InnerDiagnosticInfo.Clear()
	}
	return NullDiagnosticInfo()
}
