package values

// String is the OPC UA length-prefixed string/byte-string representation.
// Null (Length == -1) is preserved distinctly from empty (Length == 0):
// Bytes is nil in both cases, so Length is the only thing that
// distinguishes them. ByteString and XmlElement share this exact shape
// (spec §3.1: "ByteString (as String)", "XmlElement (as String)").
type String struct {
	Length int32 // -1 = null
	Bytes  []byte
}

// ByteString is a type alias for String: the wire/value shape is identical.
type ByteString = String

// XmlElement is a type alias for String: the wire/value shape is identical.
type XmlElement = String

// NullString is the zero/null representation.
func NullString() String { return String{Length: -1} }

// EmptyString is the (non-null) zero-length representation.
func EmptyString() String { return String{Length: 0, Bytes: []byte{}} }

// StringFromBytes builds a non-null String from b, copying it so the
// result owns independent storage.
func StringFromBytes(b []byte) String {
	if b == nil {
		return EmptyString()
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return String{Length: int32(len(cp)), Bytes: cp}
}

// StringFromGoString builds a non-null String from a Go string. Mirrors
// the original's String_CopyFromCString, but accepts any length (including
// zero) since Go strings are not null-terminated and have no special empty
// encoding to special-case.
func StringFromGoString(s string) String {
	return StringFromBytes([]byte(s))
}

// IsNull reports whether the string is the null representation.
func (s String) IsNull() bool { return s.Length < 0 }

// String implements fmt.Stringer, returning "" for both null and empty.
func (s String) String() string {
	if s.Length <= 0 {
		return ""
	}
	return string(s.Bytes)
}

// Copy deep-clones the string, so mutating or clearing the result never
// affects the source.
func (s String) Copy() String {
	if s.IsNull() {
		return NullString()
	}
	cp := make([]byte, len(s.Bytes))
	copy(cp, s.Bytes)
	return String{Length: s.Length, Bytes: cp}
}

// Clear returns the null representation. Strings are value types in Go;
// "clearing" a String means replacing the caller's variable with the
// result of Clear rather than mutating shared storage.
func (String) Clear() String { return NullString() }

// Equal implements String_Equal: two null strings are NOT equal to two
// empty strings, and length must match before byte content is compared.
func Equal(a, b String) bool {
	if a.IsNull() != b.IsNull() {
		return false
	}
	if a.IsNull() {
		return true // both null
	}
	if a.Length != b.Length {
		return false
	}
	for i := range a.Bytes {
		if a.Bytes[i] != b.Bytes[i] {
			return false
		}
	}
	return true
}
