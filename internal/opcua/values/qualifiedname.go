package values

import (
	"fmt"
	"strconv"
	"strings"
)

// QualifiedName is a namespace-scoped name (browse names, and the like).
type QualifiedName struct {
	NamespaceIndex uint16
	Name           String
}

// NewQualifiedName builds a QualifiedName from a Go string.
func NewQualifiedName(ns uint16, name string) QualifiedName {
	return QualifiedName{NamespaceIndex: ns, Name: StringFromGoString(name)}
}

// Copy deep-clones the owned Name storage.
func (q QualifiedName) Copy() QualifiedName {
	return QualifiedName{NamespaceIndex: q.NamespaceIndex, Name: q.Name.Copy()}
}

// Clear returns the zero QualifiedName (namespace 0, null name).
func (QualifiedName) Clear() QualifiedName { return QualifiedName{Name: NullString()} }

// Equal compares namespace index and name using String_Equal semantics.
func (q QualifiedName) Equal(o QualifiedName) bool {
	return q.NamespaceIndex == o.NamespaceIndex && Equal(q.Name, o.Name)
}

// ParseQualifiedName parses the textual BrowseName form "[nsIdx:]Name" (the
// namespace index prefix is optional and defaults to 0).
func ParseQualifiedName(s string) (QualifiedName, error) {
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return NewQualifiedName(0, s), nil
	}
	ns, err := strconv.ParseUint(s[:colon], 10, 16)
	if err != nil {
		return QualifiedName{}, fmt.Errorf("qualified name %q: bad namespace index: %w", s, err)
	}
	return NewQualifiedName(uint16(ns), s[colon+1:]), nil
}

// LocalizedText is a locale-tagged human-readable text value. Either field
// may independently be null.
type LocalizedText struct {
	Locale String
	Text   String
}

// NewLocalizedText builds a LocalizedText from Go strings.
func NewLocalizedText(locale, text string) LocalizedText {
	return LocalizedText{Locale: StringFromGoString(locale), Text: StringFromGoString(text)}
}

// Copy deep-clones both owned String fields.
func (l LocalizedText) Copy() LocalizedText {
	return LocalizedText{Locale: l.Locale.Copy(), Text: l.Text.Copy()}
}

// Clear returns the zero LocalizedText (both fields null).
func (LocalizedText) Clear() LocalizedText {
	return LocalizedText{Locale: NullString(), Text: NullString()}
}

// Equal compares both fields using String_Equal semantics.
func (l LocalizedText) Equal(o LocalizedText) bool {
	return Equal(l.Locale, o.Locale) && Equal(l.Text, o.Text)
}
