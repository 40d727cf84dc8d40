package values

// DateTime is a OPC UA timestamp: 100ns ticks since 1601-01-01T00:00:00Z,
// the wire representation used throughout the stack instead of time.Time
// so zero-value and arithmetic match the binary encoding directly.
type DateTime int64

// DataValue bundles a Variant with its status and source/server timestamps
// plus picoseconds remainders, as delivered by Read/Subscription services.
type DataValue struct {
	Value             Variant
	Status            StatusCode
	SourceTimestamp   DateTime
	SourcePicoseconds uint16
	ServerTimestamp   DateTime
	ServerPicoseconds uint16
}

// NullDataValue is the zero-value DataValue: a null Variant with Good status.
func NullDataValue() DataValue {
	return DataValue{Value: NullVariant()}
}

// Copy deep-clones the owned Variant.
func (d DataValue) Copy() DataValue {
	cp := d
	cp.Value = d.Value.Copy()
	return cp
}

// Clear clears the owned Variant and returns the null DataValue.
func (d DataValue) Clear() DataValue {
	_ = d.Value.Clear()
	return NullDataValue()
}
