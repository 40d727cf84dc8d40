package addrspace

import "github.com/edge-opcua/opcuacore/internal/opcua/values"

// Demo returns a small in-memory address space for the CLI demo tools to
// target when no NodeSet file is configured: a root folder with one
// Variable child holding a Double value, the same shape
// ingopcs_read/write/browse's sample server exposes.
func Demo() *AddressSpace {
	space := New()

	root := &Node{
		NodeClass:   NodeClassObject,
		NodeID:      values.NewNumericNodeId(0, 85), // Objects folder, ns=0;i=85
		BrowseName:  values.NewQualifiedName(0, "Objects"),
		DisplayName: values.NewLocalizedText("", "Objects"),
	}

	temperature := &Node{
		NodeClass:   NodeClassVariable,
		NodeID:      values.NewNumericNodeId(1, 1),
		BrowseName:  values.NewQualifiedName(1, "Temperature"),
		DisplayName: values.NewLocalizedText("", "Temperature"),
		DataType:    values.NewNumericNodeId(0, 11), // Double
		ValueRank:   -1,
		AccessLevel: 3, // CurrentRead | CurrentWrite
		Value:       values.NewDoubleVariant(21.5),
		ValueStatus: values.Good,
	}

	root.References = append(root.References, Reference{
		TypeID:    values.NewNumericNodeId(0, 35), // Organizes
		IsForward: true,
		TargetID:  values.ExpandedNodeId{NodeID: temperature.NodeID},
	})

	space.Append(root)
	space.Append(temperature)
	return space
}
