package services

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

func newTestAuditStore(t *testing.T) *AuditStore {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "audit-*.db")
	require.NoError(t, err)
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := NewAuditStore(tmpFile.Name())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAuditStoreRecordsWrites(t *testing.T) {
	store := newTestAuditStore(t)
	id := values.NewNumericNodeId(1, 42)

	require.NoError(t, store.RecordWrite(id, values.Good))
	require.NoError(t, store.RecordWrite(id, values.BadInvalidArgument))

	entries, err := store.RecentWrites(id, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "BadInvalidArgument", entries[0].StatusCode) // newest first
}

func TestAuditStoreRecordsAddNode(t *testing.T) {
	store := newTestAuditStore(t)
	err := store.RecordAddNode(values.NewNumericNodeId(1, 7), values.NewQualifiedName(1, "Sensor"))
	require.NoError(t, err)
}

func TestAuditStoreRecordsSessionActivation(t *testing.T) {
	store := newTestAuditStore(t)
	require.NoError(t, store.RecordSessionActivation("session-1"))
}
