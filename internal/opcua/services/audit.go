package services

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// AuditStore records AddNodes/Write operations and session activations to
// a SQLite database, adapted from internal/storage/sqlite.go's
// schema-init-then-exec pattern.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore opens (creating if absent) the audit database at dbPath.
func NewAuditStore(dbPath string) (*AuditStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	store := &AuditStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *AuditStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS add_nodes_audit (
		node_id TEXT NOT NULL,
		browse_name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS write_audit (
		node_id TEXT NOT NULL,
		status_code TEXT NOT NULL,
		written_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS session_activations (
		session_id TEXT NOT NULL,
		activated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_write_audit_node ON write_audit(node_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

// RecordAddNode appends an AddNodes audit row.
func (s *AuditStore) RecordAddNode(id values.NodeId, browseName values.QualifiedName) error {
	_, err := s.db.Exec(`INSERT INTO add_nodes_audit (node_id, browse_name) VALUES (?, ?)`,
		id.ToCString(), browseName.Name.String())
	if err != nil {
		return fmt.Errorf("record add-node audit: %w", err)
	}
	return nil
}

// RecordWrite appends a Write audit row.
func (s *AuditStore) RecordWrite(id values.NodeId, sc values.StatusCode) error {
	_, err := s.db.Exec(`INSERT INTO write_audit (node_id, status_code) VALUES (?, ?)`,
		id.ToCString(), sc.String())
	if err != nil {
		return fmt.Errorf("record write audit: %w", err)
	}
	return nil
}

// RecordSessionActivation appends a session-activation audit row, keyed by
// the session's internal id.
func (s *AuditStore) RecordSessionActivation(sessionID string) error {
	_, err := s.db.Exec(`INSERT INTO session_activations (session_id) VALUES (?)`, sessionID)
	if err != nil {
		return fmt.Errorf("record session activation: %w", err)
	}
	return nil
}

// RecentWrites returns the most recent write-audit rows for nodeID, newest
// first, for introspection (e.g. the ops HTTP surface).
func (s *AuditStore) RecentWrites(nodeID values.NodeId, limit int) ([]WriteAuditEntry, error) {
	rows, err := s.db.Query(
		`SELECT status_code, written_at FROM write_audit WHERE node_id = ? ORDER BY written_at DESC LIMIT ?`,
		nodeID.ToCString(), limit)
	if err != nil {
		return nil, fmt.Errorf("query write audit: %w", err)
	}
	defer rows.Close()

	var out []WriteAuditEntry
	for rows.Next() {
		var e WriteAuditEntry
		var ts time.Time
		if err := rows.Scan(&e.StatusCode, &ts); err != nil {
			continue
		}
		e.WrittenAt = ts
		out = append(out, e)
	}
	return out, nil
}

// WriteAuditEntry is one row of RecentWrites' result.
type WriteAuditEntry struct {
	StatusCode string
	WrittenAt  time.Time
}

// Close closes the underlying database handle.
func (s *AuditStore) Close() error { return s.db.Close() }
