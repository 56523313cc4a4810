package catalog

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/edgecatalog/edged/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteStore implements Store with a SQLite backend.
type SQLiteStore struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the catalog database under
// dataDir and ensures the schema exists.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ss := &SQLiteStore{
		db:   db,
		path: dbPath,
	}

	if err := ss.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return ss, nil
}

func (ss *SQLiteStore) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}

	_, err = ss.db.Exec(string(schema))
	return err
}

// Close closes the database connection.
func (ss *SQLiteStore) Close() error {
	return ss.db.Close()
}

// Put inserts or overwrites the record stored under rec.EdgeID.
func (ss *SQLiteStore) Put(rec *model.EdgeRecord) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if rec.EdgeID == "" {
		return ErrInvalidID
	}

	capacityTypes, err := json.Marshal(rec.CapacityTypes)
	if err != nil {
		return fmt.Errorf("encoding capacity types: %w", err)
	}

	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	_, err = ss.db.Exec(`
		INSERT INTO edges (edge_id, edge_type, parent_az, capacity_types, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(edge_id) DO UPDATE SET
			edge_type = excluded.edge_type,
			parent_az = excluded.parent_az,
			capacity_types = excluded.capacity_types,
			updated_at = excluded.updated_at
	`, rec.EdgeID, rec.EdgeType, rec.ParentZoneID, string(capacityTypes), rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting edge record: %w", err)
	}

	return nil
}

// Query returns the records stored under the exact edge id.
func (ss *SQLiteStore) Query(edgeID string) ([]model.EdgeRecord, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	rows, err := ss.db.Query(`
		SELECT edge_id, edge_type, parent_az, capacity_types, updated_at
		FROM edges
		WHERE edge_id = ?
	`, edgeID)
	if err != nil {
		return nil, fmt.Errorf("querying edge record: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Scan returns a page of records ordered by edge id.
func (ss *SQLiteStore) Scan(startAfter string, limit int) ([]model.EdgeRecord, string, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultScanPageSize
	}

	rows, err := ss.db.Query(`
		SELECT edge_id, edge_type, parent_az, capacity_types, updated_at
		FROM edges
		WHERE edge_id > ?
		ORDER BY edge_id
		LIMIT ?
	`, startAfter, limit)
	if err != nil {
		return nil, "", fmt.Errorf("scanning catalog: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, "", err
	}

	// A short page means the scan is exhausted
	next := ""
	if len(records) == limit {
		next = records[len(records)-1].EdgeID
	}

	return records, next, nil
}

func scanRecords(rows *sql.Rows) ([]model.EdgeRecord, error) {
	var records []model.EdgeRecord
	for rows.Next() {
		var rec model.EdgeRecord
		var capacityTypes string
		if err := rows.Scan(&rec.EdgeID, &rec.EdgeType, &rec.ParentZoneID, &capacityTypes, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning edge record: %w", err)
		}
		if err := json.Unmarshal([]byte(capacityTypes), &rec.CapacityTypes); err != nil {
			return nil, fmt.Errorf("decoding capacity types for %s: %w", rec.EdgeID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
