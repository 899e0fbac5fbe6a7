package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperpolymath/union-policy-parser/pkg/audit"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/merge"
)

// SQLiteConfig configures the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements audit.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database, applies the schema, and verifies the
// schema version.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "audit.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return audit.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return audit.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return audit.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil && err != sql.ErrNoRows {
		return audit.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return audit.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists an audit record.
func (s *SQLiteStorage) Store(ctx context.Context, record *audit.Record) error {
	sources, err := json.Marshal(record.Sources)
	if err != nil {
		return audit.NewStorageError("sqlite", "marshal_sources", err)
	}
	conflicts, err := json.Marshal(record.Conflicts)
	if err != nil {
		return audit.NewStorageError("sqlite", "marshal_conflicts", err)
	}

	const query = `
		INSERT INTO audit_records (
			id, request_id, recorded_time, target, state, failed_state,
			sources, conflicts, leaf_count, error_count, warning_count,
			error, duration_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var failedState, errMsg interface{}
	if record.FailedState != "" {
		failedState = record.FailedState
	}
	if record.Error != "" {
		errMsg = record.Error
	}

	_, err = s.db.ExecContext(ctx, query,
		record.ID, record.RequestID, record.RecordedTime,
		record.Target, record.State, failedState,
		string(sources), string(conflicts),
		record.LeafCount, record.ErrorCount, record.WarningCount,
		errMsg, record.Duration.Nanoseconds(),
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query retrieves records matching the filters, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, query *audit.Query) ([]*audit.Record, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, request_id, recorded_time, target, state, failed_state,
			sources, conflicts, leaf_count, error_count, warning_count,
			error, duration_ns
		FROM audit_records`)

	where, args := buildWhere(query)
	sb.WriteString(where)
	sb.WriteString(" ORDER BY recorded_time DESC")

	if query.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, query.Limit)
		if query.Offset > 0 {
			sb.WriteString(" OFFSET ?")
			args = append(args, query.Offset)
		}
	} else if query.Offset > 0 {
		sb.WriteString(" LIMIT -1 OFFSET ?")
		args = append(args, query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var records []*audit.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, audit.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "query", err)
	}
	return records, nil
}

// Count returns the number of records matching the filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *audit.Query) (int64, error) {
	where, args := buildWhere(query)
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_records"+where, args...).Scan(&count)
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Delete removes records matching the filters.
func (s *SQLiteStorage) Delete(ctx context.Context, query *audit.Query) (int64, error) {
	where, args := buildWhere(query)
	result, err := s.db.ExecContext(ctx, "DELETE FROM audit_records"+where, args...)
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "rows_affected", err)
	}
	return deleted, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func buildWhere(query *audit.Query) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if query.StartTime != nil {
		clauses = append(clauses, "recorded_time >= ?")
		args = append(args, *query.StartTime)
	}
	if query.EndTime != nil {
		clauses = append(clauses, "recorded_time <= ?")
		args = append(args, *query.EndTime)
	}
	if query.Target != "" {
		clauses = append(clauses, "target = ?")
		args = append(args, query.Target)
	}
	if query.State != "" {
		clauses = append(clauses, "state = ?")
		args = append(args, query.State)
	}
	if len(query.IDs) > 0 {
		placeholders := strings.Repeat("?,", len(query.IDs))
		clauses = append(clauses, "id IN ("+placeholders[:len(placeholders)-1]+")")
		for _, id := range query.IDs {
			args = append(args, id)
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanRecord(rows *sql.Rows) (*audit.Record, error) {
	var (
		record      audit.Record
		failedState sql.NullString
		errMsg      sql.NullString
		sources     sql.NullString
		conflicts   sql.NullString
		durationNs  int64
	)

	err := rows.Scan(
		&record.ID, &record.RequestID, &record.RecordedTime,
		&record.Target, &record.State, &failedState,
		&sources, &conflicts,
		&record.LeafCount, &record.ErrorCount, &record.WarningCount,
		&errMsg, &durationNs,
	)
	if err != nil {
		return nil, err
	}

	record.FailedState = failedState.String
	record.Error = errMsg.String
	record.Duration = time.Duration(durationNs)

	if sources.Valid && sources.String != "" {
		if err := json.Unmarshal([]byte(sources.String), &record.Sources); err != nil {
			return nil, fmt.Errorf("unmarshal sources: %w", err)
		}
	}
	if conflicts.Valid && conflicts.String != "" {
		var recs []merge.ConflictRecord
		if err := json.Unmarshal([]byte(conflicts.String), &recs); err != nil {
			return nil, fmt.Errorf("unmarshal conflicts: %w", err)
		}
		record.Conflicts = recs
	}

	return &record, nil
}
