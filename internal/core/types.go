// Package core implements batch validation and insertion for the org
// tables. It has no HTTP dependencies; the web layer delegates to it.
package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Batch size bounds for a single batch-insert call.
const (
	MinBatchSize = 1
	MaxBatchSize = 1000
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Record is a raw input record: field name to value. Values come either
// from decoded JSON (numbers arrive as float64) or from CSV cells (strings).
type Record map[string]any

// FieldType represents the expected data type for a record field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInt
	FieldTimestamp
)

// FieldSpec defines validation rules for a single field.
type FieldSpec struct {
	Name     string    // Field name in records and CSV headers
	Type     FieldType // Expected data type
	Required bool      // Field must be present and non-empty
	MaxLen   int       // Maximum string length for FieldText (0 = unlimited)
}

// TableInfo describes a target table.
type TableInfo struct {
	Key     string   // Table name used in requests: "departments"
	Label   string   // Display name: "Departments"
	Columns []string // Canonical column order for CSV layout detection
}

// HeaderIndex maps column names (lowercase) to their position in a CSV row.
type HeaderIndex map[string]int

// BuildParamsFunc converts a validated record into insert parameters.
type BuildParamsFunc func(rec Record) (any, error)

// InsertFunc inserts a row into the database.
type InsertFunc func(ctx context.Context, db DBTX, params any) error

// TableDefinition contains everything needed to validate and insert
// records for one table.
type TableDefinition struct {
	Info        TableInfo
	FieldSpecs  []FieldSpec
	BuildParams BuildParamsFunc
	Insert      InsertFunc
}

// FailedRow describes a CSV row that was not inserted.
type FailedRow struct {
	LineNumber int    `json:"line"`
	Reason     string `json:"reason"`
}

// UploadResult is the outcome of one CSV upload.
type UploadResult struct {
	UploadID   string        `json:"uploadId"`
	TableKey   string        `json:"tableKey"`
	FileName   string        `json:"fileName"`
	TotalRows  int           `json:"totalRows"`
	Inserted   int           `json:"inserted"`
	Failed     int           `json:"failed"`
	FailedRows []FailedRow   `json:"failedRows,omitempty"`
	Duration   time.Duration `json:"-"`
}
