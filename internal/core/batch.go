package core

// batch.go implements the transactional batch insert engine.
//
// A batch is all-or-nothing: every record is validated up front, then all
// rows are inserted in a single transaction. The first failure of any kind
// rolls back the whole batch and reports the offending row (and field,
// when validation caught it). Constraint violations from PostgreSQL are
// mapped to distinct sentinel errors so callers can tell a missing foreign
// key from a duplicate primary key.

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by BatchInsert. Use errors.Is to classify.
var (
	ErrBatchEmpty    = errors.New("batch is empty")
	ErrBatchTooLarge = fmt.Errorf("batch exceeds %d records", MaxBatchSize)
	ErrUnknownTable  = errors.New("unknown table")
	ErrForeignKey    = errors.New("referenced record does not exist")
	ErrDuplicateKey  = errors.New("duplicate key")
)

// BatchError reports which row of a batch failed and why.
type BatchError struct {
	Row   int    // Zero-based index into the submitted batch
	Field string // Offending field, when validation identified one
	Err   error
}

func (e *BatchError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d, field %q: %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// BatchInsert validates and inserts records into the named table within a
// single transaction. On success it returns the number of rows inserted.
// On any failure zero rows are committed and the returned error carries
// the failing row index via *BatchError where applicable.
func (s *Service) BatchInsert(ctx context.Context, tableKey string, records []Record) (int, error) {
	def, ok := Get(tableKey)
	if !ok {
		return 0, ErrUnknownTable
	}

	if len(records) < MinBatchSize {
		return 0, ErrBatchEmpty
	}
	if len(records) > MaxBatchSize {
		return 0, ErrBatchTooLarge
	}

	// Validate every record before touching the database.
	params := make([]any, 0, len(records))
	for i, rec := range records {
		if verr := ValidateRecord(rec, def); verr != nil {
			return 0, &BatchError{Row: i, Field: verr.Field, Err: verr}
		}
		p, err := def.BuildParams(rec)
		if err != nil {
			return 0, &BatchError{Row: i, Err: err}
		}
		params = append(params, p)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, p := range params {
		if err := def.Insert(ctx, tx, p); err != nil {
			return 0, &BatchError{Row: i, Err: classifyInsertError(err)}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return len(params), nil
}

// PostgreSQL error codes for constraint violations.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// classifyInsertError maps PostgreSQL constraint violations onto the
// package sentinels; other errors pass through unchanged.
func classifyInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrForeignKey, pgErr.ConstraintName)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
		}
	}
	return err
}
