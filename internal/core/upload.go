package core

// upload.go implements the CSV ingestion adapter.
//
// An uploaded file is matched against the target table's known column
// layout (with or without a header row, with or without the id column),
// converted to records, and inserted in fixed-size chunks so a large file
// never runs in one giant transaction. Within a chunk each row gets its
// own savepoint: a bad row is rolled back and reported while the rest of
// the chunk commits. The caller receives aggregate inserted/failed counts
// plus per-row failure detail.

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/orgstack/migration-api/internal/database"
	"github.com/orgstack/migration-api/internal/logging"
)

// Format errors returned by ProcessCSV before any insert is attempted.
var (
	ErrEmptyFile  = errors.New("empty file")
	ErrBadLayout  = errors.New("unrecognized csv layout")
	ErrInvalidCSV = errors.New("invalid csv")
)

// csvRow pairs a converted record with its line number in the source file.
type csvRow struct {
	line int
	rec  Record
}

// ProcessCSV parses, validates, and inserts a CSV file into the named
// table. Format problems (unknown table, unparseable file, layout
// mismatch) return an error with no rows written. Row-level failures do
// not abort the upload; they are counted and detailed in the result.
func (s *Service) ProcessCSV(ctx context.Context, tableKey, fileName string, data []byte) (*UploadResult, error) {
	def, ok := Get(tableKey)
	if !ok {
		return nil, ErrUnknownTable
	}

	start := time.Now()

	data = stripBOM(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	data = sanitizeUTF8(data)
	records, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	cols, dataStart, err := detectLayout(records, def)
	if err != nil {
		return nil, err
	}

	// Convert data rows to records, skipping blank lines.
	var rows []csvRow
	for i, row := range records[dataStart:] {
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, csvRow{
			line: dataStart + i + 1, // 1-indexed line in the file
			rec:  rowToRecord(row, cols),
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrEmptyFile)
	}

	uploadID := uuid.New()
	result := &UploadResult{
		UploadID: uploadID.String(),
		TableKey: def.Info.Key,
		FileName: fileName,
	}

	// Insert in bounded chunks so transaction size stays capped.
	chunkSize := MaxBatchSize
	if s.cfg != nil && s.cfg.Upload.BatchSize > 0 {
		chunkSize = s.cfg.Upload.BatchSize
	}

	for len(rows) > 0 {
		n := chunkSize
		if n > len(rows) {
			n = len(rows)
		}
		chunk := rows[:n]
		rows = rows[n:]

		inserted, failed, err := s.insertChunk(ctx, def, chunk)
		if err != nil {
			return nil, err
		}
		result.Inserted += inserted
		result.FailedRows = append(result.FailedRows, failed...)
	}

	result.TotalRows = result.Inserted + len(result.FailedRows)
	result.Failed = len(result.FailedRows)
	result.Duration = time.Since(start)

	// Audit record. Failure to record does not fail the upload.
	auditErr := db.New(s.pool).InsertCsvUpload(ctx, db.InsertCsvUploadParams{
		ID:       pgtype.UUID{Bytes: uploadID, Valid: true},
		TableKey: def.Info.Key,
		FileName: fileName,
		Inserted: int32(result.Inserted),
		Failed:   int32(result.Failed),
	})
	if auditErr != nil {
		logging.FromContext(ctx).Warn("failed to record upload history",
			"upload_id", result.UploadID,
			"table", def.Info.Key,
			"error", auditErr,
		)
	}

	return result, nil
}

// insertChunk inserts one chunk of rows inside a single transaction,
// using a savepoint per row so failed rows are skipped without losing the
// rest of the chunk. Infrastructure failures abort the whole upload.
func (s *Service) insertChunk(ctx context.Context, def TableDefinition, chunk []csvRow) (int, []FailedRow, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted int
	var failed []FailedRow

	for i, row := range chunk {
		if verr := ValidateRecord(row.rec, def); verr != nil {
			failed = append(failed, FailedRow{LineNumber: row.line, Reason: verr.Error()})
			continue
		}

		params, err := def.BuildParams(row.rec)
		if err != nil {
			failed = append(failed, FailedRow{LineNumber: row.line, Reason: err.Error()})
			continue
		}

		sp := fmt.Sprintf("sp_%d", i)
		if _, err := tx.Exec(ctx, "SAVEPOINT "+sp); err != nil {
			return 0, nil, fmt.Errorf("create savepoint: %w", err)
		}

		if err := def.Insert(ctx, tx, params); err != nil {
			if _, rbErr := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+sp); rbErr != nil {
				return 0, nil, fmt.Errorf("rollback savepoint: %w", rbErr)
			}
			failed = append(failed, FailedRow{
				LineNumber: row.line,
				Reason:     classifyInsertError(err).Error(),
			})
			continue
		}

		if _, err := tx.Exec(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
			return 0, nil, fmt.Errorf("release savepoint: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, fmt.Errorf("commit: %w", err)
	}

	return inserted, failed, nil
}

// detectLayout determines the column layout of a parsed CSV file for the
// target table. It accepts four variants: a header row matching the
// canonical columns or the id-less columns, and headerless files whose
// column count matches either shape. Returns the effective column names
// and the index of the first data row.
func detectLayout(records [][]string, def TableDefinition) ([]string, int, error) {
	if len(records) == 0 {
		return nil, 0, ErrEmptyFile
	}

	full := def.Info.Columns
	noID := def.Info.Columns
	if len(full) > 0 && strings.EqualFold(full[0], "id") {
		noID = full[1:]
	}

	first := records[0]
	if equalHeaders(first, full) {
		return full, 1, nil
	}
	if equalHeaders(first, noID) {
		return noID, 1, nil
	}

	// Headerless: match on column count.
	switch len(first) {
	case len(full):
		return full, 0, nil
	case len(noID):
		return noID, 0, nil
	}

	return nil, 0, fmt.Errorf("%w: expected columns %v for table %s",
		ErrBadLayout, full, def.Info.Key)
}

// rowToRecord maps positional CSV cells onto column names.
// Short rows leave trailing fields absent; validation reports them.
func rowToRecord(row []string, cols []string) Record {
	rec := make(Record, len(cols))
	for i, col := range cols {
		if i >= len(row) {
			break
		}
		rec[col] = CleanCell(row[i])
	}
	return rec
}

// equalHeaders reports whether a CSV row matches the expected column
// names exactly (case-insensitive, after cell cleanup).
func equalHeaders(row []string, expected []string) bool {
	if len(row) != len(expected) {
		return false
	}
	for i := range expected {
		if !strings.EqualFold(CleanCell(row[i]), expected[i]) {
			return false
		}
	}
	return true
}

// isEmptyRow reports whether every cell in the row is blank.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// utf8BOM is the byte order mark Windows tools (Excel in particular)
// prepend when exporting CSV as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// stripBOM removes a leading UTF-8 byte order mark so the header row
// matches column names byte-for-byte.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode
// replacement character so the CSV reader never chokes on encoding.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// parseCSV parses the full file. Ragged rows are tolerated here; layout
// and row validation decide what to do with them.
func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}
