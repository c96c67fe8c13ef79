package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orgstack/migration-api/internal/core"
	"github.com/orgstack/migration-api/internal/logging"
)

// handleHealth reports static liveness. It deliberately touches nothing,
// so it answers even when the database is down.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// batchInsertRequest is the JSON body for POST /batch-insert.
type batchInsertRequest struct {
	Data []core.Record `json:"data"`
}

// batchInsertResponse is the success body for POST /batch-insert.
type batchInsertResponse struct {
	Message         string `json:"message"`
	RecordsInserted int    `json:"records_inserted"`
}

// handleBatchInsert inserts a JSON batch of 1-1000 records into the
// table named by the "table" query parameter. The batch is atomic:
// any failure rolls it back and returns the offending row.
func (s *Server) handleBatchInsert(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		respondError(w, r, fmt.Errorf("unknown table: missing table parameter"), http.StatusBadRequest)
		return
	}

	var req batchInsertRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Request body must be JSON with a data array",
			Action: `Send {"data": [{...}, ...]} with 1-1000 records`,
			Code:   "REQ001",
		})
		return
	}

	inserted, err := s.service.BatchInsert(r.Context(), table, req.Data)
	if err != nil {
		respondError(w, r, err, batchErrorStatus(err))
		return
	}

	logging.FromContext(r.Context()).Info("batch inserted",
		"table", table,
		"records", inserted,
	)

	writeJSON(w, batchInsertResponse{
		Message:         fmt.Sprintf("Successfully inserted %d records into %s", inserted, table),
		RecordsInserted: inserted,
	})
}

// batchErrorStatus maps a BatchInsert error to an HTTP status code:
// ill-formed requests get 400, row-level failures get 422, anything
// unexpected is a server error.
func batchErrorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrUnknownTable),
		errors.Is(err, core.ErrBatchEmpty),
		errors.Is(err, core.ErrBatchTooLarge):
		return http.StatusBadRequest
	}

	var batchErr *core.BatchError
	if errors.As(err, &batchErr) {
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

// uploadCSVResponse is the success body for POST /upload-csv.
type uploadCSVResponse struct {
	Message         string          `json:"message"`
	UploadID        string          `json:"upload_id"`
	RecordsInserted int             `json:"records_inserted"`
	RecordsFailed   int             `json:"records_failed"`
	FailedRows      []core.FailedRow `json:"failed_rows,omitempty"`
}

// handleUploadCSV ingests a multipart CSV upload into the table named by
// the "table" query parameter. Format problems reject the whole file;
// row-level failures are skipped and reported in the counts.
func (s *Server) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		respondError(w, r, fmt.Errorf("unknown table: missing table parameter"), http.StatusBadRequest)
		return
	}

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondError(w, r, fmt.Errorf("invalid csv upload form: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		respondError(w, r, fmt.Errorf("%w: file must have a .csv extension", core.ErrInvalidCSV), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, fmt.Errorf("read upload: %w", err), http.StatusInternalServerError)
		return
	}

	result, err := s.service.ProcessCSV(r.Context(), table, header.Filename, data)
	if err != nil {
		respondError(w, r, err, uploadErrorStatus(err))
		return
	}

	logging.FromContext(r.Context()).Info("csv uploaded",
		"table", result.TableKey,
		"file", result.FileName,
		"inserted", result.Inserted,
		"failed", result.Failed,
		"duration_ms", result.Duration.Milliseconds(),
	)

	writeJSON(w, uploadCSVResponse{
		Message: fmt.Sprintf("Processed %d rows into %s: %d inserted, %d failed",
			result.TotalRows, result.TableKey, result.Inserted, result.Failed),
		UploadID:        result.UploadID,
		RecordsInserted: result.Inserted,
		RecordsFailed:   result.Failed,
		FailedRows:      result.FailedRows,
	})
}

// uploadErrorStatus maps a ProcessCSV error to an HTTP status code.
// Format errors are the client's fault; the rest are server errors.
func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrUnknownTable),
		errors.Is(err, core.ErrEmptyFile),
		errors.Is(err, core.ErrBadLayout),
		errors.Is(err, core.ErrInvalidCSV):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// uploadHistoryEntry is one row of GET /uploads.
type uploadHistoryEntry struct {
	ID        string `json:"id"`
	Table     string `json:"table"`
	FileName  string `json:"file_name"`
	Inserted  int32  `json:"inserted"`
	Failed    int32  `json:"failed"`
	CreatedAt string `json:"created_at"`
}

// handleUploadHistory lists recent CSV uploads, newest first, optionally
// filtered by the "table" query parameter.
func (s *Server) handleUploadHistory(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")

	uploads, err := s.service.UploadHistory(r.Context(), table)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrUnknownTable) {
			status = http.StatusBadRequest
		}
		respondError(w, r, err, status)
		return
	}

	entries := make([]uploadHistoryEntry, 0, len(uploads))
	for _, u := range uploads {
		entries = append(entries, uploadHistoryEntry{
			ID:        uuid.UUID(u.ID.Bytes).String(),
			Table:     u.TableKey,
			FileName:  u.FileName,
			Inserted:  u.Inserted,
			Failed:    u.Failed,
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, map[string]any{"uploads": entries})
}
