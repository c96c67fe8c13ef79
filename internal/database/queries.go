package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Insert statements accept an optional explicit id. Source files carry
// their own ids; when the id is absent the serial sequence assigns one.

const insertDepartment = `
INSERT INTO departments (id, department)
VALUES (COALESCE($1, nextval(pg_get_serial_sequence('departments', 'id'))::int), $2)
`

// InsertDepartmentParams holds the values for a single department row.
type InsertDepartmentParams struct {
	ID         pgtype.Int4
	Department string
}

func (q *Queries) InsertDepartment(ctx context.Context, arg InsertDepartmentParams) error {
	_, err := q.db.Exec(ctx, insertDepartment, arg.ID, arg.Department)
	return err
}

const insertJob = `
INSERT INTO jobs (id, job, department_id)
VALUES (COALESCE($1, nextval(pg_get_serial_sequence('jobs', 'id'))::int), $2, $3)
`

// InsertJobParams holds the values for a single job row.
type InsertJobParams struct {
	ID           pgtype.Int4
	Job          string
	DepartmentID int32
}

func (q *Queries) InsertJob(ctx context.Context, arg InsertJobParams) error {
	_, err := q.db.Exec(ctx, insertJob, arg.ID, arg.Job, arg.DepartmentID)
	return err
}

const insertHiredEmployee = `
INSERT INTO hired_employees (id, name, hired_at, department_id, job_id)
VALUES (COALESCE($1, nextval(pg_get_serial_sequence('hired_employees', 'id'))::int), $2, $3, $4, $5)
`

// InsertHiredEmployeeParams holds the values for a single hired employee row.
type InsertHiredEmployeeParams struct {
	ID           pgtype.Int4
	Name         string
	HiredAt      pgtype.Timestamptz
	DepartmentID int32
	JobID        int32
}

func (q *Queries) InsertHiredEmployee(ctx context.Context, arg InsertHiredEmployeeParams) error {
	_, err := q.db.Exec(ctx, insertHiredEmployee, arg.ID, arg.Name, arg.HiredAt, arg.DepartmentID, arg.JobID)
	return err
}

const insertCsvUpload = `
INSERT INTO csv_uploads (id, table_key, file_name, inserted, failed)
VALUES ($1, $2, $3, $4, $5)
`

// InsertCsvUploadParams records a completed CSV upload for the audit history.
type InsertCsvUploadParams struct {
	ID       pgtype.UUID
	TableKey string
	FileName string
	Inserted int32
	Failed   int32
}

func (q *Queries) InsertCsvUpload(ctx context.Context, arg InsertCsvUploadParams) error {
	_, err := q.db.Exec(ctx, insertCsvUpload, arg.ID, arg.TableKey, arg.FileName, arg.Inserted, arg.Failed)
	return err
}

const listCsvUploads = `
SELECT id, table_key, file_name, inserted, failed, created_at
FROM csv_uploads
WHERE $1 = '' OR table_key = $1
ORDER BY created_at DESC
LIMIT 100
`

// CsvUpload is one row of the upload audit history.
type CsvUpload struct {
	ID        pgtype.UUID
	TableKey  string
	FileName  string
	Inserted  int32
	Failed    int32
	CreatedAt time.Time
}

// ListCsvUploads returns the most recent uploads, optionally filtered by
// table key. An empty tableKey returns uploads for all tables.
func (q *Queries) ListCsvUploads(ctx context.Context, tableKey string) ([]CsvUpload, error) {
	rows, err := q.db.Query(ctx, listCsvUploads, tableKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []CsvUpload
	for rows.Next() {
		var u CsvUpload
		if err := rows.Scan(&u.ID, &u.TableKey, &u.FileName, &u.Inserted, &u.Failed, &u.CreatedAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}
