package database

import "context"

// schemaStatements creates the org tables and the upload audit table.
// Statements are idempotent so Migrate can run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS departments (
		id         SERIAL PRIMARY KEY,
		department VARCHAR(100) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id            SERIAL PRIMARY KEY,
		job           VARCHAR(100) NOT NULL,
		department_id INTEGER NOT NULL REFERENCES departments(id),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS hired_employees (
		id            SERIAL PRIMARY KEY,
		name          VARCHAR(100) NOT NULL,
		hired_at      TIMESTAMPTZ NOT NULL,
		department_id INTEGER NOT NULL REFERENCES departments(id),
		job_id        INTEGER NOT NULL REFERENCES jobs(id),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS csv_uploads (
		id         UUID PRIMARY KEY,
		table_key  TEXT NOT NULL,
		file_name  TEXT NOT NULL,
		inserted   INTEGER NOT NULL DEFAULT 0,
		failed     INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_department_id ON jobs(department_id)`,
	`CREATE INDEX IF NOT EXISTS idx_hired_employees_department_id ON hired_employees(department_id)`,
	`CREATE INDEX IF NOT EXISTS idx_hired_employees_job_id ON hired_employees(job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_csv_uploads_table_key ON csv_uploads(table_key)`,
}

// Migrate creates all tables and indexes if they do not exist.
// Run once at startup before serving requests.
func Migrate(ctx context.Context, db DBTX) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
