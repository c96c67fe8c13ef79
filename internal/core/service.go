package core

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/orgstack/migration-api/internal/config"
	db "github.com/orgstack/migration-api/internal/database"
)

// Pool is the subset of *pgxpool.Pool the service uses: plain statements
// plus transactions. Tests substitute an in-memory implementation.
type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Service coordinates validation and insertion against the database.
type Service struct {
	pool Pool
	cfg  *config.Config
}

// NewService creates a Service backed by the given connection pool.
func NewService(pool Pool, cfg *config.Config) *Service {
	return &Service{pool: pool, cfg: cfg}
}

// UploadHistory returns the most recent CSV uploads, optionally filtered
// by table key. Unknown table keys return an error before hitting the
// database.
func (s *Service) UploadHistory(ctx context.Context, tableKey string) ([]db.CsvUpload, error) {
	if tableKey != "" {
		def, ok := Get(tableKey)
		if !ok {
			return nil, ErrUnknownTable
		}
		tableKey = def.Info.Key
	}
	return db.New(s.pool).ListCsvUploads(ctx, tableKey)
}
