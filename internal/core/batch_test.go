package core

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gadgets is a minimal table used to exercise the insert engines without
// depending on the tables package. Two magic names make Insert fail the
// way PostgreSQL would on constraint violations.
func registerGadgets(t *testing.T) {
	t.Helper()
	Register(TableDefinition{
		Info: TableInfo{Key: "gadgets", Label: "Gadgets"},
		FieldSpecs: []FieldSpec{
			{Name: "id", Type: FieldInt},
			{Name: "name", Type: FieldText, Required: true, MaxLen: 100},
		},
		BuildParams: func(rec Record) (any, error) {
			name, err := AsText(rec["name"])
			if err != nil {
				return nil, err
			}
			return name, nil
		},
		Insert: func(ctx context.Context, dbtx DBTX, params any) error {
			name := params.(string)
			switch name {
			case "orphan":
				return &pgconn.PgError{Code: "23503", ConstraintName: "gadgets_owner_fkey"}
			case "dup":
				return &pgconn.PgError{Code: "23505", ConstraintName: "gadgets_pkey"}
			}
			_, err := dbtx.Exec(ctx, "INSERT INTO gadgets (name) VALUES ($1)", name)
			return err
		},
	})
	t.Cleanup(Clear)
}

func TestBatchInsert_UnknownTable(t *testing.T) {
	svc := &Service{}

	_, err := svc.BatchInsert(context.Background(), "nonexistent", []Record{{"name": "x"}})
	require.ErrorIs(t, err, ErrUnknownTable)
}

func TestBatchInsert_Bounds(t *testing.T) {
	registerGadgets(t)
	svc := &Service{}

	_, err := svc.BatchInsert(context.Background(), "gadgets", nil)
	require.ErrorIs(t, err, ErrBatchEmpty)

	_, err = svc.BatchInsert(context.Background(), "gadgets", []Record{})
	require.ErrorIs(t, err, ErrBatchEmpty)

	oversized := make([]Record, MaxBatchSize+1)
	for i := range oversized {
		oversized[i] = Record{"name": "x"}
	}
	_, err = svc.BatchInsert(context.Background(), "gadgets", oversized)
	require.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestBatchInsert_ValidationFailureReportsRow(t *testing.T) {
	registerGadgets(t)
	svc := &Service{}

	records := []Record{
		{"name": "ok"},
		{"name": "also ok"},
		{"name": ""},
	}

	_, err := svc.BatchInsert(context.Background(), "gadgets", records)
	require.Error(t, err)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 2, batchErr.Row)
	assert.Equal(t, "name", batchErr.Field)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBatchInsert_CommitsOnSuccess(t *testing.T) {
	registerGadgets(t)
	pool := &fakePool{}
	svc := &Service{pool: pool}

	records := []Record{{"name": "bolt"}, {"name": "nut"}, {"name": "washer"}}

	n, err := svc.BatchInsert(context.Background(), "gadgets", records)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.Len(t, pool.txs, 1)
	tx := pool.txs[0]
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.Len(t, tx.statements, 3)
}

func TestBatchInsert_RollsBackOnForeignKeyViolation(t *testing.T) {
	registerGadgets(t)
	pool := &fakePool{}
	svc := &Service{pool: pool}

	records := []Record{{"name": "bolt"}, {"name": "orphan"}, {"name": "nut"}}

	_, err := svc.BatchInsert(context.Background(), "gadgets", records)
	require.Error(t, err)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Row)
	assert.ErrorIs(t, err, ErrForeignKey)

	// Nothing committed; the whole batch rolled back.
	require.Len(t, pool.txs, 1)
	tx := pool.txs[0]
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
	assert.Len(t, tx.statements, 1)
}

func TestBatchInsert_RollsBackOnDuplicateKey(t *testing.T) {
	registerGadgets(t)
	pool := &fakePool{}
	svc := &Service{pool: pool}

	records := []Record{{"name": "dup"}}

	_, err := svc.BatchInsert(context.Background(), "gadgets", records)
	require.ErrorIs(t, err, ErrDuplicateKey)

	require.Len(t, pool.txs, 1)
	assert.True(t, pool.txs[0].rolledBack)
}

func TestBatchInsert_BeginError(t *testing.T) {
	registerGadgets(t)
	pool := &fakePool{beginErr: errors.New("pool exhausted")}
	svc := &Service{pool: pool}

	_, err := svc.BatchInsert(context.Background(), "gadgets", []Record{{"name": "bolt"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
}

func TestBatchError_Error(t *testing.T) {
	withField := &BatchError{Row: 3, Field: "department_id", Err: errors.New("must be an integer")}
	assert.Equal(t, `row 3, field "department_id": must be an integer`, withField.Error())

	noField := &BatchError{Row: 0, Err: errors.New("boom")}
	assert.Equal(t, "row 0: boom", noField.Error())
}

func TestBatchError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &BatchError{Row: 1, Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestClassifyInsertError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "jobs_department_id_fkey"}
	err := classifyInsertError(fk)
	assert.ErrorIs(t, err, ErrForeignKey)
	assert.Contains(t, err.Error(), "jobs_department_id_fkey")

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "departments_pkey"}
	err = classifyInsertError(dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	other := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(other), classifyInsertError(other))

	plain := errors.New("not a pg error")
	assert.Equal(t, plain, classifyInsertError(plain))
}
