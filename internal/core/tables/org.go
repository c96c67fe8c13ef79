// Package tables registers the organizational tables with the core
// registry. Import for side effects:
//
//	import _ "github.com/orgstack/migration-api/internal/core/tables"
package tables

import (
	"context"

	"github.com/orgstack/migration-api/internal/core"
	db "github.com/orgstack/migration-api/internal/database"
)

func init() {
	registerDepartments()
	registerJobs()
	registerHiredEmployees()
}

func registerDepartments() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "departments",
			Label: "Departments",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "id", Type: core.FieldInt},
			{Name: "department", Type: core.FieldText, Required: true, MaxLen: 100},
		},
		BuildParams: func(rec core.Record) (any, error) {
			id, err := core.AsInt4(rec["id"])
			if err != nil {
				return nil, err
			}
			name, err := core.AsText(rec["department"])
			if err != nil {
				return nil, err
			}
			return db.InsertDepartmentParams{
				ID:         id,
				Department: name,
			}, nil
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, params any) error {
			return db.New(dbtx).InsertDepartment(ctx, params.(db.InsertDepartmentParams))
		},
	})
}

func registerJobs() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "jobs",
			Label: "Jobs",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "id", Type: core.FieldInt},
			{Name: "job", Type: core.FieldText, Required: true, MaxLen: 100},
			{Name: "department_id", Type: core.FieldInt, Required: true},
		},
		BuildParams: func(rec core.Record) (any, error) {
			id, err := core.AsInt4(rec["id"])
			if err != nil {
				return nil, err
			}
			title, err := core.AsText(rec["job"])
			if err != nil {
				return nil, err
			}
			deptID, err := core.AsInt4(rec["department_id"])
			if err != nil {
				return nil, err
			}
			return db.InsertJobParams{
				ID:           id,
				Job:          title,
				DepartmentID: deptID.Int32,
			}, nil
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, params any) error {
			return db.New(dbtx).InsertJob(ctx, params.(db.InsertJobParams))
		},
	})
}

func registerHiredEmployees() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "hired_employees",
			Label: "Hired Employees",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "id", Type: core.FieldInt},
			{Name: "name", Type: core.FieldText, Required: true, MaxLen: 100},
			{Name: "datetime", Type: core.FieldTimestamp, Required: true},
			{Name: "department_id", Type: core.FieldInt, Required: true},
			{Name: "job_id", Type: core.FieldInt, Required: true},
		},
		BuildParams: func(rec core.Record) (any, error) {
			id, err := core.AsInt4(rec["id"])
			if err != nil {
				return nil, err
			}
			name, err := core.AsText(rec["name"])
			if err != nil {
				return nil, err
			}
			hiredAt, err := core.AsTimestamp(rec["datetime"])
			if err != nil {
				return nil, err
			}
			deptID, err := core.AsInt4(rec["department_id"])
			if err != nil {
				return nil, err
			}
			jobID, err := core.AsInt4(rec["job_id"])
			if err != nil {
				return nil, err
			}
			return db.InsertHiredEmployeeParams{
				ID:           id,
				Name:         name,
				HiredAt:      hiredAt,
				DepartmentID: deptID.Int32,
				JobID:        jobID.Int32,
			}, nil
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, params any) error {
			return db.New(dbtx).InsertHiredEmployee(ctx, params.(db.InsertHiredEmployeeParams))
		},
	})
}
