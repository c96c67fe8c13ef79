package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// employeeDef mirrors the hired_employees field specs without depending
// on the tables package (which would be an import cycle from here).
var employeeDef = TableDefinition{
	Info: TableInfo{Key: "hired_employees"},
	FieldSpecs: []FieldSpec{
		{Name: "id", Type: FieldInt},
		{Name: "name", Type: FieldText, Required: true, MaxLen: 100},
		{Name: "datetime", Type: FieldTimestamp, Required: true},
		{Name: "department_id", Type: FieldInt, Required: true},
		{Name: "job_id", Type: FieldInt, Required: true},
	},
}

func validEmployee() Record {
	return Record{
		"id":            float64(4535),
		"name":          "Marcelo Spinelli",
		"datetime":      "2021-07-27T16:02:08Z",
		"department_id": float64(1),
		"job_id":        float64(2),
	}
}

func TestValidateRecord_Valid(t *testing.T) {
	require.Nil(t, ValidateRecord(validEmployee(), employeeDef))
}

func TestValidateRecord_OptionalIDAbsent(t *testing.T) {
	rec := validEmployee()
	delete(rec, "id")
	require.Nil(t, ValidateRecord(rec, employeeDef))
}

func TestValidateRecord_Errors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(Record)
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing required name",
			mutate:    func(r Record) { delete(r, "name") },
			wantField: "name",
			wantMsg:   "required field",
		},
		{
			name:      "nil required field",
			mutate:    func(r Record) { r["department_id"] = nil },
			wantField: "department_id",
			wantMsg:   "required field",
		},
		{
			name:      "empty string name",
			mutate:    func(r Record) { r["name"] = "   " },
			wantField: "name",
			wantMsg:   "required field",
		},
		{
			name:      "fractional foreign key",
			mutate:    func(r Record) { r["job_id"] = 1.7 },
			wantField: "job_id",
			wantMsg:   "must be an integer",
		},
		{
			name:      "string foreign key non-numeric",
			mutate:    func(r Record) { r["department_id"] = "engineering" },
			wantField: "department_id",
			wantMsg:   "must be an integer",
		},
		{
			name:      "bad timestamp",
			mutate:    func(r Record) { r["datetime"] = "yesterday" },
			wantField: "datetime",
			wantMsg:   "invalid timestamp",
		},
		{
			name:      "name too long",
			mutate:    func(r Record) { r["name"] = strings.Repeat("x", 101) },
			wantField: "name",
			wantMsg:   "exceeds maximum length",
		},
		{
			name:      "non-string name",
			mutate:    func(r Record) { r["name"] = 123.0 },
			wantField: "name",
			wantMsg:   "must be a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validEmployee()
			tt.mutate(rec)

			verr := ValidateRecord(rec, employeeDef)
			require.NotNil(t, verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Contains(t, verr.Message, tt.wantMsg)
		})
	}
}

func TestValidateRecord_IgnoresUnknownFields(t *testing.T) {
	rec := validEmployee()
	rec["extra"] = "whatever"
	require.Nil(t, ValidateRecord(rec, employeeDef))
}

func TestValidateRecord_NameAtMaxLength(t *testing.T) {
	rec := validEmployee()
	rec["name"] = strings.Repeat("x", 100)
	require.Nil(t, ValidateRecord(rec, employeeDef))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "job", Message: "must be a non-empty string"}
	assert.Equal(t, `field "job": must be a non-empty string`, err.Error())

	bare := &ValidationError{Message: "broken"}
	assert.Equal(t, "broken", bare.Error())
}
