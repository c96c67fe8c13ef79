package tables_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgstack/migration-api/internal/core"
	_ "github.com/orgstack/migration-api/internal/core/tables"
	db "github.com/orgstack/migration-api/internal/database"
)

func TestOrgTablesRegistered(t *testing.T) {
	for _, key := range []string{"departments", "jobs", "hired_employees"} {
		def, ok := core.Get(key)
		require.True(t, ok, "table %s not registered", key)
		assert.Equal(t, key, def.Info.Key)
		assert.NotNil(t, def.BuildParams)
		assert.NotNil(t, def.Insert)
	}

	// Legacy clients say "employees".
	def, ok := core.Get("employees")
	require.True(t, ok)
	assert.Equal(t, "hired_employees", def.Info.Key)
}

func TestDepartmentColumns(t *testing.T) {
	def, ok := core.Get("departments")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "department"}, def.Info.Columns)
}

func TestDepartmentBuildParams(t *testing.T) {
	def, _ := core.Get("departments")

	p, err := def.BuildParams(core.Record{"id": float64(12), "department": "Engineering"})
	require.NoError(t, err)

	params, ok := p.(db.InsertDepartmentParams)
	require.True(t, ok)
	assert.True(t, params.ID.Valid)
	assert.Equal(t, int32(12), params.ID.Int32)
	assert.Equal(t, "Engineering", params.Department)
}

func TestDepartmentBuildParams_AbsentID(t *testing.T) {
	def, _ := core.Get("departments")

	p, err := def.BuildParams(core.Record{"department": "Sales"})
	require.NoError(t, err)

	params := p.(db.InsertDepartmentParams)
	assert.False(t, params.ID.Valid)
}

func TestDepartmentBuildParams_Errors(t *testing.T) {
	def, _ := core.Get("departments")

	_, err := def.BuildParams(core.Record{"id": "abc", "department": "Sales"})
	assert.Error(t, err)

	_, err = def.BuildParams(core.Record{"department": ""})
	assert.Error(t, err)
}

func TestJobBuildParams(t *testing.T) {
	def, ok := core.Get("jobs")
	require.True(t, ok)

	p, err := def.BuildParams(core.Record{
		"id":            "3",
		"job":           "Data Engineer",
		"department_id": float64(7),
	})
	require.NoError(t, err)

	params := p.(db.InsertJobParams)
	assert.Equal(t, int32(3), params.ID.Int32)
	assert.Equal(t, "Data Engineer", params.Job)
	assert.Equal(t, int32(7), params.DepartmentID)
}

func TestHiredEmployeeBuildParams(t *testing.T) {
	def, ok := core.Get("hired_employees")
	require.True(t, ok)

	p, err := def.BuildParams(core.Record{
		"id":            float64(4535),
		"name":          "Marcelo Spinelli",
		"datetime":      "2021-07-27T16:02:08Z",
		"department_id": float64(1),
		"job_id":        float64(2),
	})
	require.NoError(t, err)

	params := p.(db.InsertHiredEmployeeParams)
	assert.Equal(t, int32(4535), params.ID.Int32)
	assert.Equal(t, "Marcelo Spinelli", params.Name)
	require.True(t, params.HiredAt.Valid)
	assert.Equal(t, 2021, params.HiredAt.Time.Year())
	assert.Equal(t, int32(1), params.DepartmentID)
	assert.Equal(t, int32(2), params.JobID)
}

func TestHiredEmployeeBuildParams_BadTimestamp(t *testing.T) {
	def, _ := core.Get("hired_employees")

	_, err := def.BuildParams(core.Record{
		"name":          "X",
		"datetime":      "not a date",
		"department_id": float64(1),
		"job_id":        float64(1),
	})
	assert.Error(t, err)
}
