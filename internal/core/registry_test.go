package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDef(key string) TableDefinition {
	return TableDefinition{
		Info: TableInfo{Key: key},
		FieldSpecs: []FieldSpec{
			{Name: "id", Type: FieldInt},
			{Name: "value", Type: FieldText, Required: true},
		},
	}
}

func TestRegisterAndGet(t *testing.T) {
	t.Cleanup(Clear)

	Register(testDef("alpha"))
	Register(testDef("beta"))

	def, ok := Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", def.Info.Key)

	_, ok = Get("gamma")
	assert.False(t, ok)
}

func TestRegister_PopulatesColumnsFromFieldSpecs(t *testing.T) {
	t.Cleanup(Clear)

	Register(testDef("alpha"))

	def, ok := Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "value"}, def.Info.Columns)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	t.Cleanup(Clear)

	Register(testDef("alpha"))
	assert.Panics(t, func() { Register(testDef("alpha")) })
}

func TestGet_EmployeesAlias(t *testing.T) {
	t.Cleanup(Clear)

	Register(testDef("hired_employees"))

	def, ok := Get("employees")
	require.True(t, ok)
	assert.Equal(t, "hired_employees", def.Info.Key)
}

func TestKeysAndAll_Sorted(t *testing.T) {
	t.Cleanup(Clear)

	Register(testDef("zebra"))
	Register(testDef("apple"))
	Register(testDef("mango"))

	assert.Equal(t, []string{"apple", "mango", "zebra"}, Keys())
	assert.Equal(t, 3, TableCount())

	all := All()
	require.Len(t, all, 3)
	assert.Equal(t, "apple", all[0].Info.Key)
	assert.Equal(t, "zebra", all[2].Info.Key)
}
