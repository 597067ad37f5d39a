package tableconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refkit/tablesync/tableapi"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDeployment_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data_tables_config.json")
	writeFile(t, path, `{
		"instanceARN": "arn:aws:connect:ca-central-1:123456789012:instance/abc",
		"dataTables": [
			{"name": "CustomerTypes", "description": "lookup", "timeZone": "US/Eastern",
			 "valueLockLevel": "DATA_TABLE", "tags": {"Environment": "Production"}}
		]
	}`)

	cfg, err := LoadDeployment(path)
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:connect:ca-central-1:123456789012:instance/abc", cfg.InstanceARN)
	require.Len(t, cfg.DataTables, 1)
	assert.Equal(t, "CustomerTypes", cfg.DataTables[0].Name)
	assert.Equal(t, "DATA_TABLE", cfg.DataTables[0].ValueLockLevel)
	assert.Equal(t, "Production", cfg.DataTables[0].Tags["Environment"])
}

func TestLoadDeployment_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data_tables_config.yaml")
	writeFile(t, path, `
instanceARN: arn:aws:connect:ca-central-1:123456789012:instance/abc
dataTables:
  - name: CustomerTypes
    timeZone: US/Eastern
`)

	cfg, err := LoadDeployment(path)
	require.NoError(t, err)
	assert.Equal(t, "US/Eastern", cfg.DataTables[0].TimeZone)
}

func TestLoadDeployment_Invalid(t *testing.T) {
	dir := t.TempDir()

	malformed := filepath.Join(dir, "bad.json")
	writeFile(t, malformed, `{"instanceARN": `)
	_, err := LoadDeployment(malformed)
	assert.Error(t, err)

	missingARN := filepath.Join(dir, "noarn.json")
	writeFile(t, missingARN, `{"dataTables": [{"name": "T"}]}`)
	_, err = LoadDeployment(missingARN)
	assert.ErrorContains(t, err, "instanceARN")

	noTables := filepath.Join(dir, "notables.json")
	writeFile(t, noTables, `{"instanceARN": "arn:x"}`)
	_, err = LoadDeployment(noTables)
	assert.ErrorContains(t, err, "data table")

	badName := filepath.Join(dir, "badname.json")
	writeFile(t, badName, `{"instanceARN": "arn:x", "dataTables": [{"name": "../escape"}]}`)
	_, err = LoadDeployment(badName)
	assert.ErrorIs(t, err, ErrInvalidTableName)

	_, err = LoadDeployment(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestLoadAttributes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "attributes", "CustomerTypes.json"), `{
		"attributes": [
			{"name": "customerId", "valueType": "TEXT", "primary": true},
			{"name": "scores", "valueType": "NUMBER_LIST",
			 "validation": {"minValues": 1, "maxValues": 10}}
		]
	}`)

	file, err := LoadAttributes(dir, "CustomerTypes")
	require.NoError(t, err)
	require.NotNil(t, file)
	require.Len(t, file.Attributes, 2)
	assert.True(t, file.Attributes[0].Primary)
	assert.Equal(t, tableapi.ValueTypeNumberList, file.Attributes[1].ValueType)
	require.NotNil(t, file.Attributes[1].Validation)
	assert.Equal(t, 10, *file.Attributes[1].Validation.MaxValues)
}

func TestLoadAttributes_MissingFileIsSkipped(t *testing.T) {
	file, err := LoadAttributes(t.TempDir(), "Absent")
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestLoadValues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "attribute_values", "CustomerTypes.json"), `{
		"values": [
			{"primaryValues": [{"attributeName": "customerId", "value": "c-1"}],
			 "attributes": [
				{"attributeName": "tier", "value": "gold"},
				{"attributeName": "limit", "value": 250}
			 ]}
		]
	}`)

	file, err := LoadValues(dir, "CustomerTypes")
	require.NoError(t, err)
	require.NotNil(t, file)
	require.Len(t, file.Values, 1)
	assert.Equal(t, "c-1", file.Values[0].PrimaryValues[0].Value)
	assert.Equal(t, float64(250), file.Values[0].Attributes[1].Value)
}

func TestLoadValues_RejectsTraversal(t *testing.T) {
	tests := []string{"../escape", "a/b", `a\b`, ""}
	for _, name := range tests {
		_, err := LoadValues(t.TempDir(), name)
		assert.ErrorIs(t, err, ErrInvalidTableName, "name %q", name)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.DataTables)
}
