// Package tableconfig loads the declarative configuration a deployment run
// works from: the deployment file naming the data tables, plus per-table
// attribute and value files.
//
// Layout under the configuration directory:
//
//	data_tables_config.json|yaml
//	attributes/<table>.json
//	attribute_values/<table>.json
//
// Missing per-table files mean the corresponding step is skipped; malformed
// files are errors and abort before any remote call.
package tableconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/refkit/tablesync/tableapi"
)

// ErrInvalidTableName is returned for table names that could escape the
// configuration directory.
var ErrInvalidTableName = errors.New("tableconfig: invalid table name")

// TableConfig declares one data table to deploy.
type TableConfig struct {
	Name           string            `json:"name" yaml:"name"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
	TimeZone       string            `json:"timeZone,omitempty" yaml:"timeZone,omitempty"`
	ValueLockLevel string            `json:"valueLockLevel,omitempty" yaml:"valueLockLevel,omitempty"`
	Tags           map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// DeploymentConfig is the root deployment file.
type DeploymentConfig struct {
	InstanceARN string        `json:"instanceARN" yaml:"instanceARN"`
	DataTables  []TableConfig `json:"dataTables" yaml:"dataTables"`
}

// AttributesFile holds the attribute definitions of one table.
type AttributesFile struct {
	Attributes []tableapi.AttributeDefinition `json:"attributes"`
}

// ValuesFile holds the row specifications of one table.
type ValuesFile struct {
	Values []tableapi.RowSpec `json:"values"`
}

// LoadDeployment reads the deployment file at path, decoding YAML or JSON by
// extension.
func LoadDeployment(path string) (*DeploymentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deployment config: %w", err)
	}

	var cfg DeploymentConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse deployment config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse deployment config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural requirements of a deployment
// configuration.
func (c *DeploymentConfig) Validate() error {
	if c.InstanceARN == "" {
		return errors.New("tableconfig: instanceARN is required")
	}
	if len(c.DataTables) == 0 {
		return errors.New("tableconfig: at least one data table is required")
	}
	for _, table := range c.DataTables {
		if err := checkTableName(table.Name); err != nil {
			return err
		}
	}
	return nil
}

// LoadAttributes reads attributes/<table>.json from dir. A missing file
// returns (nil, nil).
func LoadAttributes(dir, table string) (*AttributesFile, error) {
	var file AttributesFile
	found, err := loadTableFile(dir, "attributes", table, &file)
	if err != nil || !found {
		return nil, err
	}
	return &file, nil
}

// LoadValues reads attribute_values/<table>.json from dir. A missing file
// returns (nil, nil).
func LoadValues(dir, table string) (*ValuesFile, error) {
	var file ValuesFile
	found, err := loadTableFile(dir, "attribute_values", table, &file)
	if err != nil || !found {
		return nil, err
	}
	return &file, nil
}

func loadTableFile(dir, subdir, table string, out any) (bool, error) {
	if err := checkTableName(table); err != nil {
		return false, err
	}

	path := filepath.Join(dir, subdir, table+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// checkTableName rejects names that would resolve to paths outside the
// configuration directory.
func checkTableName(name string) error {
	if name == "" ||
		strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, name)
	}
	return nil
}

// Default returns the fallback deployment configuration used when a Lambda
// event carries no config of its own.
func Default() *DeploymentConfig {
	return &DeploymentConfig{
		InstanceARN: "arn:aws:connect:us-east-1:123456789012:instance/12345678-1234-1234-1234-123456789012",
		DataTables: []TableConfig{
			{
				Name:           "CustomerTypes",
				Description:    "Customer type lookup table",
				TimeZone:       "US/Eastern",
				ValueLockLevel: "NONE",
				Tags:           map[string]string{"Environment": "Production"},
			},
		},
	}
}
