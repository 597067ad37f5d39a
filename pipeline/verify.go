package pipeline

import (
	"context"

	"github.com/refkit/tablesync/internal/tableconfig"
	"github.com/refkit/tablesync/tableapi"
)

// VerifyTable is the observed state of one deployed data table.
type VerifyTable struct {
	Name        string
	TableID     string
	Error       string
	Attributes  []tableapi.AttributeDefinition
	PrimaryKeys []string
	ValueCount  int
	Sample      []tableapi.RowValue
}

// sampleValues caps how many cells Verify fetches per table.
const sampleValues = 5

// Verify inspects every configured table against the service and reports its
// attributes, primary keys, and a sample of stored values.
func (d *Deployer) Verify(ctx context.Context, cfg *tableconfig.DeploymentConfig) []VerifyTable {
	results := make([]VerifyTable, 0, len(cfg.DataTables))

	for _, tableCfg := range cfg.DataTables {
		result := VerifyTable{Name: tableCfg.Name}

		table, err := d.service.FindTable(ctx, tableCfg.Name)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.TableID = table.ID

		attrs, err := d.service.ListAttributes(ctx, table.ID)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.Attributes = attrs
		for _, def := range attrs {
			if def.Primary {
				result.PrimaryKeys = append(result.PrimaryKeys, def.Name)
			}
		}

		values, err := d.service.ListValues(ctx, table.ID, 0)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.ValueCount = len(values)
		if len(values) > sampleValues {
			values = values[:sampleValues]
		}
		result.Sample = values

		results = append(results, result)
	}

	return results
}
