package pipeline

import (
	"context"
	"errors"

	"github.com/refkit/tablesync/internal/tableconfig"
	"github.com/refkit/tablesync/tableapi"
)

// CleanupResult records the outcome of deleting one data table.
type CleanupResult struct {
	Name    string
	TableID string
	Status  string
	Message string
	Error   string
}

// Cleanup deletes every data table named in the deployment configuration.
// Intended for test environments and full resets.
func (d *Deployer) Cleanup(ctx context.Context, cfg *tableconfig.DeploymentConfig) []CleanupResult {
	results := make([]CleanupResult, 0, len(cfg.DataTables))

	for _, tableCfg := range cfg.DataTables {
		result := CleanupResult{Name: tableCfg.Name}

		table, err := d.service.FindTable(ctx, tableCfg.Name)
		if errors.Is(err, tableapi.ErrTableNotFound) {
			result.Status = StatusSkipped
			result.Message = "data table does not exist"
			results = append(results, result)
			continue
		}
		if err != nil {
			result.Status = StatusFailed
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.TableID = table.ID
		if err := d.service.DeleteTable(ctx, table.ID); err != nil {
			result.Status = StatusFailed
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		d.log.Info().Str("table", table.Name).Str("table_id", table.ID).Msg("data table deleted")
		result.Status = StatusDeleted
		results = append(results, result)
	}

	return results
}
