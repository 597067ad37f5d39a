// Package pipeline orchestrates deployment runs: for every configured data
// table it ensures the table and its attributes exist, then synchronizes the
// configured values through the sync engine. Tables are processed
// independently; one table failing never aborts the run.
package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/refkit/tablesync/internal/tableconfig"
	"github.com/refkit/tablesync/sync"
	"github.com/refkit/tablesync/tableapi"
)

// Table statuses reported in results.
const (
	StatusCreated = "created"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusDeleted = "deleted"
)

// AttributeResult records the outcome for one attribute definition.
type AttributeResult struct {
	Name   string
	Status string
	Error  string
}

// TableResult records the outcome for one data table.
type TableResult struct {
	Name       string
	TableID    string
	Status     string
	Message    string
	Error      string
	Attributes []AttributeResult
	Values     *sync.Report
}

// RunResult is the aggregate outcome of one deployment run.
type RunResult struct {
	RunID  string
	Tables []TableResult
}

// Deployer drives deployment runs against one tableapi service.
type Deployer struct {
	service tableapi.Service
	cfgDir  string
	log     zerolog.Logger
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithLogger sets the deployer's logger. The default discards all output.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Deployer) { d.log = log }
}

// NewDeployer creates a Deployer reading per-table configuration files from
// cfgDir.
func NewDeployer(service tableapi.Service, cfgDir string, opts ...Option) *Deployer {
	d := &Deployer{
		service: service,
		cfgDir:  cfgDir,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deploy processes every table in the deployment configuration and returns
// per-table results.
func (d *Deployer) Deploy(ctx context.Context, cfg *tableconfig.DeploymentConfig) *RunResult {
	run := &RunResult{RunID: uuid.NewString()}
	log := d.log.With().Str("run_id", run.RunID).Logger()
	log.Info().Int("tables", len(cfg.DataTables)).Msg("starting deployment run")

	for _, table := range cfg.DataTables {
		run.Tables = append(run.Tables, d.deployTable(ctx, log, table))
	}

	return run
}

func (d *Deployer) deployTable(ctx context.Context, log zerolog.Logger, cfg tableconfig.TableConfig) TableResult {
	log = log.With().Str("table", cfg.Name).Logger()

	result := TableResult{Name: cfg.Name}

	table, err := d.service.FindTable(ctx, cfg.Name)
	switch {
	case err == nil:
		result.TableID = table.ID
		result.Status = StatusSkipped
		result.Message = "data table already exists"
		log.Info().Str("table_id", table.ID).Msg("data table already exists")

	case errors.Is(err, tableapi.ErrTableNotFound):
		created, createErr := d.service.CreateTable(ctx, tableapi.Table{
			Name:           cfg.Name,
			Description:    cfg.Description,
			TimeZone:       cfg.TimeZone,
			ValueLockLevel: cfg.ValueLockLevel,
			Tags:           cfg.Tags,
		})
		if createErr != nil {
			log.Error().Err(createErr).Msg("data table creation failed")
			result.Status = StatusFailed
			result.Error = createErr.Error()
			return result
		}
		result.TableID = created.ID
		result.Status = StatusCreated
		log.Info().Str("table_id", created.ID).Msg("data table created")

	default:
		log.Error().Err(err).Msg("data table lookup failed")
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}

	attrsFile, err := tableconfig.LoadAttributes(d.cfgDir, cfg.Name)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	if attrsFile == nil {
		log.Info().Msg("no attributes configuration found")
		return result
	}
	result.Attributes = d.ensureAttributes(ctx, log, result.TableID, attrsFile.Attributes)

	valuesFile, err := tableconfig.LoadValues(d.cfgDir, cfg.Name)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	if valuesFile == nil {
		log.Info().Msg("no values configuration found")
		return result
	}

	engine := sync.New(d.service, sync.WithLogger(log))
	report, err := engine.Sync(ctx, result.TableID, valuesFile.Values, attrsFile.Attributes)
	if err != nil {
		log.Error().Err(err).Msg("value sync failed")
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	result.Values = report

	return result
}

// ensureAttributes creates the attributes a table is missing, skipping ones
// that already exist.
func (d *Deployer) ensureAttributes(ctx context.Context, log zerolog.Logger, tableID string, defs []tableapi.AttributeDefinition) []AttributeResult {
	existing := make(map[string]bool)
	if current, err := d.service.ListAttributes(ctx, tableID); err == nil {
		for _, def := range current {
			existing[def.Name] = true
		}
	} else {
		log.Warn().Err(err).Msg("listing attributes failed; attempting creation for all")
	}

	results := make([]AttributeResult, 0, len(defs))
	for _, def := range defs {
		if existing[def.Name] {
			results = append(results, AttributeResult{Name: def.Name, Status: StatusSkipped})
			continue
		}

		err := d.service.CreateAttribute(ctx, tableID, def)
		switch {
		case errors.Is(err, tableapi.ErrAttributeExists):
			results = append(results, AttributeResult{Name: def.Name, Status: StatusSkipped})
		case err != nil:
			log.Error().Err(err).Str("attribute", def.Name).Msg("attribute creation failed")
			results = append(results, AttributeResult{Name: def.Name, Status: StatusFailed, Error: err.Error()})
		default:
			log.Info().Str("attribute", def.Name).Msg("attribute created")
			results = append(results, AttributeResult{Name: def.Name, Status: StatusCreated})
		}
	}

	return results
}
