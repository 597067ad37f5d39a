// Package lambdahandler exposes the deployment pipeline as an AWS Lambda
// handler.
package lambdahandler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/refkit/tablesync/internal/tableconfig"
	"github.com/refkit/tablesync/pipeline"
)

// Handler runs deployment events through a pipeline.Deployer.
type Handler struct {
	deployer *pipeline.Deployer
	log      zerolog.Logger
}

// New creates a Lambda handler around the given deployer.
func New(deployer *pipeline.Deployer, log zerolog.Logger) *Handler {
	return &Handler{
		deployer: deployer,
		log:      log,
	}
}

// HandleDeploy runs one deployment. The event is the deployment
// configuration itself; an empty event falls back to the built-in default
// configuration. This function is designed to be used as an AWS Lambda
// handler.
func (h *Handler) HandleDeploy(ctx context.Context, event json.RawMessage) (*pipeline.RunResult, error) {
	cfg := tableconfig.Default()
	if len(event) > 0 && string(event) != "null" && string(event) != "{}" {
		cfg = &tableconfig.DeploymentConfig{}
		if err := json.Unmarshal(event, cfg); err != nil {
			return nil, fmt.Errorf("parse deployment event: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	h.log.Info().Int("tables", len(cfg.DataTables)).Msg("deployment event received")
	result := h.deployer.Deploy(ctx, cfg)

	for _, table := range result.Tables {
		if table.Status == pipeline.StatusFailed {
			h.log.Error().
				Str("table", table.Name).
				Str("error", table.Error).
				Msg("table deployment failed")
		}
	}

	return result, nil
}
