package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refkit/tablesync/internal/tableconfig"
	"github.com/refkit/tablesync/pipeline"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Create configured tables and attributes, then sync their values",
	RunE:  runDeploy,
}

func runDeploy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := tableconfig.LoadDeployment(flagConfigFile)
	if err != nil {
		return err
	}

	deployer, err := newDeployer(ctx)
	if err != nil {
		return err
	}

	result := deployer.Deploy(ctx, cfg)

	fmt.Println("Deployment Results:")
	fmt.Println("==================================================")
	failed := 0
	for _, table := range result.Tables {
		fmt.Printf("%s %s: %s\n", statusIcon(table.Status), table.Name, table.Status)
		if table.Message != "" {
			fmt.Printf("  - %s\n", table.Message)
		}
		if table.Error != "" {
			fmt.Printf("  - Error: %s\n", table.Error)
			failed++
		}
		for _, attr := range table.Attributes {
			if attr.Status == pipeline.StatusFailed {
				fmt.Printf("  - Attribute %s failed: %s\n", attr.Name, attr.Error)
			}
		}
		if report := table.Values; report != nil {
			fmt.Printf("  - Values: %d updated, %d created, %d failed, %d total\n",
				report.Updated, report.Created, report.Failed, report.Total)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d tables failed", failed, len(result.Tables))
	}
	return nil
}

func statusIcon(status string) string {
	switch status {
	case pipeline.StatusCreated, pipeline.StatusDeleted:
		return "[OK]"
	case pipeline.StatusSkipped:
		return "[SKIP]"
	default:
		return "[FAIL]"
	}
}
