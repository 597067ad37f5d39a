package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refkit/tablesync/internal/tableconfig"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete every data table named in the deployment configuration",
	RunE:  runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := tableconfig.LoadDeployment(flagConfigFile)
	if err != nil {
		return err
	}

	deployer, err := newDeployer(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range deployer.Cleanup(ctx, cfg) {
		fmt.Printf("%s %s: %s\n", statusIcon(result.Status), result.Name, result.Status)
		if result.Message != "" {
			fmt.Printf("  - %s\n", result.Message)
		}
		if result.Error != "" {
			fmt.Printf("  - Error: %s\n", result.Error)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d tables could not be deleted", failed)
	}
	return nil
}
