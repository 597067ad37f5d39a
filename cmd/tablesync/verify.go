package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refkit/tablesync/internal/tableconfig"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Inspect deployed tables, attributes, and sample values",
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := tableconfig.LoadDeployment(flagConfigFile)
	if err != nil {
		return err
	}

	deployer, err := newDeployer(ctx)
	if err != nil {
		return err
	}

	for _, table := range deployer.Verify(ctx, cfg) {
		fmt.Printf("Table %s", table.Name)
		if table.TableID != "" {
			fmt.Printf(" (%s)", table.TableID)
		}
		fmt.Println()

		if table.Error != "" {
			fmt.Printf("   Error: %s\n", table.Error)
			continue
		}

		fmt.Printf("   Attributes (%d):\n", len(table.Attributes))
		for _, attr := range table.Attributes {
			marker := ""
			if attr.Primary {
				marker = " [PRIMARY]"
			}
			fmt.Printf("      - %s (%s)%s\n", attr.Name, attr.ValueType, marker)
		}
		fmt.Printf("   Primary Keys: %s\n", strings.Join(table.PrimaryKeys, ", "))

		fmt.Printf("   Values: %d found (showing first %d)\n", table.ValueCount, len(table.Sample))
		for i, value := range table.Sample {
			fmt.Printf("      %d: %s = %s\n", i+1, value.AttributeName, value.Value)
		}
	}

	return nil
}
