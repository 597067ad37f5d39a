package main

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/refkit/tablesync/dynamo"
	"github.com/refkit/tablesync/pipeline"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

// envConfig holds settings read from the environment. Flags override these.
type envConfig struct {
	MetaTable   string `env:"TABLESYNC_META_TABLE" envDefault:"tablesync_meta"`
	ValuesTable string `env:"TABLESYNC_VALUES_TABLE" envDefault:"tablesync_values"`
	ConfigDir   string `env:"TABLESYNC_CONFIG_DIR" envDefault:"config"`
	ConfigFile  string `env:"TABLESYNC_CONFIG_FILE" envDefault:"config/data_tables_config.json"`
	LogLevel    string `env:"TABLESYNC_LOG_LEVEL" envDefault:"info"`
}

var (
	flagMetaTable   string
	flagValuesTable string
	flagConfigDir   string
	flagConfigFile  string
	flagLogLevel    string
)

var rootCmd = &cobra.Command{
	Use:     "tablesync",
	Short:   "Synchronize declarative reference data into lock-versioned data tables",
	Version: Version,
}

func init() {
	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment configuration: %v\n", err)
		os.Exit(1)
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagMetaTable, "meta-table", cfg.MetaTable, "DynamoDB table holding data-table and attribute records")
	pf.StringVar(&flagValuesTable, "values-table", cfg.ValuesTable, "DynamoDB table holding stored cells")
	pf.StringVar(&flagConfigDir, "config-dir", cfg.ConfigDir, "Directory with attributes/ and attribute_values/ files")
	pf.StringVar(&flagConfigFile, "config", cfg.ConfigFile, "Deployment configuration file (JSON or YAML)")
	pf.StringVar(&flagLogLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(deployCmd, verifyCmd, cleanupCmd)
}

// newDeployer wires the AWS client, store, and logger for a command run.
func newDeployer(ctx context.Context) (*pipeline.Deployer, error) {
	level, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS configuration: %w", err)
	}

	store := dynamo.New(dynamodb.NewFromConfig(awsCfg), dynamo.Config{
		MetaTable:   flagMetaTable,
		ValuesTable: flagValuesTable,
	})

	return pipeline.NewDeployer(store, flagConfigDir, pipeline.WithLogger(log)), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
