package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/refkit/tablesync/dynamo"
	"github.com/refkit/tablesync/lambdahandler"
	"github.com/refkit/tablesync/pipeline"
)

type envConfig struct {
	MetaTable   string `env:"TABLESYNC_META_TABLE" envDefault:"tablesync_meta"`
	ValuesTable string `env:"TABLESYNC_VALUES_TABLE" envDefault:"tablesync_values"`
	ConfigDir   string `env:"TABLESYNC_CONFIG_DIR" envDefault:"config"`
}

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid environment configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load AWS configuration")
	}

	store := dynamo.New(dynamodb.NewFromConfig(awsCfg), dynamo.Config{
		MetaTable:   cfg.MetaTable,
		ValuesTable: cfg.ValuesTable,
	})
	deployer := pipeline.NewDeployer(store, cfg.ConfigDir, pipeline.WithLogger(log))
	handler := lambdahandler.New(deployer, log)

	lambda.Start(handler.HandleDeploy)
}
