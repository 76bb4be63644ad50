package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/stockiq/backend-go/internal/config"
	"github.com/stockiq/backend-go/internal/pipeline"
	"github.com/stockiq/backend-go/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "analyze",
		Usage: "Run the inventory analysis pipeline over local files",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "forecast-days",
				Usage:   "Forecast horizon in days",
				Value:   7,
				EnvVars: []string{"ANALYSIS_FORECAST_DAYS"},
			},
			&cli.IntFlag{
				Name:    "max-products",
				Usage:   "Maximum number of products analyzed per file",
				Value:   10,
				EnvVars: []string{"ANALYSIS_MAX_PRODUCTS"},
			},
			&cli.StringFlag{
				Name:    "staging-dir",
				Usage:   "Directory for scratch dataset staging",
				EnvVars: []string{"ANALYSIS_STAGING_DIR"},
			},
			&cli.BoolFlag{
				Name:  "keep-artifacts",
				Usage: "Keep staged canonical CSVs after each run",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Indent the JSON output",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Action: runAnalyze,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analyze failed")
	}
}

func runAnalyze(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: analyze [flags] <file> [<file>...]", 1)
	}

	logger.SetLevel(c.String("log-level"))

	runner := pipeline.New(config.AnalysisConfig{
		ForecastDays:  c.Int("forecast-days"),
		MaxProducts:   c.Int("max-products"),
		StagingDir:    c.String("staging-dir"),
		KeepArtifacts: c.Bool("keep-artifacts"),
	}, nil)

	for _, path := range c.Args().Slice() {
		outcome := runner.Run(c.Context, path)

		var (
			payload []byte
			err     error
		)
		if c.Bool("pretty") {
			payload, err = json.MarshalIndent(outcome, "", "  ")
		} else {
			payload, err = json.Marshal(outcome)
		}
		if err != nil {
			logger.Log.Error().Err(err).Str("file", path).Msg("failed to encode outcome")
			continue
		}
		fmt.Printf("%s\t%s\n", path, payload)
	}
	return nil
}
