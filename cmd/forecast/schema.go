package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-forecast/internal/config"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	schemaFileName       = "argo-forecast-config.json"
	sampleConfigFileName = "argo-forecast-config.yaml"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the run configuration JSON schema, or write it with a sample config",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Directory to write the schema and a sample config to",
			},
			&cli.BoolFlag{
				Name:  "download",
				Usage: "Print the download request schema instead",
			},
		},
		Action: schemaAction,
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Bool("download") {
		schema, err := marketdata.GetDownloadConfigSchema()
		if err != nil {
			return err
		}

		fmt.Fprintln(stdout(cmd), schema)

		return nil
	}

	schema, err := config.JSONSchema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	dir := cmd.String("out")
	if dir == "" {
		fmt.Fprintln(stdout(cmd), schema)

		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, schemaFileName), []byte(schema), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	samplePath := filepath.Join(dir, sampleConfigFileName)
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(config.Default())
		if err != nil {
			return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaFileName+"\n"), yamlBytes...)
		if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
			return fmt.Errorf("failed to write sample config to file: %w", err)
		}
	}

	fmt.Fprintf(stdout(cmd), "Schema written to %s\n", filepath.Join(dir, schemaFileName))

	return nil
}
