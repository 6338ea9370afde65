package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-forecast/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download daily bars into parquet files read by the parquet source",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "start",
				Aliases:  []string{"s"},
				Usage:    "Start date in `YYYY-MM-DD` format",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Data provider to use (polygon or binance)",
				Value:   "polygon",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Polygon.io API key",
				Sources: cli.EnvVars("ARGO_SOURCE_API_KEY", "POLYGON_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the data output directory",
				Value:   "data",
			},
		},
		Action: downloadAction,
	}
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	end := cmd.String("end")
	if end == "" {
		end = timeNow().UTC().Format(time.DateOnly)
	}

	request := marketdata.DownloadConfig{
		Provider:  cmd.String("provider"),
		Ticker:    cmd.String("ticker"),
		StartDate: cmd.String("start"),
		EndDate:   end,
		ApiKey:    cmd.String("api-key"),
	}
	if err := request.Validate(); err != nil {
		return err
	}

	params, err := request.ToDownloadParams()
	if err != nil {
		return err
	}

	client, err := marketdata.NewClient(request.ToClientConfig(cmd.String("data")), nil)
	if err != nil {
		return err
	}

	path, err := client.Download(ctx, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout(cmd), "Downloaded %s to %s\n", params.Ticker, path)

	return nil
}
