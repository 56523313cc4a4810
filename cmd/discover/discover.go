// Package discover implements the one-shot discovery command.
package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/paularlott/cli"

	"github.com/edgecatalog/edged/internal/aggregate"
	"github.com/edgecatalog/edged/internal/catalog"
	"github.com/edgecatalog/edged/internal/collector"
	"github.com/edgecatalog/edged/internal/config"
	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/worker"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:        "discover",
		Usage:       "Run one discovery cycle",
		Description: "Collect zones and extension racks for a region, persist them to the catalog and optionally print the edge report",
		Flags: append(config.GetFlags(),
			&cli.BoolFlag{
				Name:  "report",
				Usage: "Print the aggregated edge report after the run",
			},
		),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}

			store, err := catalog.NewSQLiteStore(cfg.DataDir)
			if err != nil {
				log.Error("Failed to initialize catalog store", "error", err)
				return err
			}
			defer store.Close()

			client := collector.NewClient(cfg.MetadataURL, cfg.RequestTimeout)
			runner := worker.NewRunner(client, client, store)

			run := runner.Run(ctx, cfg.Region)
			fmt.Fprintf(os.Stdout, "Run %s: %d zone records, %d extension records\n",
				run.ID, run.ZoneRecords, run.ExtRecords)
			for _, msg := range run.Errors {
				fmt.Fprintf(os.Stderr, "error: %s\n", msg)
			}

			if cmd.GetBool("report") {
				report, errs := aggregate.New(client, client).Report(ctx, cfg.Region)
				if len(errs) > 0 {
					for _, msg := range aggregate.ErrorStrings(errs) {
						fmt.Fprintf(os.Stderr, "error: %s\n", msg)
					}
					return fmt.Errorf("report failed with %d collector errors", len(errs))
				}

				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			}

			if len(run.Errors) > 0 {
				return fmt.Errorf("discovery completed with %d errors", len(run.Errors))
			}
			return nil
		},
	}
}
