// Package catalog implements the CLI commands for inspecting the local
// edge location catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/paularlott/cli"

	"github.com/edgecatalog/edged/internal/catalog"
	"github.com/edgecatalog/edged/internal/config"
	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/lookup"
)

// Commands returns the catalog subcommands.
func Commands() []*cli.Command {
	return []*cli.Command{
		listCommand(),
		getCommand(),
		parentCommand(),
	}
}

func openStore(cmd *cli.Command) (*catalog.SQLiteStore, *config.Config, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, nil, err
	}

	store, err := catalog.NewSQLiteStore(cfg.DataDir)
	if err != nil {
		log.Error("Failed to open catalog store", "error", err, "data_dir", cfg.DataDir)
		return nil, nil, err
	}
	return store, cfg, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List catalogued edge locations",
		Description: "List every edge location currently in the catalog",
		Flags:       config.GetFlags(),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := catalog.ScanAll(store)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("Catalog is empty. Run 'edged discover' first.")
				return nil
			}

			for _, record := range records {
				parent := record.ParentZoneID
				if parent == "" {
					parent = "-"
				}
				fmt.Printf("%-28s %-12s %-16s %d capacity types\n",
					record.EdgeID, record.EdgeType, parent, len(record.CapacityTypes))
			}
			fmt.Printf("\n%d edge locations\n", len(records))
			return nil
		},
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:        "get",
		Usage:       "Get an edge location by ID",
		Description: "Print the full catalog record for an edge location",
		Flags:       config.GetFlags(),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:     "id",
				Usage:    "Edge location ID",
				Required: true,
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.GetStringArg("id")

			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Query(id)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("edge location not found: %s", id)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records[0])
		},
	}
}

func parentCommand() *cli.Command {
	return &cli.Command{
		Name:        "parent",
		Usage:       "Resolve the parent availability zone",
		Description: "Resolve the parent availability zone for an edge location ID",
		Flags:       config.GetFlags(),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:     "id",
				Usage:    "Edge location ID",
				Required: true,
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.GetStringArg("id")

			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			results, err := lookup.ParentZones(store, []string{id})
			if err != nil {
				return err
			}

			result := results[id]
			if !result.Found || result.ParentAZ == nil {
				return fmt.Errorf("no parent zone recorded for %s", id)
			}

			fmt.Println(*result.ParentAZ)
			return nil
		},
	}
}
