package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wch1125/proviso/internal/store"
)

var serveStoreCmd = &cobra.Command{
	Use:   "serve-store",
	Short: "open the closing-deal registry and list its contents",
	Long: `serve-store opens the configured registry backend (memory or
sqlite, per proviso.yaml's store.backend) and prints its current deals.
A full network-facing server is out of scope; this is the local
inspection entry point.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := openRegistry()
		if err != nil {
			return err
		}
		defer registry.Close()

		deals, err := registry.ListDeals()
		if err != nil {
			return err
		}
		if len(deals) == 0 {
			fmt.Println("no deals registered")
			return nil
		}
		for _, d := range deals {
			fmt.Printf("%s  %-24s  updated %s\n", d.ID, d.Name, d.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func openRegistry() (store.Registry, error) {
	if cfg.Store.Backend == "sqlite" {
		return store.NewSQLiteStore(cfg.Store.Path)
	}
	return store.NewMemoryStore(), nil
}
