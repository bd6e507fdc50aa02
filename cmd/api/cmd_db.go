package main

import (
	"fmt"
	"os"

	"pizzeria/internal/infra/db"
	"pizzeria/internal/infra/sheet"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, gdb, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := db.Migrate(gdb); err != nil {
			return err
		}
		fmt.Println("migrated")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter menu and sample locations into empty tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := db.Migrate(a.db); err != nil {
			return err
		}
		res, err := a.seeder.Seed(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d categories, %d toppings, %d products, %d locations\n",
			res.Categories, res.Toppings, res.Products, res.Locations)
		return nil
	},
}

var relinkCmd = &cobra.Command{
	Use:   "relink-locations",
	Short: "Link every unlinked location to its matching store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		n, err := a.stores.RelinkAllLocations(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("linked %d locations\n", n)
		return nil
	},
}

var importSheet string

var importLocationsCmd = &cobra.Command{
	Use:   "import-locations FILE.xlsx",
	Short: "Upsert store locations from a spreadsheet and relink them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		locs, err := sheet.ReadLocations(f, importSheet)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		imported, linked, err := a.stores.ImportLocations(cmd.Context(), locs)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d locations, linked %d\n", imported, linked)
		return nil
	},
}

func init() {
	importLocationsCmd.Flags().StringVar(&importSheet, "sheet", "", "sheet name (default: first sheet)")
}
