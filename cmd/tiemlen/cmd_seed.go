package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lekhanhduy0411/tiemlen/config"
	"github.com/lekhanhduy0411/tiemlen/database/seeders"
	"github.com/lekhanhduy0411/tiemlen/pkg/mongodb"
)

// tiemlen seed — wipe and reload the demo data.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the database with demo users, catalog and promotions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := mongodb.Connect(ctx); err != nil {
			return err
		}
		defer mongodb.Disconnect(context.Background())

		fmt.Println("Seeding database…")
		if err := seeders.Run(ctx); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	},
}
