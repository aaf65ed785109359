package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tracking ledger and match-result tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initTrack(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		fmt.Println("Tracking ledger migrated.")

		gateway, closePool, err := initGateway(ctx)
		if err != nil {
			return err
		}
		defer closePool()

		if err := gateway.MigrateResults(ctx); err != nil {
			return err
		}
		fmt.Println("Match-result table migrated.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
