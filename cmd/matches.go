package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Dump the match-result table from the system of record",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		gateway, closePool, err := initGateway(ctx)
		if err != nil {
			return err
		}
		defer closePool()

		rows, err := gateway.DumpMatchReports(ctx)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintln(os.Stderr, "No match results found.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "POLICY ID\tFILE ID\tALL MATCH\tUPDATED")
		for _, row := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row[0], row[1], row[2], row[3])
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(matchesCmd)
}
