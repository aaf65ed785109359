package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/starcasualty/popmatch/internal/model"
	"github.com/starcasualty/popmatch/internal/track"
)

var recordsStatus string

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List tracking ledger entries",
	Long:  "Shows the local tracking ledger, newest first. Use --status to filter; subcommands reset or delete individual entries.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initTrack(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		var records []model.TrackingRecord
		if recordsStatus != "" {
			status := model.Status(recordsStatus)
			if !status.Valid() {
				return eris.Errorf("records: unknown status %q", recordsStatus)
			}
			records, err = st.GetByStatus(ctx, status)
		} else {
			records, err = st.GetAll(ctx)
		}
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No records found.")
			return nil
		}

		formatRecords(os.Stdout, records)
		if recordsStatus == "" {
			return printStatusSummary(ctx, os.Stdout, st)
		}
		return nil
	},
}

// -- records reset --

var recordsResetCmd = &cobra.Command{
	Use:   "reset <file-id>",
	Short: "Return a record to NOT_PROCESSED so the next poll retries it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initTrack(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.ResetStatus(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Reset %s to %s.\n", args[0], model.StatusNotProcessed)
		return nil
	},
}

// -- records delete --

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <processing-id>",
	Short: "Delete a ledger record by processing id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initTrack(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		deleted, err := st.Delete(ctx, args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return eris.Errorf("records: no record with processing id %s", args[0])
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

// printStatusSummary appends a one-line per-status count under the table.
func printStatusSummary(ctx context.Context, w io.Writer, st track.Store) error {
	statuses := []model.Status{
		model.StatusNotProcessed,
		model.StatusInProgress,
		model.StatusFailed,
		model.StatusProcessed,
	}
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		n, err := st.CountByStatus(ctx, s)
		if err != nil {
			return err
		}
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", s, n))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "\n%s\n", strings.Join(parts, "  "))
	}
	return nil
}

func formatRecords(w io.Writer, records []model.TrackingRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROCESSING ID\tFILE ID\tSTATUS\tORIGINAL DATE\tUPDATED\tSUMMARY")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ProcessingID,
			r.FileID,
			r.Status,
			r.OriginalDate.Format("2006-01-02"),
			r.UpdatedAt.Format("2006-01-02 15:04"),
			r.MatchSummary,
		)
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	recordsCmd.Flags().StringVar(&recordsStatus, "status", "", "filter by status (NOT_PROCESSED, IN_PROGRESS, FAILED, PROCESSED)")
	recordsCmd.AddCommand(recordsResetCmd, recordsDeleteCmd)
	rootCmd.AddCommand(recordsCmd)
}
