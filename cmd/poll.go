package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pollAll    bool
	pollWindow int
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Run one poll of the system of record",
	Long:  "Queries for proof-of-prior documents in the lookback window and processes the first eligible one (or all, with --all).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if pollAll {
			cfg.Poll.ProcessAll = true
		}
		if pollWindow > 0 {
			cfg.Poll.WindowDays = pollWindow
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		n, err := env.Poller.Run(ctx)
		if err != nil {
			return err
		}

		zap.L().Info("poll complete", zap.Int("attempted", n))
		if n == 0 {
			fmt.Fprintln(os.Stderr, "No eligible documents.")
			return nil
		}
		fmt.Printf("Attempted %d document(s). See `popmatch records` for outcomes.\n", n)
		return nil
	},
}

func init() {
	pollCmd.Flags().BoolVar(&pollAll, "all", false, "process every eligible document instead of the first")
	pollCmd.Flags().IntVar(&pollWindow, "window", 0, "lookback window in days (default from config)")
	rootCmd.AddCommand(pollCmd)
}
