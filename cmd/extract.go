package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/starcasualty/popmatch/internal/extract"
)

var (
	extractRaw    bool
	extractSchema bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf]",
	Short: "Run a one-off extraction against a local PDF",
	Long:  "Sends the PDF to the configured document-understanding provider and prints the normalized policy facts as JSON. --raw prints the provider response instead; --schema prints the declarations-page schema the model is held to.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractSchema {
			fmt.Println(extract.Schema())
			return nil
		}
		if len(args) == 0 {
			return eris.New("extract: a PDF path is required unless --schema is given")
		}
		ctx := cmd.Context()
		if cfg.Extraction.TimeoutSecs > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Extraction.TimeoutSecs)*time.Second)
			defer cancel()
		}

		extractor, err := extract.New(cfg.Extraction)
		if err != nil {
			return err
		}

		raw, err := extractor.Extract(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if extractRaw {
			return enc.Encode(raw)
		}

		facts := extract.Normalize(raw)
		if !facts.AllFieldsPresent {
			fmt.Fprintf(os.Stderr, "Warning: missing fields: %v\n", facts.Missing)
		}
		return enc.Encode(facts)
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractRaw, "raw", false, "print the raw provider response")
	extractCmd.Flags().BoolVar(&extractSchema, "schema", false, "print the extraction JSON schema and exit")
	rootCmd.AddCommand(extractCmd)
}
