package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long:  "Renders the merged configuration (file, environment, defaults) for troubleshooting. API keys are redacted.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		redacted := *cfg
		if redacted.Extraction.GeminiKey != "" {
			redacted.Extraction.GeminiKey = "<redacted>"
		}
		if redacted.Extraction.AnthropicKey != "" {
			redacted.Extraction.AnthropicKey = "<redacted>"
		}

		out, err := yaml.Marshal(redacted)
		if err != nil {
			return eris.Wrap(err, "config: marshal")
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
