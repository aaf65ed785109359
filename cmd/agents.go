package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/starcasualty/popmatch/internal/agentbook"
)

var agentsCmd = &cobra.Command{
	Use:   "agents <code> [code]",
	Short: "Look up agency DBA names by agent code or match key",
	Long:  "With one code, prints the agency's DBA name. With two codes, reports whether they resolve to the same agency; agencies operate under multiple codes, and two codes belong together iff they share a DBA name.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Agents.WorkbookPath == "" {
			return eris.New("agents: agents.workbook_path is not configured")
		}

		book, err := agentbook.Load(cfg.Agents.WorkbookPath)
		if err != nil {
			return err
		}

		if len(args) == 2 {
			if book.SameAgency(args[0], args[1]) {
				fmt.Printf("%s and %s: same agency (%s)\n", args[0], args[1], book.DBAByAny(args[0]))
				return nil
			}
			fmt.Printf("%s and %s: different agencies\n", args[0], args[1])
			return nil
		}

		dba := book.DBAByAny(args[0])
		if dba == "" {
			return eris.Errorf("agents: code %q not found in roster (%d codes, %d match keys)",
				args[0], book.AgentCodeCount(), book.MatchCount())
		}
		fmt.Println(dba)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
