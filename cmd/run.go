package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one full lead scan",
	Long:  "Polls every configured Reddit query and RSS feed once, appends new leads to the ledger, and emails the summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initScanner(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Scanner.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "scan run")
		}

		zap.L().Info("scan complete",
			zap.Int64("fetched", result.Fetched),
			zap.Int("candidates", result.Candidates),
			zap.Int("new_leads", result.NewLeads),
		)

		// Print result JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
