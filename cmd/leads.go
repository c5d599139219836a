package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/beatfindr/leadscout/internal/ledger"
	"github.com/beatfindr/leadscout/internal/model"
)

var (
	leadsJSON  bool
	leadsLimit int
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List leads recorded in the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := ledger.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Init(ctx); err != nil {
			return eris.Wrap(err, "init ledger")
		}

		leads, err := st.Leads(ctx)
		if err != nil {
			return eris.Wrap(err, "list leads")
		}

		// Most recent last in the ledger; show the tail when limited.
		if leadsLimit > 0 && len(leads) > leadsLimit {
			leads = leads[len(leads)-leadsLimit:]
		}

		if len(leads) == 0 {
			fmt.Fprintln(os.Stderr, "No leads recorded.")
			return nil
		}

		if leadsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		}

		formatLeads(os.Stdout, leads)
		return nil
	},
}

func formatLeads(w io.Writer, leads []model.Lead) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tSOURCE\tFROM\tTITLE\tURL")
	for _, lead := range leads {
		title := lead.Title
		// Truncate on runes so multi-byte titles stay valid UTF-8.
		if r := []rune(title); len(r) > 60 {
			title = string(r[:57]) + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			lead.Timestamp.Format(model.TimestampLayout),
			lead.Source, lead.Author, title, lead.URL,
		)
	}
	tw.Flush()
}

func init() {
	leadsCmd.Flags().BoolVar(&leadsJSON, "json", false, "print leads as JSON")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 0, "show only the most recent N leads")
	rootCmd.AddCommand(leadsCmd)
}
