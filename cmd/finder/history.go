package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"workshop_finder/internal/app"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show review submissions recorded in the journal (needs MYSQL_DSN).",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := build(cmd.Context(), app.WriterAlerter{W: os.Stderr})
		if err != nil {
			return err
		}
		defer d.Close()
		if d.journal == nil {
			return errors.New("journal disabled: set MYSQL_DSN")
		}

		entries, err := d.journal.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "WHEN\tWORKSHOP\tRATING\tRESULT\tREVIEW")
		for _, e := range entries {
			result := "ok"
			if !e.Success {
				result = "failed: " + e.Error
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				e.SubmittedAt.Local().Format(time.DateTime), e.WorkshopID, e.Rating, result, e.Review)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of entries")
}
