package main

import (
	"os"

	"github.com/spf13/cobra"

	"workshop_finder/internal/app"
)

var nearLoc locationFlags

var nearCmd = &cobra.Command{
	Use:   "near",
	Short: "List workshops near a location.",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := build(cmd.Context(), app.WriterAlerter{W: os.Stderr})
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.ctl.Locate(cmd.Context(), nearLoc.request(cmd)); err != nil {
			return err
		}
		return d.list.WriteText(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(nearCmd)
	nearLoc.register(nearCmd)
}
