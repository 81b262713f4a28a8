package main

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"workshop_finder/internal/app"
	"workshop_finder/internal/domain"
)

var (
	dirLoc      locationFlags
	dirWorkshop string
	dirOpen     bool
)

var directionsCmd = &cobra.Command{
	Use:   "directions",
	Short: "Print (or open) driving directions to a nearby workshop.",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := build(cmd.Context(), app.WriterAlerter{W: os.Stderr})
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.ctl.Locate(cmd.Context(), dirLoc.request(cmd)); err != nil {
			return err
		}
		it, ok := d.list.Find(domain.WorkshopID(dirWorkshop))
		if !ok {
			return fmt.Errorf("workshop %q is not near this location: %w", dirWorkshop, domain.ErrNotFound)
		}
		fmt.Fprintln(cmd.OutOrStdout(), it.DirectionsURL)
		if dirOpen {
			if err := browser.OpenURL(it.DirectionsURL); err != nil {
				log.Warn().Err(err).Msg("could not open browser")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(directionsCmd)
	dirLoc.register(directionsCmd)
	directionsCmd.Flags().StringVar(&dirWorkshop, "workshop", "", "workshop id")
	directionsCmd.Flags().BoolVar(&dirOpen, "open", false, "open the route in the default browser")
	_ = directionsCmd.MarkFlagRequired("workshop")
}
