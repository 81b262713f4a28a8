package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workshop_finder/internal/app"
	"workshop_finder/internal/domain"
	"workshop_finder/internal/view"
)

var (
	reviewLoc      locationFlags
	reviewWorkshop string
	reviewRating   int
	reviewText     string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Rate and review a workshop, then show the refreshed list.",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := build(cmd.Context(), app.WriterAlerter{W: os.Stderr})
		if err != nil {
			return err
		}
		defer d.Close()

		// the refresh after a successful submission needs a location
		if err := d.ctl.Locate(cmd.Context(), reviewLoc.request(cmd)); err != nil {
			return err
		}
		s := domain.ReviewSubmission{
			WorkshopID: domain.WorkshopID(reviewWorkshop),
			Rating:     reviewRating,
			Review:     reviewText,
		}
		if err := d.ctl.SubmitReview(cmd.Context(), s); err != nil {
			return err
		}

		var stars view.StarWidget
		stars.Select(reviewRating)
		fmt.Fprintf(cmd.OutOrStdout(), "Review submitted %s\n\n", stars.Render())
		return d.list.WriteText(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewLoc.register(reviewCmd)
	reviewCmd.Flags().StringVar(&reviewWorkshop, "workshop", "", "workshop id")
	reviewCmd.Flags().IntVar(&reviewRating, "rating", 0, "stars, 1 to 5")
	reviewCmd.Flags().StringVar(&reviewText, "text", "", "review text")
	_ = reviewCmd.MarkFlagRequired("workshop")
}
