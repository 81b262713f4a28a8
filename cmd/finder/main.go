package main

import (
	"errors"
	"fmt"
	"os"

	"workshop_finder/internal/app"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// controller failures were already shown as alerts
		var oe *app.OpError
		if !errors.As(err, &oe) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
