package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/dateutil"
	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/rooms"
)

func newRoomsCmd() *cobra.Command {
	var (
		building string
		date     string
		clock    string
		duration string
	)

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Find free rooms for a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			day := time.Now()
			if date != "" {
				day, err = dateutil.ParseISODate(date)
				if err != nil {
					return err
				}
			}
			if clock == "" {
				clock = day.Format("15:04")
			}

			days, err := app.client.GetFreeRooms(cmd.Context(), day)
			if err != nil {
				return err
			}

			openings, err := rooms.Filter(days, day, clock, building, duration)
			if err != nil {
				return err
			}
			if len(openings) == 0 {
				fmt.Println("No free rooms in that window.")
				return nil
			}
			for _, opening := range openings {
				fmt.Printf("%s  %s-%s  %s (capacity %d)\n",
					opening.Room,
					opening.From.Format("15:04"),
					opening.Until.Format("15:04"),
					opening.Type,
					opening.Capacity)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&building, "building", rooms.AllRooms, "Building to search, or \"Alle\" for all")
	cmd.Flags().StringVar(&date, "date", "", "Day to search in YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&clock, "time", "", "Start of the window as HH:MM (defaults to now)")
	cmd.Flags().StringVar(&duration, "duration", "01:00", "Minimum free duration as HH:MM")
	return cmd
}
