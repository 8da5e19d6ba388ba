package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/dateutil"
)

func newTimetableCmd() *cobra.Command {
	var (
		date     string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Show the personal timetable",
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

			timetable, err := app.client.GetTimetable(cmd.Context(), day, detailed)
			if err != nil {
				return err
			}
			if len(timetable.Entries) == 0 {
				fmt.Println("No timetable entries.")
				return nil
			}
			for _, entry := range timetable.Entries {
				fmt.Printf("%s %s-%s  %s  %s\n", entry.Date, entry.StartTime, entry.EndTime, entry.Title, entry.Room)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show in YYYY-MM-DD (defaults to today)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include course goals and contents")
	return cmd
}
