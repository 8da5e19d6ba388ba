package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exams",
		Short: "List registered exams",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			exams, err := app.client.GetExams(cmd.Context())
			if err != nil {
				return err
			}
			if len(exams) == 0 {
				fmt.Println("No exams registered.")
				return nil
			}
			for _, exam := range exams {
				fmt.Printf("%s  %s (%s)  rooms: %s  seat: %s\n", exam.Date, exam.Title, exam.Type, exam.Rooms, exam.Seat)
			}
			return nil
		},
	}
}
