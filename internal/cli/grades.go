package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGradesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grades",
		Short: "List course grades",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			grades, err := app.client.GetGrades(cmd.Context())
			if err != nil {
				return err
			}
			if len(grades) == 0 {
				fmt.Println("No grades available.")
				return nil
			}
			for _, grade := range grades {
				mark := grade.Grade
				if mark == "" {
					mark = "-"
				}
				fmt.Printf("%-50s  %s  (%s ECTS)\n", grade.Title, mark, grade.ECTS)
			}
			return nil
		},
	}
}
