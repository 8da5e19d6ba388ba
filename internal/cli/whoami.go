package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in student's master data",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			person, err := app.client.GetPersonalData(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Name:           %s %s\n", person.FirstName, person.Name)
			fmt.Printf("Matriculation:  %s\n", person.MatriculationNumber)
			fmt.Printf("Library card:   %s\n", person.LibraryNumber)
			fmt.Printf("Program:        %s (%s)\n", person.StudyProgram, person.StudyGroup)
			fmt.Printf("Mail:           %s\n", person.Email)
			return nil
		},
	}
}
