package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Show the campus news feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			items, err := app.client.GetNews(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No news.")
				return nil
			}
			for _, item := range items {
				fmt.Printf("%s  %s\n", item.Date, item.Title)
				if item.URL != "" {
					fmt.Printf("    %s\n", item.URL)
				}
			}
			return nil
		},
	}
}
