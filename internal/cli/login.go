package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var (
		username string
		stay     bool
		guest    bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the campus backend",
		Long:  "Open a backend session. With --stay the credentials are kept in the secret store so the session can be refreshed silently; with --guest no backend session is opened at all.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()

			if guest {
				if err := app.manager.CreateGuestSession(ctx); err != nil {
					return err
				}
				fmt.Println("Continuing as guest. Personal features stay unavailable.")
				return nil
			}

			reader := bufio.NewReader(os.Stdin)
			if username == "" {
				fmt.Print("Username: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read username: %w", err)
				}
				username = strings.TrimSpace(line)
			}
			if username == "" {
				return fmt.Errorf("username cannot be empty")
			}

			fmt.Print("Password: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return fmt.Errorf("password cannot be empty")
			}

			isStudent, err := app.manager.CreateSession(ctx, username, password, stay)
			if err != nil {
				return err
			}

			if isStudent {
				fmt.Println("Logged in as student.")
			} else {
				fmt.Println("Logged in as staff.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account name (prompted if omitted)")
	cmd.Flags().BoolVar(&stay, "stay", false, "Keep credentials for silent session refresh")
	cmd.Flags().BoolVar(&guest, "guest", false, "Continue without a backend session")
	return cmd
}
