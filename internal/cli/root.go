// Package cli implements the campus command line client. It is a thin
// composition layer: configuration from the environment, the encrypted
// SQLite secret store, and the session-aware campus client.
package cli

import (
	"log/slog"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the campus CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "campus",
		Short: "campus — THI companion client",
		Long:  "campus talks to the THI legacy webservice: timetable, exams, grades, and free room search.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
			slog.SetDefault(logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newTimetableCmd(),
		newExamsCmd(),
		newGradesCmd(),
		newRoomsCmd(),
		newWhoamiCmd(),
		newNewsCmd(),
	)

	return root
}
