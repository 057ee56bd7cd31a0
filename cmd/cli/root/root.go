package root

import (
	"github.com/spf13/cobra"
)

// RootCmd is the newsctl entry point. Subcommand packages attach themselves via their Init functions.
var RootCmd = &cobra.Command{
	Use:   "newsctl",
	Short: "Newsdesk CLI",
	Long: `Command line interface for the Newsdesk API.

The API base URL is read from NEWSDESK_API_URL (default http://localhost:8080).`,
	SilenceUsage: true,
}

func GetRoot() *cobra.Command {
	return RootCmd
}
