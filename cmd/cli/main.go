package main

import (
	"fmt"
	"os"

	"github.com/crucial707/newsdesk/cmd/cli/admin"
	"github.com/crucial707/newsdesk/cmd/cli/articles"
	"github.com/crucial707/newsdesk/cmd/cli/auth"
	"github.com/crucial707/newsdesk/cmd/cli/bookmarks"
	"github.com/crucial707/newsdesk/cmd/cli/root"
	"github.com/crucial707/newsdesk/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	articles.InitArticles(rootCmd)
	bookmarks.InitBookmarks(rootCmd)
	users.InitUsers(rootCmd)
	admin.InitAdmin(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
