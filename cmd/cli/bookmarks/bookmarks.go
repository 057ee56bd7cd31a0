package bookmarks

import (
	"fmt"
	"strconv"

	"github.com/crucial707/newsdesk/cmd/cli/client"
	"github.com/crucial707/newsdesk/cmd/cli/output"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/spf13/cobra"
)

func InitBookmarks(rootCmd *cobra.Command) {
	bookmarksCmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "Manage your bookmarks",
	}
	bookmarksCmd.AddCommand(listCmd(), addCmd(), removeCmd())
	rootCmd.AddCommand(bookmarksCmd)
}

func listCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarked articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New()
			if err != nil {
				return err
			}
			var list []models.BookmarkWithArticle
			if err := client.Check(c.R().SetResult(&list).Get("/api/bookmarks")); err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), list)
			}
			rows := make([][]interface{}, 0, len(list))
			for _, b := range list {
				rows = append(rows, []interface{}{b.Article.ID, b.Article.Title, b.Article.Category, b.Bookmark.CreatedAt.Format("2006-01-02")})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"Article", "Title", "Category", "Saved"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [article-id]",
		Short: "Bookmark an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid article id %q", args[0])
			}
			c, err := client.New()
			if err != nil {
				return err
			}
			if err := client.Check(c.R().SetBody(map[string]int{"articleId": id}).Post("/api/bookmarks")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article %d bookmarked.\n", id)
			return nil
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [article-id]",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid article id %q", args[0])
			}
			c, err := client.New()
			if err != nil {
				return err
			}
			if err := client.Check(c.R().Delete(fmt.Sprintf("/api/bookmarks/%d", id))); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bookmark on article %d removed.\n", id)
			return nil
		},
	}
}
