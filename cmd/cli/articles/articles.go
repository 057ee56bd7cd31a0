package articles

import (
	"fmt"
	"strconv"

	"github.com/crucial707/newsdesk/cmd/cli/client"
	"github.com/crucial707/newsdesk/cmd/cli/output"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Articles
// ==========================
func InitArticles(rootCmd *cobra.Command) {
	articlesCmd := &cobra.Command{
		Use:   "articles",
		Short: "Read and manage articles",
	}

	articlesCmd.AddCommand(
		listArticlesCmd(),
		showArticleCmd(),
		categoriesCmd(),
		createArticleCmd(),
		setStatusCmd("publish", models.StatusPublished),
		setStatusCmd("unpublish", models.StatusDraft),
		deleteArticleCmd(),
	)

	rootCmd.AddCommand(articlesCmd)
}

// ==========================
// LIST
// ==========================
func listArticlesCmd() *cobra.Command {
	var category, status string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles (published only unless --status is given, which needs admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New()
			if err != nil {
				return err
			}

			path := "/api/articles"
			req := c.R()
			if category != "" {
				req.SetQueryParam("category", category)
			}
			if status != "" {
				path = "/api/admin/articles"
				req.SetQueryParam("status", status)
			}

			var list []models.Article
			if err := client.Check(req.SetResult(&list).Get(path)); err != nil {
				return err
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), list)
			}
			rows := make([][]interface{}, 0, len(list))
			for _, a := range list {
				rows = append(rows, []interface{}{a.ID, a.Title, a.Category, a.Status, a.CreatedAt.Format("2006-01-02")})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Category", "Status", "Created"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only this category")
	cmd.Flags().StringVar(&status, "status", "", "draft or published (admin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// ==========================
// SHOW
// ==========================
func showArticleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.New()
			if err != nil {
				return err
			}
			var a models.Article
			if err := client.Check(c.R().SetResult(&a).Get(fmt.Sprintf("/api/articles/%d", id))); err != nil {
				return err
			}
			return output.RenderJSON(cmd.OutOrStdout(), a)
		},
	}
}

// ==========================
// CATEGORIES
// ==========================
func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the article categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New()
			if err != nil {
				return err
			}
			var categories []string
			if err := client.Check(c.R().SetResult(&categories).Get("/api/categories")); err != nil {
				return err
			}
			for _, name := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createArticleCmd() *cobra.Command {
	var title, content, summary, category, image string
	var publish bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an article (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"title":    title,
				"content":  content,
				"category": category,
			}
			if summary != "" {
				body["summary"] = summary
			}
			if image != "" {
				body["featuredImageUrl"] = image
			}
			if publish {
				body["status"] = models.StatusPublished
			}

			c, err := client.New()
			if err != nil {
				return err
			}
			var a models.Article
			if err := client.Check(c.R().SetBody(body).SetResult(&a).Post("/api/admin/articles")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article %d created (%s).\n", a.ID, a.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Article title")
	cmd.Flags().StringVar(&content, "content", "", "Article body (HTML)")
	cmd.Flags().StringVar(&summary, "summary", "", "Short summary")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().StringVar(&image, "image", "", "Featured image URL")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish immediately instead of saving a draft")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// ==========================
// PUBLISH / UNPUBLISH
// ==========================
func setStatusCmd(use string, status models.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: fmt.Sprintf("Set an article to %s (admin)", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.New()
			if err != nil {
				return err
			}
			var a models.Article
			resp, err := c.R().
				SetBody(map[string]any{"status": status}).
				SetResult(&a).
				Put(fmt.Sprintf("/api/admin/articles/%d", id))
			if err := client.Check(resp, err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article %d is now %s.\n", a.ID, a.Status)
			return nil
		},
	}
}

// ==========================
// DELETE
// ==========================
func deleteArticleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an article and its bookmarks (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.New()
			if err != nil {
				return err
			}
			if err := client.Check(c.R().Delete(fmt.Sprintf("/api/admin/articles/%d", id))); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Article deleted.")
			return nil
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
