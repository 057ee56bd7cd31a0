// Package seed prepares a fresh store: the bootstrap admin and a few sample articles.
package seed

import (
	"context"
	"log/slog"

	"github.com/crucial707/newsdesk/internal/auth"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/pkg/errors"
)

// SampleArticles returns the published demo articles, attributed to authorID.
func SampleArticles(authorID int) []models.InsertArticle {
	str := func(s string) *string { return &s }
	return []models.InsertArticle{
		{
			Title: "Electric Vehicle Sales Surge as New Incentives Take Effect",
			Content: "<p>Global sales of electric vehicles have increased by 43% year-over-year as government incentives and improved technology drive consumer adoption. " +
				"Industry analysts predict this trend will continue as more manufacturers commit to electric vehicle production.</p>" +
				"<p>The surge comes as several major economies introduced new tax incentives for electric vehicle purchases, " +
				"making the switch from traditional combustion engines more financially attractive for consumers.</p>",
			Summary:          str("Global sales of electric vehicles have increased by 43% year-over-year as government incentives and improved technology drive consumer adoption."),
			AuthorID:         authorID,
			Category:         models.CategoryTechnology,
			FeaturedImageURL: str("https://images.unsplash.com/photo-1557200134-90327ee9fafa?auto=format&fit=crop&w=800&h=500&q=80"),
			Status:           models.StatusPublished,
		},
		{
			Title: "AI Research Breakthrough Could Revolutionize Healthcare",
			Content: "<p>New machine learning models achieve unprecedented accuracy in early disease detection, potentially saving millions of lives through preventative care. " +
				"Researchers at leading universities have developed algorithms that can detect subtle patterns in medical imaging that human doctors might miss.</p>" +
				"<p>The technology is expected to be rolled out to select hospitals for testing within the next six months.</p>",
			Summary:          str("New machine learning models achieve unprecedented accuracy in early disease detection..."),
			AuthorID:         authorID,
			Category:         models.CategoryTechnology,
			FeaturedImageURL: str("https://images.unsplash.com/photo-1551836022-d5d88e9218df?auto=format&fit=crop&w=600&h=400&q=80"),
			Status:           models.StatusPublished,
		},
		{
			Title: "Global Markets React to New Economic Policy",
			Content: "<p>Stock markets worldwide show volatility as central banks announce coordinated policy shift to address inflation concerns. " +
				"The announcement, which came after months of speculation, outlines a gradual reduction in stimulus measures that have supported economies through the pandemic recovery period.</p>" +
				"<p>Analysts remain divided on the long-term impact of these changes, with some predicting a period of adjustment followed by stable growth, " +
				"while others warn of potential market corrections.</p>",
			Summary:          str("Stock markets worldwide show volatility as central banks announce coordinated policy shift..."),
			AuthorID:         authorID,
			Category:         models.CategoryBusiness,
			FeaturedImageURL: str("https://images.unsplash.com/photo-1607944024060-0450380ddd33?auto=format&fit=crop&w=600&h=400&q=80"),
			Status:           models.StatusPublished,
		},
	}
}

// Options controls Run.
type Options struct {
	// Admin is created (or promoted) when both Username and Password are set.
	Admin auth.AdminAccount
	// Samples inserts SampleArticles when the store has no articles at all.
	// It needs an admin to attribute them to.
	Samples bool
}

// Run applies opts to store and returns how many sample articles it inserted.
func Run(ctx context.Context, store repo.Store, opts Options, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Admin.Username == "" || opts.Admin.Password == "" {
		if opts.Samples {
			logger.Warn("sample articles skipped: no admin account configured")
		}
		return 0, nil
	}

	admin, err := auth.EnsureAdmin(ctx, store, opts.Admin)
	if err != nil {
		return 0, errors.Wrap(err, "could not bootstrap admin")
	}
	logger.Info("admin account ready", "user_id", admin.ID, "username", admin.Username)

	if !opts.Samples {
		return 0, nil
	}
	empty, err := hasNoArticles(ctx, store)
	if err != nil {
		return 0, err
	}
	if !empty {
		return 0, nil
	}

	inserted := 0
	for _, a := range SampleArticles(admin.ID) {
		if _, err := store.CreateArticle(ctx, a); err != nil {
			return inserted, errors.Wrap(err, "could not insert sample article")
		}
		inserted++
	}
	logger.Info("sample articles inserted", "count", inserted)
	return inserted, nil
}

func hasNoArticles(ctx context.Context, store repo.ArticleStore) (bool, error) {
	for _, st := range models.Statuses() {
		list, err := store.ListArticles(ctx, models.ArticleFilter{Status: st})
		if err != nil {
			return false, err
		}
		if len(list) > 0 {
			return false, nil
		}
	}
	return true, nil
}
