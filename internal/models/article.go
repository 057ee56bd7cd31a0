package models

import (
	"fmt"
	"time"
)

// Category is the closed set of article sections.
type Category string

const (
	// CategoryAll is a list filter meaning "any category". It is never stored.
	CategoryAll           Category = "All"
	CategoryPolitics      Category = "Politics"
	CategoryTechnology    Category = "Technology"
	CategoryBusiness      Category = "Business"
	CategoryEntertainment Category = "Entertainment"
	CategorySports        Category = "Sports"
	CategoryHealth        Category = "Health"
	CategoryScience       Category = "Science"
	CategoryEducation     Category = "Education"
)

// Categories returns the storable categories in display order.
func Categories() []Category {
	return []Category{
		CategoryPolitics,
		CategoryTechnology,
		CategoryBusiness,
		CategoryEntertainment,
		CategorySports,
		CategoryHealth,
		CategoryScience,
		CategoryEducation,
	}
}

// Valid reports whether c can be stored on an article.
func (c Category) Valid() bool {
	switch c {
	case CategoryPolitics, CategoryTechnology, CategoryBusiness, CategoryEntertainment,
		CategorySports, CategoryHealth, CategoryScience, CategoryEducation:
		return true
	}
	return false
}

// ParseCategory parses a list filter. The empty string and "All" both mean no restriction
// and are returned as the empty Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if s == "" || c == CategoryAll {
		return "", nil
	}
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Status is the publication state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Statuses returns every status.
func Statuses() []Status {
	return []Status{StatusDraft, StatusPublished, StatusArchived}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// ParseStatus parses a list filter; the empty string is returned as-is.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", nil
	}
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Article is a piece of published (or not yet published) content.
type Article struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	Summary          *string   `json:"summary"`
	AuthorID         int       `json:"authorId"`
	Category         Category  `json:"category"`
	FeaturedImageURL *string   `json:"featuredImageUrl"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// InsertArticle is the create payload. AuthorID is set from the session, never from the body.
type InsertArticle struct {
	Title            string   `json:"title" validate:"required,min=3,max=255"`
	Content          string   `json:"content" validate:"required"`
	Summary          *string  `json:"summary" validate:"omitempty,max=1000"`
	AuthorID         int      `json:"-"`
	Category         Category `json:"category" validate:"required,category"`
	FeaturedImageURL *string  `json:"featuredImageUrl" validate:"omitempty,url"`
	Status           Status   `json:"status" validate:"omitempty,status"`
}

// ArticlePatch is a partial update; nil fields are left untouched.
type ArticlePatch struct {
	Title            *string   `json:"title" validate:"omitempty,min=3,max=255"`
	Content          *string   `json:"content" validate:"omitempty,min=1"`
	Summary          *string   `json:"summary" validate:"omitempty,max=1000"`
	Category         *Category `json:"category" validate:"omitempty,category"`
	FeaturedImageURL *string   `json:"featuredImageUrl" validate:"omitempty,url"`
	Status           *Status   `json:"status" validate:"omitempty,status"`
}

// Apply merges the non-nil fields of p onto a.
func (p ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Summary != nil {
		a.Summary = p.Summary
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.FeaturedImageURL != nil {
		a.FeaturedImageURL = p.FeaturedImageURL
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}

// ArticleFilter narrows ListArticles. Empty Category means any; empty Status means published.
type ArticleFilter struct {
	Category Category
	Status   Status
}
