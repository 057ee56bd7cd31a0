package models

import "time"

// Bookmark links a user to an article. At most one exists per (UserID, ArticleID).
type Bookmark struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	ArticleID int       `json:"articleId"`
	CreatedAt time.Time `json:"createdAt"`
}

// InsertBookmark is the create payload; UserID comes from the session.
type InsertBookmark struct {
	UserID    int `json:"-"`
	ArticleID int `json:"articleId" validate:"required,gt=0"`
}

// BookmarkWithArticle is a bookmark joined with the article it points at.
type BookmarkWithArticle struct {
	Bookmark Bookmark `json:"bookmark"`
	Article  Article  `json:"article"`
}
