package domain

import (
	"strings"
	"time"
)

// BlogCategory groups blog posts.
type BlogCategory string

const (
	CategoryMedicalNews BlogCategory = "medical-news"
	CategoryAchievement BlogCategory = "achievement"
	CategoryStudyTips   BlogCategory = "study-tips"
	CategoryGeneral     BlogCategory = "general"
)

// Author is the writer of a post or comment.
type Author struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar" yaml:"avatar"`
	Role   string `json:"role,omitempty" yaml:"role,omitempty"`
}

// BlogPost is an entry of the community feed.
type BlogPost struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Excerpt     string       `json:"excerpt"`
	Category    BlogCategory `json:"category"`
	Author      Author       `json:"author"`
	Tags        []string     `json:"tags"`
	ReadTime    int          `json:"readTime"`
	PublishedAt time.Time    `json:"publishedAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Likes       int          `json:"likes"`
	Comments    int          `json:"comments"`
	Featured    bool         `json:"featured"`
	ImageURL    string       `json:"imageUrl,omitempty"`
}

// BlogComment is a reader comment on a post.
type BlogComment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
}

// BlogFilters selects a subset of posts. Author matches Author.ID.
type BlogFilters struct {
	Category BlogCategory `json:"category,omitempty"`
	Tag      string       `json:"tag,omitempty"`
	Search   string       `json:"search,omitempty"`
	Author   string       `json:"author,omitempty"`
}

// IsEmpty reports whether no constraint is active.
func (f BlogFilters) IsEmpty() bool {
	return f.Category == "" && f.Tag == "" && f.Author == "" && strings.TrimSpace(f.Search) == ""
}

// BlogSort is the listing order.
type BlogSort string

const (
	SortByDate     BlogSort = "date"
	SortByLikes    BlogSort = "likes"
	SortByComments BlogSort = "comments"
)
