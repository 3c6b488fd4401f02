package query

import (
	"sort"

	"github.com/fastygo/planner/domain"
)

// Posts applies f to posts in collection order.
func Posts(posts []domain.BlogPost, f domain.BlogFilters) []domain.BlogPost {
	var preds []Predicate[domain.BlogPost]
	if f.Category != "" {
		preds = append(preds, func(p domain.BlogPost) bool { return p.Category == f.Category })
	}
	if f.Tag != "" {
		preds = append(preds, func(p domain.BlogPost) bool { return containsStr(p.Tags, f.Tag) })
	}
	if !IsBlank(f.Search) {
		preds = append(preds, func(p domain.BlogPost) bool { return MatchesPostSearch(p, f.Search) })
	}
	if f.Author != "" {
		preds = append(preds, func(p domain.BlogPost) bool { return p.Author.ID == f.Author })
	}
	return Filter(posts, preds...)
}

// MatchesPostSearch matches title, content, excerpt and tags.
func MatchesPostSearch(p domain.BlogPost, query string) bool {
	if ContainsFold(query, p.Title, p.Content, p.Excerpt) {
		return true
	}
	return ContainsFold(query, p.Tags...)
}

// SortPosts returns a copy ordered newest, most liked or most commented
// first. Unknown keys fall back to date.
func SortPosts(posts []domain.BlogPost, by domain.BlogSort) []domain.BlogPost {
	out := append([]domain.BlogPost{}, posts...)
	sort.SliceStable(out, func(i, j int) bool {
		switch by {
		case domain.SortByLikes:
			return out[i].Likes > out[j].Likes
		case domain.SortByComments:
			return out[i].Comments > out[j].Comments
		default:
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
	})
	return out
}

// Featured returns the first n featured posts.
func Featured(posts []domain.BlogPost, n int) []domain.BlogPost {
	return first(Filter(posts, func(p domain.BlogPost) bool { return p.Featured }), n)
}

// PostsByCategory returns the first n posts of category.
func PostsByCategory(posts []domain.BlogPost, category domain.BlogCategory, n int) []domain.BlogPost {
	return first(Filter(posts, func(p domain.BlogPost) bool { return p.Category == category }), n)
}
