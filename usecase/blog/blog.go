package blog

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/query"
	"github.com/fastygo/planner/internal/scheduler"
	"github.com/fastygo/planner/internal/state"
	"github.com/fastygo/planner/pkg/logger"
	"github.com/fastygo/planner/usecase"
)

const (
	featuredLimit = 3
	categoryLimit = 6
)

type Options struct {
	NewID func() string
}

// UseCase serves the community feed from memory.
type UseCase struct {
	sched  scheduler.Scheduler
	logger *zap.Logger
	opts   Options

	mu        sync.RWMutex
	state     state.BlogState
	listeners usecase.Listeners
}

func New(posts []domain.BlogPost, sched scheduler.Scheduler, logger *zap.Logger, opts Options) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &UseCase{
		sched:  sched,
		logger: logger,
		opts:   opts,
		state:  state.ReduceBlog(state.BlogState{}, state.SetPosts{Posts: posts}),
	}
}

func (uc *UseCase) SetFilters(f domain.BlogFilters) {
	uc.reduce(state.SetBlogFilters{Filters: f})
}

func (uc *UseCase) Filters() domain.BlogFilters {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state.Filters
}

// Filtered applies the active filters and orders the result newest first.
func (uc *UseCase) Filtered() []domain.BlogPost {
	return uc.Sorted(domain.SortByDate)
}

// Sorted applies the active filters and orders the result by.
func (uc *UseCase) Sorted(by domain.BlogSort) []domain.BlogPost {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return query.SortPosts(query.Posts(uc.state.Posts, uc.state.Filters), by)
}

func (uc *UseCase) Featured() []domain.BlogPost {
	return query.Featured(uc.All(), featuredLimit)
}

func (uc *UseCase) ByCategory(category domain.BlogCategory) []domain.BlogPost {
	return query.PostsByCategory(uc.All(), category, categoryLimit)
}

// Search matches q against every post regardless of the active filters.
func (uc *UseCase) Search(q string) []domain.BlogPost {
	return query.Filter(uc.All(), func(p domain.BlogPost) bool {
		return query.MatchesPostSearch(p, q)
	})
}

func (uc *UseCase) All() []domain.BlogPost {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return append([]domain.BlogPost{}, uc.state.Posts...)
}

func (uc *UseCase) Get(id string) (domain.BlogPost, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	for _, p := range uc.state.Posts {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.BlogPost{}, domain.ErrPostNotFound
}

// Publish prepends a new post to the feed.
func (uc *UseCase) Publish(ctx context.Context, post domain.BlogPost) (domain.BlogPost, error) {
	log := logger.WithOperationID(logger.EnsureOperationID(ctx), uc.logger)
	fields := map[string]string{}
	if strings.TrimSpace(post.Title) == "" {
		fields["title"] = "Title is required"
	}
	if strings.TrimSpace(post.Content) == "" {
		fields["content"] = "Content is required"
	}
	if len(fields) > 0 {
		return domain.BlogPost{}, domain.NewValidationError(fields)
	}

	now := uc.sched.Now()
	if post.ID == "" {
		post.ID = uc.opts.NewID()
	}
	if post.PublishedAt.IsZero() {
		post.PublishedAt = now
	}
	post.UpdatedAt = now
	uc.reduce(state.AddPost{Post: post})
	log.Info("post published", zap.String("post_id", post.ID))
	return post, nil
}

func (uc *UseCase) Delete(id string) error {
	if _, err := uc.Get(id); err != nil {
		return err
	}
	uc.reduce(state.DeletePost{ID: id})
	return nil
}

// Like adds one like to the post.
func (uc *UseCase) Like(id string) error {
	if _, err := uc.Get(id); err != nil {
		return err
	}
	uc.reduce(state.LikePost{ID: id})
	return nil
}

func (uc *UseCase) Comments(postID string) []domain.BlogComment {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return query.Filter(uc.state.Comments, func(c domain.BlogComment) bool { return c.PostID == postID })
}

// AddComment appends a comment and bumps the post's comment count.
func (uc *UseCase) AddComment(postID string, author domain.Author, content string) (domain.BlogComment, error) {
	if _, err := uc.Get(postID); err != nil {
		return domain.BlogComment{}, err
	}
	if strings.TrimSpace(content) == "" {
		return domain.BlogComment{}, domain.NewValidationError(map[string]string{"content": "Comment cannot be empty"})
	}
	c := domain.BlogComment{
		ID:        uc.opts.NewID(),
		PostID:    postID,
		Author:    author,
		Content:   content,
		CreatedAt: uc.sched.Now(),
	}
	uc.reduce(state.AddComment{Comment: c})
	return c, nil
}

func (uc *UseCase) Subscribe(fn func()) func() {
	return uc.listeners.Add(fn)
}

func (uc *UseCase) reduce(action state.BlogAction) {
	uc.mu.Lock()
	uc.state = state.ReduceBlog(uc.state, action)
	uc.mu.Unlock()
	uc.listeners.Notify()
}
