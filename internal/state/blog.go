package state

import "github.com/fastygo/planner/domain"

// BlogState is the blog slice of the application state.
type BlogState struct {
	Posts    []domain.BlogPost
	Comments []domain.BlogComment
	Loading  bool
	Error    string
	Filters  domain.BlogFilters
}

// BlogAction is implemented by every action ReduceBlog understands.
type BlogAction interface {
	blogAction()
}

type (
	SetPosts       struct{ Posts []domain.BlogPost }
	AddPost        struct{ Post domain.BlogPost }
	UpdatePost     struct{ Post domain.BlogPost }
	DeletePost     struct{ ID string }
	SetBlogFilters struct{ Filters domain.BlogFilters }
	LikePost       struct{ ID string }
	AddComment     struct{ Comment domain.BlogComment }
	SetBlogLoading struct{ Loading bool }
	SetBlogError   struct{ Message string }
)

func (SetPosts) blogAction()       {}
func (AddPost) blogAction()        {}
func (UpdatePost) blogAction()     {}
func (DeletePost) blogAction()     {}
func (SetBlogFilters) blogAction() {}
func (LikePost) blogAction()       {}
func (AddComment) blogAction()     {}
func (SetBlogLoading) blogAction() {}
func (SetBlogError) blogAction()   {}

// ReduceBlog returns the state that results from applying action.
func ReduceBlog(s BlogState, action BlogAction) BlogState {
	switch a := action.(type) {
	case SetPosts:
		s.Posts = append([]domain.BlogPost{}, a.Posts...)
		s.Loading = false
	case AddPost:
		next := make([]domain.BlogPost, 0, len(s.Posts)+1)
		next = append(next, a.Post)
		s.Posts = append(next, s.Posts...)
	case UpdatePost:
		s.Posts = mapPosts(s.Posts, a.Post.ID, func(domain.BlogPost) domain.BlogPost { return a.Post })
	case DeletePost:
		next := make([]domain.BlogPost, 0, len(s.Posts))
		for _, p := range s.Posts {
			if p.ID != a.ID {
				next = append(next, p)
			}
		}
		s.Posts = next
	case SetBlogFilters:
		s.Filters = a.Filters
	case LikePost:
		s.Posts = mapPosts(s.Posts, a.ID, func(p domain.BlogPost) domain.BlogPost {
			p.Likes++
			return p
		})
	case AddComment:
		next := make([]domain.BlogComment, 0, len(s.Comments)+1)
		next = append(next, s.Comments...)
		s.Comments = append(next, a.Comment)
		s.Posts = mapPosts(s.Posts, a.Comment.PostID, func(p domain.BlogPost) domain.BlogPost {
			p.Comments++
			return p
		})
	case SetBlogLoading:
		s.Loading = a.Loading
	case SetBlogError:
		s.Error = a.Message
		s.Loading = false
	}
	return s
}

func mapPosts(in []domain.BlogPost, id string, fn func(domain.BlogPost) domain.BlogPost) []domain.BlogPost {
	out := make([]domain.BlogPost, len(in))
	for i, p := range in {
		if p.ID == id {
			out[i] = fn(p)
			continue
		}
		out[i] = p
	}
	return out
}
