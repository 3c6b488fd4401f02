// Package routing turns navigation locations such as "/tasks?folder=3"
// into the initial filter state of each view.
package routing

import (
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/planner/domain"
)

// Params is the decoded navigation location.
type Params struct {
	Path          string
	FolderID      string
	TaskID        string
	Status        string
	Priority      string
	Search        string
	Category      string
	Tag           string
	Author        string
	View          string
	Date          string
	ShowCompleted bool
}

// Parse accepts a bare query string ("folder=3"), a query with its leading
// "?" or a full location ("/tasks?folder=3").
func Parse(location string) Params {
	var p Params
	path, rawQuery, found := strings.Cut(location, "?")
	if !found && !strings.HasPrefix(location, "/") {
		path, rawQuery = "", location
	}
	p.Path = path

	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Parse(rawQuery)

	p.FolderID = string(args.Peek("folder"))
	p.TaskID = string(args.Peek("taskId"))
	p.Status = string(args.Peek("status"))
	p.Priority = string(args.Peek("priority"))
	p.Search = string(args.Peek("search"))
	p.Category = string(args.Peek("category"))
	p.Tag = string(args.Peek("tag"))
	p.Author = string(args.Peek("author"))
	p.View = string(args.Peek("view"))
	p.Date = string(args.Peek("date"))
	if v := args.Peek("showCompleted"); len(v) > 0 {
		p.ShowCompleted, _ = strconv.ParseBool(string(v))
	}
	return p
}

// TaskFilters replaces the task filters on navigation. A location without
// parameters clears them.
func (p Params) TaskFilters() domain.TaskFilters {
	f := domain.TaskFilters{
		FolderID: p.FolderID,
		Search:   p.Search,
	}
	if s := domain.TaskStatus(p.Status); s.Valid() {
		f.Status = s
	}
	if pr := domain.Priority(p.Priority); pr.Valid() {
		f.Priority = pr
	}
	return f
}

func (p Params) BlogFilters() domain.BlogFilters {
	return domain.BlogFilters{
		Category: domain.BlogCategory(p.Category),
		Tag:      p.Tag,
		Search:   p.Search,
		Author:   p.Author,
	}
}

func (p Params) CalendarFilters() domain.CalendarFilters {
	f := domain.CalendarFilters{
		FolderID:      p.FolderID,
		ShowCompleted: p.ShowCompleted,
	}
	if s := domain.TaskStatus(p.Status); s.Valid() {
		f.Status = s
	}
	if pr := domain.Priority(p.Priority); pr.Valid() {
		f.Priority = pr
	}
	return f
}

// CalendarView returns the requested view, falling back to base for
// missing or invalid parts. Dates use the YYYY-MM-DD form in loc.
func (p Params) CalendarView(base domain.CalendarView, loc *time.Location) domain.CalendarView {
	if loc == nil {
		loc = time.Local
	}
	switch domain.CalendarViewType(p.View) {
	case domain.ViewMonth, domain.ViewWeek:
		base.Type = domain.CalendarViewType(p.View)
	}
	if d, err := time.ParseInLocation("2006-01-02", p.Date, loc); err == nil {
		base.Date = d
	}
	return base
}

func (p Params) SelectedTaskID() string   { return p.TaskID }
func (p Params) SelectedFolderID() string { return p.FolderID }

// IsEmpty reports whether the location carried no recognised parameter.
func (p Params) IsEmpty() bool {
	p.Path = ""
	return p == Params{}
}
