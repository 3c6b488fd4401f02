// Package seed decodes the embedded demo notifications and blog posts.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/fastygo/planner/domain"
)

//go:embed notifications.yaml
var notificationsYAML []byte

//go:embed posts.yaml
var postsYAML []byte

type notificationRecord struct {
	ID        string                       `yaml:"id"`
	Type      domain.NotificationType      `yaml:"type"`
	Title     string                       `yaml:"title"`
	Message   string                       `yaml:"message"`
	Read      bool                         `yaml:"read"`
	Age       string                       `yaml:"age"`
	ActionURL string                       `yaml:"actionUrl"`
	Metadata  *domain.NotificationMetadata `yaml:"metadata"`
}

type postRecord struct {
	ID          string              `yaml:"id"`
	Title       string              `yaml:"title"`
	Content     string              `yaml:"content"`
	Excerpt     string              `yaml:"excerpt"`
	Category    domain.BlogCategory `yaml:"category"`
	Author      domain.Author       `yaml:"author"`
	Tags        []string            `yaml:"tags"`
	ReadTime    int                 `yaml:"readTime"`
	PublishedAt string              `yaml:"publishedAt"`
	Likes       int                 `yaml:"likes"`
	Comments    int                 `yaml:"comments"`
	Featured    bool                `yaml:"featured"`
	ImageURL    string              `yaml:"imageUrl"`
}

// Notifications returns the demo inbox with creation times relative to now.
func Notifications(now time.Time) ([]domain.Notification, error) {
	return decodeNotifications(notificationsYAML, now)
}

func decodeNotifications(data []byte, now time.Time) ([]domain.Notification, error) {
	var records []notificationRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("seed: decode notifications: %w", err)
	}

	out := make([]domain.Notification, 0, len(records))
	for _, r := range records {
		age, err := time.ParseDuration(r.Age)
		if err != nil {
			return nil, fmt.Errorf("seed: notification %s: %w", r.ID, err)
		}
		out = append(out, domain.Notification{
			ID:        r.ID,
			Type:      r.Type,
			Title:     r.Title,
			Message:   r.Message,
			Read:      r.Read,
			CreatedAt: now.Add(-age),
			ActionURL: r.ActionURL,
			Metadata:  r.Metadata,
		})
	}
	return out, nil
}

// Posts returns the demo blog feed.
func Posts() ([]domain.BlogPost, error) {
	return decodePosts(postsYAML)
}

func decodePosts(data []byte) ([]domain.BlogPost, error) {
	var records []postRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("seed: decode posts: %w", err)
	}

	out := make([]domain.BlogPost, 0, len(records))
	for _, r := range records {
		published, err := time.Parse("2006-01-02", r.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("seed: post %s: %w", r.ID, err)
		}
		out = append(out, domain.BlogPost{
			ID:          r.ID,
			Title:       r.Title,
			Content:     r.Content,
			Excerpt:     r.Excerpt,
			Category:    r.Category,
			Author:      r.Author,
			Tags:        r.Tags,
			ReadTime:    r.ReadTime,
			PublishedAt: published,
			UpdatedAt:   published,
			Likes:       r.Likes,
			Comments:    r.Comments,
			Featured:    r.Featured,
			ImageURL:    r.ImageURL,
		})
	}
	return out, nil
}
