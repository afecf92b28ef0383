package events

import (
	"time"

	"blog-api/models"
)

// EventType 블로그 라이프사이클 이벤트 타입
type EventType string

const (
	BlogCreated EventType = "blog.created"
	BlogUpdated EventType = "blog.updated"
	BlogDeleted EventType = "blog.deleted"
)

// BlogEvent 는 쓰기가 성공한 뒤 발행되는 페이로드다.
type BlogEvent struct {
	Type       EventType `json:"type"`
	BlogID     string    `json:"blog_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBlogEvent(t EventType, b models.Blog, at time.Time) BlogEvent {
	return BlogEvent{
		Type:       t,
		BlogID:     b.ID.Hex(),
		Title:      b.Title,
		Author:     b.Author,
		OccurredAt: at,
	}
}
