package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"blog-api/eventbus"
	"blog-api/events"
	"blog-api/internal/logger"
	"blog-api/models"
	"blog-api/repositories"
)

var (
	// ErrValidation marks input the client has to fix.
	ErrValidation = errors.New("title, body, and author are required")
	// ErrNotFound is returned when no blog matches the id.
	ErrNotFound = repositories.ErrNotFound
)

// BlogStore is the persistence the service needs. repositories.BlogRepository implements it.
type BlogStore interface {
	Create(ctx context.Context, b *models.Blog) error
	List(ctx context.Context) ([]models.Blog, error)
	FindByID(ctx context.Context, id string) (*models.Blog, error)
	UpdateByID(ctx context.Context, id string, patch models.BlogPatch, updatedAt time.Time) (*models.Blog, error)
	DeleteByID(ctx context.Context, id string) (*models.Blog, error)
}

// BlogService validates input, stamps timestamps and announces writes.
type BlogService struct {
	store     BlogStore
	publisher eventbus.Publisher
	topic     eventbus.Topic
	now       func() time.Time

	publishTimeout time.Duration
	inflight       sync.WaitGroup
}

const defaultPublishTimeout = 10 * time.Second

type Option func(*BlogService)

// WithPublisher enables lifecycle events on topic.
func WithPublisher(p eventbus.Publisher, topic eventbus.Topic) Option {
	return func(s *BlogService) {
		s.publisher = p
		s.topic = topic
	}
}

// WithPublishTimeout bounds a single background publish.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *BlogService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *BlogService) { s.now = now }
}

func NewBlogService(store BlogStore, opts ...Option) *BlogService {
	s := &BlogService{
		store:     store,
		publisher: eventbus.NopPublisher{},
		now:       func() time.Time { return time.Now().UTC() },

		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateBlogInput struct {
	Title     string
	Body      string
	Author    string
	CreatedAt *time.Time
}

func (in CreateBlogInput) validate() error {
	if in.Title == "" || in.Body == "" || in.Author == "" {
		return ErrValidation
	}
	return nil
}

func (s *BlogService) Create(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now()
	b := &models.Blog{
		Title:     in.Title,
		Body:      in.Body,
		Author:    in.Author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.CreatedAt != nil && !in.CreatedAt.IsZero() {
		b.CreatedAt = *in.CreatedAt
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, events.BlogCreated, *b)
	return b, nil
}

func (s *BlogService) List(ctx context.Context) ([]models.Blog, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Blog{}
	}
	return items, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	return s.store.FindByID(ctx, id)
}

// Update overwrites only the supplied fields. Empty strings are accepted.
// A patch with no fields returns the current document untouched.
func (s *BlogService) Update(ctx context.Context, id string, patch models.BlogPatch) (*models.Blog, error) {
	if patch.IsEmpty() {
		return s.store.FindByID(ctx, id)
	}
	b, err := s.store.UpdateByID(ctx, id, patch, s.now())
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.BlogUpdated, *b)
	return b, nil
}

func (s *BlogService) Delete(ctx context.Context, id string) (*models.Blog, error) {
	b, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.BlogDeleted, *b)
	return b, nil
}

// publish hands the event to a background goroutine so the write returns
// after its store round-trip. Failures are only logged.
func (s *BlogService) publish(ctx context.Context, t events.EventType, b models.Blog) {
	evt, err := eventbus.NewJSONEvent("", string(t), events.NewBlogEvent(t, b, s.now()))
	if err != nil {
		logger.ErrorWithFields("failed to build blog event", logger.Fields{
			"event_type": string(t),
			"blog_id":    b.ID.Hex(),
			"error":      err.Error(),
		})
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		if err := s.publisher.Publish(pubCtx, s.topic, evt); err != nil {
			logger.ErrorWithFields("failed to publish blog event", logger.Fields{
				"event_type": string(t),
				"event_id":   evt.ID,
				"blog_id":    b.ID.Hex(),
				"topic":      s.topic.Base(),
				"error":      err.Error(),
			})
		}
	}()
}

// Drain waits for in-flight publishes until ctx is done.
func (s *BlogService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
