package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blog-api/models"
)

var (
	// ErrNotFound is returned when no blog matches the given id.
	ErrNotFound = errors.New("blog not found")
	// ErrInvalidID is returned when the id is not a valid ObjectID hex string.
	ErrInvalidID = errors.New("invalid blog id")
)

const DefaultCollection = "blogs"

type BlogRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewBlogRepository(db *mongo.Database, collection string) *BlogRepository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &BlogRepository{col: db.Collection(collection)}
}

// WithOperationTimeout bounds every store round-trip. Zero means no bound beyond ctx.
func (r *BlogRepository) WithOperationTimeout(d time.Duration) *BlogRepository {
	r.timeout = d
	return r
}

func (r *BlogRepository) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Create inserts b and sets b.ID to the id assigned by the store.
func (r *BlogRepository) Create(ctx context.Context, b *models.Blog) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	b.ID = primitive.NilObjectID
	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert blog: unexpected inserted id type %T", res.InsertedID)
	}
	b.ID = oid
	return nil
}

// List returns every blog in the order the store yields them.
func (r *BlogRepository) List(ctx context.Context) ([]models.Blog, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find blogs: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]models.Blog, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return items, nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id string) (*models.Blog, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var b models.Blog
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&b); err != nil {
		return nil, notFoundOr(err, "find blog")
	}
	return &b, nil
}

// UpdateByID applies the non-nil fields of patch and returns the document after the update.
func (r *BlogRepository) UpdateByID(ctx context.Context, id string, patch models.BlogPatch, updatedAt time.Time) (*models.Blog, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.opContext(ctx)
	defer cancel()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b models.Blog
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, updateDocument(patch, updatedAt), opts).Decode(&b)
	if err != nil {
		return nil, notFoundOr(err, "update blog")
	}
	return &b, nil
}

// DeleteByID removes the blog and returns it as it was before deletion.
func (r *BlogRepository) DeleteByID(ctx context.Context, id string) (*models.Blog, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var b models.Blog
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&b); err != nil {
		return nil, notFoundOr(err, "delete blog")
	}
	return &b, nil
}

// updateDocument builds a $set that only touches the supplied fields.
func updateDocument(patch models.BlogPatch, updatedAt time.Time) bson.M {
	set := bson.M{"updated_at": updatedAt}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Body != nil {
		set["body"] = *patch.Body
	}
	if patch.Author != nil {
		set["author"] = *patch.Author
	}
	return bson.M{"$set": set}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q: %v", ErrInvalidID, id, err)
	}
	return oid, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
