package blog

import (
	"context"
	"regexp"
	"strings"
	"time"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Category groups posts. Tags share the same shape.
// @Description Blog category
type Category struct {
	ID   string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name string `json:"name" example:"Data Engineering"`
	Slug string `json:"slug" example:"data-engineering"`
}

// @Description Blog tag
type Tag struct {
	ID   string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name string `json:"name" example:"ETL"`
	Slug string `json:"slug" example:"etl"`
}

// Post is a blog article (pure domain model)
// @Description Blog post
type Post struct {
	ID            string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title         string     `json:"title" example:"Why CDC beats batch"`
	Slug          string     `json:"slug" example:"why-cdc-beats-batch"`
	Excerpt       string     `json:"excerpt,omitempty"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Status        Status     `json:"status" example:"published" enums:"draft,published"`
	AuthorID      string     `json:"authorId,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt"`
	Categories    []Category `json:"categories"`
	Tags          []Tag      `json:"tags"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreatePostRequest represents the data needed to create a post
// @Description Request body for post creation
type CreatePostRequest struct {
	Title         string   `json:"title" binding:"required,max=255" example:"Why CDC beats batch"`
	Slug          string   `json:"slug,omitempty" example:"why-cdc-beats-batch"`
	Excerpt       string   `json:"excerpt,omitempty"`
	Content       string   `json:"content" binding:"required"`
	FeaturedImage string   `json:"featuredImage,omitempty"`
	Status        Status   `json:"status,omitempty" example:"draft" enums:"draft,published"`
	CategoryIDs   []string `json:"categoryIds,omitempty"`
	TagIDs        []string `json:"tagIds,omitempty"`
}

// UpdatePostRequest represents the fields that can be changed on a post
// @Description Request body for updating a post
type UpdatePostRequest struct {
	Title         *string   `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Slug          *string   `json:"slug,omitempty"`
	Excerpt       *string   `json:"excerpt,omitempty"`
	Content       *string   `json:"content,omitempty" binding:"omitempty,min=1"`
	FeaturedImage *string   `json:"featuredImage,omitempty"`
	Status        *Status   `json:"status,omitempty" enums:"draft,published"`
	CategoryIDs   *[]string `json:"categoryIds,omitempty"`
	TagIDs        *[]string `json:"tagIds,omitempty"`
}

// @Description Request body for creating a category or tag
type CreateTermRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"Data Engineering"`
	Slug string `json:"slug,omitempty" example:"data-engineering"`
}

type ListPostsRequest struct {
	Status Status
	Limit  int
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func categoryRefs(ids []string) []Category {
	out := make([]Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, Category{ID: id})
	}
	return out
}

func tagRefs(ids []string) []Tag {
	out := make([]Tag, 0, len(ids))
	for _, id := range ids {
		out = append(out, Tag{ID: id})
	}
	return out
}

// BlogRepository defines the interface for blog data operations.
// Categories and Tags on a Post passed to CreatePost or UpdatePost only need
// their IDs; the repository replaces the post's associations with them.
type BlogRepository interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPostByID(ctx context.Context, id string) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, filter ListPostsRequest) ([]Post, error)
	// SlugExists ignores the post with excludeID so a post can keep its slug.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]Tag, error)
	CreateTag(ctx context.Context, t *Tag) error
}
