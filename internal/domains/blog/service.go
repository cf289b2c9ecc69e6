package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/portfolio/pkg/Logger"
)

// Common errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrTermNotFound = errors.New("category or tag not found")
	ErrSlugExists   = errors.New("slug already exists")
	ErrInvalidPost  = errors.New("invalid post data")
)

type BlogService interface {
	// Public site
	ListPublished(ctx context.Context, limit int) ([]Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Post, error)

	// Admin
	ListAll(ctx context.Context) ([]Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (*Post, error)
	UpdatePost(ctx context.Context, id string, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, req CreateTermRequest) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]Tag, error)
	CreateTag(ctx context.Context, req CreateTermRequest) (*Tag, error)
}

type blogService struct {
	repository BlogRepository
	logger     *Logger.Logger
	now        func() time.Time
}

func (s *blogService) ListPublished(ctx context.Context, limit int) ([]Post, error) {
	posts, err := s.repository.ListPosts(ctx, ListPostsRequest{Status: StatusPublished, Limit: limit})
	if err != nil {
		s.logger.Errorf("error listing published posts: %v", err)
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *blogService) GetPublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	post, err := s.repository.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Status != StatusPublished {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *blogService) ListAll(ctx context.Context) ([]Post, error) {
	posts, err := s.repository.ListPosts(ctx, ListPostsRequest{})
	if err != nil {
		s.logger.Errorf("error listing posts: %v", err)
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *blogService) GetPost(ctx context.Context, id string) (*Post, error) {
	return s.repository.GetPostByID(ctx, id)
}

func (s *blogService) resolveSlug(ctx context.Context, explicit, fallback, excludeID string) (string, error) {
	source := explicit
	if strings.TrimSpace(source) == "" {
		source = fallback
	}
	slug := Slugify(source)
	if slug == "" {
		return "", ErrInvalidPost
	}
	exists, err := s.repository.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return "", ErrSlugExists
	}
	return slug, nil
}

func (s *blogService) CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (*Post, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrInvalidPost
	}
	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidPost
	}

	slug, err := s.resolveSlug(ctx, req.Slug, req.Title, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &Post{
		ID:            uuid.New().String(),
		Title:         strings.TrimSpace(req.Title),
		Slug:          slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Status:        status,
		AuthorID:      authorID,
		Categories:    categoryRefs(req.CategoryIDs),
		Tags:          tagRefs(req.TagIDs),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == StatusPublished {
		post.PublishedAt = &now
	}

	if err := s.repository.CreatePost(ctx, post); err != nil {
		if errors.Is(err, ErrSlugExists) {
			return nil, ErrSlugExists
		}
		s.logger.Errorf("error creating post: %v", err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Infof("post created: %s (%s)", post.ID, post.Slug)
	return post, nil
}

// UpdatePost applies req. Publishing stamps PublishedAt only the first time;
// moving back to draft clears it.
func (s *blogService) UpdatePost(ctx context.Context, id string, req UpdatePostRequest) (*Post, error) {
	post, err := s.repository.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrInvalidPost
		}
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil && Slugify(*req.Slug) != post.Slug {
		slug, err := s.resolveSlug(ctx, *req.Slug, post.Title, post.ID)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, ErrInvalidPost
		}
		post.Content = *req.Content
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.CategoryIDs != nil {
		post.Categories = categoryRefs(*req.CategoryIDs)
	}
	if req.TagIDs != nil {
		post.Tags = tagRefs(*req.TagIDs)
	}

	now := s.now()
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidPost
		}
		post.Status = *req.Status
		switch post.Status {
		case StatusPublished:
			if post.PublishedAt == nil {
				post.PublishedAt = &now
			}
		case StatusDraft:
			post.PublishedAt = nil
		}
	}
	post.UpdatedAt = now

	if err := s.repository.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, ErrSlugExists) || errors.Is(err, ErrPostNotFound) {
			return nil, err
		}
		s.logger.Errorf("error updating post: %v", err)
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.logger.Infof("post updated: %s", post.ID)
	return post, nil
}

func (s *blogService) DeletePost(ctx context.Context, id string) error {
	if err := s.repository.DeletePost(ctx, id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return ErrPostNotFound
		}
		s.logger.Errorf("error deleting post: %v", err)
		return fmt.Errorf("failed to delete post: %w", err)
	}
	s.logger.Infof("post deleted: %s", id)
	return nil
}

func (s *blogService) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repository.ListCategories(ctx)
}

func termSlug(req CreateTermRequest) (string, string, error) {
	name := strings.TrimSpace(req.Name)
	source := req.Slug
	if strings.TrimSpace(source) == "" {
		source = name
	}
	slug := Slugify(source)
	if name == "" || slug == "" {
		return "", "", ErrInvalidPost
	}
	return name, slug, nil
}

func (s *blogService) CreateCategory(ctx context.Context, req CreateTermRequest) (*Category, error) {
	name, slug, err := termSlug(req)
	if err != nil {
		return nil, err
	}
	c := &Category{ID: uuid.New().String(), Name: name, Slug: slug}
	if err := s.repository.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *blogService) DeleteCategory(ctx context.Context, id string) error {
	return s.repository.DeleteCategory(ctx, id)
}

func (s *blogService) ListTags(ctx context.Context) ([]Tag, error) {
	return s.repository.ListTags(ctx)
}

func (s *blogService) CreateTag(ctx context.Context, req CreateTermRequest) (*Tag, error) {
	name, slug, err := termSlug(req)
	if err != nil {
		return nil, err
	}
	t := &Tag{ID: uuid.New().String(), Name: name, Slug: slug}
	if err := s.repository.CreateTag(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func NewBlogService(repository BlogRepository, logger *Logger.Logger) BlogService {
	return &blogService{
		repository: repository,
		logger:     logger,
		now:        time.Now,
	}
}
