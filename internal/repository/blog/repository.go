package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/xpanvictor/portfolio/internal/domains/blog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormBlogRepo struct {
	db *gorm.DB
}

func translate(err error, action string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return blog.ErrSlugExists
	case errors.Is(err, gorm.ErrRecordNotFound):
		return blog.ErrPostNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}

// loadTerms resolves the referenced categories and tags. Unknown IDs are
// dropped.
func loadTerms(tx *gorm.DB, post *blog.Post) ([]CategoryEntity, []TagEntity, error) {
	var (
		categories []CategoryEntity
		tags       []TagEntity
	)
	if catIDs := ids(post.Categories, func(c blog.Category) string { return c.ID }); len(catIDs) > 0 {
		if err := tx.Where("id IN ?", catIDs).Find(&categories).Error; err != nil {
			return nil, nil, err
		}
	}
	if tagIDs := ids(post.Tags, func(t blog.Tag) string { return t.ID }); len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return nil, nil, err
		}
	}
	return categories, tags, nil
}

// CreatePost implements blog.BlogRepository
func (g *GormBlogRepo) CreatePost(ctx context.Context, post *blog.Post) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, tags, err := loadTerms(tx, post)
		if err != nil {
			return fmt.Errorf("failed to load post terms: %w", err)
		}
		entity := NewPostEntityFromDomain(post)
		entity.Categories = categories
		entity.Tags = tags
		if err := tx.Omit("Categories.*", "Tags.*").Create(entity).Error; err != nil {
			return translate(err, "create post")
		}
		*post = *entity.ToDomain()
		return nil
	})
}

func (g *GormBlogRepo) withTerms(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx).Preload("Categories").Preload("Tags")
}

// GetPostByID implements blog.BlogRepository
func (g *GormBlogRepo) GetPostByID(ctx context.Context, id string) (*blog.Post, error) {
	var entity PostEntity
	if err := g.withTerms(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, translate(err, "get post by ID")
	}
	return entity.ToDomain(), nil
}

// GetPostBySlug implements blog.BlogRepository
func (g *GormBlogRepo) GetPostBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	var entity PostEntity
	if err := g.withTerms(ctx).Where("slug = ?", slug).First(&entity).Error; err != nil {
		return nil, translate(err, "get post by slug")
	}
	return entity.ToDomain(), nil
}

// UpdatePost implements blog.BlogRepository
func (g *GormBlogRepo) UpdatePost(ctx context.Context, post *blog.Post) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity := NewPostEntityFromDomain(post)
		result := tx.Model(&PostEntity{ID: post.ID}).
			Select("title", "slug", "excerpt", "content", "featured_image", "status", "published_at", "updated_at").
			Updates(entity)
		if result.Error != nil {
			return translate(result.Error, "update post")
		}
		if result.RowsAffected == 0 {
			return blog.ErrPostNotFound
		}

		categories, tags, err := loadTerms(tx, post)
		if err != nil {
			return fmt.Errorf("failed to load post terms: %w", err)
		}
		ref := &PostEntity{ID: post.ID}
		if err := tx.Model(ref).Association("Categories").Replace(categories); err != nil {
			return fmt.Errorf("failed to replace post categories: %w", err)
		}
		if err := tx.Model(ref).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("failed to replace post tags: %w", err)
		}

		post.Categories = make([]blog.Category, len(categories))
		for i, c := range categories {
			post.Categories[i] = c.ToDomain()
		}
		post.Tags = make([]blog.Tag, len(tags))
		for i, t := range tags {
			post.Tags[i] = t.ToDomain()
		}
		return nil
	})
}

// DeletePost implements blog.BlogRepository
func (g *GormBlogRepo) DeletePost(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref := &PostEntity{ID: id}
		if err := tx.Model(ref).Association("Categories").Clear(); err != nil {
			return fmt.Errorf("failed to clear post categories: %w", err)
		}
		if err := tx.Model(ref).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear post tags: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&PostEntity{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return blog.ErrPostNotFound
		}
		return nil
	})
}

// ListPosts implements blog.BlogRepository
func (g *GormBlogRepo) ListPosts(ctx context.Context, filter blog.ListPostsRequest) ([]blog.Post, error) {
	query := g.withTerms(ctx)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Status == blog.StatusPublished {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "published_at"}, Desc: true})
	} else {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entities []PostEntity
	if err := query.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]blog.Post, len(entities))
	for i := range entities {
		posts[i] = *entities[i].ToDomain()
	}
	return posts, nil
}

// SlugExists implements blog.BlogRepository
func (g *GormBlogRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	query := g.db.WithContext(ctx).Model(&PostEntity{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// ListCategories implements blog.BlogRepository
func (g *GormBlogRepo) ListCategories(ctx context.Context) ([]blog.Category, error) {
	var entities []CategoryEntity
	if err := g.db.WithContext(ctx).Order("name asc").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	out := make([]blog.Category, len(entities))
	for i, e := range entities {
		out[i] = e.ToDomain()
	}
	return out, nil
}

// CreateCategory implements blog.BlogRepository
func (g *GormBlogRepo) CreateCategory(ctx context.Context, c *blog.Category) error {
	entity := &CategoryEntity{ID: c.ID, Name: c.Name, Slug: c.Slug}
	if err := g.db.WithContext(ctx).Create(entity).Error; err != nil {
		return translate(err, "create category")
	}
	*c = entity.ToDomain()
	return nil
}

// DeleteCategory implements blog.BlogRepository
func (g *GormBlogRepo) DeleteCategory(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_categories WHERE category_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach category: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&CategoryEntity{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return blog.ErrTermNotFound
		}
		return nil
	})
}

// ListTags implements blog.BlogRepository
func (g *GormBlogRepo) ListTags(ctx context.Context) ([]blog.Tag, error) {
	var entities []TagEntity
	if err := g.db.WithContext(ctx).Order("name asc").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	out := make([]blog.Tag, len(entities))
	for i, e := range entities {
		out[i] = e.ToDomain()
	}
	return out, nil
}

// CreateTag implements blog.BlogRepository
func (g *GormBlogRepo) CreateTag(ctx context.Context, t *blog.Tag) error {
	entity := &TagEntity{ID: t.ID, Name: t.Name, Slug: t.Slug}
	if err := g.db.WithContext(ctx).Create(entity).Error; err != nil {
		return translate(err, "create tag")
	}
	*t = entity.ToDomain()
	return nil
}

func NewGormBlogRepo(db *gorm.DB) blog.BlogRepository {
	return &GormBlogRepo{db: db}
}
