package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/portfolio/internal/domains/blog"
	"gorm.io/gorm"
)

// PostEntity represents the database entity for Post with GORM tags
type PostEntity struct {
	ID            string           `gorm:"primaryKey;type:char(36);not null"`
	Title         string           `gorm:"type:varchar(255);not null"`
	Slug          string           `gorm:"type:varchar(191);uniqueIndex;not null"`
	Excerpt       string           `gorm:"type:text"`
	Content       string           `gorm:"type:text;not null"`
	FeaturedImage string           `gorm:"column:featured_image;type:varchar(512)"`
	Status        string           `gorm:"type:varchar(16);not null;default:draft;index"`
	AuthorID      string           `gorm:"column:author_id;type:char(36);index"`
	PublishedAt   *time.Time       `gorm:"column:published_at;index"`
	Categories    []CategoryEntity `gorm:"many2many:post_categories;joinForeignKey:PostID;joinReferences:CategoryID"`
	Tags          []TagEntity      `gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID"`
	CreatedAt     time.Time        `gorm:"autoCreateTime(3)"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime(3)"`
}

// TableName returns the table name for GORM
func (PostEntity) TableName() string {
	return "blog_posts"
}

// BeforeCreate is a GORM hook to ensure UUID is set
func (p *PostEntity) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// ToDomain converts PostEntity to domain Post
func (p *PostEntity) ToDomain() *blog.Post {
	categories := make([]blog.Category, len(p.Categories))
	for i, c := range p.Categories {
		categories[i] = c.ToDomain()
	}
	tags := make([]blog.Tag, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = t.ToDomain()
	}

	return &blog.Post{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		FeaturedImage: p.FeaturedImage,
		Status:        blog.Status(p.Status),
		AuthorID:      p.AuthorID,
		PublishedAt:   p.PublishedAt,
		Categories:    categories,
		Tags:          tags,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromDomain copies the scalar fields; associations are resolved by the repo.
func (p *PostEntity) FromDomain(post *blog.Post) {
	p.ID = post.ID
	p.Title = post.Title
	p.Slug = post.Slug
	p.Excerpt = post.Excerpt
	p.Content = post.Content
	p.FeaturedImage = post.FeaturedImage
	p.Status = string(post.Status)
	p.AuthorID = post.AuthorID
	p.PublishedAt = post.PublishedAt
	p.CreatedAt = post.CreatedAt
	p.UpdatedAt = post.UpdatedAt
}

func NewPostEntityFromDomain(post *blog.Post) *PostEntity {
	entity := &PostEntity{}
	entity.FromDomain(post)
	return entity
}

type CategoryEntity struct {
	ID   string `gorm:"primaryKey;type:char(36);not null"`
	Name string `gorm:"type:varchar(100);not null"`
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (CategoryEntity) TableName() string {
	return "blog_categories"
}

func (c *CategoryEntity) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (c CategoryEntity) ToDomain() blog.Category {
	return blog.Category{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

type TagEntity struct {
	ID   string `gorm:"primaryKey;type:char(36);not null"`
	Name string `gorm:"type:varchar(100);not null"`
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (TagEntity) TableName() string {
	return "blog_tags"
}

func (t *TagEntity) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (t TagEntity) ToDomain() blog.Tag {
	return blog.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug}
}
