package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/portfolio/internal/domains/blog"
	"github.com/xpanvictor/portfolio/internal/domains/user"
	"github.com/xpanvictor/portfolio/pkg/Logger"
)

type BlogHandler struct {
	blogService blog.BlogService
	userService user.UserService
	logger      *Logger.Logger
}

func NewBlogHandler(blogService blog.BlogService, userService user.UserService, logger *Logger.Logger) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		userService: userService,
		logger:      logger,
	}
}

// blogError maps blog domain errors to responses.
func (h *BlogHandler) blogError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, blog.ErrSlugExists):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Slug already exists"})
	case errors.Is(err, blog.ErrInvalidPost):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
	case errors.Is(err, blog.ErrTermNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown category or tag"})
	case errors.Is(err, blog.ErrPostNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Post not found"})
	default:
		h.logger.Errorf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// ListPublished lists published posts
// @Summary List published posts
// @Tags Blog
// @Produce json
// @Param limit query int false "Maximum number of posts"
// @Success 200 {array} blog.Post
// @Failure 500 {object} ErrorResponse
// @Router /blogs [get]
func (h *BlogHandler) ListPublished(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	posts, err := h.blogService.ListPublished(c.Request.Context(), limit)
	if err != nil {
		h.blogError(c, err, "Failed to fetch posts")
		return
	}
	if posts == nil {
		posts = []blog.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// GetBySlug returns one published post
// @Summary Get published post
// @Tags Blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} blog.Post
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /blogs/{slug} [get]
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	post, err := h.blogService.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.blogError(c, err, "Failed to fetch post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListAll lists every post
// @Summary List all posts (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} blog.Post
// @Router /admin/blogs [get]
func (h *BlogHandler) ListAll(c *gin.Context) {
	posts, err := h.blogService.ListAll(c.Request.Context())
	if err != nil {
		h.blogError(c, err, "Failed to fetch posts")
		return
	}
	if posts == nil {
		posts = []blog.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost returns a post by id
// @Summary Get post (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} blog.Post
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /admin/blogs/{id} [get]
func (h *BlogHandler) GetPost(c *gin.Context) {
	post, err := h.blogService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.blogError(c, err, "Failed to fetch post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost creates a post
// @Summary Create post (Admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body blog.CreatePostRequest true "Post data"
// @Success 201 {object} blog.Post
// @Failure 400 {object} ErrorResponse "Invalid request data or slug already exists"
// @Router /admin/blogs [post]
func (h *BlogHandler) CreatePost(c *gin.Context) {
	info, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	var req blog.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}

	post, err := h.blogService.CreatePost(c.Request.Context(), info.UserID.String(), req)
	if err != nil {
		h.blogError(c, err, "Failed to create post")
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost updates a post
// @Summary Update post (Admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body blog.UpdatePostRequest true "Fields to change"
// @Success 200 {object} blog.Post
// @Failure 400 {object} ErrorResponse "Invalid request data or slug already exists"
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /admin/blogs/{id} [put]
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	var req blog.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}

	post, err := h.blogService.UpdatePost(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.blogError(c, err, "Failed to update post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post
// @Summary Delete post (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /admin/blogs/{id} [delete]
func (h *BlogHandler) DeletePost(c *gin.Context) {
	if err := h.blogService.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		h.blogError(c, err, "Failed to delete post")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Post deleted successfully"})
}

// ListCategories
// @Summary List categories (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} blog.Category
// @Router /admin/categories [get]
func (h *BlogHandler) ListCategories(c *gin.Context) {
	categories, err := h.blogService.ListCategories(c.Request.Context())
	if err != nil {
		h.blogError(c, err, "Failed to fetch categories")
		return
	}
	if categories == nil {
		categories = []blog.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory
// @Summary Create category (Admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body blog.CreateTermRequest true "Category"
// @Success 201 {object} blog.Category
// @Failure 400 {object} ErrorResponse "Invalid request data or slug already exists"
// @Router /admin/categories [post]
func (h *BlogHandler) CreateCategory(c *gin.Context) {
	var req blog.CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}
	category, err := h.blogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.blogError(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// DeleteCategory
// @Summary Delete category (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/categories/{id} [delete]
func (h *BlogHandler) DeleteCategory(c *gin.Context) {
	if err := h.blogService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, blog.ErrTermNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Category not found"})
			return
		}
		h.blogError(c, err, "Failed to delete category")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}

// ListTags
// @Summary List tags (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} blog.Tag
// @Router /admin/tags [get]
func (h *BlogHandler) ListTags(c *gin.Context) {
	tags, err := h.blogService.ListTags(c.Request.Context())
	if err != nil {
		h.blogError(c, err, "Failed to fetch tags")
		return
	}
	if tags == nil {
		tags = []blog.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

// CreateTag
// @Summary Create tag (Admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body blog.CreateTermRequest true "Tag"
// @Success 201 {object} blog.Tag
// @Failure 400 {object} ErrorResponse "Invalid request data or slug already exists"
// @Router /admin/tags [post]
func (h *BlogHandler) CreateTag(c *gin.Context) {
	var req blog.CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}
	tag, err := h.blogService.CreateTag(c.Request.Context(), req)
	if err != nil {
		h.blogError(c, err, "Failed to create tag")
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *BlogHandler) RegisterBlogRoutes(r *gin.RouterGroup) {
	public := r.Group("/blogs")
	{
		public.GET("", h.ListPublished)
		public.GET("/:slug", h.GetBySlug)
	}

	admin := r.Group("/admin")
	admin.Use(AuthMiddleware(h.userService, h.logger), AdminMiddleware())
	{
		admin.GET("/blogs", h.ListAll)
		admin.GET("/blogs/:id", h.GetPost)
		admin.POST("/blogs", h.CreatePost)
		admin.PUT("/blogs/:id", h.UpdatePost)
		admin.DELETE("/blogs/:id", h.DeletePost)

		admin.GET("/categories", h.ListCategories)
		admin.POST("/categories", h.CreateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)

		admin.GET("/tags", h.ListTags)
		admin.POST("/tags", h.CreateTag)
	}
}
