package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/portfolio/internal/domains/github"
	"github.com/xpanvictor/portfolio/internal/domains/profile"
	"github.com/xpanvictor/portfolio/pkg/Logger"
)

// ContentHandler serves the read-only portfolio content.
type ContentHandler struct {
	profile       profile.Profile
	githubService github.GitHubService
	logger        *Logger.Logger
}

func NewContentHandler(p profile.Profile, githubService github.GitHubService, logger *Logger.Logger) *ContentHandler {
	return &ContentHandler{
		profile:       p,
		githubService: githubService,
		logger:        logger,
	}
}

// Profile
// @Summary Portfolio content
// @Tags Content
// @Produce json
// @Success 200 {object} profile.Profile
// @Router /profile [get]
func (h *ContentHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, h.profile)
}

// GitHub returns the cached GitHub snapshot
// @Summary GitHub activity
// @Description Profile, six most recently updated repositories and aggregate stats. Cached for an hour; stale is set when GitHub could not be reached.
// @Tags Content
// @Produce json
// @Success 200 {object} github.Snapshot
// @Failure 500 {object} ErrorResponse "Failed to fetch GitHub data"
// @Router /github [get]
func (h *ContentHandler) GitHub(c *gin.Context) {
	snap, err := h.githubService.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch GitHub data"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ContentHandler) RegisterContentRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.Profile)
	r.GET("/github", h.GitHub)
}
