package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xpanvictor/portfolio/pkg/clientinfo"
)

type HTTPUserInfo struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func ExtractUserInfo(c *gin.Context) (HTTPUserInfo, bool) {
	userID := c.GetString("userID") // From JWT middleware
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return HTTPUserInfo{}, false
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unable to parse user id"})
		return HTTPUserInfo{}, false
	}

	return HTTPUserInfo{
		UserID: userUUID,
		Email:  c.GetString("email"),
		Role:   c.GetString("role"),
	}, true
}

// pageParams reads ?page and ?limit, falling back to page 1 and def.
func pageParams(c *gin.Context, def, max int) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit
}

// clientIP resolves the caller address the same way for every handler.
func clientIP(c *gin.Context, trustForwarded bool) string {
	return clientinfo.ClientIP(c.Request, trustForwarded)
}
