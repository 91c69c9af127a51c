package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// RespondWithError writes the consistent error shape {message, errors?}.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// RespondWithValidationError carries per-field messages alongside the
// top-level message.
func RespondWithValidationError(c *gin.Context, message string, fieldErrors map[string]string) {
	c.AbortWithStatusJSON(400, gin.H{"message": message, "errors": fieldErrors})
}

// Pagination reads page/limit query parameters with sane bounds.
func Pagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}
