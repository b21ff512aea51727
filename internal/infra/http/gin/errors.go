package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/handlers/support"
)

const systemErrorMessage = "A system error occurred"

// respondError maps use-case failures to status codes. Unclassified errors are logged
// and reported without detail.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	err = support.Classify(err)
	switch {
	case apperr.IsAccess(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.IsInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if logger != nil {
			logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": systemErrorMessage})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

func respondEmpty(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}
