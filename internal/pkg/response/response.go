package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"appointments/internal/domain"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// AbortError writes an error envelope and stops the handler chain.
func AbortError(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// FromError renders a classified domain error. Anything unclassified becomes
// a 500 and is attached to the context so the request logger records it.
func FromError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	Error(c, StatusFor(de), de.Code, de.Message)
}

func StatusFor(de *domain.Error) int {
	switch de.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindState:
		if errors.Is(de, domain.ErrHoldNotOwned) {
			return http.StatusForbidden
		}
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
