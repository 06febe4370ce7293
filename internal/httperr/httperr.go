package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the JSON shape of every error response.
type Body struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	// Reasons lists each validation failure when more than one may apply.
	Reasons any `json:"reasons,omitempty"`
}

func write(c *gin.Context, status int, code, message string) {
	c.JSON(status, Body{Code: code, Message: message})
}

func BadRequest(c *gin.Context, code, message string) {
	write(c, http.StatusBadRequest, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	write(c, http.StatusForbidden, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	write(c, http.StatusInternalServerError, code, message)
}

// Unauthorized aborts the chain; it is only written by middleware.
func Unauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Body{Code: code, Message: message})
}

// Rejected reports a validation failure with every reason that applied. The
// first reason doubles as the top-level code.
func Rejected[T any](c *gin.Context, code, message string, reasons []T) {
	c.JSON(http.StatusUnprocessableEntity, Body{Code: code, Message: message, Reasons: reasons})
}
