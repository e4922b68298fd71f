package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the error half of a HandlerFunc result.
type APIError struct {
	Code    int
	Message string
}

// HandlerFunc returns a JSON body to relay as-is, or an error.
type HandlerFunc func(ctx *gin.Context) ([]byte, *APIError)

// ResolveEndpoint adapts a HandlerFunc to gin. Errors are written as
// {"error": message}.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		body, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}
