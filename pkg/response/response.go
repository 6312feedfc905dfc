package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the envelope written by every user-api endpoint except list/search,
// which answer with a bare JSON array.
type Body struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeRequestID(ctx *gin.Context) {
	if id := ctx.GetString("request_id"); id != "" {
		ctx.Header("X-Request-ID", id)
	}
}

// Success writes {"success": message}.
func Success(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	writeRequestID(ctx)
	ctx.JSON(status, Body{Success: message})
}

// Error writes {"error": message}.
func Error(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	writeRequestID(ctx)
	ctx.JSON(status, Body{Error: message})
}

// Abort writes {"error": message} and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string) {
	writeRequestID(ctx)
	ctx.AbortWithStatusJSON(status, Body{Error: message})
}

// JSON writes an arbitrary payload, used for list-style results.
func JSON[T any](ctx *gin.Context, status int, data T) {
	writeRequestID(ctx)
	ctx.JSON(status, data)
}
