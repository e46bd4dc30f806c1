package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whisper-api/internal/api/errors"
)

// ErrorHandler recovers from panics and answers 500 with a generic message.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Recovered from panic",
			zap.String("recovered", fmt.Sprint(recovered)),
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Stack("stack"),
		)

		apiErr := errors.NewInternalError("Internal server error")
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError writes err as {"error": "..."} with the status matching its
// kind and attaches it to the context for request logging.
func HandleError(c *gin.Context, err error) {
	apiErr := errors.FromError(err)
	if apiErr == nil {
		return
	}

	apiErr.RequestID = GetRequestID(c)
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
}
