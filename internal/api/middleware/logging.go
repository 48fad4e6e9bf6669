package middleware

import (
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
)

// LoggingConfig holds configuration for the request log.
type LoggingConfig struct {
	Output    io.Writer
	SkipPaths []string
}

// Logging returns the request logging middleware. Health checks and the
// websocket feed are usually skipped to keep the log readable.
func Logging(config LoggingConfig) gin.HandlerFunc {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			requestID := ""
			if param.Keys != nil {
				if id, ok := param.Keys[RequestIDKey].(string); ok {
					requestID = " | " + id
				}
			}
			return fmt.Sprintf("[API] %v | %3d | %13v | %15s | %-7s %#v%s\n%s",
				param.TimeStamp.Format("2006/01/02 - 15:04:05"),
				param.StatusCode,
				param.Latency,
				param.ClientIP,
				param.Method,
				param.Path,
				requestID,
				param.ErrorMessage,
			)
		},
		Output:    config.Output,
		SkipPaths: config.SkipPaths,
	})
}
