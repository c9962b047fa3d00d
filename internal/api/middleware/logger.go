package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request.
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		line := fmt.Sprintf("[API] %s | %3d | %10v | %-7s %s",
			p.TimeStamp.Format(time.RFC3339),
			p.StatusCode,
			p.Latency.Round(time.Microsecond),
			p.Method,
			p.Path,
		)
		if p.ErrorMessage != "" {
			line += " | " + p.ErrorMessage
		}
		return line + "\n"
	})
}
