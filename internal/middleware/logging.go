package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// quietPaths are polled by the view, probes and scrapers and would flood
// GIN.log; they are only logged in verbose mode.
var quietPaths = []string{"/healthz", "/metrics", "/api/system-stats"}

// RequestLogger writes one access log line per request to gin.DefaultWriter.
func RequestLogger(verbose bool) gin.HandlerFunc {
	cfg := gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC1123),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}
	if !verbose {
		cfg.SkipPaths = quietPaths
	}
	return gin.LoggerWithConfig(cfg)
}
