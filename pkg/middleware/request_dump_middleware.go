package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vocabtest-backend/utilities"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
	maxDumpBody     = 4 << 10
)

// RequestID tags each request with an id, reusing one sent by the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestDumpMiddleware logs method, URL, headers and body of every request
// at debug level, followed by the response status and latency.
func RequestDumpMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		body := bodyBytes
		if len(body) > maxDumpBody {
			body = body[:maxDumpBody]
		}
		headers := c.Request.Header.Clone()
		if headers.Get("Authorization") != "" {
			headers.Set("Authorization", "[redacted]")
		}

		utilities.Debug(
			"[Request %s]\n"+
				"\tMethod: %s\n"+
				"\tURL: %s\n"+
				"\tHeaders: %v\n"+
				"\tBody: %s",
			c.GetString(RequestIDKey),
			c.Request.Method,
			c.Request.URL.String(),
			headers,
			string(body),
		)

		start := time.Now()
		c.Next()

		utilities.Debug("[Response %s] %d in %s", c.GetString(RequestIDKey), c.Writer.Status(), time.Since(start))
	}
}
