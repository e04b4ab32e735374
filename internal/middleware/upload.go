package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UploadDeadline extends the connection deadlines for routes that receive files.
func UploadDeadline(d time.Duration, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d > 0 {
			rc := http.NewResponseController(c.Writer)
			deadline := time.Now().Add(d)
			if err := rc.SetReadDeadline(deadline); err != nil {
				Logger(c, log).WithError(err).Debug("read deadline not supported")
			}
			if err := rc.SetWriteDeadline(deadline); err != nil {
				Logger(c, log).WithError(err).Debug("write deadline not supported")
			}
		}
		c.Next()
	}
}

// StaticHeaders stops browsers from sniffing or running user uploads served
// from the API origin.
func StaticHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'none'; img-src 'self'; sandbox")
		c.Next()
	}
}
