package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/recordkit/version"
)

// BuildInfo is the body of the info endpoint.
type BuildInfo struct {
	Service string `json:"service"`
	version.Info
	Uptime string `json:"uptime"`
}

// Info reports the build stamp and process uptime.
func Info(serviceName string) gin.HandlerFunc {
	started := time.Now()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, BuildInfo{
			Service: serviceName,
			Info:    *version.GetVersionInfo(),
			Uptime:  time.Since(started).Round(time.Second).String(),
		})
	}
}
