package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veilmon/veilmon-server/internal/version"
)

// GetVersion reports the build metadata baked in via ldflags.
func (h *BattleHandler) GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
		"dirty":   version.Dirty,
	})
}
