package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes

	"token_dashboard/internal/domain" // Project model
	"token_dashboard/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// ProjectLister is the read surface the listing endpoint needs
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// ListProjectsHandler returns every project, redis-cached for a minute.
// Only display data is cached here; access checks never are.
func ListProjectsHandler(lister ProjectLister, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context() // Request context for Redis and DB
		var cached []domain.Project
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, utils.ProjectListKey, &cached)
		if err == nil && found {
			// Return cached projects
			c.JSON(http.StatusOK, gin.H{"projects": cached, "cached": true})
			return
		}
		// If not in cache, fetch from DB
		projects, err := lister.ListProjects(ctx)
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"error": err.Error(), // Error message
			}).Error("Project listing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
			return
		}
		_ = utils.SetCache(ctx, rdb, utils.ProjectListKey, projects, utils.CacheTTL) // Cache the listing
		c.JSON(http.StatusOK, gin.H{"projects": projects, "cached": false})          // Return projects
	}
}
