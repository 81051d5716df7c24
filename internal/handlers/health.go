package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/pkg/response"
)

// Health reports readiness of the database and, when configured, the cache
// backend. A degraded cache does not fail the check: the platform is fully
// functional without it.
func Health(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		payload := gin.H{"status": "ok"}

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(requestContext(c))
		}
		if err != nil {
			status = http.StatusServiceUnavailable
			payload["status"] = "degraded"
			payload["database"] = "unreachable"
		} else {
			payload["database"] = "ok"
		}

		if store != nil {
			probe := "health:probe"
			if err := store.Set(requestContext(c), probe, []byte("1"), time.Second); err != nil {
				payload["cache"] = "unreachable"
			} else {
				payload["cache"] = "ok"
			}
		} else {
			payload["cache"] = "disabled"
		}

		response.Success(c, status, payload)
	}
}
