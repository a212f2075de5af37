package handler

import (
	"net/http"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/apierror"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type replayQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=1000"`
}

// ReplayReceipts godoc
// @Summary      Requeue receipt e-mails parked in the dead letter queue
// @Tags         admin
// @Produce      json
// @Param        limit query int false "max jobs to requeue (default 100)"
// @Success      200 {object} map[string]int
// @Failure      503 {object} apierror.APIError
// @Router       /v1/admin/receipts/replay [post]
func ReplayReceipts(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.JSON(http.StatusServiceUnavailable, apierror.New("Receipt queue is disabled"))
			return
		}
		var q replayQuery
		if !bindQuery(c, &q) {
			return
		}
		if q.Limit == 0 {
			q.Limit = 100
		}
		n, err := worker.ReplayDLQ(c.Request.Context(), rdb, worker.QueueReceipts, q.Limit)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"replayed": n})
	}
}
