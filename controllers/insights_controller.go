package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"merchantpulse/backend/dataset"
	"merchantpulse/backend/insights"
)

type QueryRequest struct {
	Query string `json:"query"`
}

func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "MerchantPulse Insights API",
			"status":  "ok",
			"endpoints": []string{
				"POST /api/query",
				"GET /api/alerts",
				"POST /api/reload",
			},
		})
	}
}

func AskInsight(store *dataset.Store, router *insights.Router) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
			return
		}
		snap := store.Snapshot()
		if snap == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset not loaded"})
			return
		}
		resp := router.Route(c.Request.Context(), req.Query, snap)
		c.JSON(http.StatusOK, resp)
	}
}

func GetAlerts(store *dataset.Store, router *insights.Router) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := store.Snapshot()
		if snap == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset not loaded"})
			return
		}
		alerts := insights.BuildAlerts(snap, router.Today(), router.Rand())
		c.JSON(http.StatusOK, gin.H{"alerts": alerts})
	}
}

func ReloadData(store *dataset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := store.Reload()
		c.JSON(http.StatusOK, gin.H{
			"status":      "reloaded",
			"snapshot_id": snap.ID,
			"built_at":    snap.BuiltAt,
			"rows": gin.H{
				"transactions":    len(snap.Transactions),
				"refunds":         len(snap.Refunds),
				"settlements":     len(snap.Settlements),
				"support_tickets": len(snap.SupportTickets),
				"customers":       len(snap.Customers),
			},
		})
	}
}
