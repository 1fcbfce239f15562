package routes

import (
	"github.com/gin-gonic/gin"

	"merchantpulse/backend/ai"
	"merchantpulse/backend/config"
	"merchantpulse/backend/controllers"
	"merchantpulse/backend/dataset"
	"merchantpulse/backend/insights"
)

func Register(r *gin.Engine, cfg config.Config, store *dataset.Store) {
	router := &insights.Router{Fallback: ai.New(cfg)}

	r.GET("/", controllers.Home())
	api := r.Group("/api")
	{
		api.POST("/query", controllers.AskInsight(store, router))
		api.GET("/alerts", controllers.GetAlerts(store, router))
		api.POST("/reload", controllers.ReloadData(store))
	}
}
