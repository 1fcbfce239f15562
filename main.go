package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"merchantpulse/backend/config"
	"merchantpulse/backend/dataset"
	"merchantpulse/backend/routes"
)

func main() {
	cfg := config.Load()

	mappings, err := dataset.LoadMappings(cfg.MappingsPath)
	if err != nil {
		log.Fatalf("load mappings: %v", err)
	}

	store := dataset.NewStore(mappings, cfg.DataDir, cfg.MockSeed)
	snap := store.Load()
	log.Printf("dataset ready: %d transactions, %d refunds, %d settlements, %d tickets",
		len(snap.Transactions), len(snap.Refunds), len(snap.Settlements), len(snap.SupportTickets))

	r := gin.Default()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})
	routes.Register(r, cfg, store)
	log.Printf("server on :%s", cfg.Port)
	r.Run(":" + cfg.Port)
}
