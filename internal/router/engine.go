package router

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var Router *gin.Engine

func InitEngine() {
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	Router = gin.Default()

	Router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func InitializeRoutes(h *Handlers) {
	api := Router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/categories", h.GetCategories)

		inventory := api.Group("/inventory")
		{
			inventory.GET("/", h.GetInventory)
			inventory.POST("/refresh", h.RefreshInventory)
		}

		cart := api.Group("/cart/:sessionId")
		cart.Use(SessionMiddleware())
		{
			cart.GET("", h.GetCart)
			cart.POST("/toggle", h.ToggleCart)
			cart.POST("/checkout", h.Checkout)
			cart.DELETE("", h.ClearCart)
		}

		bills := api.Group("/bills")
		{
			bills.GET("/:billId", h.GetBill)
			bills.POST("/:billId/submit", h.SubmitBill)
		}
	}
}
