package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/superbill/pos-api/internal/router"
	"github.com/superbill/pos-api/pkg/global"
	"github.com/superbill/pos-api/pkg/redis"
	"github.com/superbill/pos-api/pkg/superbill"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	client := redis.NewClient()
	store := redis.NewStore(client)

	ctx, cancel := global.GetDefaultTimer()
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Seed the vendor identity cell unconditionally at startup.
	// TODO: replace the placeholder default with real vendor resolution.
	vendorEmail := global.GetEnvOrDefault("VENDOR_EMAIL", "automatevellore@gmail.com")
	if err := store.SetVendorEmail(ctx, vendorEmail); err != nil {
		log.Fatalf("Failed to set vendor email: %v", err)
	}
	log.Printf("Vendor email set to: %s", vendorEmail)

	// Both the catalog fetch and bill submission key off the stored identity.
	vendorEmail, err := store.GetVendorEmail(ctx)
	if err != nil {
		log.Fatalf("Failed to read vendor email: %v", err)
	}

	apiURL := global.GetEnvOrDefault("SUPERBILL_API_URL", "https://superbill-api.vercel.app")
	superbillClient := superbill.NewClient(apiURL, vendorEmail)

	handlers := router.NewHandlers(store, superbillClient)
	handlers.LoadCatalog(ctx)
	cancel()

	router.InitEngine()
	router.InitializeRoutes(handlers)

	port := global.GetEnvOrDefault("PORT", "8000")
	log.Printf("Server is running on port %s", port)

	if err := router.Router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
