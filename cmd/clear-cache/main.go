package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/mnatlas/atlas-backend/internal/cache"
)

// Drops cached boundary layers so the next map request serves freshly
// imported data. Run after import-boundaries.
func main() {
	godotenv.Load(".env.local")
	cache.Connect()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := cache.DeletePrefix(ctx, "boundary:")
	if err != nil {
		log.Fatalf("Error clearing boundary cache: %v", err)
	}

	fmt.Printf("✓ Deleted %d cached boundary layers\n", deleted)
	fmt.Println("\nNext map load will fetch fresh boundaries from Postgres.")
}
