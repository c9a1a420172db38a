package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopfront/cartstore/internal/cart"
	"github.com/shopfront/cartstore/internal/catalog"
	"github.com/shopfront/cartstore/internal/events"
	"github.com/shopfront/cartstore/internal/storage"
)

func main() {
	// Configuration
	catalogURL := getEnv("CATALOG_URL", "http://localhost:3333")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	cartKey := getEnv("CART_KEY", cart.DefaultKey)
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")

	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Connected to Redis at %s", redisAddr)

	store := storage.NewRedisStore(redisClient)
	client := catalog.NewHTTPClient(catalogURL, 10*time.Second)

	opts := []cart.Option{
		cart.WithKey(cartKey),
		cart.WithNotifier(cart.NotifierFunc(func(msg string) {
			log.Printf("notification: %s", msg)
		})),
	}

	if kafkaBrokers != "" {
		journal := events.NewJournal(kafkaBrokers)
		defer journal.Close()
		opts = append(opts, cart.WithRecorder(journal))
		log.Printf("Journaling mutations to %s", kafkaBrokers)
	}

	c, err := cart.New(ctx, store, client, opts...)
	if err != nil {
		log.Fatalf("Failed to hydrate cart: %v", err)
	}
	log.Printf("Hydrated cart with %d line items under %q", len(c.Cart()), cartKey)

	// Scripted walkthrough against the fixture catalog.
	steps := []struct {
		name string
		call func() error
	}{
		{"add product 1", func() error { return c.AddProduct(ctx, 1) }},
		{"add product 1 again", func() error { return c.AddProduct(ctx, 1) }},
		{"add product 2", func() error { return c.AddProduct(ctx, 2) }},
		{"set product 2 amount to 5", func() error { return c.UpdateProductAmount(ctx, 2, 5) }},
		{"set product 2 amount to 6", func() error { return c.UpdateProductAmount(ctx, 2, 6) }},
		{"add product 4 (sold out)", func() error { return c.AddProduct(ctx, 4) }},
		{"remove product 1", func() error { return c.RemoveProduct(ctx, 1) }},
	}

	for _, step := range steps {
		if err := step.call(); err != nil {
			log.Printf("%s: %v", step.name, err)
			continue
		}
		log.Printf("%s: ok", step.name)
	}

	for _, item := range c.Cart() {
		log.Printf("line item: id=%d title=%q amount=%d price=%.2f", item.ID, item.Title, item.Amount, item.Price)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
