package main

import (
	"log"
	"os"

	"github.com/rawblock/arkham-companion/internal/catalog"
	"github.com/rawblock/arkham-companion/internal/db"
	"github.com/rawblock/arkham-companion/internal/session"
)

func main() {
	log.Println("Starting Arkham Companion server...")

	cardsFile := getEnvOrDefault("CARDS_FILE", "cards.json")
	cards, err := catalog.LoadCardSet(cardsFile)
	if err != nil {
		log.Fatalf("Failed to load card set from %s: %v", cardsFile, err)
	}

	// The audit store is optional: without DATABASE_URL (or with a dead
	// database) the server runs without persistence.
	var store session.LogStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conn, err := db.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to PostgreSQL, continuing without session audit log. Error: %v", err)
		} else {
			defer conn.Close()
			if err := conn.InitSchema(); err != nil {
				log.Printf("Warning: DB schema init failed: %v", err)
			}
			store = conn
		}
	}

	sess := session.New(cards, store)
	r := session.SetupRouter(sess, os.Getenv("ALLOWED_ORIGINS"))

	port := getEnvOrDefault("PORT", "8081")
	certFile := getEnvOrDefault("CERT_FILE", "cert.pem")
	keyFile := getEnvOrDefault("KEY_FILE", "key.pem")

	log.Printf("Companion server running on :%s\n", port)
	if err := r.RunTLS(":"+port, certFile, keyFile); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnvOrDefault returns the env var value or a default.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
