// Command streambase-mockapi serves the mock Streambase API with seeded
// fixtures for local development.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/darhlilove/streambase/mockapi"
)

func main() {
	addr := flag.String("addr", ":8480", "listen address")
	signingKey := flag.String("signing-key", "mockapi-dev-key", "HS256 signing key for issued tokens")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	server := mockapi.New(*signingKey)
	userID := server.SeedUser("Demo User", "demo@streambase.dev", "demo-password")
	server.SeedAdmin("Demo Admin", "admin@streambase.dev", "admin-password", "4242", 2)
	server.SeedNotification(userID, "Welcome to Streambase")

	logger.Info().
		Str("addr", *addr).
		Str("user", "demo@streambase.dev / demo-password").
		Str("admin", "admin@streambase.dev / admin-password / PIN 4242").
		Msg("mock API listening")

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("mock API stopped")
	}
}
