// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/brnbmbr/button-game/internal/audit"
	"github.com/brnbmbr/button-game/internal/auth"
	"github.com/brnbmbr/button-game/internal/handlers"
	"github.com/brnbmbr/button-game/internal/lobby"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := auth.Init(); err != nil {
		log.Fatalf("failed to init session auth: %v", err)
	}

	// The audit feed is optional; without REDIS_ADDR the publisher is nil
	// and claims are simply not recorded externally.
	aud, err := audit.Connect()
	if err != nil {
		log.Fatalf("failed to connect audit feed: %v", err)
	}
	if aud == nil {
		logger.Info("REDIS_ADDR not set, claim audit feed disabled")
	}

	store := lobby.NewStore()
	router := handlers.NewRouter(logger, store, aud)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
