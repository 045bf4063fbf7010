/*
main.go - Report server entry point

PURPOSE:
  Starts the grain marketing report API over an existing bookkeeping
  database. Handles configuration, dependency wiring, and graceful
  shutdown.

CONFIGURATION:
  Flags override environment variables; a .env file is loaded if present.
    -port / PORT         HTTP server port (default: 8080)
    -db   / DATABASE     SQLite database path (default: bushel.db)
    -readonly            Open the database read-only (production default
                         posture; migrations are owned by the importer)

EXAMPLES:
  # Serve reports over the farm database without touching it
  ./server -db=./data/farm.db -readonly

  # Dev database, created and migrated on start
  ./server -db=./dev.db
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/harvestline/bushel-engine/api"
	"github.com/harvestline/bushel-engine/store/sqlite"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// .env is optional; flags and real env vars win.
	if err := godotenv.Load(); err == nil {
		log.Debug("loaded .env")
	}

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DATABASE", "bushel.db"), "SQLite database path")
	readonly := flag.Bool("readonly", false, "open the database read-only")
	flag.Parse()

	var (
		store *sqlite.Store
		err   error
	)
	if *readonly {
		store, err = sqlite.NewReadOnly(*dbPath)
	} else {
		store, err = sqlite.New(*dbPath)
	}
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer store.Close()

	handler := api.NewHandler(store, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":     *port,
			"db":       *dbPath,
			"readonly": *readonly,
		}).Info("report server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("forced shutdown")
	}
	log.Info("server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
