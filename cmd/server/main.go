/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the timesheet grid server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Load roster configuration (canonical names + aliases)
  4. Run roster reconciliation once
  5. Start HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: timesheet.db)
           Use ":memory:" for an in-memory database
  -roster  Path to the YAML roster config; optional. Without it the
           allow-list is disabled and reconciliation only removes
           duplicate names.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection

SEE ALSO:
  - api/server.go: Router configuration
  - roster/reconcile.go: The startup sync
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lokeswaran22/time/api"
	"github.com/lokeswaran22/time/roster"
	"github.com/lokeswaran22/time/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "timesheet.db", "SQLite database path")
	rosterPath := flag.String("roster", "", "YAML roster config (canonical names + aliases)")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	var cfg roster.Config
	if *rosterPath != "" {
		cfg, err = roster.LoadConfig(*rosterPath)
		if err != nil {
			log.Fatalf("Failed to load roster config: %v", err)
		}
	}

	handler := api.NewHandler(store, cfg)

	// Reconcile the roster once before serving.
	report, err := handler.Reconciler.Run(context.Background())
	if err != nil {
		log.Printf("Warning: roster reconciliation failed: %v", err)
	} else {
		log.Printf("Roster reconciled: removed=%d duplicates=%d created=%d cells=%d errors=%d",
			report.Removed, report.DuplicatesRemoved, report.Created,
			report.CellsRemoved, len(report.Errors))
	}

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
