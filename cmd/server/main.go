// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pricelens/scrapex/internal/monitoring"
	"github.com/pricelens/scrapex/internal/retailer"
	"github.com/pricelens/scrapex/pkg/scrapex"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	catalogFile := flag.String("catalog", "", "retailer catalog YAML (defaults to the built-in catalog)")
	dashboardAddr := flag.String("dashboard-addr", "", "optional address for the monitoring dashboard (disabled if empty)")
	flag.Parse()

	catalog := retailer.New().ExportAll()
	if *catalogFile != "" {
		data, err := os.ReadFile(*catalogFile)
		if err != nil {
			log.Fatalf("reading catalog file: %v", err)
		}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			log.Fatalf("parsing catalog file: %v", err)
		}
	}

	client := scrapex.NewClient(catalog, nil, nil)
	server := NewServer(client, os.Getenv("SCRAPEX_API_KEY"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	server.Start(ctx)
	defer server.health.Stop()

	if *dashboardAddr != "" {
		dashboard := monitoring.NewDashboard(server.metrics, server.health, monitoring.DashboardConfig{
			Port: *dashboardAddr,
		})
		go func() {
			log.Printf("scrapex monitoring dashboard listening on %s", *dashboardAddr)
			if err := dashboard.Start(ctx); err != nil && err != http.ErrServerClosed {
				log.Printf("dashboard server error: %v", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("scrapex admin server listening on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
