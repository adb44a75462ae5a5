package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modboard/modboard/internal/infrastructure/config"
	"github.com/modboard/modboard/internal/server"
)

func main() {
	port := flag.String("port", "", "Server port (overrides PORT)")
	sourceList := flag.String("sources", "", "Source list path (overrides SOURCE_LIST)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *sourceList != "" {
		cfg.Directory.SourceList = *sourceList
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
