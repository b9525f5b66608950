package main

import (
	"context"
	"fmt"
	"log"

	"github.com/hong880226/printer-server/internal/action"
	"github.com/hong880226/printer-server/internal/api"
	"github.com/hong880226/printer-server/internal/backend"
	"github.com/hong880226/printer-server/internal/config"
	"github.com/hong880226/printer-server/internal/notify"
	"github.com/hong880226/printer-server/internal/poll"
	"github.com/hong880226/printer-server/internal/state"
)

func main() {
	fmt.Println("Remote Print Client")
	fmt.Println("===================")

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config file: %v", err)
		log.Println("Using default configuration")
		cfg = config.Default()
		cfg.ConfigPath = "config.yaml"
	}

	logBuf := api.NewLogBuffer(cfg.LogBufferSize)
	api.InstallLogCapture(logBuf)

	fmt.Printf("Backend: %s\n", cfg.Backend.Endpoint)
	fmt.Printf("UI Port: %d\n", cfg.Server.Port)

	client := backend.NewClient(cfg.Backend.Endpoint, cfg.Backend.RequestTimeout)
	store := state.NewStore()
	notifier := notify.New(cfg.Notifications.VisibleFor, cfg.Notifications.ExitDelay, cfg.Notifications.MaxVisible)

	poller, err := poll.New(client, store,
		cfg.Backend.StatusInterval, cfg.Backend.JobsInterval, cfg.Backend.JobsTimeout)
	if err != nil {
		log.Fatalf("Invalid poll configuration: %v", err)
	}

	// Destructive actions are confirmed in the browser before their
	// endpoints are hit, so the local UI's confirmer accepts.
	confirmer := action.ConfirmerFunc(func(string) bool { return true })
	orch := action.New(client, store, notifier, poller, confirmer)

	hub := api.NewHub(store, notifier)
	server := api.NewServer(cfg, store, notifier, orch, poller, logBuf, hub)

	ctx := context.Background()
	go hub.Run(ctx)
	go poller.Run(ctx)

	log.Printf("Print client starting, UI on http://%s:%d", cfg.Server.Host, cfg.Server.Port)

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
