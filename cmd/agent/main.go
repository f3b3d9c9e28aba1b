package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hostwatch/internal/agent"
	"hostwatch/internal/snapshot"
	"hostwatch/internal/watcher"
)

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func main() {
	godotenv.Load()

	serverURL := getEnv("SERVER_URL", "http://localhost:8080")
	intervalStr := getEnv("POLL_INTERVAL_SEC", "10")
	interval, _ := strconv.Atoi(intervalStr)
	if interval == 0 {
		interval = 10
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Starting hostwatch agent...")
	a := agent.New(agent.Config{
		ServerURL: serverURL,
		Interval:  time.Duration(interval) * time.Second,
	}, snapshot.New(), watcher.New())
	a.Run(ctx)
	log.Println("Stopping hostwatch agent...")
}
