package main

import (
	"github.com/Zeldorh1/omnitint-edge/internal/config"
	"github.com/Zeldorh1/omnitint-edge/internal/server"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

func main() {
	// Load environment files explicitly
	envFiles := []string{".env.local", ".env.development", ".env"}
	config.LoadEnvFiles(envFiles)

	cfg, err := config.LoadFromFile("config.yaml")
	if err != nil {
		fiberlog.Fatalf("Failed to load config: %v", err)
	}

	if err := server.Run(cfg); err != nil {
		fiberlog.Fatalf("Server failed: %v", err)
	}
}
