package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds application configuration values.
type Config struct {
	HTTPPort      string
	InventoryFile string
	SalesFile     string
	SeedFile      string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	inventoryFile := os.Getenv("INVENTORY_FILE")
	if inventoryFile == "" {
		inventoryFile = filepath.Join(dataDir, "inventory.csv")
	}

	salesFile := os.Getenv("SALES_FILE")
	if salesFile == "" {
		salesFile = filepath.Join(dataDir, "sales.csv")
	}

	// Optional starter inventory; empty disables seeding.
	seedFile := os.Getenv("SEED_FILE")

	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	return Config{
		HTTPPort:      port,
		InventoryFile: inventoryFile,
		SalesFile:     salesFile,
		SeedFile:      seedFile,
	}
}
