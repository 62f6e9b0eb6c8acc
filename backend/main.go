package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"pharmapos/m/internal/api"
	"pharmapos/m/internal/config"
	"pharmapos/m/internal/pos"
	"pharmapos/m/internal/seed"
	"pharmapos/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	st := store.New(cfg.InventoryFile, cfg.SalesFile)

	ledger, err := pos.Open(st)
	if err != nil {
		log.Fatalf("failed to open ledger: %v", err)
	}
	seed.LoadStarterInventory(ledger, cfg.SeedFile)

	handler := api.New(ledger, st)

	log.Printf("PharmaPOS server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
