package main

import (
	"flag"
	"log"

	"github.com/combact-io/combact/internal/api"
	"github.com/combact-io/combact/internal/config"
	"github.com/combact-io/combact/internal/database"
)

const version = "0.1.0"

func initializeAPI(configPath string) (*api.Api, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	return api.NewApi(*cfg, db)
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting COMBACT API v%s with config: %s", version, *configPath)

	api, err := initializeAPI(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	api.Serve()
}
