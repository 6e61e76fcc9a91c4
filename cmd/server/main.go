package main

import (
	"log"

	"odicam-backend/internal/config"
	"odicam-backend/internal/database"
	"odicam-backend/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := server.New(cfg)

	log.Println("Serveur démarré sur le port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
