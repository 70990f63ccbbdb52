package main

import (
	"github.com/IngrediSense/auth_service/config"
	"github.com/IngrediSense/auth_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
