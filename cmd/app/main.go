package main

import (
	"leadflow/config"
	"leadflow/di"
	"leadflow/shared/logger"
)

// @title Leadflow API
// @version 1.0
// @description Franchise lead management and appointment scheduling service.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
