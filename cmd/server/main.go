package main

import (
	"gestion-assurance/internal/auth"
	"gestion-assurance/internal/config"
	"gestion-assurance/internal/database"
	"gestion-assurance/internal/logger"
	"gestion-assurance/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.Init(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	database.Init(cfg, log)
	auth.Init(cfg)

	app := server.New(log)

	log.Info("serveur démarré", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal("arrêt du serveur", zap.Error(err))
	}
}
