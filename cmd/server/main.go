package main

import (
	"go.uber.org/zap"

	"mailsift/config"
	"mailsift/internal/api"
	"mailsift/internal/repository"
	"mailsift/internal/service"
	"mailsift/pkg/db"
	"mailsift/pkg/logger"
	"mailsift/pkg/mq"
	"mailsift/pkg/outbox"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting mailsift server...")

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("MQ publisher init failed", zap.Error(err))
	}
	defer publisher.Close()

	emailRepo := repository.NewEmailRepository(dbConn)
	logRepo := repository.NewNotificationLogRepository(dbConn)
	outboxRepo := outbox.NewRepository(dbConn)

	ingestSvc := service.NewIngestService(dbConn, emailRepo, outboxRepo, log)
	replaySvc := outbox.NewReplayService(outboxRepo, publisher)

	router := api.NewServerRouter(api.ServerDeps{
		Cfg:       cfg,
		DB:        dbConn,
		Publisher: publisher,
		Ingest:    ingestSvc,
		EmailRepo: emailRepo,
		LogRepo:   logRepo,
		Replay:    replaySvc,
		Logger:    log,
	})

	log.Info("Server listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("Server start failed", zap.Error(err))
	}
}
