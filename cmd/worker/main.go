package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mailsift/config"
	mqcontracts "mailsift/contracts/mq"
	"mailsift/internal/api"
	"mailsift/internal/categorize"
	"mailsift/internal/mqhandler"
	"mailsift/internal/notify"
	"mailsift/internal/ratelimit"
	"mailsift/internal/repository"
	"mailsift/pkg/db"
	"mailsift/pkg/logger"
	"mailsift/pkg/mq"
	"mailsift/pkg/outbox"
	"mailsift/pkg/redis"
	"mailsift/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting mailsift worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis
	rdb := redis.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour)
	retryCounter := util.NewRetryCounter(rdb, time.Hour)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	emailRepo := repository.NewEmailRepository(dbConn)
	logRepo := repository.NewNotificationLogRepository(dbConn)
	outboxRepo := outbox.NewRepository(dbConn)

	// Categorizer: Gemini behind the shared rate limiter and quota guard.
	provider, err := categorize.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatal("Gemini client init failed", zap.Error(err))
	}
	limiter := ratelimit.NewLimiter(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
	guard := ratelimit.NewQuotaGuard()
	categorizer := categorize.NewCategorizer(provider, limiter, guard, log)

	// Notification sinks
	dispatcher := notify.NewDispatcher(log,
		notify.NewSlackSender(cfg.Slack.BotToken, cfg.Slack.ChannelID, log),
		notify.NewWebhookSender(cfg.Webhook.URL, log),
	)

	// Outbox publisher + dispatcher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("MQ publisher init failed", zap.Error(err))
	}
	defer publisher.Close()

	outboxDispatcher := outbox.NewDispatcher(outboxRepo, publisher, log).
		WithInterval(time.Second).
		WithBatchSize(100)

	// Handlers
	categorizedStore := mqhandler.NewCategorizedStore(dbConn, emailRepo, outboxRepo)
	categorizeHandler := mqhandler.NewEmailReceivedCategorizeHandler(
		emailRepo, categorizedStore, categorizer, deduper, retryCounter, log,
	)
	notifyHandler := mqhandler.NewEmailCategorizedNotifyHandler(
		dispatcher, logRepo, deduper, log,
	)

	// Consumers
	consumerCategorize, err := mq.NewConsumer(
		cfg.MQ.URL,
		"email.received.categorize.q",
		mqcontracts.EmailReceivedKey,
		log,
	)
	if err != nil {
		log.Fatal("Categorize consumer init failed", zap.Error(err))
	}
	defer consumerCategorize.Close()
	consumerCategorize.SetHandler(categorizeHandler.HandleEmailReceived)
	if err := consumerCategorize.SetDLQ(publisher); err != nil {
		log.Fatal("Categorize consumer DLQ init failed", zap.Error(err))
	}

	consumerNotify, err := mq.NewConsumer(
		cfg.MQ.URL,
		"email.categorized.notify.q",
		mqcontracts.EmailCategorizedKey,
		log,
	)
	if err != nil {
		log.Fatal("Notify consumer init failed", zap.Error(err))
	}
	defer consumerNotify.Close()
	consumerNotify.SetHandler(notifyHandler.HandleEmailCategorized)
	if err := consumerNotify.SetDLQ(publisher); err != nil {
		log.Fatal("Notify consumer DLQ init failed", zap.Error(err))
	}

	adminRouter := api.NewAdminRouter(cfg.Admin, categorizer, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumerCategorize.StartConsuming()
	})
	g.Go(func() error {
		return consumerNotify.StartConsuming()
	})
	g.Go(func() error {
		outboxDispatcher.Start(gctx)
		return nil
	})
	g.Go(func() error {
		return adminRouter.Run(cfg.Admin.Port)
	})

	log.Info("Worker ready",
		zap.String("admin_port", cfg.Admin.Port),
		zap.String("model", cfg.Gemini.Model),
	)

	if err := g.Wait(); err != nil {
		log.Fatal("Worker stopped", zap.Error(err))
	}
}
