package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jordan-levelle/CC-Server/internal/config"
	"github.com/jordan-levelle/CC-Server/internal/database"
	"github.com/jordan-levelle/CC-Server/internal/handlers"
	"github.com/jordan-levelle/CC-Server/internal/mailer"
	"github.com/jordan-levelle/CC-Server/internal/middleware"
	"github.com/jordan-levelle/CC-Server/internal/payments"
	"github.com/jordan-levelle/CC-Server/internal/repository"
	"github.com/jordan-levelle/CC-Server/internal/routes"
	"github.com/jordan-levelle/CC-Server/internal/scheduler"
	"github.com/jordan-levelle/CC-Server/internal/services"
	"github.com/jordan-levelle/CC-Server/internal/storage"
	"github.com/jordan-levelle/CC-Server/internal/utils"
	"github.com/jordan-levelle/CC-Server/internal/ws"
)

const voteDigestDelay = 2 * time.Minute

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.App.Env == "development")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, client, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, logger)
	if err != nil {
		logger.Fatalf("connect mongodb: %v", err)
	}

	userRepo := repository.NewMongoUserRepo(db)
	proposalRepo := repository.NewMongoProposalRepo(db)
	teamRepo := repository.NewMongoTeamRepo(db)
	documentRepo := repository.NewMongoDocumentRepo(db)
	emailRepo := repository.NewMongoEmailRepo(db)
	txRunner := repository.NewTxRunner(client)

	mail := mailer.New(cfg.Mail.APIKey, cfg.Mail.FromEmail, cfg.Mail.FromName, emailRepo, logger)
	digest := mailer.NewDigestQueue(mail, cfg.App.Origin, voteDigestDelay, logger)

	store, err := storage.New(context.Background(), storage.Config{
		Backend:   cfg.Storage.Backend,
		LocalPath: cfg.Storage.LocalPath,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
	}, db)
	if err != nil {
		logger.Fatalf("init storage: %v", err)
	}

	pay := payments.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.PriceID, cfg.Stripe.EndpointSecret)
	relay := ws.NewServer(logger)

	proposalSvc := services.NewProposalService(proposalRepo, userRepo, teamRepo, mail, digest, relay, txRunner, cfg.App.Origin, logger)
	userSvc := services.NewUserService(userRepo, proposalSvc, mail, pay, cfg.JWT.Secret, cfg.TokenTTL, cfg.App.Origin, logger)
	teamSvc := services.NewTeamService(teamRepo, userRepo, logger)
	documentSvc := services.NewDocumentService(documentRepo, proposalRepo, store, logger)
	adminSvc := services.NewAdminService(proposalRepo, userRepo)

	auth := middleware.NewAuth(userRepo, cfg.JWT.Secret)

	app := fiber.New(fiber.Config{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    25 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(fiberlog.New())

	routes.Register(app, routes.Handlers{
		Users:     handlers.NewUserHandler(userSvc, logger),
		Proposals: handlers.NewProposalHandler(proposalSvc, logger),
		Teams:     handlers.NewTeamHandler(teamSvc, logger),
		Documents: handlers.NewDocumentHandler(documentSvc, logger),
		Admin:     handlers.NewAdminHandler(adminSvc, logger),
		Emails:    handlers.NewEmailHandler(mail, logger),
		Webhooks:  handlers.NewWebhookHandler(userSvc, pay, logger),
		Auth:      auth,
		Expired:   middleware.CheckExpired(proposalRepo),
		WS:        relay,
	})

	sweeper := scheduler.NewExpirySweeper(proposalRepo, userRepo, cfg.Scheduler.RetentionDays, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatalf("start expiry sweeper: %v", err)
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Infof("server listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	sweeper.Stop()
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	digest.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Errorf("mongodb disconnect: %v", err)
	}
	logger.Info("shutdown complete")
}
