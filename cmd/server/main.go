package main

import (
	"context"
	"log"
	"time"

	"github.com/andriansp/account-service/internal/config"
	"github.com/andriansp/account-service/internal/database"
	"github.com/andriansp/account-service/internal/handler"
	"github.com/andriansp/account-service/internal/queue"
	"github.com/andriansp/account-service/internal/repository"
	"github.com/andriansp/account-service/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	// Background worker that delivers the queued OTP mails.
	go func() {
		if err := queue.StartMailConsumer(cfg); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	store := repository.NewAccountRepo(db)
	mailer := queue.NewPublisher(cfg.AMQPURL)
	h := handler.NewAccountHandler(cfg, store, mailer)

	e := router.New(h)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
