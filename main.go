package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "github.com/ronitparmar24/metro-ticket-booking-system/internal/config"
	intdb "github.com/ronitparmar24/metro-ticket-booking-system/internal/db"
	router "github.com/ronitparmar24/metro-ticket-booking-system/internal/http"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/worker"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.OpenDB(env)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := intdb.Setup(db); err != nil {
		log.Fatalf("failed to prepare schema: %v", err)
	}

	r := router.NewRouter(env, db)

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	poller := worker.OutboxPoller{
		Outbox:        repositories.OutboxRepository{DB: db},
		Accounts:      repositories.AccountRepository{DB: db},
		Notifications: repositories.NotificationRepository{DB: db},
		DB:            db,
	}
	go poller.Run(pollerCtx)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}
