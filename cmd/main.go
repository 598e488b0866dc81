package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"syscall"
	"time"

	"civicvoice/backend/internal/api/handler"
	"civicvoice/backend/internal/auth"
	"civicvoice/backend/internal/chathub"
	"civicvoice/backend/internal/complaint"
	"civicvoice/backend/internal/config"
	"civicvoice/backend/internal/mailer"
	"civicvoice/backend/internal/models"
	"civicvoice/backend/internal/storage"
	"civicvoice/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.Database.BuildDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Category{},
		&models.Complaint{},
		&models.StatusHistory{},
		&models.Response{},
		&models.ChatRoom{},
		&models.ChatParticipant{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting CivicVoice Backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	// The hub is the one transport instance for this process. It is
	// constructed here and handed to the handlers, never a lazy global.
	var backplane *chathub.Backplane
	if cfg.Chat.Backplane == "redis" {
		backplane = chathub.NewBackplane(rdb)
		log.Println("Chat backplane enabled: redis")
	}
	hub := chathub.NewHub(backplane)
	go hub.Run()

	var notifier complaint.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.AdminChatID != 0 {
		tg, err := telegram.NewNotifierService(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID)
		if err != nil {
			log.Printf("WARNING: Telegram notifier disabled: %v", err)
		} else {
			notifier = tg
		}
	}

	var m mailer.Mailer = mailer.LogMailer{}
	if cfg.Email.AWSRegion != "" && cfg.Email.FromAddress != "" {
		sesMailer, err := mailer.NewSESMailer(cfg.Email.AWSRegion, cfg.Email.FromAddress)
		if err != nil {
			log.Printf("WARNING: SES mailer unavailable, falling back to log: %v", err)
		} else {
			m = sesMailer
		}
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret)
	complaintSvc := complaint.NewService(s, notifier)
	h := handler.NewHandler(s, tokens, complaintSvc, hub, m, cfg.Server.BaseURL)

	// Bearer first, session as the fallback.
	chain := auth.Chain{
		&auth.BearerResolver{Tokens: tokens},
		&auth.SessionResolver{Store: s},
	}

	r := gin.Default()
	registerRoutes(r, h, chain)

	server := &http.Server{
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	listener := listenWithRetry(cfg.Server.Port)
	log.Printf("Ready on http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	log.Fatal(server.Serve(listener))
}

func registerRoutes(r *gin.Engine, h *handler.Handler, chain auth.Chain) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/forgot-password", h.ForgotPassword)
	authGroup.POST("/reset-password", h.ResetPassword)
	authGroup.GET("/validate-reset-token", h.ValidateResetToken)

	api.GET("/categories", h.ListCategories)
	api.POST("/categories", h.CreateCategory)

	api.GET("/complaints", h.ListComplaints)
	api.POST("/complaints", h.CreateComplaint)
	api.GET("/complaints/:id", h.GetComplaint)
	api.PATCH("/complaints/:id", h.UpdateComplaint)
	api.DELETE("/complaints/:id", h.DeleteComplaint)
	api.GET("/complaints/:id/responses", h.ListResponses)
	api.POST("/complaints/:id/responses", h.CreateResponse)

	api.GET("/users", h.ListUsers)
	api.POST("/users", h.CreateUser)

	chat := api.Group("/chat", auth.RequireAuth(chain))
	chat.GET("/rooms", h.ListChatRooms)
	chat.POST("/rooms", h.CreateChatRoom)
	chat.GET("/rooms/:id", h.GetChatRoom)
	chat.GET("/rooms/:id/messages", h.ListChatMessages)
	chat.POST("/rooms/:id/messages", h.PostChatMessage)
	chat.GET("/rooms/:id/participants", h.ListChatParticipants)
	chat.POST("/rooms/:id/participants", h.AddChatParticipant)

	r.GET("/ws", auth.RequireAuth(chain), h.ServeWebSocket)
}

// listenWithRetry binds the configured port, incrementing on EADDRINUSE up
// to the attempt bound.
func listenWithRetry(port int) net.Listener {
	for attempt := 0; attempt < config.MaxPortAttempts; attempt++ {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			return listener
		}
		if errors.Is(err, syscall.EADDRINUSE) {
			log.Printf("Port %d is busy, trying %d...", port, port+1)
			port++
			continue
		}
		log.Fatalf("Failed to listen: %v", err)
	}
	log.Fatalf("No free port found after %d attempts", config.MaxPortAttempts)
	return nil
}
