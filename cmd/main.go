package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"togedr/backend/internal/activity"
	"togedr/backend/internal/api/handler"
	"togedr/backend/internal/chathub"
	"togedr/backend/internal/models"
	"togedr/backend/internal/storage"
	"togedr/backend/internal/swipe"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dsn() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		env("DB_HOST", "localhost"),
		env("DB_USER", "user"),
		env("DB_PASSWORD", "password"),
		env("DB_NAME", "togedrdb"),
		env("DB_PORT", "5432"),
	)
}

func setupDependencies() (*gorm.DB, *redis.Client) {
	// TranslateError turns unique-constraint violations into
	// gorm.ErrDuplicatedKey; the swipe ledger depends on that.
	db, err := gorm.Open(postgres.Open(dsn()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     env("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Activity{},
		&models.ChatRoom{},
		&models.Message{},
		&models.Swipe{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Togedr Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	hub := chathub.NewManagerService(s)
	activities := activity.NewService(s)
	swipes := swipe.NewService(s, hub)

	go hub.Run()
	hub.StartPubSubListener()

	r := gin.Default()
	h := handler.NewHandler(hub, s, activities, swipes)

	api := r.Group("/api")
	api.POST("/auth/register", h.Register)
	api.GET("/activities", h.ListActivities)
	api.GET("/activities/:id", h.GetActivity)

	auth := api.Group("", h.RequireAuth())
	auth.GET("/users/me", h.Me)
	auth.GET("/feed", h.Feed)
	auth.POST("/activities", h.CreateActivity)
	auth.PUT("/activities/:id", h.UpdateActivity)
	auth.DELETE("/activities/:id", h.DeleteActivity)
	auth.POST("/activities/:id/join", h.JoinActivity)
	auth.POST("/activities/:id/leave", h.LeaveActivity)
	auth.PUT("/activities/:id/complete", h.CompleteActivity)
	auth.PUT("/activities/:id/cancel", h.CancelActivity)
	auth.POST("/swipes", h.SubmitSwipe)
	auth.GET("/chats/:roomId", h.GetChatRoom)
	auth.GET("/chats/:roomId/messages", h.GetMessages)
	auth.POST("/chats/:roomId/messages", h.PostMessage)

	r.GET("/ws", h.ServeWebSocket)

	server := &http.Server{
		Addr:           ":" + env("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
