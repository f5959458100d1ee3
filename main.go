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
	"go.mongodb.org/mongo-driver/mongo"

	"socialfeed/auth"
	"socialfeed/config"
	"socialfeed/database"
	"socialfeed/handlers"
	"socialfeed/routes"
	"socialfeed/store"
	"socialfeed/uploads"
)

func main() {
	log.Println("🚀 Starting Social Feed API...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ ", err)
	}

	// ===== CONNECT TO MONGODB WITH RETRY =====
	log.Println("🔌 Connecting to MongoDB...")

	var client *mongo.Client
	var dbErr error
	for i := 1; i <= 3; i++ {
		client, dbErr = database.Connect(context.Background(), cfg.MongoURI)
		if dbErr != nil {
			log.Printf("❌ MongoDB connection attempt %d failed: %v", i, dbErr)
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}
	if dbErr != nil {
		log.Fatal("❌ Failed to connect to MongoDB:", dbErr)
	}
	defer database.Disconnect(client)

	log.Println("✅ MongoDB connected successfully")

	colls := database.NewCollections(client, cfg.MongoDB)
	if err := colls.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("❌ Failed to create indexes:", err)
	}

	// ===== GIN MODE =====
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ===== WIRING =====
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatal("❌ ", err)
	}

	images, err := uploads.NewImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatal("❌ ", err)
	}

	users := store.NewMongoUserStore(colls.Users)
	posts := store.NewMongoPostStore(colls.Posts)
	comments := store.NewMongoCommentStore(colls.Comments)

	router := routes.SetupRouter(routes.Deps{
		Auth:      &handlers.AuthHandler{Users: users, Tokens: tokens},
		Posts:     &handlers.PostHandler{Posts: posts, Comments: comments, Images: images},
		Tokens:    tokens,
		Users:     users,
		UploadDir: cfg.UploadDir,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error:", err)
		}
	}()

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}

	log.Println("👋 Server stopped gracefully")
}
