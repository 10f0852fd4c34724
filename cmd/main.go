package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/auth-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/handler"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/router"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/token"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/usecase"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err = mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserRepository(db, logger)

	mailtrap := mailer.NewMailtrapService(cfg.MailtrapToken, cfg.SenderEmail, cfg.SenderName, logger)
	emails := mailer.NewEmailService(mailtrap, logger)

	jwt := token.NewJWT(cfg.JWTSecret)
	authUsecase := usecase.NewAuthUsecase(userRepo, emails, jwt, cfg.ClientURL, logger)
	authHandler := handler.NewAuthHandler(authUsecase, cfg.IsProduction(), logger)
	guard := middleware.NewSessionGuard(jwt, logger)

	r := router.New(authHandler, guard, logger)

	httpServerAddr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting Auth Service HTTP server", zap.String("address", httpServerAddr))
	if err := http.ListenAndServe(httpServerAddr, r); err != nil {
		logger.Fatal("Failed to start Auth Service HTTP server", zap.Error(err))
	}
}
