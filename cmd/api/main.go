package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/staHong/user-auth-account-system/internal/config"
	"github.com/staHong/user-auth-account-system/internal/infrastructure/dynamo"
	jwtinfra "github.com/staHong/user-auth-account-system/internal/infrastructure/jwt"
	redisinfra "github.com/staHong/user-auth-account-system/internal/infrastructure/redis"
	s3infra "github.com/staHong/user-auth-account-system/internal/infrastructure/s3"
	"github.com/staHong/user-auth-account-system/internal/infrastructure/smtp"
	transporthttp "github.com/staHong/user-auth-account-system/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	dynamoClient, err := dynamo.NewClient(cfg)
	if err != nil {
		log.Fatalf("dynamodb: %v", err)
	}
	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// Redis holds the email verification codes.
	redisClient, err := redisinfra.NewClient(cfg)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	// S3 store for business licenses and board attachments.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	mailer := smtp.NewMailer(cfg)

	deps := &transporthttp.Deps{
		AccountRepo:    dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts),
		SubAccountRepo: dynamo.NewSubAccountRepo(dynamoClient, cfg.DynamoTables.SubAccounts),
		TrendRepo:      dynamo.NewTrendRepo(dynamoClient, cfg.DynamoTables.Trends),
		InquiryRepo:    dynamo.NewInquiryRepo(dynamoClient, cfg.DynamoTables.Inquiries),
		FileRepo:       dynamo.NewFileRepo(dynamoClient, cfg.DynamoTables.Files),
		S3Store:        s3Store,
		CodeCache:      redisinfra.NewCodeCache(redisClient),
		Mailer:         mailer,
		JWTProvider:    jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
