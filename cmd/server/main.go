package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/Sezy0/NeoMart-Backend/config"
	"github.com/Sezy0/NeoMart-Backend/internal/cache"
	"github.com/Sezy0/NeoMart-Backend/internal/delivery"
	"github.com/Sezy0/NeoMart-Backend/internal/mailer"
	"github.com/Sezy0/NeoMart-Backend/internal/repository"
	"github.com/Sezy0/NeoMart-Backend/internal/uploader"
	"github.com/Sezy0/NeoMart-Backend/internal/usecase"
	"github.com/Sezy0/NeoMart-Backend/pkg/auth"
	"github.com/Sezy0/NeoMart-Backend/pkg/db"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Info("Database connection established")

	redisCache := cache.NewRedisCache(cfg.RedisAddr, "neomart")
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, log)
	imageUploader := uploader.NewHTTPUploader(cfg.ImageUploadURL, cfg.ImageUploadKey, log)

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	userRepo := repository.NewPostgresUserRepository(database, log)
	storeRepo := repository.NewPostgresStoreRepository(database, log)
	productRepo := repository.NewPostgresProductRepository(database, log)
	couponRepo := repository.NewPostgresCouponRepository(database, log)
	orderRepo := repository.NewPostgresOrderRepository(database, log)
	reviewRepo := repository.NewPostgresReviewRepository(database, log)

	userUC := usecase.NewUserUseCase(userRepo, log)
	authUC := usecase.NewAuthUseCase(userRepo, jwtManager, redisCache, smtpMailer, oauthCfg, cfg.RefreshTTL, log)
	storeUC := usecase.NewStoreUseCase(storeRepo, userRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, storeRepo, redisCache, log)
	cartUC := usecase.NewCartUseCase(userRepo, productRepo, log)
	couponUC := usecase.NewCouponUseCase(couponRepo, log)
	orderUC := usecase.NewOrderUseCase(orderRepo, userRepo, productRepo, couponRepo, storeRepo, log)
	reviewUC := usecase.NewReviewUseCase(reviewRepo, productRepo, log)

	router := delivery.NewRouter(delivery.Handlers{
		Auth:    delivery.NewAuthHandler(userUC, authUC, log),
		User:    delivery.NewUserHandler(userUC, log),
		Store:   delivery.NewStoreHandler(storeUC, log),
		Product: delivery.NewProductHandler(productUC, log),
		Cart:    delivery.NewCartHandler(cartUC, log),
		Coupon:  delivery.NewCouponHandler(couponUC, log),
		Order:   delivery.NewOrderHandler(orderUC, redisCache, log),
		Review:  delivery.NewReviewHandler(reviewUC, log),
		Upload:  delivery.NewUploadHandler(imageUploader, log),
	}, jwtManager, log)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("NeoMart backend listening on %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
