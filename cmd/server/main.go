package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swap24/backend/docs"
	"github.com/swap24/backend/internal/chain"
	"github.com/swap24/backend/internal/config"
	"github.com/swap24/backend/internal/database"
	"github.com/swap24/backend/internal/handlers"
	mW "github.com/swap24/backend/internal/middleware"
	"github.com/swap24/backend/internal/monitor"
	"github.com/swap24/backend/internal/realtime"
	"github.com/swap24/backend/internal/services"
	"github.com/swap24/backend/internal/store"
	"github.com/swap24/backend/pkg/logger"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Swap24 Marketplace API
// @version 1.0
// @description P2P crypto/fiat marketplace: OTP auth, offers, ledger and realtime events
// @host localhost:5000
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.App.Env)
	defer logger.Sync()
	log := logger.Log

	if cfg.JWT.SecretKey == "" {
		log.Fatal("JWT_SECRET_KEY must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.App.MigrateOnBoot {
		if err := database.MigrateUp(cfg.Database.URL()); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		log.Info("Migrations applied")
	}

	db := database.InitDatabase(cfg.Database)
	defer db.Close()

	redisClient := database.InitRedis(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	monitor.Init()

	// Stores
	users := store.NewUserStore(db)
	profiles := store.NewProfileStore(db)
	offers := store.NewOfferStore(db)
	traderStats := store.NewTraderStatsStore(db)

	// Realtime: local hub, relayed through Redis when available, mirrored to Kafka when enabled.
	hub := realtime.NewHub()
	publisher := realtime.NewFanout()
	if redisClient != nil {
		relay := realtime.NewRedisRelay(redisClient, cfg.Realtime.RedisChannel, hub)
		publisher.Add("redis", relay)
		go relay.Serve(ctx)
	} else {
		publisher.Add("hub", hub)
	}
	if cfg.Kafka.Enabled {
		stream := realtime.NewKafkaStream(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer stream.Close()
		publisher.Add("kafka", stream)
	}

	// Services
	tokens := services.NewJWTIssuer(cfg.JWT.SecretKey, cfg.JWT.Expiry)
	blacklist := services.NewTokenBlacklist(redisClient, cfg.JWT.Expiry)
	authService := services.NewAuthService(users, profiles, services.AuthCollaborators{
		Hasher:      services.NewBcryptHasher(),
		Tokens:      tokens,
		EmailSender: services.NewEmailSender(cfg.Mail, cfg.OTP.TTL),
		PhoneSender: services.NewPhoneLogSender(logger.Named("phone")),
		Limiter:     services.NewResendLimiter(redisClient, cfg.OTP.MaxResends, cfg.OTP.ResendWindow),
		Blacklist:   blacklist,
	}, cfg.OTP.TTL).WithCodeGenerator(services.NewOTPGenerator(cfg.OTP.Length))
	offerService := services.NewOfferService(offers, profiles, traderStats)
	qrService := services.NewQRService(offers, redisClient, cfg.App.PublicURL)
	transactionService := services.NewTransactionService(profiles, offers, publisher)
	profileService := services.NewProfileService(profiles)
	reputationService := services.NewReputationService(traderStats, profiles)

	var contractReader handlers.ContractReader
	if cfg.Chain.RPCURL != "" {
		reader, err := chain.Dial(ctx, cfg.Chain.RPCURL, cfg.Chain.ContractAddress)
		if err != nil {
			log.Warn("Contract reader disabled", zap.Error(err))
		} else {
			defer reader.Close()
			contractReader = reader
		}
	}

	// Swagger docs
	docs.SwaggerInfo.Host = hostOf(cfg.App.PublicURL)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(monitor.PrometheusMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", handlers.Health(map[string]handlers.Pinger{
		"postgres": db,
		"redis":    redisPinger(redisClient),
	}))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(cfg.App.PublicURL+"/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		handlers.Mount(r, handlers.Handlers{
			Auth:         handlers.NewAuthHandler(authService),
			Offers:       handlers.NewOfferHandler(offerService, qrService),
			Transactions: handlers.NewTransactionHandler(transactionService),
			Profiles:     handlers.NewProfileHandler(profileService, reputationService),
			Contract:     handlers.NewContractHandler(contractReader),
			Banks:        services.NewBankDirectory(),
			Socket:       hub,
		}, mW.NewAuthenticator(tokens, blacklist))
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	log.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

func redisPinger(client *redis.Client) handlers.Pinger {
	if client == nil {
		return nil
	}
	return handlers.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

func hostOf(publicURL string) string {
	u, err := url.Parse(publicURL)
	if err != nil || u.Host == "" {
		return publicURL
	}
	return u.Host
}
