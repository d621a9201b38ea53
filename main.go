package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/sepatu-storefront/config"
	"github.com/yeremiapane/sepatu-storefront/database"
	"github.com/yeremiapane/sepatu-storefront/events"
	"github.com/yeremiapane/sepatu-storefront/realtime"
	"github.com/yeremiapane/sepatu-storefront/redisx"
	"github.com/yeremiapane/sepatu-storefront/router"
	"github.com/yeremiapane/sepatu-storefront/services"
	"github.com/yeremiapane/sepatu-storefront/tracking"
	"github.com/yeremiapane/sepatu-storefront/utils"
)

func main() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := config.Load()
	utils.InitLogger(cfg.GinMode != "release")

	// tanpa pepper kode reset tidak bisa diverifikasi, jadi server tidak boleh jalan
	if err := cfg.Validate(); err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub()

	var cache tracking.Cache = tracking.NopCache{}
	if cfg.RedisAddr != "" {
		rdb, err := redisx.New(ctx, cfg.RedisAddr)
		if err != nil {
			utils.ErrorLogger.Warnf("Redis tidak tersedia, cache pelacakan dimatikan: %v", err)
		} else {
			defer rdb.Close()
			cache = tracking.NewRedisCache(rdb)
		}
	}
	trackingSvc := tracking.NewService(tracking.NewClient(cfg.BiteshipBaseURL, cfg.BiteshipAPIKey), cache)

	var publisher events.StatusPublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaStatusTopic, 256)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			utils.ErrorLogger.Printf("Error closing status publisher: %v", err)
		}
	}()

	monitor := services.NewChangeMonitor(db, hub, publisher)
	monitor.Interval = cfg.ChangePollInterval
	monitor.Start(ctx)
	defer monitor.Stop()

	if cfg.MidtransServerKey != "" {
		paymentMonitor := services.NewPaymentMonitor(db, services.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransProduction))
		paymentMonitor.Start(ctx)
		defer paymentMonitor.Stop()
	} else {
		utils.InfoLogger.Println("MIDTRANS_SERVER_KEY kosong, rekonsiliasi pembayaran dimatikan")
	}

	var mailer utils.Mailer = utils.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = utils.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	r := router.SetupRouter(router.Dependencies{
		DB:                db,
		Hub:               hub,
		JWT:               utils.NewJWTManager(cfg.JWTSecret, 24*time.Hour),
		Tracking:          trackingSvc,
		Mailer:            mailer,
		Pepper:            cfg.VerificationPepper,
		CORSOrigin:        cfg.CORSOrigin,
		MidtransServerKey: cfg.MidtransServerKey,
	})
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Error setting trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
}
