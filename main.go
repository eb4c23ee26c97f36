package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/craftcart/commerce-api/config"
	"github.com/craftcart/commerce-api/events"
	"github.com/craftcart/commerce-api/metrics"
	"github.com/craftcart/commerce-api/models"
	"github.com/craftcart/commerce-api/routes"
	"github.com/craftcart/commerce-api/services/cart"
	"github.com/craftcart/commerce-api/services/catalog"
	"github.com/craftcart/commerce-api/services/order"
	"github.com/craftcart/commerce-api/services/payment"
	"github.com/craftcart/commerce-api/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
	); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	images, err := storage.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Fatal("upload dir unavailable", zap.Error(err))
	}

	var cache catalog.Cache
	if cfg.RedisAddr != "" {
		cache = catalog.NewRedisCache(cfg.RedisAddr)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New()
	m.Register(reg)

	hub := events.NewHub(logger)
	sink := events.Multi{hub}
	if cfg.KafkaBrokers != "" {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()
		sink = append(sink, producer)
	}

	catalogSvc := catalog.NewService(db, cache, images, logger)
	cartStore := cart.NewStore(cart.NewRepository(db), catalogSvc, logger, m)
	gateway := payment.NewGateway(payment.Config{
		KeyID:    cfg.GatewayKeyID,
		Secret:   cfg.GatewaySecret,
		BaseURL:  cfg.GatewayBaseURL,
		Currency: cfg.Currency,
	}, logger, m)
	ledger := order.NewLedger(order.NewRepository(db), catalogSvc, sink, logger, m)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/uploads", cfg.UploadDir)
	r.GET("/metrics", gin.WrapH(metrics.Handler(reg)))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	routes.SetupRoutes(r, routes.Deps{
		Catalog:   catalogSvc,
		Cart:      cartStore,
		Ledger:    ledger,
		Gateway:   gateway,
		Images:    images,
		Hub:       hub,
		JWTSecret: cfg.JWTSecret,
		Log:       logger,
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return zcfg.Build()
}
