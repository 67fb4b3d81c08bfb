package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/invix-studio/quick-billing/internal/auth"
	billingrepo "github.com/invix-studio/quick-billing/internal/billing/repository"
	"github.com/invix-studio/quick-billing/internal/cart/cache"
	cartrepo "github.com/invix-studio/quick-billing/internal/cart/repository"
	cartservice "github.com/invix-studio/quick-billing/internal/cart/service"
	catalogrepo "github.com/invix-studio/quick-billing/internal/catalog/repository"
	posthttp "github.com/invix-studio/quick-billing/internal/http"
	"github.com/invix-studio/quick-billing/internal/images"
	"github.com/invix-studio/quick-billing/internal/orders/publisher"
	ordersrepo "github.com/invix-studio/quick-billing/internal/orders/repository"
	ordersservice "github.com/invix-studio/quick-billing/internal/orders/service"
	"github.com/invix-studio/quick-billing/internal/postgres"
	reportsrepo "github.com/invix-studio/quick-billing/internal/reports/repository"
	"github.com/invix-studio/quick-billing/pkg/logger"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	MigrationsPath string

	MongoURI    string
	MongoDBName string

	RedisAddr string

	KafkaBrokers string

	AuthServiceURL string
	DevUserID      string

	BlobStoreURL    string
	BlobStoreBucket string

	TaxRatePercent decimal.Decimal
	PackageCharge  decimal.Decimal
}

func loadConfig() *Config {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}
	taxRate, err := decimal.NewFromString(getEnv("TAX_RATE_PERCENT", "8"))
	if err != nil {
		log.Fatalf("Invalid TAX_RATE_PERCENT: %v", err)
	}
	packageCharge, err := decimal.NewFromString(getEnv("PACKAGE_CHARGE", "0"))
	if err != nil {
		log.Fatalf("Invalid PACKAGE_CHARGE: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         dbPort,
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "pos"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB", "pos"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		AuthServiceURL: getEnv("AUTH_SERVICE_URL", ""),
		DevUserID:      getEnv("DEV_USER_ID", "dev-user"),

		BlobStoreURL:    getEnv("BLOB_STORE_URL", "http://localhost:9000"),
		BlobStoreBucket: getEnv("BLOB_STORE_BUCKET", "product-images"),

		TaxRatePercent: taxRate,
		PackageCharge:  packageCharge,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("pos-server starting...")
	cfg := loadConfig()

	slogger := logger.New(logger.Options{
		Service: "pos-server",
		Env:     getEnv("ENV", "dev"),
		Level:   getEnv("LOG_LEVEL", "info"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres
	db, err := postgres.Connect(&postgres.Credentials{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// MongoDB (carts)
	mongoDB, err := cartrepo.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer mongoDB.Client().Disconnect(context.Background())

	cartRepository := cartrepo.NewMongoRepository(mongoDB)
	if err := cartRepository.CreateIndexes(ctx); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}

	// Redis (cart cache)
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Repositories and services
	productRepository := catalogrepo.NewRepository(db)
	orderRepository := ordersrepo.NewRepository(db)

	cartService := cartservice.NewCartService(cartRepository, productRepository, cache.NewRedisCache(redisClient))
	orderService := ordersservice.NewOrderService(orderRepository, productRepository, cartService, ordersservice.Defaults{
		TaxRatePercent: cfg.TaxRatePercent,
		PackageCharge:  cfg.PackageCharge,
	})

	var verifier auth.Verifier
	if cfg.AuthServiceURL != "" {
		verifier = auth.NewHTTPVerifier(cfg.AuthServiceURL)
	} else {
		log.Printf("AUTH_SERVICE_URL not set, accepting any token as user %q", cfg.DevUserID)
		verifier = auth.StaticVerifier{UserID: cfg.DevUserID}
	}

	imageStore := images.NewStore(cfg.BlobStoreURL, cfg.BlobStoreBucket)

	router := posthttp.NewRouter(posthttp.RouterDeps{
		Products: posthttp.NewProductHandler(productRepository, imageStore, cfg.RequestTimeout),
		Cart:     posthttp.NewCartHandler(cartService, cfg.TaxRatePercent, cfg.PackageCharge, cfg.RequestTimeout),
		Orders:   posthttp.NewOrdersHandler(orderService, cfg.RequestTimeout),
		Reports:  posthttp.NewReportsHandler(reportsrepo.NewRepository(db), cfg.RequestTimeout),
		Plans:    posthttp.NewPlansHandler(billingrepo.NewPostgresRepository(db), cfg.RequestTimeout),
		Verifier: verifier,
		Logger:   slogger,
		Timeout:  cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	poller := publisher.NewOutboxPoller(orderRepository, cfg.KafkaBrokers)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("POS server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		poller.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		poller.Close()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server exited")
}
