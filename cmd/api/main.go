package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"waves-backend/internal/cache"
	"waves-backend/internal/config"
	"waves-backend/internal/db"
	"waves-backend/internal/httpserver"
	"waves-backend/internal/mailer"
	"waves-backend/internal/metrics"
	paymentrepo "waves-backend/internal/repository/payment"
	productrepo "waves-backend/internal/repository/product"
	shippingrepo "waves-backend/internal/repository/shipping"
	siterepo "waves-backend/internal/repository/site"
	userrepo "waves-backend/internal/repository/user"
	accountsvc "waves-backend/internal/service/account"
	cartsvc "waves-backend/internal/service/cart"
	catalogsvc "waves-backend/internal/service/catalog"
	checkoutsvc "waves-backend/internal/service/checkout"
	"waves-backend/internal/storage/images"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer func() {
		_ = database.Client().Disconnect(context.Background())
	}()

	if err := ensureIndexes(ctx, database); err != nil {
		logger.Fatalf("ensure indexes: %v", err)
	}

	var cartCache cache.CartCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Printf("redis unreachable at %s, running without cart cache: %v", cfg.RedisAddr, err)
		} else {
			cartCache = cache.NewRedisCache(redisClient)
		}
	}

	var mail mailer.Mailer = mailer.Noop{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	}

	var imageStore *images.Store
	if cfg.MinioEndpoint != "" {
		imageStore, err = images.New(images.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			URLHost:   cfg.MinioURLHost,
		})
		if err != nil {
			logger.Fatalf("init image store: %v", err)
		}
		if err := imageStore.EnsureBucket(ctx); err != nil {
			logger.Fatalf("ensure image bucket: %v", err)
		}
	}

	products := productrepo.NewMongo(database, logger)
	users := userrepo.NewMongo(database, logger)
	payments := paymentrepo.NewMongo(database, logger)
	shippings := shippingrepo.NewMongo(database, logger)
	sites := siterepo.NewMongo(database, logger)

	catalogService := catalogsvc.New(products, users)
	cartService := cartsvc.New(users, products, cartCache, logger)
	checkoutService := checkoutsvc.New(users, products, payments, mail, cartCache, logger)
	accountService := accountsvc.New(users, mail, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, database, httpserver.Deps{
		CatalogSvc:   catalogService,
		CartSvc:      cartService,
		CheckoutSvc:  checkoutService,
		AccountSvc:   accountService,
		PaymentRepo:  payments,
		ShippingRepo: shippings,
		SiteRepo:     sites,
		Images:       imageStore,
		Metrics:      metrics.NewServerMetrics(prometheus.DefaultRegisterer),
		UploadDir:    cfg.UploadDir,
		UploadPrefix: cfg.UploadPrefix,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
