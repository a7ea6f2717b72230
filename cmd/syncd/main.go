package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/config"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/connector"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/metadata"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/processor"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/repository"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/service"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/cache"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/database"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/events"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/logger"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/utils"
)

func main() {
	// Optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load("syncd")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Service.Environment, cfg.Service.LogLevel)
	log.Info("Starting sync service", interfaces.String("environment", cfg.Service.Environment))

	db, err := database.Connect(database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.MaxLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", interfaces.Error(err))
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations", interfaces.Error(err))
	}

	repo, err := repository.NewGormRepository(db, os.Getenv("CREDENTIAL_ENCRYPTION_KEY"))
	if err != nil {
		log.Fatal("Failed to create repository", interfaces.Error(err))
	}

	var cacheImpl interfaces.Cache
	closeCache := func() {}
	if cfg.Redis.Host != "" {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", interfaces.Error(err))
		}
		cacheImpl = redisCache
		closeCache = func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Failed to close Redis connection", interfaces.Error(err))
			}
		}
		log.Info("Using Redis cache", interfaces.String("host", cfg.Redis.Host))
	} else {
		cacheImpl = utils.NewInMemoryCache()
		log.Info("Using in-memory cache")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewInMemoryEventBus(log)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", interfaces.Error(err))
	}

	// Concrete connectors and metadata providers register here per deployment.
	connectors := connector.NewRegistry(log)
	providers := metadata.NewRegistry(log)

	state := metadata.NewRuntimeState(log)
	pipeline := metadata.NewPipeline(providers, state, log, metadata.Options{
		BatchTimeout:         cfg.Metadata.BatchTimeout,
		SearchResultCap:      cfg.Metadata.SearchResultCap,
		MinDescriptionLength: cfg.Metadata.MinDescriptionLength,
	})

	proc := processor.NewProcessor(repo, bus, log)

	svc := service.NewSyncService(repo, connectors, pipeline, proc, cacheImpl, bus, log, cfg.Sync)
	svc.Start(ctx)

	if err := svc.RecoverStaleSyncJobs(ctx); err != nil {
		log.Error("Failed to recover stale sync jobs", interfaces.Error(err))
	}

	accounts, err := repo.ListEnabledAccounts(ctx)
	if err != nil {
		log.Error("Failed to list accounts for scheduling", interfaces.Error(err))
	} else {
		for _, account := range accounts {
			svc.ScheduleSync(account.ID, account.OwnerID, cfg.Sync.DefaultScheduleInterval)
		}
		log.Info("Scheduled account syncs", interfaces.Int("accounts", len(accounts)))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down sync service")
	cancel()
	svc.Stop()
	if err := bus.Stop(); err != nil {
		log.Error("Failed to stop event bus", interfaces.Error(err))
	}
	closeCache()
}
