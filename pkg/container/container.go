package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"photoflow-backend/internal/config"
	infraCache "photoflow-backend/internal/infrastructure/cache"
	"photoflow-backend/internal/infrastructure/database"
	"photoflow-backend/internal/infrastructure/storage"
	"photoflow-backend/pkg/cache"
	"photoflow-backend/pkg/jwt"

	"photoflow-backend/internal/domains/asset"
	assetRepo "photoflow-backend/internal/domains/asset/repository"
	derivativeHandler "photoflow-backend/internal/domains/derivative/handler"
	derivativeRepo "photoflow-backend/internal/domains/derivative/repository"
	derivativeService "photoflow-backend/internal/domains/derivative/service"
	"photoflow-backend/internal/domains/variant"
	variantHandler "photoflow-backend/internal/domains/variant/handler"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton for the lifetime of the process.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config      *config.Config
	DB          *database.PostgresDB
	RedisClient *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	Storage     *storage.MinIOStorage
	Renderer    *storage.Renderer
	Catalog     *variant.Catalog

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	AssetRepo      asset.Repository
	DerivativeRepo derivativeRepo.Repository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	DerivativeService derivativeService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	DerivativeHandler *derivativeHandler.DerivativeHandler
	VariantHandler    *variantHandler.VariantHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the whole dependency graph in order:
// config, infrastructure, repositories, services, handlers.
// Wrong order panics on a nil dependency, so the order is load-bearing.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	c.RedisClient = infraCache.NewRedisClient(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	if err := c.RedisClient.Connect(context.Background()); err != nil {
		// Cache and rate limiting degrade gracefully without Redis.
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}

	c.Cache = infraCache.NewRedisCache(c.RedisClient)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 4: INITIALIZE BLOB STORAGE
	// ========================================
	log.Println("🪣 Connecting to MinIO...")

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init minio storage: %w", err)
	}
	c.Storage = minioStorage
	log.Println("✅ MinIO connected")

	c.Renderer = storage.NewRenderer(cfg.Generate.JPEGQuality)
	c.Catalog = variant.DefaultCatalog()

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")

	if err := c.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")

	if err := c.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")

	if err := c.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() error {
	pool := c.DB.Pool

	// Source lookups are cache-aside; derivative rows are not cached
	// because the adjustment flow mutates them.
	c.AssetRepo = assetRepo.NewPostgresRepository(pool, c.Cache)
	c.DerivativeRepo = derivativeRepo.NewPostgresRepository(pool)

	return nil
}

func (c *Container) initServices() error {
	c.DerivativeService = derivativeService.NewDerivativeService(
		c.DerivativeRepo,
		c.AssetRepo,
		c.Storage,
		c.Renderer,
		c.Catalog,
		c.Config.Generate.PreviewURLTTL,
	)

	return nil
}

func (c *Container) initHandlers() error {
	c.DerivativeHandler = derivativeHandler.NewDerivativeHandler(c.DerivativeService)
	c.VariantHandler = variantHandler.NewVariantHandler(c.Catalog)

	return nil
}

// ========================================
// HELPER METHODS
// ========================================

// Cleanup releases infrastructure resources during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
