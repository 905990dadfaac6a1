package app

import (
	"context"
	"time"

	"github.com/guttosm/vitaltrack-proxy/config"
	"github.com/guttosm/vitaltrack-proxy/internal/cachestore"
	"github.com/guttosm/vitaltrack-proxy/internal/circuitbreaker"
	"github.com/guttosm/vitaltrack-proxy/internal/repository"
	"github.com/rs/zerolog/log"
)

// StorageComponents holds the cache storage and, when MongoDB backs it,
// the connection and its circuit breaker.
type StorageComponents struct {
	Storage        cachestore.Storage
	DB             *repository.MongoDB
	CircuitBreaker *circuitbreaker.CircuitBreaker
}

// Close releases the MongoDB connection, if any.
func (s *StorageComponents) Close(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close(ctx)
}

// InitializeStorage returns MongoDB-backed cache storage when the database is
// enabled and reachable, and in-memory storage otherwise.
func InitializeStorage(dbCfg config.DatabaseConfig, proxyCfg config.ProxyConfig) *StorageComponents {
	if dbCfg.Enabled {
		if components := initializeMongoStorage(dbCfg); components != nil {
			return components
		}
	}

	log.Info().Int("shards", proxyCfg.CacheShards).Msg("Using in-memory cache storage")
	return &StorageComponents{Storage: cachestore.NewMemoryStorage(proxyCfg.CacheShards)}
}

func initializeMongoStorage(cfg config.DatabaseConfig) *StorageComponents {
	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing with in-memory cache storage")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-caches",
	})

	repo := repository.NewCacheRepositoryWithCircuitBreaker(repository.NewCacheRepository(db), cb)
	storage := cachestore.NewMongoStorage(repo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if names, err := storage.Keys(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to list existing caches")
	} else {
		log.Info().Strs("caches", names).Msg("Loaded cache storage")
	}

	return &StorageComponents{
		Storage:        storage,
		DB:             db,
		CircuitBreaker: cb,
	}
}
