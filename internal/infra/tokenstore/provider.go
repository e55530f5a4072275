package tokenstore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Token store providers
const (
	ProviderBlob  = "blob"
	ProviderRedis = "redis"
)

// Params holds dependencies for the TokenStore, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewTokenStore creates a TokenStore based on configuration
func NewTokenStore(params Params) (service.TokenStore, error) {
	cfg := params.Config.Session.TokenStore
	logger := params.Logger

	var store service.TokenStore

	switch cfg.Provider {
	case "", ProviderBlob:
		bucketURL := cfg.URL
		if bucketURL == "" {
			defaultURL, err := defaultBucketURL()
			if err != nil {
				return nil, err
			}
			bucketURL = defaultURL
		}
		logger.Debug("Using blob token store", slog.String("url", bucketURL))

		blobStore, err := OpenBlobStore(params.Ctx, bucketURL, cfg.Key, logger)
		if err != nil {
			return nil, err
		}
		store = blobStore

	case ProviderRedis:
		if cfg.Redis.Addr == "" {
			return nil, errors.New("redis address is required for redis token store")
		}
		logger.Debug("Using redis token store", slog.String("addr", cfg.Redis.Addr))

		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = NewRedisStore(client, cfg.Key, cfg.Redis.TTL, logger)

	default:
		return nil, errors.Errorf("unknown token store provider: %s", cfg.Provider)
	}

	// Register lifecycle hook to close the store on shutdown
	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

// defaultBucketURL keeps the token under the user's config directory.
func defaultBucketURL() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate user config dir")
	}

	return "file://" + filepath.ToSlash(filepath.Join(dir, "storefront")) + "?create_dir=true", nil
}

// Module provides the token store FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewTokenStore),
)
