// Package bootstrap centralizes the backend selection done at startup:
// session store, incident file store and outbound email all pick an
// implementation from configuration here so main stays small.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"

	"github.com/dentalcenter/practice-api/internal/auth"
	"github.com/dentalcenter/practice-api/internal/blobstore"
	appconfig "github.com/dentalcenter/practice-api/internal/config"
	"github.com/dentalcenter/practice-api/internal/notify"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildSessionStore picks the session backend. Redis keeps sessions across
// restarts; anything else falls back to in-process memory.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) auth.SessionStore {
	if cfg != nil && cfg.SessionBackend == "redis" {
		if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
			logger.Info("session store: redis", "addr", cfg.RedisAddr)
			return auth.NewRedisSessionStore(client, cfg.SessionTTL)
		}
		logger.Warn("session store: redis unavailable, falling back to memory")
	}
	logger.Info("session store: memory")
	return auth.NewInMemorySessionStore()
}

// BuildFileStore picks where incident attachments live. S3 requires a bucket;
// a missing bucket falls back to memory so local runs work out of the box.
func BuildFileStore(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) blobstore.Store {
	if cfg != nil && cfg.FilesBackend == "s3" {
		if strings.TrimSpace(cfg.FilesBucket) == "" {
			logger.Warn("file store: s3 selected but FILES_BUCKET is empty, falling back to memory")
		} else {
			logger.Info("file store: s3", "bucket", cfg.FilesBucket)
			return blobstore.NewS3Store(s3.NewFromConfig(awsCfg), cfg.FilesBucket, logger)
		}
	}
	logger.Info("file store: memory")
	return blobstore.NewMemoryStore()
}

// BuildEmailSender picks the outbound email provider. With no provider
// configured, messages are logged instead of sent.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	if cfg == nil {
		return notify.NewStubEmailSender(logger)
	}
	switch cfg.EmailProvider {
	case "sendgrid":
		if strings.TrimSpace(cfg.SendGridAPIKey) == "" {
			logger.Warn("email: sendgrid selected but SENDGRID_API_KEY is empty, using stub sender")
			break
		}
		logger.Info("email: sendgrid", "from", cfg.EmailFromAddress)
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	case "ses":
		logger.Info("email: ses", "from", cfg.EmailFromAddress)
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	}
	return notify.NewStubEmailSender(logger)
}
