package database

import (
	"context"
	"crypto/tls"
	_ "embed"
	"fmt"
	"time"

	"github.com/ckante203-dev/chat-backend/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Connect opens the shared Postgres pool and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

// PoolConfig turns the application config into a pgxpool config, applying
// the pool limits and the TLS verification toggle.
func PoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.HealthCheckPeriod = time.Minute

	if cfg.DBTLSSkipVerify {
		skipVerify(poolCfg.ConnConfig.TLSConfig)
		for _, fb := range poolCfg.ConnConfig.Fallbacks {
			skipVerify(fb.TLSConfig)
		}
		if poolCfg.ConnConfig.TLSConfig == nil {
			poolCfg.ConnConfig.TLSConfig = &tls.Config{
				InsecureSkipVerify: true,
				ServerName:         poolCfg.ConnConfig.Host,
			}
		}
	}

	return poolCfg, nil
}

func skipVerify(c *tls.Config) {
	if c == nil {
		return
	}
	c.InsecureSkipVerify = true
	c.VerifyPeerCertificate = nil
	c.VerifyConnection = nil
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
