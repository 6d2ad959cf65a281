package cmd

import (
	"context"
	"fmt"

	"github.com/twentyhard/twentyhard/internal/app"
	"github.com/twentyhard/twentyhard/internal/config"
	"github.com/twentyhard/twentyhard/internal/logger"
)

// withApp loads config, builds the app and closes it after fn.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg := config.Load()
	flush := logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppEnv)
	defer flush()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer func() { _ = a.Close() }()

	return fn(a)
}
