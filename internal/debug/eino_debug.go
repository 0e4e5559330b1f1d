// Package debug exposes the eino devops visual debugger behind the DEV_MODE
// switch.
package debug

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/Shamlan321/OdooSense/internal/config"
	"github.com/Shamlan321/OdooSense/internal/logger"
)

// devops.Init listens on this port unless overridden by its own options.
const debugPort = 52538

// Start initializes the eino debug server when DEV_MODE is enabled. It is a
// no-op otherwise.
func Start(ctx context.Context, cfg *config.Config) error {
	if !cfg.DevMode {
		return nil
	}

	if err := devops.Init(ctx); err != nil {
		return fmt.Errorf("initialize eino debug server: %w", err)
	}

	logger.Info().Str("url", URL()).Msg("eino debug server started")
	return nil
}

// URL returns the debug server address.
func URL() string {
	return fmt.Sprintf("http://localhost:%d", debugPort)
}
