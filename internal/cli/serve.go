package cli

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/app"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if c.Listen != "" {
		cfg.ListenPort = c.Listen
	}

	level := cfg.LogLevel
	if c.globals.Verbose {
		level = "debug"
	}
	loggerClient := logger.New(level, cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	a, err := app.New(context.Background(), cfg, loggerClient)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	return a.Run()
}
