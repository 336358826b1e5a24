package planner

import (
	"go.uber.org/zap"

	"github.com/username/workdays/internal/calendar"
	"github.com/username/workdays/internal/config"
)

// NewCalendarLoader builds the loader chain from configuration:
// data directory or embedded dataset, then the remote URL, then generated rules.
// The chain is wrapped in a cache.
func NewCalendarLoader(cfg config.CalendarConfig, logger *zap.Logger) *calendar.Cache {
	var loaders []calendar.Loader

	if cfg.DataDir != "" {
		logger.Debug("Using holiday data directory", zap.String("dir", cfg.DataDir))
		loaders = append(loaders, calendar.NewDirLoader(cfg.DataDir, logger))
	} else {
		loaders = append(loaders, calendar.NewFileLoader(calendar.EmbeddedData(), logger))
	}

	if cfg.RemoteURL != "" {
		logger.Debug("Using remote holiday calendars", zap.String("url", cfg.RemoteURL))
		loaders = append(loaders, calendar.NewHTTPLoader(cfg.RemoteURL, cfg.GetHTTPTimeout(), logger))
	}

	if cfg.GenerateMissing {
		loaders = append(loaders, calendar.NewGeneratedLoader(logger))
	}

	return calendar.NewCache(calendar.NewCompositeLoader(logger, loaders...), logger)
}
