package calendar

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// CompositeLoader implements Loader with a fallback chain.
// Typical order: local files, remote API, generated rules.
type CompositeLoader struct {
	loaders []Loader
	logger  *zap.Logger
}

// NewCompositeLoader creates a new CompositeLoader trying loaders in order
func NewCompositeLoader(logger *zap.Logger, loaders ...Loader) *CompositeLoader {
	return &CompositeLoader{
		loaders: loaders,
		logger:  logger,
	}
}

// Load returns the first calendar any loader produces
func (cl *CompositeLoader) Load(ctx context.Context, country string, year int) (*HolidayCalendar, error) {
	var errs []error

	for i, loader := range cl.loaders {
		cal, err := loader.Load(ctx, country, year)
		if err == nil {
			return cal, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if !errors.Is(err, ErrNotFound) {
			cl.logger.Warn("Holiday loader failed, falling back",
				zap.Int("loader", i),
				zap.String("country", country),
				zap.Int("year", year),
				zap.Error(err))
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, country, year)
	}
	return nil, fmt.Errorf("all holiday loaders failed: %w", errors.Join(errs...))
}
