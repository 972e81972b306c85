package geocode

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Chain asks each provider in turn and returns the first answer.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

func (c *Chain) Locate(ctx context.Context, city string) (Coordinates, error) {
	if city == "" {
		return Coordinates{}, ErrNoResult
	}
	var errs []error
	for _, p := range c.providers {
		coords, err := p.Locate(ctx, city)
		if err == nil {
			return coords, nil
		}
		c.logger.Debug("geocoding provider failed",
			zap.String("provider", p.Name()),
			zap.String("city", city),
			zap.Error(err))
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return Coordinates{}, ErrNoResult
	}
	return Coordinates{}, errors.Join(errs...)
}
