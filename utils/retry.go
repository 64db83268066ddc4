package utils

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

type BackoffType int

const (
	Linear BackoffType = iota
	Exponential
	ExponentialJitter
	Fixed
)

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	BackoffType BackoffType
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
		BackoffType: ExponentialJitter,
	}
}

// Retry runs operation up to MaxAttempts times, backing off between
// attempts. It stops early when the context is done.
func Retry(ctx context.Context, config *RetryConfig, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateDelay(config, attempt)):
			}
		}

		if err := operation(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("operation failed after %d attempts: %w", config.MaxAttempts, lastErr)
}

func calculateDelay(config *RetryConfig, attempt int) time.Duration {
	var delay time.Duration

	switch config.BackoffType {
	case Linear:
		delay = config.BaseDelay * time.Duration(attempt)
	case Exponential:
		delay = time.Duration(float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt-1)))
	case ExponentialJitter:
		base := time.Duration(float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt-1)))
		delay = base + time.Duration(rand.Float64()*float64(base)*0.1)
	default:
		delay = config.BaseDelay
	}

	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	return delay
}
